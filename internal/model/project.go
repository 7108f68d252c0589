package model

const (
	CollectionProjects      = "projects"
	CollectionInvoices      = "invoices"
	CollectionConsultations = "consultation-registrations"
	CollectionUsers         = "users"
	CollectionNotifications = "notifications"
	CollectionLiveUpdates   = "live-updates"
)

type DateRange struct {
	Start Timestamp `json:"start"`
	End   Timestamp `json:"end"`
}

// Task is a unit of work inside a stage. Cost may be a number or a
// formatted string such as "₦2,500,000".
type Task struct {
	Name    string      `json:"name"`
	Status  StageStatus `json:"status"`
	DueDate DateRange   `json:"dueDate"`
	Cost    any         `json:"cost,omitempty"`
}

type Stage struct {
	Name    string      `json:"name"`
	Status  StageStatus `json:"status"`
	DueDate DateRange   `json:"dueDate"`
	Cost    any         `json:"cost,omitempty"`
	Tasks   []Task      `json:"tasks,omitempty"`
}

type Project struct {
	ID             string        `json:"id,omitempty"`
	Name           string        `json:"name"`
	Address        string        `json:"address"`
	Status         ProjectStatus `json:"status"`
	StartDate      Timestamp     `json:"startDate"`
	CompletionDate Timestamp     `json:"completionDate"`
	InitialBudget  any           `json:"initialBudget,omitempty"`
	TaskTimeline   []Stage       `json:"taskTimeline"`
	Manager        UserRef       `json:"manager,omitempty"`
	Users          []UserRef     `json:"users,omitempty"`
	Team           []UserRef     `json:"team,omitempty"`
	ClientID       string        `json:"clientId,omitempty"`
	CreatedAt      Timestamp     `json:"createdAt"`
}

// Members lists the manager, users and team refs in that order.
// Duplicates are left for the caller to drop.
func (p Project) Members() []UserRef {
	refs := make([]UserRef, 0, 1+len(p.Users)+len(p.Team))
	if p.Manager != "" {
		refs = append(refs, p.Manager)
	}
	refs = append(refs, p.Users...)
	refs = append(refs, p.Team...)
	return refs
}

// HasMember reports whether userID is the manager, a user, the client or on the team.
func (p Project) HasMember(userID string) bool {
	if userID == "" {
		return false
	}
	if p.ClientID == userID {
		return true
	}
	for _, ref := range p.Members() {
		if ref.ID() == userID {
			return true
		}
	}
	return false
}
