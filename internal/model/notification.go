package model

type Notification struct {
	ID          string    `json:"id,omitempty"`
	RecipientID string    `json:"recipientId"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Type        string    `json:"type"`
	Read        bool      `json:"read"`
	CreatedAt   Timestamp `json:"createdAt"`
	RelatedID   string    `json:"relatedId,omitempty"`
	ProjectID   string    `json:"projectId,omitempty"`
	ActionURL   string    `json:"actionUrl,omitempty"`
}

// LiveUpdate is a site update posted to a project's live feed.
type LiveUpdate struct {
	ID        string    `json:"id,omitempty"`
	ProjectID string    `json:"projectId"`
	AuthorID  string    `json:"authorId"`
	Message   string    `json:"message"`
	CreatedAt Timestamp `json:"createdAt"`
}
