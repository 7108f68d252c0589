package model

type Invoice struct {
	ID          string        `json:"id,omitempty"`
	Amount      any           `json:"amount"`
	Status      InvoiceStatus `json:"status"`
	Description string        `json:"description,omitempty"`
	CreatedAt   Timestamp     `json:"createdAt"`
	PaidAt      Timestamp     `json:"paidAt"`
	Date        string        `json:"date,omitempty"`
	ProjectID   string        `json:"projectId,omitempty"`
	ClientID    string        `json:"clientId,omitempty"`
}

// ConsultationRegistration is a paid consultation booking. Its value comes
// from the plan name, not from a stored amount.
type ConsultationRegistration struct {
	ID        string             `json:"id,omitempty"`
	Plan      string             `json:"plan"`
	Status    ConsultationStatus `json:"status"`
	CreatedAt Timestamp          `json:"createdAt"`
	PaidAt    Timestamp          `json:"paidAt"`
	Date      string             `json:"date,omitempty"`
	Name      string             `json:"name,omitempty"`
	Email     string             `json:"email,omitempty"`
	Phone     string             `json:"phone,omitempty"`
}
