package model

import (
	"encoding/json"
	"strings"
)

// normalize folds case and drops separators so "In Progress", "in_progress"
// and "inprogress" compare equal.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '_', '-', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// decodeString reads a JSON string; anything else yields "".
func decodeString(data []byte) string {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ""
	}
	return s
}

// StageStatus is the status of a timeline stage or task.
type StageStatus string

const (
	StagePending    StageStatus = "Pending"
	StageOngoing    StageStatus = "Ongoing"
	StageInProgress StageStatus = "In Progress"
	StageCompleted  StageStatus = "Completed"
	StageUnknown    StageStatus = "Unknown"
)

func ParseStageStatus(s string) StageStatus {
	switch normalize(s) {
	case "pending":
		return StagePending
	case "ongoing":
		return StageOngoing
	case "inprogress":
		return StageInProgress
	case "completed", "complete", "done":
		return StageCompleted
	default:
		return StageUnknown
	}
}

func (s StageStatus) Completed() bool { return s == StageCompleted }

func (s *StageStatus) UnmarshalJSON(data []byte) error {
	*s = ParseStageStatus(decodeString(data))
	return nil
}

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoicePaid    InvoiceStatus = "paid"
	InvoicePending InvoiceStatus = "pending"
	InvoiceOverdue InvoiceStatus = "overdue"
	InvoiceUnknown InvoiceStatus = "unknown"
)

func ParseInvoiceStatus(s string) InvoiceStatus {
	switch normalize(s) {
	case "paid":
		return InvoicePaid
	case "pending", "unpaid":
		return InvoicePending
	case "overdue":
		return InvoiceOverdue
	default:
		return InvoiceUnknown
	}
}

// Settled reports whether the money has been received.
func (s InvoiceStatus) Settled() bool { return s == InvoicePaid }

// Outstanding reports whether the invoice still awaits payment.
func (s InvoiceStatus) Outstanding() bool {
	return s == InvoicePending || s == InvoiceOverdue
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	*s = ParseInvoiceStatus(decodeString(data))
	return nil
}

// ConsultationStatus is the payment state of a consultation registration.
type ConsultationStatus string

const (
	ConsultationSuccess ConsultationStatus = "success"
	ConsultationPending ConsultationStatus = "pending"
	ConsultationFailed  ConsultationStatus = "failed"
	ConsultationUnknown ConsultationStatus = "unknown"
)

func ParseConsultationStatus(s string) ConsultationStatus {
	switch normalize(s) {
	case "success", "successful", "paid":
		return ConsultationSuccess
	case "pending":
		return ConsultationPending
	case "failed", "failure":
		return ConsultationFailed
	default:
		return ConsultationUnknown
	}
}

// Settled reports whether the money has been received.
func (s ConsultationStatus) Settled() bool { return s == ConsultationSuccess }

func (s *ConsultationStatus) UnmarshalJSON(data []byte) error {
	*s = ParseConsultationStatus(decodeString(data))
	return nil
}

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "Planning"
	ProjectOngoing   ProjectStatus = "Ongoing"
	ProjectCompleted ProjectStatus = "Completed"
	ProjectOnHold    ProjectStatus = "On Hold"
	ProjectUnknown   ProjectStatus = "Unknown"
)

func ParseProjectStatus(s string) ProjectStatus {
	switch normalize(s) {
	case "planning", "notstarted":
		return ProjectPlanning
	case "ongoing", "inprogress", "active":
		return ProjectOngoing
	case "completed", "complete":
		return ProjectCompleted
	case "onhold", "paused":
		return ProjectOnHold
	default:
		return ProjectUnknown
	}
}

func (s *ProjectStatus) UnmarshalJSON(data []byte) error {
	*s = ParseProjectStatus(decodeString(data))
	return nil
}
