package models

import "time"

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "Pending"
	StatusApproved ApplicationStatus = "Approved"
	StatusRejected ApplicationStatus = "Rejected"
)

// ParseStatus accepts only the exact enumerated spellings.
func ParseStatus(s string) (ApplicationStatus, bool) {
	switch st := ApplicationStatus(s); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, true
	}
	return "", false
}

type Application struct {
	ID         int64             `json:"id"`
	SchemeID   int64             `json:"scheme_id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Status     ApplicationStatus `json:"status"`
	AppliedAt  time.Time         `json:"applied_at"`
	SchemeName string            `json:"scheme_name"`
}

type NewApplication struct {
	SchemeID int64
	Name     string
	Email    string
	Phone    string
}

// ApplicationStatusView is the public status lookup projection.
type ApplicationStatusView struct {
	ID         int64             `json:"id"`
	Status     ApplicationStatus `json:"status"`
	SchemeName string            `json:"scheme_name"`
}

type ApplicationFilter struct {
	Status ApplicationStatus
}
