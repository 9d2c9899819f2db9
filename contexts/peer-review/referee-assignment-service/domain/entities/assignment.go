package entities

import "time"

type AssignmentStatus string

const (
	AssignmentStatusPending  AssignmentStatus = "pending"
	AssignmentStatusAccepted AssignmentStatus = "accepted"
	AssignmentStatusDeclined AssignmentStatus = "declined"
	AssignmentStatusActive   AssignmentStatus = "active"
)

// ReviewerAssignment links one reviewer to one paper.
type ReviewerAssignment struct {
	AssignmentID  string           `json:"assignment_id"`
	PaperID       string           `json:"paper_id"`
	ReviewerEmail string           `json:"reviewer_email"`
	Status        AssignmentStatus `json:"status"`
	AcceptedAt    *time.Time       `json:"accepted_at,omitempty"`
}

// IsActive reports whether the assignment counts against the reviewer limit.
func (a ReviewerAssignment) IsActive() bool {
	return a.Status == AssignmentStatusAccepted || a.Status == AssignmentStatusActive
}
