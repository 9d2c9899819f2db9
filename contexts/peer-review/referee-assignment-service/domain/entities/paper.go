package entities

import "time"

type PaperStatus string

const (
	PaperStatusSubmitted   PaperStatus = "submitted"
	PaperStatusUnderReview PaperStatus = "under_review"
	PaperStatusDecided     PaperStatus = "decided"
	PaperStatusWithdrawn   PaperStatus = "withdrawn"
	PaperStatusArchived    PaperStatus = "archived"
)

// Paper is the per-paper assignment state owned by the paper repository.
type Paper struct {
	PaperID               string      `json:"paper_id"`
	Title                 string      `json:"title"`
	Status                PaperStatus `json:"status"`
	AssignedRefereeEmails []string    `json:"assigned_referee_emails"`
	AssignmentVersion     int64       `json:"assignment_version"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// IsAssignmentEligible reports whether referee writes are permitted.
func (p Paper) IsAssignmentEligible() bool {
	return p.Status.IsAssignmentEligible()
}

func (p Paper) HasReferee(email string) bool {
	for _, item := range p.AssignedRefereeEmails {
		if item == email {
			return true
		}
	}
	return false
}

func (s PaperStatus) IsAssignmentEligible() bool {
	switch s {
	case PaperStatusSubmitted, PaperStatusUnderReview:
		return true
	default:
		return false
	}
}

func IsSupportedPaperStatus(value PaperStatus) bool {
	switch value {
	case PaperStatusSubmitted,
		PaperStatusUnderReview,
		PaperStatusDecided,
		PaperStatusWithdrawn,
		PaperStatusArchived:
		return true
	default:
		return false
	}
}
