package entities

import "time"

type RequestStatus string

type Decision string

const (
	RequestStatusSent   RequestStatus = "sent"
	RequestStatusFailed RequestStatus = "failed"

	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// ReviewRequest is the invitation record sent to a reviewer. An empty
// Decision means the reviewer has not answered yet.
type ReviewRequest struct {
	RequestID     string        `json:"request_id"`
	AssignmentID  string        `json:"assignment_id"`
	PaperID       string        `json:"paper_id"`
	ReviewerEmail string        `json:"reviewer_email"`
	Status        RequestStatus `json:"status"`
	Decision      Decision      `json:"decision,omitempty"`
	SentAt        time.Time     `json:"sent_at"`
	RespondedAt   *time.Time    `json:"responded_at,omitempty"`
}

func (r ReviewRequest) IsResolved() bool {
	return r.Decision != ""
}

// IsPending reports whether the request occupies the single open slot for
// its (paper, reviewer) pair. Undelivered invitations hold the slot too: only
// a decision releases it.
func (r ReviewRequest) IsPending() bool {
	return !r.IsResolved()
}

func IsSupportedDecision(value Decision) bool {
	return value == DecisionAccept || value == DecisionReject
}
