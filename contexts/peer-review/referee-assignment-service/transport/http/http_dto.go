package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterPaperRequest struct {
	PaperID string `json:"paper_id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
}

type UpdatePaperStatusRequest struct {
	Status          string `json:"status"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

type SaveAssignmentsRequest struct {
	RefereeEmails   []string `json:"referee_emails"`
	ExpectedVersion int64    `json:"expected_version"`
}

type PaperDTO struct {
	PaperID               string   `json:"paper_id"`
	Title                 string   `json:"title"`
	Status                string   `json:"status"`
	AssignedRefereeEmails []string `json:"assigned_referee_emails"`
	AssignmentVersion     int64    `json:"assignment_version"`
	CreatedAt             string   `json:"created_at"`
	UpdatedAt             string   `json:"updated_at"`
}

type PaperResponse struct {
	Paper PaperDTO `json:"paper"`
}

type EvaluateCandidatesRequest struct {
	ReviewerEmails []string `json:"reviewer_emails"`
}

type ViolationDTO struct {
	ReviewerEmail string `json:"reviewer_email"`
	Rule          string `json:"rule"`
	Message       string `json:"message"`
}

type ViolationGroupDTO struct {
	Email   string         `json:"email"`
	Entries []ViolationDTO `json:"entries"`
}

type EvaluateCandidatesResponse struct {
	Candidates []string            `json:"candidates"`
	Violations []ViolationDTO      `json:"violations"`
	Grouped    []ViolationGroupDTO `json:"grouped_violations"`
}

type SendReviewRequestsRequest struct {
	ReviewerEmails          []string `json:"reviewer_emails"`
	SimulateDeliveryFailure bool     `json:"simulate_delivery_failure"`
}

type AssignmentDTO struct {
	AssignmentID  string `json:"assignment_id"`
	PaperID       string `json:"paper_id"`
	ReviewerEmail string `json:"reviewer_email"`
	Status        string `json:"status"`
	AcceptedAt    string `json:"accepted_at,omitempty"`
}

type ReviewRequestDTO struct {
	RequestID     string `json:"request_id"`
	AssignmentID  string `json:"assignment_id"`
	PaperID       string `json:"paper_id"`
	ReviewerEmail string `json:"reviewer_email"`
	Status        string `json:"status"`
	Decision      string `json:"decision,omitempty"`
	SentAt        string `json:"sent_at"`
	RespondedAt   string `json:"responded_at,omitempty"`
}

type SentInvitationDTO struct {
	Assignment AssignmentDTO    `json:"assignment"`
	Request    ReviewRequestDTO `json:"request"`
}

type FailedInvitationDTO struct {
	Email     string `json:"email"`
	Reason    string `json:"reason"`
	RequestID string `json:"request_id,omitempty"`
}

type SendReviewRequestsResponse struct {
	Sent   []SentInvitationDTO   `json:"sent"`
	Failed []FailedInvitationDTO `json:"failed"`
}

type ListReviewRequestsResponse struct {
	Items []ReviewRequestDTO `json:"items"`
}

type RespondToRequestRequest struct {
	Decision string `json:"decision"`
}

type RespondToRequestResponse struct {
	Request    ReviewRequestDTO `json:"request"`
	Assignment *AssignmentDTO   `json:"assignment,omitempty"`
}

type ActiveCountResponse struct {
	ReviewerEmail string `json:"reviewer_email"`
	ActiveCount   int    `json:"active_count"`
}
