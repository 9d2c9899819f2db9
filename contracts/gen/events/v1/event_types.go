package v1

// Event types emitted by the referee assignment service.
const (
	EventTypeInvitationRequested   = "invitation.requested"
	EventTypeReviewRequestSent     = "review_request.sent"
	EventTypeReviewRequestAccepted = "review_request.accepted"
	EventTypeReviewRequestRejected = "review_request.rejected"
)
