package ports

import (
	"context"
	"time"

	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	contractsv1 "refdesk/contracts/gen/events/v1"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for assignments, requests and events.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EmailValidator is the external format check applied to reviewer addresses.
type EmailValidator interface {
	IsEmailValid(email string) bool
}

// KeyValueStore is the durable store every repository in this module is
// built on. Read reports found=false for absent keys; Remove of an absent
// key is not an error.
type KeyValueStore interface {
	Read(ctx context.Context, key string) ([]byte, bool, error)
	Write(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// PaperRepository owns per-paper assignment state and performs version
// checked writes.
type PaperRepository interface {
	CreatePaper(ctx context.Context, paper entities.Paper) (entities.Paper, error)
	GetPaper(ctx context.Context, paperID string) (entities.Paper, error)
	// UpdatePaperStatus replaces the status only. A nil expectedVersion skips
	// the version check; the stored version is never changed.
	UpdatePaperStatus(ctx context.Context, paperID string, status entities.PaperStatus, expectedVersion *int64) (entities.Paper, error)
	// SaveAssignments replaces the referee list and bumps the version by one.
	SaveAssignments(ctx context.Context, paperID string, refereeEmails []string, expectedVersion int64) (entities.Paper, error)
}

// AssignmentIndex tracks every reviewer's active assignments across papers.
// Read failures wrap ErrIndexLookupFailed, write failures ErrIndexSaveFailed.
type AssignmentIndex interface {
	AddAssignment(ctx context.Context, assignment entities.ReviewerAssignment) error
	RemoveAssignments(ctx context.Context, paperID string, reviewerEmails []string) error
	GetActiveCountForReviewer(ctx context.Context, email string) (int, error)
	HasActiveAssignment(ctx context.Context, paperID string, email string) (bool, error)
}

// ReviewRequestStore persists invitations and enforces one unresolved
// request per (paper, reviewer) pair.
type ReviewRequestStore interface {
	AddRequest(ctx context.Context, request entities.ReviewRequest) (entities.ReviewRequest, error)
	GetRequest(ctx context.Context, requestID string) (entities.ReviewRequest, error)
	GetPendingRequest(ctx context.Context, paperID string, email string) (entities.ReviewRequest, bool, error)
	UpdateRequest(ctx context.Context, request entities.ReviewRequest) (entities.ReviewRequest, error)
	ListRequestsForPaper(ctx context.Context, paperID string) ([]entities.ReviewRequest, error)
}

// DeliveryReport is the outcome the notification service reports per e-mail.
type DeliveryReport struct {
	OK       bool
	PerEmail map[string]bool
}

// Delivered reports whether email was accepted for delivery. Addresses
// missing from PerEmail follow the batch-level OK flag.
func (r DeliveryReport) Delivered(email string) bool {
	if r.PerEmail != nil {
		if delivered, ok := r.PerEmail[email]; ok {
			return delivered
		}
	}
	return r.OK
}

// InvitationNotifier hands invitations to the downstream delivery pipeline.
type InvitationNotifier interface {
	Send(ctx context.Context, paperID string, emails []string) (DeliveryReport, error)
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// OutboxMessage represents a pending relay message.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository stores lifecycle events until the relay publishes them.
type OutboxRepository interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher publishes envelopes to the event bus adapter.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
