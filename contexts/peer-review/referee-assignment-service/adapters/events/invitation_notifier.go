package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"refdesk/contexts/peer-review/referee-assignment-service/ports"
	contractsv1 "refdesk/contracts/gen/events/v1"
)

// InvitationNotifier hands invitations to the mail pipeline by publishing one
// invitation.requested event per reviewer. An address counts as delivered
// once its event is accepted by the bus; workers.InvitationConsumer drains
// the topic in the same process.
type InvitationNotifier struct {
	Publisher ports.EventPublisher
	IDGen     ports.IDGenerator
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (n InvitationNotifier) Send(ctx context.Context, paperID string, emails []string) (ports.DeliveryReport, error) {
	if n.Publisher == nil || n.IDGen == nil {
		return ports.DeliveryReport{}, errors.New("invitation notifier is not configured")
	}
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now().UTC()
	if n.Clock != nil {
		now = n.Clock.Now().UTC()
	}

	report := ports.DeliveryReport{OK: true, PerEmail: make(map[string]bool, len(emails))}
	for _, email := range emails {
		if err := ctx.Err(); err != nil {
			return ports.DeliveryReport{}, err
		}
		err := n.publish(ctx, paperID, email, now)
		report.PerEmail[email] = err == nil
		if err != nil {
			report.OK = false
			logger.Warn("invitation not handed off",
				"event", "referee_invitation_publish_failed",
				"module", "peer-review/referee-assignment-service",
				"layer", "adapter",
				"paper_id", paperID,
				"reviewer_email", email,
				"error", err.Error(),
			)
		}
	}
	return report, nil
}

func (n InvitationNotifier) publish(ctx context.Context, paperID, email string, now time.Time) error {
	eventID, err := n.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(map[string]any{
		"paper_id":       paperID,
		"reviewer_email": email,
		"requested_at":   now,
	})
	if err != nil {
		return err
	}
	envelope := ports.EventEnvelope{
		EventID:          eventID,
		EventType:        contractsv1.EventTypeInvitationRequested,
		OccurredAt:       now,
		SourceService:    "referee-assignment-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "paper_id",
		PartitionKey:     paperID,
		Data:             data,
	}
	return n.Publisher.Publish(ctx, contractsv1.EventTypeInvitationRequested, envelope)
}
