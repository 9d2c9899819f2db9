package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "refdesk/contexts/peer-review/referee-assignment-service/application"
	"refdesk/contexts/peer-review/referee-assignment-service/ports"
	contractsv1 "refdesk/contracts/gen/events/v1"
)

const (
	defaultInvitationGroup = "referee-invitation-dispatch-cg"
	DispatchKeyPrefix      = "invitation-dispatched:"
)

// InvitationConsumer drains invitation.requested events and records one
// dispatch entry per event id. Replayed events are skipped.
type InvitationConsumer struct {
	Subscriber    ports.EventSubscriber
	KV            ports.KeyValueStore
	Clock         ports.Clock
	ConsumerGroup string
	Logger        *slog.Logger
}

// InvitationDispatch is the record left for each handed-off invitation.
type InvitationDispatch struct {
	EventID       string    `json:"event_id"`
	PaperID       string    `json:"paper_id"`
	ReviewerEmail string    `json:"reviewer_email"`
	DispatchedAt  time.Time `json:"dispatched_at"`
}

type invitationPayload struct {
	PaperID       string `json:"paper_id"`
	ReviewerEmail string `json:"reviewer_email"`
}

func (c InvitationConsumer) Start(ctx context.Context) error {
	if c.Subscriber == nil || c.KV == nil {
		return errors.New("invitation consumer is not configured")
	}
	group := c.ConsumerGroup
	if group == "" {
		group = defaultInvitationGroup
	}
	return c.Subscriber.Subscribe(ctx, contractsv1.EventTypeInvitationRequested, group, c.handle)
}

func (c InvitationConsumer) handle(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	eventID := strings.TrimSpace(event.EventID)
	if eventID == "" {
		return errors.New("invitation event missing event_id")
	}

	key := DispatchKeyPrefix + eventID
	_, seen, err := c.KV.Read(ctx, key)
	if err != nil {
		logger.Error("invitation dispatch lookup failed",
			"event", "referee_invitation_dispatch_lookup_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"event_id", eventID,
			"error", err.Error(),
		)
		return err
	}
	if seen {
		logger.Debug("invitation event already dispatched",
			"event", "referee_invitation_event_replayed",
			"module", application.ModuleName,
			"layer", "worker",
			"event_id", eventID,
		)
		return nil
	}

	var payload invitationPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("decode invitation event payload: %w", err)
	}
	if payload.PaperID == "" || payload.ReviewerEmail == "" {
		return fmt.Errorf("invitation event %s missing paper_id or reviewer_email", eventID)
	}

	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock.Now().UTC()
	}
	record, err := json.Marshal(InvitationDispatch{
		EventID:       eventID,
		PaperID:       payload.PaperID,
		ReviewerEmail: payload.ReviewerEmail,
		DispatchedAt:  now,
	})
	if err != nil {
		return err
	}
	if err := c.KV.Write(ctx, key, record); err != nil {
		logger.Error("invitation dispatch record failed",
			"event", "referee_invitation_dispatch_write_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"event_id", eventID,
			"paper_id", payload.PaperID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("invitation dispatched",
		"event", "referee_invitation_dispatched",
		"module", application.ModuleName,
		"layer", "worker",
		"event_id", eventID,
		"paper_id", payload.PaperID,
		"reviewer_email", payload.ReviewerEmail,
	)
	return nil
}
