package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "refdesk/contexts/peer-review/referee-assignment-service/application"
	"refdesk/contexts/peer-review/referee-assignment-service/ports"
)

func newReviewEnvelope(
	eventID string,
	eventType string,
	paperID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "referee-assignment-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "paper_id",
		PartitionKey:     paperID,
		Data:             payload,
	}, nil
}

// eventRecorder appends lifecycle events to the outbox. Outbox failures are
// logged and swallowed: the state change they describe is already committed.
type eventRecorder struct {
	outbox ports.OutboxRepository
	idGen  ports.IDGenerator
	logger *slog.Logger
}

func (r eventRecorder) record(ctx context.Context, eventType string, paperID string, occurredAt time.Time, data map[string]any) {
	if r.outbox == nil || r.idGen == nil {
		return
	}
	logger := application.ResolveLogger(r.logger)
	eventID, err := r.idGen.NewID(ctx)
	if err == nil {
		var envelope ports.EventEnvelope
		envelope, err = newReviewEnvelope(eventID, eventType, paperID, occurredAt, data)
		if err == nil {
			err = r.outbox.AppendOutbox(ctx, envelope)
		}
	}
	if err != nil {
		logger.Warn("review event outbox append failed",
			"event", "referee_outbox_append_failed",
			"module", application.ModuleName,
			"layer", "application",
			"event_type", eventType,
			"paper_id", paperID,
			"error", err.Error(),
		)
	}
}
