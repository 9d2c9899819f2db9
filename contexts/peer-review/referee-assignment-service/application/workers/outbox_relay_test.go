package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"refdesk/contexts/peer-review/referee-assignment-service/adapters/memory"
	"refdesk/contexts/peer-review/referee-assignment-service/ports"

	"github.com/google/go-cmp/cmp"
)

type recordingPublisher struct {
	failOn string
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if event.EventID == p.failOn {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic+"/"+event.EventID)
	return nil
}

func seedOutbox(t *testing.T, store *memory.Store) {
	t.Helper()
	base := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"e1", "e2", "e3"} {
		err := store.AppendOutbox(context.Background(), ports.EventEnvelope{
			EventID:    id,
			EventType:  "review_request.sent",
			OccurredAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("seed outbox: %v", err)
		}
	}
}

func TestRelayPublishesInOrder(t *testing.T) {
	store := memory.NewStore()
	seedOutbox(t, store)
	publisher := &recordingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay: %v", err)
	}
	want := []string{"review_request.sent/e1", "review_request.sent/e2", "review_request.sent/e3"}
	if diff := cmp.Diff(want, publisher.topics); diff != "" {
		t.Fatalf("published mismatch (-want +got):\n%s", diff)
	}
	pending, _ := store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("expected outbox drained, got %d rows", len(pending))
	}
}

func TestRelayStopsAtFirstFailure(t *testing.T) {
	store := memory.NewStore()
	seedOutbox(t, store)
	publisher := &recordingPublisher{failOn: "e2"}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, BatchSize: 10}

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatal("expected publish error")
	}
	pending, _ := store.ListPendingOutbox(context.Background(), 10)
	ids := make([]string, 0, len(pending))
	for _, row := range pending {
		ids = append(ids, row.OutboxID)
	}
	if diff := cmp.Diff([]string{"e2", "e3"}, ids); diff != "" {
		t.Fatalf("pending mismatch (-want +got):\n%s", diff)
	}
}
