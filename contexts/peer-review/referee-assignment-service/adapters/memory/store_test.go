package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"refdesk/contexts/peer-review/referee-assignment-service/ports"

	"github.com/google/go-cmp/cmp"
)

func TestStoreReadWriteRemove(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if _, found, err := store.Read(ctx, "k"); err != nil || found {
		t.Fatalf("expected absent key, got found=%v err=%v", found, err)
	}
	value := []byte("v1")
	if err := store.Write(ctx, "k", value); err != nil {
		t.Fatalf("write: %v", err)
	}
	value[0] = 'x'

	got, found, err := store.Read(ctx, "k")
	if err != nil || !found || string(got) != "v1" {
		t.Fatalf("expected stored copy v1, got %q found=%v err=%v", got, found, err)
	}
	if err := store.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove absent key: %v", err)
	}
}

func TestInjectFaultOnceFiresOnce(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")
	store.InjectFaultOnce(FaultWrite, "paper:", boom)

	if err := store.Write(ctx, "reviewer:a", nil); err != nil {
		t.Fatalf("unmatched prefix should not fail: %v", err)
	}
	if err := store.Write(ctx, "paper:p1", nil); !errors.Is(err, boom) {
		t.Fatalf("expected injected fault, got %v", err)
	}
	if err := store.Write(ctx, "paper:p1", nil); err != nil {
		t.Fatalf("fault should fire once: %v", err)
	}
}

func TestInjectFaultPersistsUntilCleared(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")
	store.InjectFault(FaultRead, "", boom)

	for range 3 {
		if _, _, err := store.Read(ctx, "any"); !errors.Is(err, boom) {
			t.Fatalf("expected injected fault, got %v", err)
		}
	}
	store.ClearFaults()
	if _, _, err := store.Read(ctx, "any"); err != nil {
		t.Fatalf("expected faults cleared, got %v", err)
	}
}

func TestOutboxOrderingAndDedupe(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	for _, envelope := range []ports.EventEnvelope{
		{EventID: "e2", EventType: "t", OccurredAt: base.Add(time.Second)},
		{EventID: "e1", EventType: "t", OccurredAt: base},
		{EventID: "e1", EventType: "t", OccurredAt: base.Add(time.Hour)},
	} {
		if err := store.AppendOutbox(ctx, envelope); err != nil {
			t.Fatalf("append %s: %v", envelope.EventID, err)
		}
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := make([]string, 0, len(pending))
	for _, item := range pending {
		ids = append(ids, item.OutboxID)
	}
	if diff := cmp.Diff([]string{"e1", "e2"}, ids); diff != "" {
		t.Fatalf("pending mismatch (-want +got):\n%s", diff)
	}

	if err := store.MarkOutboxPublished(ctx, "e1", base); err != nil {
		t.Fatalf("mark: %v", err)
	}
	pending, _ = store.ListPendingOutbox(ctx, 10)
	if len(pending) != 1 || pending[0].OutboxID != "e2" {
		t.Fatalf("expected only e2 pending, got %+v", pending)
	}
}
