package sqliteadapter

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	domainerrors "refdesk/contexts/peer-review/referee-assignment-service/domain/errors"
	"refdesk/contexts/peer-review/referee-assignment-service/ports"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "refdesk.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestKeyValueRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Write(ctx, "paper:p1", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Write(ctx, "paper:p1", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, found, err := store.Read(ctx, "paper:p1")
	if err != nil || !found || string(value) != `{"v":2}` {
		t.Fatalf("unexpected read: %q found=%v err=%v", value, found, err)
	}
	if err := store.Remove(ctx, "paper:p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, found, err := store.Read(ctx, "paper:p1"); err != nil || found {
		t.Fatalf("expected removed key, found=%v err=%v", found, err)
	}
}

func TestOutboxAppendIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)
	envelope := ports.EventEnvelope{EventID: "e1", EventType: "review_request.sent", PartitionKey: "p1", OccurredAt: at}

	if err := store.AppendOutbox(ctx, envelope); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.AppendOutbox(ctx, envelope); err != nil {
		t.Fatalf("re-append identical: %v", err)
	}
	changed := envelope
	changed.PartitionKey = "p2"
	if err := store.AppendOutbox(ctx, changed); !errors.Is(err, domainerrors.ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure for conflicting payload, got %v", err)
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 || pending[0].OutboxID != "e1" || !pending[0].CreatedAt.Equal(at) {
		t.Fatalf("unexpected pending rows: %+v", pending)
	}

	if err := store.MarkOutboxPublished(ctx, "e1", at.Add(time.Second)); err != nil {
		t.Fatalf("mark: %v", err)
	}
	pending, err = store.ListPendingOutbox(ctx, 10)
	if err != nil || len(pending) != 0 {
		t.Fatalf("expected no pending rows, got %+v err=%v", pending, err)
	}
}
