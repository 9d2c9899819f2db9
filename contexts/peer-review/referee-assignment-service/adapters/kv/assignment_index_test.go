package kvadapter

import (
	"context"
	"errors"
	"testing"

	"refdesk/contexts/peer-review/referee-assignment-service/adapters/memory"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	domainerrors "refdesk/contexts/peer-review/referee-assignment-service/domain/errors"
)

func activeAssignment(paperID, email string) entities.ReviewerAssignment {
	return entities.ReviewerAssignment{
		AssignmentID:  paperID + "-" + email,
		PaperID:       paperID,
		ReviewerEmail: email,
		Status:        entities.AssignmentStatusAccepted,
	}
}

func TestAddAssignmentCountsPapersOnce(t *testing.T) {
	_, _, index, _ := newTestRepositories()
	ctx := context.Background()

	for _, paperID := range []string{"p1", "p2", "p1"} {
		if err := index.AddAssignment(ctx, activeAssignment(paperID, "A@X.org")); err != nil {
			t.Fatalf("add %s: %v", paperID, err)
		}
	}

	count, err := index.GetActiveCountForReviewer(ctx, "a@x.org")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 active papers, got %d", count)
	}
	active, err := index.HasActiveAssignment(ctx, "p2", " a@x.org ")
	if err != nil || !active {
		t.Fatalf("expected active assignment on p2, got %v %v", active, err)
	}
}

func TestRemoveAssignmentsClearsIndex(t *testing.T) {
	store, _, index, _ := newTestRepositories()
	ctx := context.Background()

	if err := index.AddAssignment(ctx, activeAssignment("p1", "a@x.org")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := index.AddAssignment(ctx, activeAssignment("p2", "a@x.org")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := index.RemoveAssignments(ctx, "p1", []string{"a@x.org", "nobody@x.org"}); err != nil {
		t.Fatalf("remove: %v", err)
	}

	count, _ := index.GetActiveCountForReviewer(ctx, "a@x.org")
	if count != 1 {
		t.Fatalf("expected 1 active paper, got %d", count)
	}
	if active, _ := index.HasActiveAssignment(ctx, "p1", "a@x.org"); active {
		t.Fatal("removed assignment still active")
	}

	if err := index.RemoveAssignments(ctx, "p2", []string{"a@x.org"}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if keys := store.Keys(ReviewerKeyPrefix); len(keys) != 0 {
		t.Fatalf("expected empty reviewer list to be removed, got %v", keys)
	}
}

func TestAssignmentIndexLookupFailure(t *testing.T) {
	store, _, index, _ := newTestRepositories()
	store.InjectFault(memory.FaultRead, ReviewerKeyPrefix, errors.New("timeout"))

	_, err := index.GetActiveCountForReviewer(context.Background(), "a@x.org")
	if !errors.Is(err, domainerrors.ErrIndexLookupFailed) {
		t.Fatalf("expected ErrIndexLookupFailed, got %v", err)
	}
}

func TestAddAssignmentSaveFailureRestoresRecord(t *testing.T) {
	store, _, index, _ := newTestRepositories()
	ctx := context.Background()
	store.InjectFaultOnce(memory.FaultWrite, ReviewerKeyPrefix, errors.New("disk full"))

	err := index.AddAssignment(ctx, activeAssignment("p1", "a@x.org"))
	if !errors.Is(err, domainerrors.ErrIndexSaveFailed) {
		t.Fatalf("expected ErrIndexSaveFailed, got %v", err)
	}
	if keys := store.Keys(AssignmentKeyPrefix); len(keys) != 0 {
		t.Fatalf("expected assignment record restored, got %v", keys)
	}
}

func TestRemoveAssignmentsSaveFailure(t *testing.T) {
	store, _, index, _ := newTestRepositories()
	ctx := context.Background()
	if err := index.AddAssignment(ctx, activeAssignment("p1", "a@x.org")); err != nil {
		t.Fatalf("add: %v", err)
	}
	store.InjectFault(memory.FaultRemove, AssignmentKeyPrefix, errors.New("disk full"))

	err := index.RemoveAssignments(ctx, "p1", []string{"a@x.org"})
	if !errors.Is(err, domainerrors.ErrIndexSaveFailed) {
		t.Fatalf("expected ErrIndexSaveFailed, got %v", err)
	}
	store.ClearFaults()
	assertIndexed(t, index, "p1", "a@x.org", 1, true)
}

func TestRemoveAssignmentsListFailureRestoresRecord(t *testing.T) {
	store, _, index, _ := newTestRepositories()
	ctx := context.Background()
	for _, paperID := range []string{"p1", "p2"} {
		if err := index.AddAssignment(ctx, activeAssignment(paperID, "a@x.org")); err != nil {
			t.Fatalf("add %s: %v", paperID, err)
		}
	}
	store.InjectFaultOnce(memory.FaultWrite, ReviewerKeyPrefix, errors.New("disk full"))

	err := index.RemoveAssignments(ctx, "p1", []string{"a@x.org"})
	if !errors.Is(err, domainerrors.ErrIndexSaveFailed) {
		t.Fatalf("expected ErrIndexSaveFailed, got %v", err)
	}
	assertIndexed(t, index, "p1", "a@x.org", 2, true)
}

func TestAddAssignmentRejectsInactiveStatus(t *testing.T) {
	store, _, index, _ := newTestRepositories()
	ctx := context.Background()

	for _, status := range []entities.AssignmentStatus{entities.AssignmentStatusPending, entities.AssignmentStatusDeclined, ""} {
		assignment := activeAssignment("p1", "a@x.org")
		assignment.Status = status
		if err := index.AddAssignment(ctx, assignment); !errors.Is(err, domainerrors.ErrInvalidInput) {
			t.Fatalf("status %q: expected ErrInvalidInput, got %v", status, err)
		}
	}
	assertIndexed(t, index, "p1", "a@x.org", 0, false)
	if keys := store.Keys(AssignmentKeyPrefix); len(keys) != 0 {
		t.Fatalf("expected no assignment records, got %v", keys)
	}
}

func assertIndexed(t *testing.T, index *AssignmentIndex, paperID, email string, wantCount int, wantActive bool) {
	t.Helper()
	ctx := context.Background()
	count, err := index.GetActiveCountForReviewer(ctx, email)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	active, err := index.HasActiveAssignment(ctx, paperID, email)
	if err != nil {
		t.Fatalf("has active: %v", err)
	}
	if count != wantCount || active != wantActive {
		t.Fatalf("index disagrees: count=%d active=%v, want count=%d active=%v", count, active, wantCount, wantActive)
	}
}
