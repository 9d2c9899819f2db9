package commands

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	kvadapter "refdesk/contexts/peer-review/referee-assignment-service/adapters/kv"
	"refdesk/contexts/peer-review/referee-assignment-service/adapters/memory"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	"refdesk/contexts/peer-review/referee-assignment-service/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type fixture struct {
	store    *memory.Store
	papers   *kvadapter.PaperRepository
	index    *kvadapter.AssignmentIndex
	requests *kvadapter.ReviewRequestStore
	send     SendReviewRequestsUseCase
	respond  RespondToRequestUseCase
}

func newFixture(t *testing.T, seed ...entities.Paper) *fixture {
	t.Helper()
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := fixedClock{now: time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)}

	f := &fixture{
		store:    store,
		papers:   kvadapter.NewPaperRepository(store, clock, logger),
		index:    kvadapter.NewAssignmentIndex(store, logger),
		requests: kvadapter.NewReviewRequestStore(store, logger),
	}
	f.send = SendReviewRequestsUseCase{
		Requests: f.requests,
		Outbox:   store,
		Clock:    clock,
		IDGen:    store,
		Logger:   logger,
	}
	f.respond = RespondToRequestUseCase{
		Requests: f.requests,
		Papers:   f.papers,
		Index:    f.index,
		Outbox:   store,
		Clock:    clock,
		IDGen:    store,
		Logger:   logger,
	}
	for _, paper := range seed {
		if _, err := f.papers.CreatePaper(context.Background(), paper); err != nil {
			t.Fatalf("seed paper %s: %v", paper.PaperID, err)
		}
	}
	return f
}

func submitted(paperID string) entities.Paper {
	return entities.Paper{PaperID: paperID, Title: "Paper " + paperID, Status: entities.PaperStatusSubmitted}
}

// invite sends one invitation and returns the stored request.
func (f *fixture) invite(t *testing.T, paperID, email string) entities.ReviewRequest {
	t.Helper()
	result, err := f.send.Execute(context.Background(), SendReviewRequestsCommand{
		PaperID:        paperID,
		ReviewerEmails: []string{email},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(result.Sent) != 1 {
		t.Fatalf("expected one sent invitation, got %+v", result)
	}
	return result.Sent[0].Request
}

func (f *fixture) unresolved(t *testing.T, paperID string) int {
	t.Helper()
	items, err := f.requests.ListRequestsForPaper(context.Background(), paperID)
	if err != nil {
		t.Fatalf("list requests: %v", err)
	}
	count := 0
	for _, item := range items {
		if !item.IsResolved() {
			count++
		}
	}
	return count
}

func (f *fixture) paper(t *testing.T, paperID string) entities.Paper {
	t.Helper()
	paper, err := f.papers.GetPaper(context.Background(), paperID)
	if err != nil {
		t.Fatalf("get paper: %v", err)
	}
	return paper
}

func (f *fixture) activeCount(t *testing.T, email string) int {
	t.Helper()
	count, err := f.index.GetActiveCountForReviewer(context.Background(), email)
	if err != nil {
		t.Fatalf("active count: %v", err)
	}
	return count
}

func (f *fixture) outboxTypes(t *testing.T) []string {
	t.Helper()
	rows, err := f.store.ListPendingOutbox(context.Background(), 100)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	types := make([]string, 0, len(rows))
	for _, row := range rows {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &envelope); err != nil {
			t.Fatalf("decode outbox row: %v", err)
		}
		types = append(types, envelope.EventType)
	}
	return types
}

// racingPapers lets a competing writer save first, so the caller's
// SaveAssignments sees a stale version.
type racingPapers struct {
	ports.PaperRepository
	raced bool
}

func (r *racingPapers) SaveAssignments(ctx context.Context, paperID string, emails []string, expectedVersion int64) (entities.Paper, error) {
	if !r.raced {
		r.raced = true
		if _, err := r.PaperRepository.SaveAssignments(ctx, paperID, []string{"other@x.org"}, expectedVersion); err != nil {
			return entities.Paper{}, err
		}
	}
	return r.PaperRepository.SaveAssignments(ctx, paperID, emails, expectedVersion)
}

type stubNotifier struct {
	report ports.DeliveryReport
	err    error
	calls  int
	emails []string
}

func (n *stubNotifier) Send(_ context.Context, _ string, emails []string) (ports.DeliveryReport, error) {
	n.calls++
	n.emails = append(n.emails, emails...)
	return n.report, n.err
}
