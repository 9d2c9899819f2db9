package refereeassignment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	domainerrors "refdesk/contexts/peer-review/referee-assignment-service/domain/errors"
	httptransport "refdesk/contexts/peer-review/referee-assignment-service/transport/http"

	"github.com/google/go-cmp/cmp"
)

func newTestModule() Module {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewInMemoryModule([]entities.Paper{
		{PaperID: "paper-1", Title: "Sparse graphs", Status: entities.PaperStatusSubmitted},
	}, logger)
}

func TestInMemoryModuleEndToEnd(t *testing.T) {
	module := newTestModule()
	ctx := context.Background()

	evaluated, err := module.Handler.EvaluateCandidatesHandler(ctx, "paper-1", httptransport.EvaluateCandidatesRequest{
		ReviewerEmails: []string{"ann@x.org", "bad", "ann@x.org"},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if diff := cmp.Diff([]string{"ann@x.org"}, evaluated.Candidates); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}
	if len(evaluated.Grouped) != 2 {
		t.Fatalf("expected two violation groups, got %+v", evaluated.Grouped)
	}

	sent, err := module.Handler.SendReviewRequestsHandler(ctx, "paper-1", httptransport.SendReviewRequestsRequest{
		ReviewerEmails: evaluated.Candidates,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(sent.Sent) != 1 {
		t.Fatalf("expected one invitation, got %+v", sent)
	}

	responded, err := module.Handler.RespondToRequestHandler(ctx, sent.Sent[0].Request.RequestID, httptransport.RespondToRequestRequest{Decision: " Accept "})
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if responded.Assignment == nil || responded.Request.Decision != "accept" {
		t.Fatalf("unexpected respond result: %+v", responded)
	}

	paper, err := module.Handler.GetPaperHandler(ctx, "paper-1")
	if err != nil {
		t.Fatalf("get paper: %v", err)
	}
	if paper.Paper.AssignmentVersion != 1 || len(paper.Paper.AssignedRefereeEmails) != 1 {
		t.Fatalf("unexpected paper: %+v", paper.Paper)
	}
	count, err := module.Handler.ActiveCountHandler(ctx, "ANN@x.org")
	if err != nil {
		t.Fatalf("active count: %v", err)
	}
	if count.ActiveCount != 1 || count.ReviewerEmail != "ann@x.org" {
		t.Fatalf("unexpected count: %+v", count)
	}

	pending, err := module.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected sent and accepted events, got %d", len(pending))
	}
}

func TestInMemoryModuleIsolation(t *testing.T) {
	first := newTestModule()
	second := newTestModule()
	ctx := context.Background()

	if _, err := first.Handler.RegisterPaperHandler(ctx, httptransport.RegisterPaperRequest{PaperID: "paper-2"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := second.Handler.GetPaperHandler(ctx, "paper-2"); !errors.Is(err, domainerrors.ErrPaperNotFound) {
		t.Fatalf("expected modules not to share state, got %v", err)
	}
}

func TestRespondRequiresDecision(t *testing.T) {
	module := newTestModule()
	_, err := module.Handler.RespondToRequestHandler(context.Background(), "any", httptransport.RespondToRequestRequest{})
	if !errors.Is(err, domainerrors.ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
}
