package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	refereeassignment "refdesk/contexts/peer-review/referee-assignment-service"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	refereehttp "refdesk/contexts/peer-review/referee-assignment-service/transport/http"

	"github.com/google/go-cmp/cmp"
)

func newTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	module := refereeassignment.NewInMemoryModule([]entities.Paper{
		{PaperID: "paper-1", Title: "Sparse attention", Status: entities.PaperStatusSubmitted},
		{PaperID: "paper-2", Title: "Graph rewriting", Status: entities.PaperStatusUnderReview},
	}, logger)
	return New(module, logger, ":0")
}

func doJSON(t *testing.T, server *Server, method string, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body: %v body=%s", err, rr.Body.String())
	}
	return out
}

func TestRegisterAndGetPaper(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/v1/papers", refereehttp.RegisterPaperRequest{PaperID: "paper-9", Title: "New"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/v1/papers/paper-9", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	resp := decodeBody[refereehttp.PaperResponse](t, rr)
	if resp.Paper.Status != "submitted" || resp.Paper.AssignmentVersion != 0 {
		t.Fatalf("unexpected paper: %+v", resp.Paper)
	}

	rr = doJSON(t, server, http.MethodPost, "/v1/papers", refereehttp.RegisterPaperRequest{PaperID: "paper-9"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate paper, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGetUnknownPaperReturnsNotFound(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodGet, "/v1/papers/missing", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
	resp := decodeBody[refereehttp.ErrorResponse](t, rr)
	if resp.Code != "paper_not_found" {
		t.Fatalf("expected paper_not_found, got %q", resp.Code)
	}
}

func TestInvalidJSONReturnsBadRequest(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/v1/papers/paper-1/candidates/evaluate", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestEvaluateGroupsViolations(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/v1/papers/paper-1/candidates/evaluate", refereehttp.EvaluateCandidatesRequest{
		ReviewerEmails: []string{"a@x.org", "bad", "a@x.org", ""},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	resp := decodeBody[refereehttp.EvaluateCandidatesResponse](t, rr)
	if diff := cmp.Diff([]string{"a@x.org"}, resp.Candidates); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}
	if len(resp.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %+v", resp.Violations)
	}
	if len(resp.Grouped) != 2 || resp.Grouped[0].Email != "bad" || resp.Grouped[1].Email != "a@x.org" {
		t.Fatalf("unexpected grouping: %+v", resp.Grouped)
	}
}

func TestReviewRequestAcceptFlow(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/v1/papers/paper-1/review-requests", refereehttp.SendReviewRequestsRequest{
		ReviewerEmails: []string{"Ann@X.org"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	sent := decodeBody[refereehttp.SendReviewRequestsResponse](t, rr)
	if len(sent.Sent) != 1 || len(sent.Failed) != 0 {
		t.Fatalf("unexpected send result: %+v", sent)
	}
	requestID := sent.Sent[0].Request.RequestID

	rr = doJSON(t, server, http.MethodPost, "/v1/review-requests/"+requestID+"/response", refereehttp.RespondToRequestRequest{Decision: "accept"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	responded := decodeBody[refereehttp.RespondToRequestResponse](t, rr)
	if responded.Request.Decision != "accept" || responded.Assignment == nil || responded.Assignment.Status != "active" {
		t.Fatalf("unexpected respond result: %+v", responded)
	}

	rr = doJSON(t, server, http.MethodGet, "/v1/reviewers/ann@x.org/active-count", nil)
	count := decodeBody[refereehttp.ActiveCountResponse](t, rr)
	if count.ActiveCount != 1 {
		t.Fatalf("expected active count 1, got %d", count.ActiveCount)
	}

	rr = doJSON(t, server, http.MethodGet, "/v1/papers/paper-1", nil)
	paper := decodeBody[refereehttp.PaperResponse](t, rr)
	if diff := cmp.Diff([]string{"ann@x.org"}, paper.Paper.AssignedRefereeEmails); diff != "" {
		t.Fatalf("referees mismatch (-want +got):\n%s", diff)
	}
	if paper.Paper.AssignmentVersion != 1 {
		t.Fatalf("expected version 1, got %d", paper.Paper.AssignmentVersion)
	}

	rr = doJSON(t, server, http.MethodPost, "/v1/review-requests/"+requestID+"/response", refereehttp.RespondToRequestRequest{Decision: "reject"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second response, got %d body=%s", rr.Code, rr.Body.String())
	}
	if resp := decodeBody[refereehttp.ErrorResponse](t, rr); resp.Code != "already_resolved" {
		t.Fatalf("expected already_resolved, got %q", resp.Code)
	}

	rr = doJSON(t, server, http.MethodGet, "/v1/papers/paper-1/review-requests", nil)
	list := decodeBody[refereehttp.ListReviewRequestsResponse](t, rr)
	if len(list.Items) != 1 || list.Items[0].Decision != "accept" {
		t.Fatalf("unexpected request list: %+v", list.Items)
	}
}

func TestAcceptOnIneligiblePaperRollsBack(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/v1/papers/paper-2/review-requests", refereehttp.SendReviewRequestsRequest{
		ReviewerEmails: []string{"bo@x.org"},
	})
	sent := decodeBody[refereehttp.SendReviewRequestsResponse](t, rr)
	if len(sent.Sent) != 1 {
		t.Fatalf("unexpected send result: %+v", sent)
	}

	rr = doJSON(t, server, http.MethodPatch, "/v1/papers/paper-2/status", refereehttp.UpdatePaperStatusRequest{Status: "decided"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/v1/review-requests/"+sent.Sent[0].Request.RequestID+"/response", refereehttp.RespondToRequestRequest{Decision: "accept"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
	if resp := decodeBody[refereehttp.ErrorResponse](t, rr); resp.Code != "paper_ineligible" {
		t.Fatalf("expected paper_ineligible, got %q", resp.Code)
	}

	rr = doJSON(t, server, http.MethodGet, "/v1/reviewers/bo@x.org/active-count", nil)
	if count := decodeBody[refereehttp.ActiveCountResponse](t, rr); count.ActiveCount != 0 {
		t.Fatalf("expected active count 0 after rollback, got %d", count.ActiveCount)
	}
}

func TestSaveAssignmentsStaleVersionConflict(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPut, "/v1/papers/paper-1/referees", refereehttp.SaveAssignmentsRequest{
		RefereeEmails:   []string{"a@x.org"},
		ExpectedVersion: 0,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPut, "/v1/papers/paper-1/referees", refereehttp.SaveAssignmentsRequest{
		RefereeEmails:   []string{"b@x.org"},
		ExpectedVersion: 0,
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
	if resp := decodeBody[refereehttp.ErrorResponse](t, rr); resp.Code != "concurrent_modification" {
		t.Fatalf("expected concurrent_modification, got %q", resp.Code)
	}
}

func TestRespondRejectsUnknownDecision(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/v1/review-requests/unknown/response", refereehttp.RespondToRequestRequest{Decision: ""})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/v1/review-requests/unknown/response", refereehttp.RespondToRequestRequest{Decision: "accept"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}
