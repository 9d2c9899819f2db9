package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	refereeassignment "refdesk/contexts/peer-review/referee-assignment-service"
	refereeerrors "refdesk/contexts/peer-review/referee-assignment-service/domain/errors"
	refereehttp "refdesk/contexts/peer-review/referee-assignment-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "refdesk/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	referees refereeassignment.Module
	server   *http.Server
}

func New(
	referees refereeassignment.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		referees: referees,
	}
	s.registerRoutes()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return s.server.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /v1/papers", s.handleRegisterPaper)
	s.mux.HandleFunc("GET /v1/papers/{paper_id}", s.handleGetPaper)
	s.mux.HandleFunc("PATCH /v1/papers/{paper_id}/status", s.handleUpdatePaperStatus)
	s.mux.HandleFunc("PUT /v1/papers/{paper_id}/referees", s.handleSaveAssignments)
	s.mux.HandleFunc("POST /v1/papers/{paper_id}/candidates/evaluate", s.handleEvaluateCandidates)
	s.mux.HandleFunc("POST /v1/papers/{paper_id}/review-requests", s.handleSendReviewRequests)
	s.mux.HandleFunc("GET /v1/papers/{paper_id}/review-requests", s.handleListReviewRequests)
	s.mux.HandleFunc("POST /v1/review-requests/{request_id}/response", s.handleRespondToRequest)
	s.mux.HandleFunc("GET /v1/reviewers/{email}/active-count", s.handleActiveCount)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRegisterPaper godoc
// @Summary Register a paper
// @Tags papers
// @Accept json
// @Produce json
// @Param body body refereehttp.RegisterPaperRequest true "paper"
// @Success 201 {object} refereehttp.PaperResponse
// @Failure 400 {object} refereehttp.ErrorResponse
// @Failure 409 {object} refereehttp.ErrorResponse
// @Router /v1/papers [post]
func (s *Server) handleRegisterPaper(w http.ResponseWriter, r *http.Request) {
	var req refereehttp.RegisterPaperRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.referees.Handler.RegisterPaperHandler(r.Context(), req)
	if err != nil {
		s.writeReviewDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleGetPaper godoc
// @Summary Get a paper with its referee list and assignment version
// @Tags papers
// @Produce json
// @Param paper_id path string true "paper id"
// @Success 200 {object} refereehttp.PaperResponse
// @Failure 404 {object} refereehttp.ErrorResponse
// @Router /v1/papers/{paper_id} [get]
func (s *Server) handleGetPaper(w http.ResponseWriter, r *http.Request) {
	resp, err := s.referees.Handler.GetPaperHandler(r.Context(), r.PathValue("paper_id"))
	if err != nil {
		s.writeReviewDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleUpdatePaperStatus godoc
// @Summary Change a paper's status
// @Tags papers
// @Accept json
// @Produce json
// @Param paper_id path string true "paper id"
// @Param body body refereehttp.UpdatePaperStatusRequest true "status"
// @Success 200 {object} refereehttp.PaperResponse
// @Failure 409 {object} refereehttp.ErrorResponse
// @Router /v1/papers/{paper_id}/status [patch]
func (s *Server) handleUpdatePaperStatus(w http.ResponseWriter, r *http.Request) {
	var req refereehttp.UpdatePaperStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.referees.Handler.UpdatePaperStatusHandler(r.Context(), r.PathValue("paper_id"), req)
	if err != nil {
		s.writeReviewDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSaveAssignments godoc
// @Summary Replace a paper's referee list under optimistic versioning
// @Tags papers
// @Accept json
// @Produce json
// @Param paper_id path string true "paper id"
// @Param body body refereehttp.SaveAssignmentsRequest true "referees"
// @Success 200 {object} refereehttp.PaperResponse
// @Failure 409 {object} refereehttp.ErrorResponse
// @Router /v1/papers/{paper_id}/referees [put]
func (s *Server) handleSaveAssignments(w http.ResponseWriter, r *http.Request) {
	var req refereehttp.SaveAssignmentsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.referees.Handler.SaveAssignmentsHandler(r.Context(), r.PathValue("paper_id"), req)
	if err != nil {
		s.writeReviewDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEvaluateCandidates godoc
// @Summary Screen reviewer e-mails against assignment rules
// @Tags referees
// @Accept json
// @Produce json
// @Param paper_id path string true "paper id"
// @Param body body refereehttp.EvaluateCandidatesRequest true "reviewers"
// @Success 200 {object} refereehttp.EvaluateCandidatesResponse
// @Failure 503 {object} refereehttp.ErrorResponse
// @Router /v1/papers/{paper_id}/candidates/evaluate [post]
func (s *Server) handleEvaluateCandidates(w http.ResponseWriter, r *http.Request) {
	var req refereehttp.EvaluateCandidatesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.referees.Handler.EvaluateCandidatesHandler(r.Context(), r.PathValue("paper_id"), req)
	if err != nil {
		s.writeReviewDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSendReviewRequests godoc
// @Summary Send review requests to evaluated reviewers
// @Tags review-requests
// @Accept json
// @Produce json
// @Param paper_id path string true "paper id"
// @Param body body refereehttp.SendReviewRequestsRequest true "reviewers"
// @Success 200 {object} refereehttp.SendReviewRequestsResponse
// @Router /v1/papers/{paper_id}/review-requests [post]
func (s *Server) handleSendReviewRequests(w http.ResponseWriter, r *http.Request) {
	var req refereehttp.SendReviewRequestsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.referees.Handler.SendReviewRequestsHandler(r.Context(), r.PathValue("paper_id"), req)
	if err != nil {
		s.writeReviewDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListReviewRequests godoc
// @Summary List review requests for a paper
// @Tags review-requests
// @Produce json
// @Param paper_id path string true "paper id"
// @Success 200 {object} refereehttp.ListReviewRequestsResponse
// @Failure 404 {object} refereehttp.ErrorResponse
// @Router /v1/papers/{paper_id}/review-requests [get]
func (s *Server) handleListReviewRequests(w http.ResponseWriter, r *http.Request) {
	resp, err := s.referees.Handler.ListReviewRequestsHandler(r.Context(), r.PathValue("paper_id"))
	if err != nil {
		s.writeReviewDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRespondToRequest godoc
// @Summary Accept or reject a review request
// @Tags review-requests
// @Accept json
// @Produce json
// @Param request_id path string true "request id"
// @Param body body refereehttp.RespondToRequestRequest true "decision"
// @Success 200 {object} refereehttp.RespondToRequestResponse
// @Failure 404 {object} refereehttp.ErrorResponse
// @Failure 409 {object} refereehttp.ErrorResponse
// @Router /v1/review-requests/{request_id}/response [post]
func (s *Server) handleRespondToRequest(w http.ResponseWriter, r *http.Request) {
	var req refereehttp.RespondToRequestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.referees.Handler.RespondToRequestHandler(r.Context(), r.PathValue("request_id"), req)
	if err != nil {
		s.writeReviewDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleActiveCount godoc
// @Summary Count a reviewer's active assignments
// @Tags referees
// @Produce json
// @Param email path string true "reviewer e-mail"
// @Success 200 {object} refereehttp.ActiveCountResponse
// @Router /v1/reviewers/{email}/active-count [get]
func (s *Server) handleActiveCount(w http.ResponseWriter, r *http.Request) {
	resp, err := s.referees.Handler.ActiveCountHandler(r.Context(), r.PathValue("email"))
	if err != nil {
		s.writeReviewDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeReviewDomainError(w http.ResponseWriter, r *http.Request, err error) {
	code := refereeerrors.Reason(err)
	switch {
	case errors.Is(err, refereeerrors.ErrCompensationFailed):
		writeReviewError(w, http.StatusInternalServerError, code, err.Error())
	case errors.Is(err, refereeerrors.ErrInvalidInput),
		errors.Is(err, refereeerrors.ErrInvalidDecision):
		writeReviewError(w, http.StatusBadRequest, code, err.Error())
	case errors.Is(err, refereeerrors.ErrPaperNotFound),
		errors.Is(err, refereeerrors.ErrRequestNotFound):
		writeReviewError(w, http.StatusNotFound, code, err.Error())
	case errors.Is(err, refereeerrors.ErrPaperAlreadyExists),
		errors.Is(err, refereeerrors.ErrConcurrentModification),
		errors.Is(err, refereeerrors.ErrPaperIneligible),
		errors.Is(err, refereeerrors.ErrDuplicateRequest),
		errors.Is(err, refereeerrors.ErrAlreadyResolved),
		errors.Is(err, refereeerrors.ErrDeliveryFailed),
		errors.Is(err, refereeerrors.ErrLimitReached):
		writeReviewError(w, http.StatusConflict, code, err.Error())
	case errors.Is(err, refereeerrors.ErrEvaluationFailed),
		errors.Is(err, refereeerrors.ErrIndexLookupFailed),
		errors.Is(err, refereeerrors.ErrIndexSaveFailed),
		errors.Is(err, refereeerrors.ErrStorageFailure):
		s.logRequestFailure(r, code, err)
		writeReviewError(w, http.StatusServiceUnavailable, code, "storage temporarily unavailable")
	default:
		s.logRequestFailure(r, "internal_error", err)
		writeReviewError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) logRequestFailure(r *http.Request, code string, err error) {
	s.logger.Error("request failed",
		"event", "http_request_failed",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"method", r.Method,
		"path", r.URL.Path,
		"code", code,
		"error", err.Error(),
	)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeReviewError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func writeReviewError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, refereehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
