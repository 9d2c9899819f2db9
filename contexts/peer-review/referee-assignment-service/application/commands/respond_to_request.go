package commands

import (
	"context"
	"log/slog"
	"strings"

	application "refdesk/contexts/peer-review/referee-assignment-service/application"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	domainerrors "refdesk/contexts/peer-review/referee-assignment-service/domain/errors"
	"refdesk/contexts/peer-review/referee-assignment-service/ports"
	contractsv1 "refdesk/contracts/gen/events/v1"

	"go.opentelemetry.io/otel/attribute"
)

type RespondToRequestCommand struct {
	RequestID string
	Decision  entities.Decision
}

// RespondResult carries the finalized request and, on accept, the active
// assignment committed to the paper.
type RespondResult struct {
	Assignment *entities.ReviewerAssignment `json:"assignment,omitempty"`
	Request    entities.ReviewRequest       `json:"request"`
}

// RespondToRequestUseCase records a reviewer's answer. Accepting runs the
// accept saga across the index, the paper repository and the request store.
type RespondToRequestUseCase struct {
	Requests ports.ReviewRequestStore
	Papers   ports.PaperRepository
	Index    ports.AssignmentIndex
	Outbox   ports.OutboxRepository
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	// Limit caps a reviewer's active assignments; zero means the default of 5.
	Limit  int
	Logger *slog.Logger
}

func (u RespondToRequestUseCase) Execute(ctx context.Context, cmd RespondToRequestCommand) (result RespondResult, err error) {
	logger := application.ResolveLogger(u.Logger)
	requestID := strings.TrimSpace(cmd.RequestID)
	if requestID == "" {
		return RespondResult{}, domainerrors.ErrInvalidInput
	}

	ctx, span := application.StartSpan(ctx, "referee.respond_to_request",
		attribute.String("request_id", requestID),
		attribute.String("decision", string(cmd.Decision)),
	)
	defer func() { application.EndSpan(span, err) }()

	request, err := u.Requests.GetRequest(ctx, requestID)
	if err != nil {
		return RespondResult{}, err
	}
	if request.IsResolved() {
		return RespondResult{}, domainerrors.ErrAlreadyResolved
	}
	if request.Status == entities.RequestStatusFailed {
		return RespondResult{}, domainerrors.ErrDeliveryFailed
	}

	switch cmd.Decision {
	case entities.DecisionReject:
		return u.reject(ctx, logger, request)
	case entities.DecisionAccept:
		saga := &acceptSaga{
			uc:      u,
			logger:  logger,
			request: request,
		}
		return saga.run(ctx)
	default:
		return RespondResult{}, domainerrors.ErrInvalidDecision
	}
}

func (u RespondToRequestUseCase) reject(
	ctx context.Context,
	logger *slog.Logger,
	request entities.ReviewRequest,
) (RespondResult, error) {
	now := nowFrom(u.Clock)
	request.Decision = entities.DecisionReject
	request.RespondedAt = &now
	updated, err := u.Requests.UpdateRequest(ctx, request)
	if err != nil {
		logger.Error("review request rejection not recorded",
			"event", "referee_review_request_reject_failed",
			"module", application.ModuleName,
			"layer", "application",
			"request_id", request.RequestID,
			"paper_id", request.PaperID,
			"error", err.Error(),
		)
		return RespondResult{}, err
	}

	u.events(logger).record(ctx, contractsv1.EventTypeReviewRequestRejected, updated.PaperID, now, map[string]any{
		"request_id":     updated.RequestID,
		"assignment_id":  updated.AssignmentID,
		"paper_id":       updated.PaperID,
		"reviewer_email": updated.ReviewerEmail,
	})
	logger.Info("review request rejected",
		"event", "referee_review_request_rejected",
		"module", application.ModuleName,
		"layer", "application",
		"request_id", updated.RequestID,
		"paper_id", updated.PaperID,
	)
	return RespondResult{Request: updated}, nil
}

func (u RespondToRequestUseCase) events(logger *slog.Logger) eventRecorder {
	return eventRecorder{outbox: u.Outbox, idGen: u.IDGen, logger: logger}
}

func (u RespondToRequestUseCase) limit() int {
	if u.Limit > 0 {
		return u.Limit
	}
	return defaultAssignmentLimit
}

const defaultAssignmentLimit = 5
