package commands

import (
	"context"
	"errors"
	"log/slog"

	application "refdesk/contexts/peer-review/referee-assignment-service/application"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	domainerrors "refdesk/contexts/peer-review/referee-assignment-service/domain/errors"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/services"
	contractsv1 "refdesk/contracts/gen/events/v1"
)

// acceptSaga commits an accepted invitation in three steps:
//
//	prepare  - add the active assignment to the index
//	commit   - append the reviewer to the paper's referee list (version checked)
//	finalize - mark the request accepted
//
// When commit fails, compensate removes the index entry added by prepare
// before the error is returned.
type acceptSaga struct {
	uc      RespondToRequestUseCase
	logger  *slog.Logger
	request entities.ReviewRequest

	assignment entities.ReviewerAssignment
	// indexed is set when prepare added the index entry in this call.
	indexed bool
	paper   entities.Paper
}

func (s *acceptSaga) run(ctx context.Context) (RespondResult, error) {
	if err := s.prepare(ctx); err != nil {
		return RespondResult{}, err
	}
	if err := s.commit(ctx); err != nil {
		return RespondResult{}, s.compensate(ctx, err)
	}
	return s.finalize(ctx)
}

func (s *acceptSaga) prepare(ctx context.Context) (err error) {
	ctx, span := application.StartSpan(ctx, "referee.accept.prepare")
	defer func() { application.EndSpan(span, err) }()

	now := nowFrom(s.uc.Clock)
	s.assignment = entities.ReviewerAssignment{
		AssignmentID:  s.request.AssignmentID,
		PaperID:       s.request.PaperID,
		ReviewerEmail: s.request.ReviewerEmail,
		Status:        entities.AssignmentStatusActive,
		AcceptedAt:    &now,
	}

	// A previous accept may have committed the paper but failed to finalize
	// the request; the index already holds the entry and must be kept.
	active, err := s.uc.Index.HasActiveAssignment(ctx, s.request.PaperID, s.request.ReviewerEmail)
	if err != nil {
		s.logFailure("prepare", err)
		return err
	}
	if active {
		return nil
	}

	count, err := s.uc.Index.GetActiveCountForReviewer(ctx, s.request.ReviewerEmail)
	if err != nil {
		s.logFailure("prepare", err)
		return err
	}
	if count >= s.uc.limit() {
		return domainerrors.ErrLimitReached
	}

	if err := s.uc.Index.AddAssignment(ctx, s.assignment); err != nil {
		s.logFailure("prepare", err)
		return err
	}
	s.indexed = true
	return nil
}

func (s *acceptSaga) commit(ctx context.Context) (err error) {
	ctx, span := application.StartSpan(ctx, "referee.accept.commit")
	defer func() { application.EndSpan(span, err) }()

	paper, err := s.uc.Papers.GetPaper(ctx, s.request.PaperID)
	if err != nil {
		s.logFailure("commit", err)
		return err
	}
	next := services.AppendReferee(paper.AssignedRefereeEmails, s.request.ReviewerEmail)
	saved, err := s.uc.Papers.SaveAssignments(ctx, paper.PaperID, next, paper.AssignmentVersion)
	if err != nil {
		s.logFailure("commit", err)
		return err
	}
	s.paper = saved
	return nil
}

// compensate undoes prepare and returns cause. If the rollback itself fails
// the returned error also matches ErrCompensationFailed.
func (s *acceptSaga) compensate(ctx context.Context, cause error) (err error) {
	if !s.indexed {
		return cause
	}
	ctx, span := application.StartSpan(ctx, "referee.accept.compensate")
	defer func() { application.EndSpan(span, err) }()

	removeErr := s.uc.Index.RemoveAssignments(ctx, s.request.PaperID, []string{s.request.ReviewerEmail})
	if removeErr != nil {
		s.logger.Error("assignment rollback failed",
			"event", "referee_accept_compensation_failed",
			"module", application.ModuleName,
			"layer", "application",
			"request_id", s.request.RequestID,
			"paper_id", s.request.PaperID,
			"reviewer_email", s.request.ReviewerEmail,
			"cause", cause.Error(),
			"error", removeErr.Error(),
		)
		return errors.Join(cause, domainerrors.ErrCompensationFailed, removeErr)
	}
	s.indexed = false
	s.logger.Warn("assignment rolled back",
		"event", "referee_accept_compensated",
		"module", application.ModuleName,
		"layer", "application",
		"request_id", s.request.RequestID,
		"paper_id", s.request.PaperID,
		"reviewer_email", s.request.ReviewerEmail,
		"reason", domainerrors.ReasonOr(cause, domainerrors.ReasonSaveFailed),
	)
	return cause
}

func (s *acceptSaga) finalize(ctx context.Context) (result RespondResult, err error) {
	ctx, span := application.StartSpan(ctx, "referee.accept.finalize")
	defer func() { application.EndSpan(span, err) }()

	request := s.request
	now := nowFrom(s.uc.Clock)
	request.Decision = entities.DecisionAccept
	request.RespondedAt = &now
	updated, err := s.uc.Requests.UpdateRequest(ctx, request)
	if err != nil {
		// Paper and index both list the reviewer; a retried accept resumes here.
		s.logFailure("finalize", err)
		return RespondResult{}, err
	}

	s.uc.events(s.logger).record(ctx, contractsv1.EventTypeReviewRequestAccepted, updated.PaperID, now, map[string]any{
		"request_id":         updated.RequestID,
		"assignment_id":      updated.AssignmentID,
		"paper_id":           updated.PaperID,
		"reviewer_email":     updated.ReviewerEmail,
		"assignment_version": s.paper.AssignmentVersion,
	})
	s.logger.Info("review request accepted",
		"event", "referee_review_request_accepted",
		"module", application.ModuleName,
		"layer", "application",
		"request_id", updated.RequestID,
		"paper_id", updated.PaperID,
		"reviewer_email", updated.ReviewerEmail,
		"assignment_version", s.paper.AssignmentVersion,
	)
	assignment := s.assignment
	return RespondResult{Assignment: &assignment, Request: updated}, nil
}

func (s *acceptSaga) logFailure(step string, err error) {
	s.logger.Error("accept saga step failed",
		"event", "referee_accept_step_failed",
		"module", application.ModuleName,
		"layer", "application",
		"step", step,
		"request_id", s.request.RequestID,
		"paper_id", s.request.PaperID,
		"reviewer_email", s.request.ReviewerEmail,
		"error", err.Error(),
	)
}
