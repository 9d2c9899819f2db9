package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "refdesk/contexts/peer-review/referee-assignment-service/application"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	domainerrors "refdesk/contexts/peer-review/referee-assignment-service/domain/errors"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/services"
	"refdesk/contexts/peer-review/referee-assignment-service/ports"
)

type RegisterPaperCommand struct {
	PaperID string
	Title   string
	Status  entities.PaperStatus
}

// RegisterPaperUseCase records a paper synced from the upstream submission system.
type RegisterPaperUseCase struct {
	Papers ports.PaperRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (u RegisterPaperUseCase) Execute(ctx context.Context, cmd RegisterPaperCommand) (entities.Paper, error) {
	logger := application.ResolveLogger(u.Logger)
	status := cmd.Status
	if status == "" {
		status = entities.PaperStatusSubmitted
	}
	paper := entities.Paper{
		PaperID:               strings.TrimSpace(cmd.PaperID),
		Title:                 strings.TrimSpace(cmd.Title),
		Status:                status,
		AssignedRefereeEmails: []string{},
	}
	if paper.PaperID == "" || !entities.IsSupportedPaperStatus(paper.Status) {
		return entities.Paper{}, domainerrors.ErrInvalidInput
	}
	now := nowFrom(u.Clock)
	paper.CreatedAt = now
	paper.UpdatedAt = now

	created, err := u.Papers.CreatePaper(ctx, paper)
	if err != nil {
		return entities.Paper{}, err
	}
	logger.Info("paper registered",
		"event", "referee_paper_registered",
		"module", application.ModuleName,
		"layer", "application",
		"paper_id", created.PaperID,
		"status", string(created.Status),
	)
	return created, nil
}

type UpdatePaperStatusCommand struct {
	PaperID         string
	Status          entities.PaperStatus
	ExpectedVersion *int64
}

type UpdatePaperStatusUseCase struct {
	Papers ports.PaperRepository
	Logger *slog.Logger
}

func (u UpdatePaperStatusUseCase) Execute(ctx context.Context, cmd UpdatePaperStatusCommand) (entities.Paper, error) {
	logger := application.ResolveLogger(u.Logger)
	paperID := strings.TrimSpace(cmd.PaperID)
	if paperID == "" || !entities.IsSupportedPaperStatus(cmd.Status) {
		return entities.Paper{}, domainerrors.ErrInvalidInput
	}
	paper, err := u.Papers.UpdatePaperStatus(ctx, paperID, cmd.Status, cmd.ExpectedVersion)
	if err != nil {
		logger.Warn("paper status update rejected",
			"event", "referee_paper_status_update_failed",
			"module", application.ModuleName,
			"layer", "application",
			"paper_id", paperID,
			"status", string(cmd.Status),
			"error", err.Error(),
		)
		return entities.Paper{}, err
	}
	logger.Info("paper status updated",
		"event", "referee_paper_status_updated",
		"module", application.ModuleName,
		"layer", "application",
		"paper_id", paper.PaperID,
		"status", string(paper.Status),
	)
	return paper, nil
}

type SaveAssignmentsCommand struct {
	PaperID         string
	RefereeEmails   []string
	ExpectedVersion int64
}

// SaveAssignmentsUseCase replaces a paper's referee list under optimistic
// concurrency. A ConcurrentModification result means the caller must re-read
// the paper and retry.
type SaveAssignmentsUseCase struct {
	Papers ports.PaperRepository
	Logger *slog.Logger
}

func (u SaveAssignmentsUseCase) Execute(ctx context.Context, cmd SaveAssignmentsCommand) (entities.Paper, error) {
	logger := application.ResolveLogger(u.Logger)
	paperID := strings.TrimSpace(cmd.PaperID)
	if paperID == "" || cmd.ExpectedVersion < 0 {
		return entities.Paper{}, domainerrors.ErrInvalidInput
	}
	paper, err := u.Papers.SaveAssignments(ctx, paperID, services.UniqueEmails(cmd.RefereeEmails), cmd.ExpectedVersion)
	if err != nil {
		logger.Warn("referee assignment save rejected",
			"event", "referee_assignments_save_failed",
			"module", application.ModuleName,
			"layer", "application",
			"paper_id", paperID,
			"expected_version", cmd.ExpectedVersion,
			"error", err.Error(),
		)
		return entities.Paper{}, err
	}
	logger.Info("referee assignments saved",
		"event", "referee_assignments_saved",
		"module", application.ModuleName,
		"layer", "application",
		"paper_id", paper.PaperID,
		"assignment_version", paper.AssignmentVersion,
		"referee_count", len(paper.AssignedRefereeEmails),
	)
	return paper, nil
}

func nowFrom(clock ports.Clock) time.Time {
	if clock != nil {
		return clock.Now().UTC()
	}
	return time.Now().UTC()
}
