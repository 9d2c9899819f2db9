package kvadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	domainerrors "refdesk/contexts/peer-review/referee-assignment-service/domain/errors"
	"refdesk/contexts/peer-review/referee-assignment-service/ports"
)

// PaperRepository implements ports.PaperRepository on a key-value store.
// Read-check-write sequences are serialized per repository instance, which
// is the single logical writer for its papers.
type PaperRepository struct {
	mu     sync.Mutex
	store  ports.KeyValueStore
	clock  ports.Clock
	logger *slog.Logger
}

func NewPaperRepository(store ports.KeyValueStore, clock ports.Clock, logger *slog.Logger) *PaperRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaperRepository{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

func (r *PaperRepository) CreatePaper(ctx context.Context, paper entities.Paper) (entities.Paper, error) {
	paper.PaperID = strings.TrimSpace(paper.PaperID)
	if paper.PaperID == "" {
		return entities.Paper{}, domainerrors.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found, err := r.load(ctx, paper.PaperID); err != nil {
		return entities.Paper{}, err
	} else if found {
		return entities.Paper{}, domainerrors.ErrPaperAlreadyExists
	}
	if paper.AssignedRefereeEmails == nil {
		paper.AssignedRefereeEmails = []string{}
	}
	paper.AssignmentVersion = 0
	if paper.CreatedAt.IsZero() {
		paper.CreatedAt = r.now()
	}
	if paper.UpdatedAt.IsZero() {
		paper.UpdatedAt = paper.CreatedAt
	}
	if err := r.persist(ctx, paper); err != nil {
		return entities.Paper{}, err
	}
	return paper, nil
}

func (r *PaperRepository) GetPaper(ctx context.Context, paperID string) (entities.Paper, error) {
	paper, found, err := r.load(ctx, strings.TrimSpace(paperID))
	if err != nil {
		return entities.Paper{}, err
	}
	if !found {
		return entities.Paper{}, domainerrors.ErrPaperNotFound
	}
	return paper, nil
}

func (r *PaperRepository) UpdatePaperStatus(
	ctx context.Context,
	paperID string,
	status entities.PaperStatus,
	expectedVersion *int64,
) (entities.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	paper, found, err := r.load(ctx, strings.TrimSpace(paperID))
	if err != nil {
		return entities.Paper{}, err
	}
	if !found {
		return entities.Paper{}, domainerrors.ErrPaperNotFound
	}
	if expectedVersion != nil && *expectedVersion != paper.AssignmentVersion {
		return entities.Paper{}, &domainerrors.ConflictError{
			PaperID:         paper.PaperID,
			ExpectedVersion: *expectedVersion,
			CurrentVersion:  paper.AssignmentVersion,
		}
	}
	paper.Status = status
	paper.UpdatedAt = r.now()
	if err := r.persist(ctx, paper); err != nil {
		return entities.Paper{}, err
	}
	return paper, nil
}

func (r *PaperRepository) SaveAssignments(
	ctx context.Context,
	paperID string,
	refereeEmails []string,
	expectedVersion int64,
) (entities.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	paper, found, err := r.load(ctx, strings.TrimSpace(paperID))
	if err != nil {
		return entities.Paper{}, err
	}
	if !found {
		return entities.Paper{}, domainerrors.ErrPaperNotFound
	}
	if !paper.IsAssignmentEligible() {
		return entities.Paper{}, domainerrors.ErrPaperIneligible
	}
	if paper.AssignmentVersion != expectedVersion {
		r.logger.Warn("stale paper version rejected",
			"event", "referee_paper_version_conflict",
			"module", "peer-review/referee-assignment-service",
			"layer", "adapter",
			"paper_id", paper.PaperID,
			"expected_version", expectedVersion,
			"current_version", paper.AssignmentVersion,
		)
		return entities.Paper{}, &domainerrors.ConflictError{
			PaperID:         paper.PaperID,
			ExpectedVersion: expectedVersion,
			CurrentVersion:  paper.AssignmentVersion,
		}
	}

	paper.AssignedRefereeEmails = append([]string{}, refereeEmails...)
	paper.AssignmentVersion++
	paper.UpdatedAt = r.now()
	if err := r.persist(ctx, paper); err != nil {
		return entities.Paper{}, err
	}
	return paper, nil
}

func (r *PaperRepository) load(ctx context.Context, paperID string) (entities.Paper, bool, error) {
	var paper entities.Paper
	found, err := readJSON(ctx, r.store, paperKey(paperID), &paper)
	if err != nil {
		return entities.Paper{}, false, fmt.Errorf("%w: read paper %s: %w", domainerrors.ErrStorageFailure, paperID, err)
	}
	if found && paper.AssignedRefereeEmails == nil {
		paper.AssignedRefereeEmails = []string{}
	}
	return paper, found, nil
}

func (r *PaperRepository) persist(ctx context.Context, paper entities.Paper) error {
	if err := writeJSON(ctx, r.store, paperKey(paper.PaperID), paper); err != nil {
		r.logger.Error("paper write failed",
			"event", "referee_paper_write_failed",
			"module", "peer-review/referee-assignment-service",
			"layer", "adapter",
			"paper_id", paper.PaperID,
			"error", err.Error(),
		)
		return fmt.Errorf("%w: write paper %s: %w", domainerrors.ErrStorageFailure, paper.PaperID, err)
	}
	return nil
}

func (r *PaperRepository) now() time.Time {
	if r.clock != nil {
		return r.clock.Now().UTC()
	}
	return time.Now().UTC()
}
