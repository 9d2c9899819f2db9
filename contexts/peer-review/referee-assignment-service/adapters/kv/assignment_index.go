package kvadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	domainerrors "refdesk/contexts/peer-review/referee-assignment-service/domain/errors"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/valueobjects"
	"refdesk/contexts/peer-review/referee-assignment-service/ports"
)

// AssignmentIndex keeps one record per active (paper, reviewer) pair plus a
// per-reviewer list of paper ids used for limit counting.
type AssignmentIndex struct {
	mu     sync.Mutex
	store  ports.KeyValueStore
	logger *slog.Logger
}

func NewAssignmentIndex(store ports.KeyValueStore, logger *slog.Logger) *AssignmentIndex {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssignmentIndex{store: store, logger: logger}
}

// AddAssignment records an active assignment. Pending and declined
// assignments never count against the limit and are refused.
func (i *AssignmentIndex) AddAssignment(ctx context.Context, assignment entities.ReviewerAssignment) error {
	paperID := strings.TrimSpace(assignment.PaperID)
	email := valueobjects.NormalizeEmail(assignment.ReviewerEmail)
	if paperID == "" || email == "" || !assignment.IsActive() {
		return domainerrors.ErrInvalidInput
	}
	assignment.PaperID = paperID
	assignment.ReviewerEmail = email

	i.mu.Lock()
	defer i.mu.Unlock()

	papers, err := i.reviewerPapers(ctx, email)
	if err != nil {
		return err
	}
	previous, hadPrevious, err := i.store.Read(ctx, assignmentKey(paperID, email))
	if err != nil {
		return i.lookupFailure("read assignment", err)
	}

	if err := writeJSON(ctx, i.store, assignmentKey(paperID, email), assignment); err != nil {
		return i.saveFailure("write assignment", err)
	}
	if containsString(papers, paperID) {
		return nil
	}
	if err := writeJSON(ctx, i.store, reviewerKey(email), append(papers, paperID)); err != nil {
		i.restoreAssignment(ctx, paperID, email, previous, hadPrevious)
		return i.saveFailure("write reviewer set", err)
	}
	return nil
}

// RemoveAssignments drops the listed reviewers from paperID. Reviewers with
// no entry for the paper are skipped.
func (i *AssignmentIndex) RemoveAssignments(ctx context.Context, paperID string, reviewerEmails []string) error {
	paperID = strings.TrimSpace(paperID)
	if paperID == "" {
		return domainerrors.ErrInvalidInput
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	for _, raw := range reviewerEmails {
		email := valueobjects.NormalizeEmail(raw)
		if email == "" {
			continue
		}
		papers, err := i.reviewerPapers(ctx, email)
		if err != nil {
			return err
		}
		previous, hadPrevious, err := i.store.Read(ctx, assignmentKey(paperID, email))
		if err != nil {
			return i.lookupFailure("read assignment", err)
		}
		// The record goes first: a failed list write restores it, so the
		// count never drops while HasActiveAssignment still reports true.
		if hadPrevious {
			if err := i.store.Remove(ctx, assignmentKey(paperID, email)); err != nil {
				return i.saveFailure("remove assignment", err)
			}
		}
		if !containsString(papers, paperID) {
			continue
		}
		remaining := removeString(papers, paperID)
		var writeErr error
		if len(remaining) == 0 {
			writeErr = i.store.Remove(ctx, reviewerKey(email))
		} else {
			writeErr = writeJSON(ctx, i.store, reviewerKey(email), remaining)
		}
		if writeErr != nil {
			i.restoreAssignment(ctx, paperID, email, previous, hadPrevious)
			return i.saveFailure("write reviewer set", writeErr)
		}
	}
	return nil
}

func (i *AssignmentIndex) GetActiveCountForReviewer(ctx context.Context, email string) (int, error) {
	email = valueobjects.NormalizeEmail(email)
	if email == "" {
		return 0, domainerrors.ErrInvalidInput
	}
	papers, err := i.reviewerPapers(ctx, email)
	if err != nil {
		return 0, err
	}
	return len(papers), nil
}

func (i *AssignmentIndex) HasActiveAssignment(ctx context.Context, paperID string, email string) (bool, error) {
	paperID = strings.TrimSpace(paperID)
	email = valueobjects.NormalizeEmail(email)
	if paperID == "" || email == "" {
		return false, domainerrors.ErrInvalidInput
	}
	var assignment entities.ReviewerAssignment
	found, err := readJSON(ctx, i.store, assignmentKey(paperID, email), &assignment)
	if err != nil {
		return false, i.lookupFailure("read assignment", err)
	}
	return found && assignment.IsActive(), nil
}

func (i *AssignmentIndex) reviewerPapers(ctx context.Context, email string) ([]string, error) {
	papers := []string{}
	if _, err := readJSON(ctx, i.store, reviewerKey(email), &papers); err != nil {
		return nil, i.lookupFailure("read reviewer set", err)
	}
	return papers, nil
}

func (i *AssignmentIndex) restoreAssignment(ctx context.Context, paperID, email string, previous []byte, hadPrevious bool) {
	var err error
	if hadPrevious {
		err = i.store.Write(ctx, assignmentKey(paperID, email), previous)
	} else {
		err = i.store.Remove(ctx, assignmentKey(paperID, email))
	}
	if err != nil {
		i.logger.Error("assignment record restore failed",
			"event", "referee_index_restore_failed",
			"module", "peer-review/referee-assignment-service",
			"layer", "adapter",
			"paper_id", paperID,
			"reviewer_email", email,
			"error", err.Error(),
		)
	}
}

func (i *AssignmentIndex) lookupFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domainerrors.ErrIndexLookupFailed, op, err)
}

func (i *AssignmentIndex) saveFailure(op string, err error) error {
	i.logger.Error("assignment index write failed",
		"event", "referee_index_write_failed",
		"module", "peer-review/referee-assignment-service",
		"layer", "adapter",
		"operation", op,
		"error", err.Error(),
	)
	return fmt.Errorf("%w: %s: %w", domainerrors.ErrIndexSaveFailed, op, err)
}
