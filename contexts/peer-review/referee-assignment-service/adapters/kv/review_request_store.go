package kvadapter

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	domainerrors "refdesk/contexts/peer-review/referee-assignment-service/domain/errors"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/valueobjects"
	"refdesk/contexts/peer-review/referee-assignment-service/ports"
)

// ReviewRequestStore persists review requests together with three lookup
// records: assignment id to request id, the pending request id per
// (paper, reviewer) pair, and the request ids of each paper.
type ReviewRequestStore struct {
	mu     sync.Mutex
	store  ports.KeyValueStore
	logger *slog.Logger
}

func NewReviewRequestStore(store ports.KeyValueStore, logger *slog.Logger) *ReviewRequestStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewRequestStore{store: store, logger: logger}
}

func (s *ReviewRequestStore) AddRequest(ctx context.Context, request entities.ReviewRequest) (entities.ReviewRequest, error) {
	request.RequestID = strings.TrimSpace(request.RequestID)
	request.AssignmentID = strings.TrimSpace(request.AssignmentID)
	request.PaperID = strings.TrimSpace(request.PaperID)
	request.ReviewerEmail = valueobjects.NormalizeEmail(request.ReviewerEmail)
	if request.RequestID == "" || request.AssignmentID == "" || request.PaperID == "" || request.ReviewerEmail == "" {
		return entities.ReviewRequest{}, domainerrors.ErrInvalidInput
	}
	request.SentAt = request.SentAt.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found, err := s.store.Read(ctx, requestKey(request.RequestID)); err != nil {
		return entities.ReviewRequest{}, storageFailure("read request", err)
	} else if found {
		return entities.ReviewRequest{}, domainerrors.ErrDuplicateRequest
	}
	if _, found, err := readString(ctx, s.store, requestAssignmentKey(request.AssignmentID)); err != nil {
		return entities.ReviewRequest{}, storageFailure("read assignment request", err)
	} else if found {
		return entities.ReviewRequest{}, domainerrors.ErrDuplicateRequest
	}
	if request.IsPending() {
		if _, found, err := s.pending(ctx, request.PaperID, request.ReviewerEmail); err != nil {
			return entities.ReviewRequest{}, err
		} else if found {
			return entities.ReviewRequest{}, domainerrors.ErrDuplicateRequest
		}
	}

	paperRequests, err := s.paperRequestIDs(ctx, request.PaperID)
	if err != nil {
		return entities.ReviewRequest{}, err
	}

	written := make([]string, 0, 4)
	write := func(key string, value []byte) error {
		if err := s.store.Write(ctx, key, value); err != nil {
			return err
		}
		written = append(written, key)
		return nil
	}
	undo := func(cause error) error {
		for idx := len(written) - 1; idx >= 0; idx-- {
			if err := s.store.Remove(ctx, written[idx]); err != nil {
				s.logger.Error("review request rollback failed",
					"event", "referee_request_rollback_failed",
					"module", "peer-review/referee-assignment-service",
					"layer", "adapter",
					"request_id", request.RequestID,
					"key", written[idx],
					"error", err.Error(),
				)
			}
		}
		return storageFailure("write request", cause)
	}

	if err := writeJSON(ctx, s.store, requestKey(request.RequestID), request); err != nil {
		return entities.ReviewRequest{}, storageFailure("write request", err)
	}
	written = append(written, requestKey(request.RequestID))
	if err := write(requestAssignmentKey(request.AssignmentID), []byte(request.RequestID)); err != nil {
		return entities.ReviewRequest{}, undo(err)
	}
	if request.IsPending() {
		if err := write(pendingRequestKey(request.PaperID, request.ReviewerEmail), []byte(request.RequestID)); err != nil {
			return entities.ReviewRequest{}, undo(err)
		}
	}
	// The paper list is written last and never removed on undo, so a failure
	// here leaves every earlier record cleaned up and the list untouched.
	if err := writeJSON(ctx, s.store, paperRequestsKey(request.PaperID), append(paperRequests, request.RequestID)); err != nil {
		return entities.ReviewRequest{}, undo(err)
	}
	return request, nil
}

func (s *ReviewRequestStore) GetRequest(ctx context.Context, requestID string) (entities.ReviewRequest, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return entities.ReviewRequest{}, domainerrors.ErrInvalidInput
	}
	var request entities.ReviewRequest
	found, err := readJSON(ctx, s.store, requestKey(requestID), &request)
	if err != nil {
		return entities.ReviewRequest{}, storageFailure("read request", err)
	}
	if !found {
		return entities.ReviewRequest{}, domainerrors.ErrRequestNotFound
	}
	return request, nil
}

// GetPendingRequest returns the unresolved request for the pair, if any.
func (s *ReviewRequestStore) GetPendingRequest(ctx context.Context, paperID string, email string) (entities.ReviewRequest, bool, error) {
	paperID = strings.TrimSpace(paperID)
	email = valueobjects.NormalizeEmail(email)
	if paperID == "" || email == "" {
		return entities.ReviewRequest{}, false, domainerrors.ErrInvalidInput
	}
	return s.pending(ctx, paperID, email)
}

// UpdateRequest replaces a stored request. Identity fields are kept from the
// stored copy; only status, decision and response time change.
func (s *ReviewRequestStore) UpdateRequest(ctx context.Context, request entities.ReviewRequest) (entities.ReviewRequest, error) {
	requestID := strings.TrimSpace(request.RequestID)
	if requestID == "" {
		return entities.ReviewRequest{}, domainerrors.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var stored entities.ReviewRequest
	found, err := readJSON(ctx, s.store, requestKey(requestID), &stored)
	if err != nil {
		return entities.ReviewRequest{}, storageFailure("read request", err)
	}
	if !found {
		return entities.ReviewRequest{}, domainerrors.ErrRequestNotFound
	}

	stored.Status = request.Status
	if stored.Status == "" {
		stored.Status = entities.RequestStatusSent
	}
	stored.Decision = request.Decision
	stored.RespondedAt = nil
	if request.RespondedAt != nil {
		at := request.RespondedAt.UTC()
		stored.RespondedAt = &at
	}

	if err := writeJSON(ctx, s.store, requestKey(requestID), stored); err != nil {
		return entities.ReviewRequest{}, storageFailure("write request", err)
	}
	if !stored.IsPending() {
		key := pendingRequestKey(stored.PaperID, stored.ReviewerEmail)
		if current, ok, err := readString(ctx, s.store, key); err == nil && ok && current == requestID {
			if err := s.store.Remove(ctx, key); err != nil {
				// GetPendingRequest ignores pointers to resolved requests.
				s.logger.Warn("pending pointer not cleared",
					"event", "referee_request_pending_cleanup_failed",
					"module", "peer-review/referee-assignment-service",
					"layer", "adapter",
					"request_id", requestID,
					"error", err.Error(),
				)
			}
		}
	}
	return stored, nil
}

func (s *ReviewRequestStore) ListRequestsForPaper(ctx context.Context, paperID string) ([]entities.ReviewRequest, error) {
	paperID = strings.TrimSpace(paperID)
	if paperID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	ids, err := s.paperRequestIDs(ctx, paperID)
	if err != nil {
		return nil, err
	}
	items := make([]entities.ReviewRequest, 0, len(ids))
	for _, id := range ids {
		var request entities.ReviewRequest
		found, err := readJSON(ctx, s.store, requestKey(id), &request)
		if err != nil {
			return nil, storageFailure("read request", err)
		}
		if found {
			items = append(items, request)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SentAt.Before(items[j].SentAt)
	})
	return items, nil
}

func (s *ReviewRequestStore) pending(ctx context.Context, paperID, email string) (entities.ReviewRequest, bool, error) {
	requestID, found, err := readString(ctx, s.store, pendingRequestKey(paperID, email))
	if err != nil {
		return entities.ReviewRequest{}, false, storageFailure("read pending request", err)
	}
	if !found {
		return entities.ReviewRequest{}, false, nil
	}
	var request entities.ReviewRequest
	found, err = readJSON(ctx, s.store, requestKey(requestID), &request)
	if err != nil {
		return entities.ReviewRequest{}, false, storageFailure("read request", err)
	}
	if !found || !request.IsPending() {
		return entities.ReviewRequest{}, false, nil
	}
	return request, true, nil
}

func (s *ReviewRequestStore) paperRequestIDs(ctx context.Context, paperID string) ([]string, error) {
	ids := []string{}
	if _, err := readJSON(ctx, s.store, paperRequestsKey(paperID), &ids); err != nil {
		return nil, storageFailure("read paper requests", err)
	}
	return ids, nil
}

func storageFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domainerrors.ErrStorageFailure, op, err)
}
