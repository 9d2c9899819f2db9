package queries

import (
	"context"
	"log/slog"
	"strings"

	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	domainerrors "refdesk/contexts/peer-review/referee-assignment-service/domain/errors"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/valueobjects"
	"refdesk/contexts/peer-review/referee-assignment-service/ports"
)

// QueryUseCase serves read-only lookups for the HTTP surface.
type QueryUseCase struct {
	Papers   ports.PaperRepository
	Index    ports.AssignmentIndex
	Requests ports.ReviewRequestStore
	Logger   *slog.Logger
}

func (u QueryUseCase) GetPaper(ctx context.Context, paperID string) (entities.Paper, error) {
	paperID = strings.TrimSpace(paperID)
	if paperID == "" {
		return entities.Paper{}, domainerrors.ErrInvalidInput
	}
	return u.Papers.GetPaper(ctx, paperID)
}

func (u QueryUseCase) GetActiveCountForReviewer(ctx context.Context, email string) (int, error) {
	normalized := valueobjects.NormalizeEmail(email)
	if normalized == "" {
		return 0, domainerrors.ErrInvalidInput
	}
	return u.Index.GetActiveCountForReviewer(ctx, normalized)
}

func (u QueryUseCase) GetReviewRequest(ctx context.Context, requestID string) (entities.ReviewRequest, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return entities.ReviewRequest{}, domainerrors.ErrInvalidInput
	}
	return u.Requests.GetRequest(ctx, requestID)
}

func (u QueryUseCase) ListReviewRequests(ctx context.Context, paperID string) ([]entities.ReviewRequest, error) {
	paperID = strings.TrimSpace(paperID)
	if paperID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return u.Requests.ListRequestsForPaper(ctx, paperID)
}
