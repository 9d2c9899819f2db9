package queries

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "refdesk/contexts/peer-review/referee-assignment-service/application"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	domainerrors "refdesk/contexts/peer-review/referee-assignment-service/domain/errors"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/valueobjects"
	"refdesk/contexts/peer-review/referee-assignment-service/ports"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultAssignmentLimit is the per-reviewer cap on active assignments.
const DefaultAssignmentLimit = 5

type EvaluateCandidatesQuery struct {
	PaperID        string
	ReviewerEmails []string
	// Limit overrides the use case default when positive.
	Limit int
}

type EvaluationResult struct {
	Candidates []string             `json:"candidates"`
	Violations []entities.Violation `json:"violations"`
}

// EvaluateCandidatesUseCase screens reviewer e-mails against assignment policy.
type EvaluateCandidatesUseCase struct {
	Validator    ports.EmailValidator
	Index        ports.AssignmentIndex
	DefaultLimit int
	Logger       *slog.Logger
}

// Execute classifies every non-blank e-mail as a candidate or a violation.
// Index failures abort the whole call with ErrEvaluationFailed.
func (u EvaluateCandidatesUseCase) Execute(ctx context.Context, query EvaluateCandidatesQuery) (result EvaluationResult, err error) {
	logger := application.ResolveLogger(u.Logger)
	paperID := strings.TrimSpace(query.PaperID)
	if paperID == "" {
		return EvaluationResult{}, domainerrors.ErrInvalidInput
	}
	limit := u.limit(query.Limit)

	ctx, span := application.StartSpan(ctx, "referee.evaluate_candidates",
		attribute.String("paper_id", paperID),
		attribute.Int("input_count", len(query.ReviewerEmails)),
	)
	defer func() { application.EndSpan(span, err) }()

	result = EvaluationResult{
		Candidates: make([]string, 0, len(query.ReviewerEmails)),
		Violations: make([]entities.Violation, 0),
	}
	seen := make(map[string]struct{}, len(query.ReviewerEmails))

	for _, raw := range query.ReviewerEmails {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		email := valueobjects.NormalizeEmail(raw)
		if !u.Validator.IsEmailValid(email) {
			result.Violations = append(result.Violations, entities.Violation{
				ReviewerEmail: email,
				Rule:          entities.RuleInvalidEmail,
				Message:       fmt.Sprintf("%q is not a valid e-mail address", strings.TrimSpace(raw)),
			})
			continue
		}
		if _, dup := seen[email]; dup {
			result.Violations = append(result.Violations, entities.Violation{
				ReviewerEmail: email,
				Rule:          entities.RuleDuplicateEntry,
				Message:       "reviewer is listed more than once",
			})
			continue
		}
		seen[email] = struct{}{}

		assigned, err := u.Index.HasActiveAssignment(ctx, paperID, email)
		if err != nil {
			return EvaluationResult{}, u.fail(logger, paperID, email, err)
		}
		if assigned {
			result.Violations = append(result.Violations, entities.Violation{
				ReviewerEmail: email,
				Rule:          entities.RuleDuplicateAssignment,
				Message:       "reviewer is already assigned to this paper",
			})
			continue
		}

		count, err := u.Index.GetActiveCountForReviewer(ctx, email)
		if err != nil {
			return EvaluationResult{}, u.fail(logger, paperID, email, err)
		}
		if count < 0 {
			return EvaluationResult{}, u.fail(logger, paperID, email,
				fmt.Errorf("negative active count %d", count))
		}
		if count >= limit {
			result.Violations = append(result.Violations, entities.Violation{
				ReviewerEmail: email,
				Rule:          entities.RuleLimitReached,
				Message:       fmt.Sprintf("reviewer already has %d active assignments (limit %d)", count, limit),
			})
			continue
		}
		result.Candidates = append(result.Candidates, email)
	}

	logger.Debug("candidate evaluation completed",
		"event", "referee_candidates_evaluated",
		"module", application.ModuleName,
		"layer", "application",
		"paper_id", paperID,
		"candidate_count", len(result.Candidates),
		"violation_count", len(result.Violations),
	)
	return result, nil
}

func (u EvaluateCandidatesUseCase) fail(logger *slog.Logger, paperID string, email string, cause error) error {
	logger.Error("candidate evaluation failed",
		"event", "referee_candidates_evaluation_failed",
		"module", application.ModuleName,
		"layer", "application",
		"paper_id", paperID,
		"reviewer_email", email,
		"error", cause.Error(),
	)
	return fmt.Errorf("%w: %w", domainerrors.ErrEvaluationFailed, cause)
}

func (u EvaluateCandidatesUseCase) limit(override int) int {
	if override > 0 {
		return override
	}
	if u.DefaultLimit > 0 {
		return u.DefaultLimit
	}
	return DefaultAssignmentLimit
}
