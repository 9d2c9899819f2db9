package commands

import (
	"context"
	"log/slog"
	"strings"

	application "refdesk/contexts/peer-review/referee-assignment-service/application"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	domainerrors "refdesk/contexts/peer-review/referee-assignment-service/domain/errors"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/valueobjects"
	"refdesk/contexts/peer-review/referee-assignment-service/ports"
	contractsv1 "refdesk/contracts/gen/events/v1"

	"go.opentelemetry.io/otel/attribute"
)

// SendReviewRequestsCommand carries e-mails that already passed rule
// evaluation. SimulateDeliveryFailure marks every invitation undelivered.
type SendReviewRequestsCommand struct {
	PaperID                 string
	ReviewerEmails          []string
	SimulateDeliveryFailure bool
}

type SentInvitation struct {
	Assignment entities.ReviewerAssignment `json:"assignment"`
	Request    entities.ReviewRequest      `json:"request"`
}

type FailedInvitation struct {
	Email     string `json:"email"`
	Reason    string `json:"reason"`
	RequestID string `json:"request_id,omitempty"`
}

type SendResult struct {
	Sent   []SentInvitation   `json:"sent"`
	Failed []FailedInvitation `json:"failed"`
}

// SendReviewRequestsUseCase records one invitation per e-mail. Entries are
// applied independently: a failure for one address never blocks the others.
type SendReviewRequestsUseCase struct {
	Requests ports.ReviewRequestStore
	Notifier ports.InvitationNotifier
	Outbox   ports.OutboxRepository
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (u SendReviewRequestsUseCase) Execute(ctx context.Context, cmd SendReviewRequestsCommand) (result SendResult, err error) {
	logger := application.ResolveLogger(u.Logger)
	paperID := strings.TrimSpace(cmd.PaperID)
	if paperID == "" {
		return SendResult{}, domainerrors.ErrInvalidInput
	}

	ctx, span := application.StartSpan(ctx, "referee.send_review_requests",
		attribute.String("paper_id", paperID),
		attribute.Int("input_count", len(cmd.ReviewerEmails)),
	)
	defer func() { application.EndSpan(span, err) }()

	result = SendResult{
		Sent:   make([]SentInvitation, 0, len(cmd.ReviewerEmails)),
		Failed: make([]FailedInvitation, 0),
	}

	emails := make([]string, 0, len(cmd.ReviewerEmails))
	seen := make(map[string]struct{}, len(cmd.ReviewerEmails))
	for _, raw := range cmd.ReviewerEmails {
		email := valueobjects.NormalizeEmail(raw)
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			result.Failed = append(result.Failed, FailedInvitation{
				Email:  email,
				Reason: domainerrors.Reason(domainerrors.ErrDuplicateRequest),
			})
			continue
		}
		seen[email] = struct{}{}
		if _, found, err := u.Requests.GetPendingRequest(ctx, paperID, email); err != nil || found {
			if err == nil {
				err = domainerrors.ErrDuplicateRequest
			}
			result.Failed = append(result.Failed, FailedInvitation{
				Email:  email,
				Reason: domainerrors.ReasonOr(err, domainerrors.ReasonRequestFailed),
			})
			continue
		}
		emails = append(emails, email)
	}

	// Requests are recorded as undelivered before the notifier runs, so no
	// invitation goes out without a stored request behind it.
	recorded := make([]SentInvitation, 0, len(emails))
	for _, email := range emails {
		assignment, request, err := u.buildInvitation(ctx, paperID, email)
		if err == nil {
			request, err = u.Requests.AddRequest(ctx, request)
		}
		if err != nil {
			result.Failed = append(result.Failed, u.notRecorded(logger, paperID, email, "", err))
			continue
		}
		recorded = append(recorded, SentInvitation{Assignment: assignment, Request: request})
	}

	recipients := make([]string, 0, len(recorded))
	for _, item := range recorded {
		recipients = append(recipients, item.Request.ReviewerEmail)
	}
	report := u.deliver(ctx, logger, paperID, recipients, cmd.SimulateDeliveryFailure)
	events := eventRecorder{outbox: u.Outbox, idGen: u.IDGen, logger: logger}

	for _, item := range recorded {
		request := item.Request
		email := request.ReviewerEmail
		if !report.Delivered(email) {
			result.Failed = append(result.Failed, FailedInvitation{
				Email:     email,
				Reason:    domainerrors.Reason(domainerrors.ErrDeliveryFailed),
				RequestID: request.RequestID,
			})
			continue
		}
		request.Status = entities.RequestStatusSent
		request, err := u.Requests.UpdateRequest(ctx, request)
		if err != nil {
			result.Failed = append(result.Failed, u.notRecorded(logger, paperID, email, item.Request.RequestID, err))
			continue
		}
		result.Sent = append(result.Sent, SentInvitation{Assignment: item.Assignment, Request: request})
		events.record(ctx, contractsv1.EventTypeReviewRequestSent, paperID, request.SentAt, map[string]any{
			"request_id":     request.RequestID,
			"assignment_id":  request.AssignmentID,
			"paper_id":       paperID,
			"reviewer_email": email,
		})
	}

	logger.Info("review requests processed",
		"event", "referee_review_requests_sent",
		"module", application.ModuleName,
		"layer", "application",
		"paper_id", paperID,
		"sent_count", len(result.Sent),
		"failed_count", len(result.Failed),
	)
	return result, nil
}

func (u SendReviewRequestsUseCase) notRecorded(
	logger *slog.Logger,
	paperID string,
	email string,
	requestID string,
	err error,
) FailedInvitation {
	reason := domainerrors.ReasonOr(err, domainerrors.ReasonRequestFailed)
	logger.Warn("review request not recorded",
		"event", "referee_review_request_failed",
		"module", application.ModuleName,
		"layer", "application",
		"paper_id", paperID,
		"reviewer_email", email,
		"request_id", requestID,
		"reason", reason,
		"error", err.Error(),
	)
	return FailedInvitation{Email: email, Reason: reason, RequestID: requestID}
}

// buildInvitation returns a pending assignment and a request held as failed
// until the notifier confirms delivery.
func (u SendReviewRequestsUseCase) buildInvitation(
	ctx context.Context,
	paperID string,
	email string,
) (entities.ReviewerAssignment, entities.ReviewRequest, error) {
	assignmentID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.ReviewerAssignment{}, entities.ReviewRequest{}, err
	}
	requestID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.ReviewerAssignment{}, entities.ReviewRequest{}, err
	}
	assignment := entities.ReviewerAssignment{
		AssignmentID:  assignmentID,
		PaperID:       paperID,
		ReviewerEmail: email,
		Status:        entities.AssignmentStatusPending,
	}
	request := entities.ReviewRequest{
		RequestID:     requestID,
		AssignmentID:  assignmentID,
		PaperID:       paperID,
		ReviewerEmail: email,
		Status:        entities.RequestStatusFailed,
		SentAt:        nowFrom(u.Clock),
	}
	return assignment, request, nil
}

// deliver asks the notifier for a delivery outcome. Without a notifier every
// invitation counts as delivered; a notifier error marks the batch undelivered.
func (u SendReviewRequestsUseCase) deliver(
	ctx context.Context,
	logger *slog.Logger,
	paperID string,
	emails []string,
	simulateFailure bool,
) ports.DeliveryReport {
	if simulateFailure {
		return ports.DeliveryReport{OK: false}
	}
	if u.Notifier == nil || len(emails) == 0 {
		return ports.DeliveryReport{OK: true}
	}
	report, err := u.Notifier.Send(ctx, paperID, emails)
	if err != nil {
		logger.Warn("invitation delivery failed",
			"event", "referee_invitation_delivery_failed",
			"module", application.ModuleName,
			"layer", "application",
			"paper_id", paperID,
			"email_count", len(emails),
			"error", err.Error(),
		)
		return ports.DeliveryReport{OK: false}
	}
	return report
}
