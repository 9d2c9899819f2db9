package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"refdesk/contexts/peer-review/referee-assignment-service/application/commands"
	"refdesk/contexts/peer-review/referee-assignment-service/application/queries"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	domainerrors "refdesk/contexts/peer-review/referee-assignment-service/domain/errors"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/services"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/valueobjects"
	httptransport "refdesk/contexts/peer-review/referee-assignment-service/transport/http"
)

type Handler struct {
	RegisterPaper      commands.RegisterPaperUseCase
	UpdatePaperStatus  commands.UpdatePaperStatusUseCase
	SaveAssignments    commands.SaveAssignmentsUseCase
	EvaluateCandidates queries.EvaluateCandidatesUseCase
	SendReviewRequests commands.SendReviewRequestsUseCase
	RespondToRequest   commands.RespondToRequestUseCase
	Queries            queries.QueryUseCase
	Logger             *slog.Logger
}

func (h Handler) RegisterPaperHandler(ctx context.Context, req httptransport.RegisterPaperRequest) (httptransport.PaperResponse, error) {
	paper, err := h.RegisterPaper.Execute(ctx, commands.RegisterPaperCommand{
		PaperID: req.PaperID,
		Title:   req.Title,
		Status:  entities.PaperStatus(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		return httptransport.PaperResponse{}, err
	}
	return httptransport.PaperResponse{Paper: mapPaper(paper)}, nil
}

func (h Handler) GetPaperHandler(ctx context.Context, paperID string) (httptransport.PaperResponse, error) {
	paper, err := h.Queries.GetPaper(ctx, paperID)
	if err != nil {
		return httptransport.PaperResponse{}, err
	}
	return httptransport.PaperResponse{Paper: mapPaper(paper)}, nil
}

func (h Handler) UpdatePaperStatusHandler(
	ctx context.Context,
	paperID string,
	req httptransport.UpdatePaperStatusRequest,
) (httptransport.PaperResponse, error) {
	paper, err := h.UpdatePaperStatus.Execute(ctx, commands.UpdatePaperStatusCommand{
		PaperID:         paperID,
		Status:          entities.PaperStatus(strings.TrimSpace(req.Status)),
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return httptransport.PaperResponse{}, err
	}
	return httptransport.PaperResponse{Paper: mapPaper(paper)}, nil
}

func (h Handler) SaveAssignmentsHandler(
	ctx context.Context,
	paperID string,
	req httptransport.SaveAssignmentsRequest,
) (httptransport.PaperResponse, error) {
	paper, err := h.SaveAssignments.Execute(ctx, commands.SaveAssignmentsCommand{
		PaperID:         paperID,
		RefereeEmails:   append([]string(nil), req.RefereeEmails...),
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return httptransport.PaperResponse{}, err
	}
	return httptransport.PaperResponse{Paper: mapPaper(paper)}, nil
}

func (h Handler) EvaluateCandidatesHandler(
	ctx context.Context,
	paperID string,
	req httptransport.EvaluateCandidatesRequest,
) (httptransport.EvaluateCandidatesResponse, error) {
	result, err := h.EvaluateCandidates.Execute(ctx, queries.EvaluateCandidatesQuery{
		PaperID:        paperID,
		ReviewerEmails: append([]string(nil), req.ReviewerEmails...),
	})
	if err != nil {
		return httptransport.EvaluateCandidatesResponse{}, err
	}

	violations := make([]httptransport.ViolationDTO, 0, len(result.Violations))
	for _, item := range result.Violations {
		violations = append(violations, mapViolation(item))
	}
	groups := services.AggregateViolations(result.Violations)
	grouped := make([]httptransport.ViolationGroupDTO, 0, len(groups))
	for _, group := range groups {
		entries := make([]httptransport.ViolationDTO, 0, len(group.Entries))
		for _, item := range group.Entries {
			entries = append(entries, mapViolation(item))
		}
		grouped = append(grouped, httptransport.ViolationGroupDTO{Email: group.Email, Entries: entries})
	}
	return httptransport.EvaluateCandidatesResponse{
		Candidates: append([]string{}, result.Candidates...),
		Violations: violations,
		Grouped:    grouped,
	}, nil
}

func (h Handler) SendReviewRequestsHandler(
	ctx context.Context,
	paperID string,
	req httptransport.SendReviewRequestsRequest,
) (httptransport.SendReviewRequestsResponse, error) {
	result, err := h.SendReviewRequests.Execute(ctx, commands.SendReviewRequestsCommand{
		PaperID:                 paperID,
		ReviewerEmails:          append([]string(nil), req.ReviewerEmails...),
		SimulateDeliveryFailure: req.SimulateDeliveryFailure,
	})
	if err != nil {
		return httptransport.SendReviewRequestsResponse{}, err
	}

	response := httptransport.SendReviewRequestsResponse{
		Sent:   make([]httptransport.SentInvitationDTO, 0, len(result.Sent)),
		Failed: make([]httptransport.FailedInvitationDTO, 0, len(result.Failed)),
	}
	for _, item := range result.Sent {
		response.Sent = append(response.Sent, httptransport.SentInvitationDTO{
			Assignment: mapAssignment(item.Assignment),
			Request:    mapRequest(item.Request),
		})
	}
	for _, item := range result.Failed {
		response.Failed = append(response.Failed, httptransport.FailedInvitationDTO{
			Email:     item.Email,
			Reason:    item.Reason,
			RequestID: item.RequestID,
		})
	}
	return response, nil
}

func (h Handler) ListReviewRequestsHandler(ctx context.Context, paperID string) (httptransport.ListReviewRequestsResponse, error) {
	if _, err := h.Queries.GetPaper(ctx, paperID); err != nil {
		return httptransport.ListReviewRequestsResponse{}, err
	}
	items, err := h.Queries.ListReviewRequests(ctx, paperID)
	if err != nil {
		return httptransport.ListReviewRequestsResponse{}, err
	}
	result := make([]httptransport.ReviewRequestDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapRequest(item))
	}
	return httptransport.ListReviewRequestsResponse{Items: result}, nil
}

func (h Handler) RespondToRequestHandler(
	ctx context.Context,
	requestID string,
	req httptransport.RespondToRequestRequest,
) (httptransport.RespondToRequestResponse, error) {
	decision := entities.Decision(strings.ToLower(strings.TrimSpace(req.Decision)))
	if decision == "" {
		return httptransport.RespondToRequestResponse{}, domainerrors.ErrInvalidDecision
	}
	result, err := h.RespondToRequest.Execute(ctx, commands.RespondToRequestCommand{
		RequestID: requestID,
		Decision:  decision,
	})
	if err != nil {
		return httptransport.RespondToRequestResponse{}, err
	}
	response := httptransport.RespondToRequestResponse{Request: mapRequest(result.Request)}
	if result.Assignment != nil {
		assignment := mapAssignment(*result.Assignment)
		response.Assignment = &assignment
	}
	return response, nil
}

func (h Handler) ActiveCountHandler(ctx context.Context, email string) (httptransport.ActiveCountResponse, error) {
	count, err := h.Queries.GetActiveCountForReviewer(ctx, email)
	if err != nil {
		return httptransport.ActiveCountResponse{}, err
	}
	return httptransport.ActiveCountResponse{
		ReviewerEmail: valueobjects.NormalizeEmail(email),
		ActiveCount:   count,
	}, nil
}

func mapPaper(item entities.Paper) httptransport.PaperDTO {
	return httptransport.PaperDTO{
		PaperID:               item.PaperID,
		Title:                 item.Title,
		Status:                string(item.Status),
		AssignedRefereeEmails: append([]string{}, item.AssignedRefereeEmails...),
		AssignmentVersion:     item.AssignmentVersion,
		CreatedAt:             formatTime(item.CreatedAt),
		UpdatedAt:             formatTime(item.UpdatedAt),
	}
}

func mapViolation(item entities.Violation) httptransport.ViolationDTO {
	return httptransport.ViolationDTO{
		ReviewerEmail: item.ReviewerEmail,
		Rule:          string(item.Rule),
		Message:       item.Message,
	}
}

func mapAssignment(item entities.ReviewerAssignment) httptransport.AssignmentDTO {
	return httptransport.AssignmentDTO{
		AssignmentID:  item.AssignmentID,
		PaperID:       item.PaperID,
		ReviewerEmail: item.ReviewerEmail,
		Status:        string(item.Status),
		AcceptedAt:    formatOptionalTime(item.AcceptedAt),
	}
}

func mapRequest(item entities.ReviewRequest) httptransport.ReviewRequestDTO {
	return httptransport.ReviewRequestDTO{
		RequestID:     item.RequestID,
		AssignmentID:  item.AssignmentID,
		PaperID:       item.PaperID,
		ReviewerEmail: item.ReviewerEmail,
		Status:        string(item.Status),
		Decision:      string(item.Decision),
		SentAt:        formatTime(item.SentAt),
		RespondedAt:   formatOptionalTime(item.RespondedAt),
	}
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

func formatOptionalTime(value *time.Time) string {
	if value == nil {
		return ""
	}
	return formatTime(*value)
}
