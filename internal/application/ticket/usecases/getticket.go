package usecases

import (
	"context"

	"github.com/tdesk-io/tdesk/internal/application/ticket/dto"
	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

type GetTicketQuery struct {
	Actor    authorization.Identity
	TicketID uint
}

// GetTicketUseCase assembles the ticket page. Attachments, activity and
// responses come from optional tables and degrade to empty sections.
type GetTicketUseCase struct {
	queryRepo      ticket.QueryRepository
	attachmentRepo ticket.AttachmentRepository
	activityRepo   ticket.ActivityRepository
	responseRepo   ticket.ResponseRepository
	logger         logger.Interface
}

func NewGetTicketUseCase(
	queryRepo ticket.QueryRepository,
	attachmentRepo ticket.AttachmentRepository,
	activityRepo ticket.ActivityRepository,
	responseRepo ticket.ResponseRepository,
	logger logger.Interface,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		queryRepo:      queryRepo,
		attachmentRepo: attachmentRepo,
		activityRepo:   activityRepo,
		responseRepo:   responseRepo,
		logger:         logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDetailsDTO, error) {
	summary, err := uc.queryRepo.GetSummary(ctx, query.TicketID, ticket.ScopeFor(query.Actor))
	if err != nil {
		return nil, toAppError(err, "failed to get ticket")
	}

	details := ticket.Details{Ticket: *summary}

	details.Attachments, err = uc.attachmentRepo.ListForTicket(ctx, summary.ID)
	if err != nil {
		if !optional(err) {
			return nil, toAppError(err, "failed to get ticket attachments")
		}
		uc.logger.Warnw("attachment table not found", "ticket_id", summary.ID)
	}

	details.Activity, err = uc.activityRepo.ListForTicket(ctx, summary.ID, constants.DetailActivityLimit)
	if err != nil {
		if !optional(err) {
			return nil, toAppError(err, "failed to get ticket activity")
		}
		uc.logger.Warnw("activity table not found", "ticket_id", summary.ID)
	}

	details.Responses, err = uc.responses(ctx, summary.ID)
	if err != nil {
		return nil, toAppError(err, "failed to get ticket responses")
	}

	return dto.ToTicketDetailsDTO(details), nil
}

func (uc *GetTicketUseCase) responses(ctx context.Context, ticketID uint) ([]ticket.ResponseView, error) {
	views, err := uc.responseRepo.ListForTicket(ctx, ticketID)
	if err != nil {
		if optional(err) {
			uc.logger.Warnw("response table not found", "ticket_id", ticketID)
			return nil, nil
		}
		return nil, err
	}
	if len(views) == 0 {
		return views, nil
	}

	ids := make([]uint, len(views))
	for i := range views {
		ids[i] = views[i].ID
	}
	byResponse, err := uc.attachmentRepo.ListForResponses(ctx, ids)
	if err != nil {
		if !optional(err) {
			return nil, err
		}
		uc.logger.Warnw("response attachment table not found", "ticket_id", ticketID)
	}
	for i := range views {
		views[i].Attachments = byResponse[views[i].ID]
	}
	return views, nil
}
