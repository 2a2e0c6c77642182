package usecases

import (
	"context"
	"fmt"

	"github.com/tdesk-io/tdesk/internal/application/ticket/dto"
	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

// List views accepted by ListTicketsQuery.View.
const (
	ViewRecent = "recent"
	ViewBoard  = "board"
	ViewClosed = "closed"
)

type ListTicketsQuery struct {
	Actor authorization.Identity
	View  string
	// Limit is only honoured by the board view.
	Limit int
}

type ListTicketsUseCase struct {
	queryRepo         ticket.QueryRepository
	boardDefaultLimit int
	logger            logger.Interface
}

func NewListTicketsUseCase(queryRepo ticket.QueryRepository, boardDefaultLimit int, logger logger.Interface) *ListTicketsUseCase {
	return &ListTicketsUseCase{
		queryRepo:         queryRepo,
		boardDefaultLimit: boardDefaultLimit,
		logger:            logger,
	}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) ([]dto.TicketDTO, error) {
	q := ticket.ListQuery{}
	switch query.View {
	case ViewRecent, "":
		q.Kind = ticket.ListRecent
	case ViewBoard:
		q.Kind = ticket.ListBoard
		q.Limit = query.Limit
		if q.Limit <= 0 {
			q.Limit = uc.boardDefaultLimit
		}
	case ViewClosed:
		q.Kind = ticket.ListClosed
	default:
		return nil, errors.NewValidationError(fmt.Sprintf("unknown ticket view %q", query.View))
	}

	items, err := uc.queryRepo.List(ctx, ticket.ScopeFor(query.Actor), q)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "view", query.View, "actor", query.Actor.String(), "error", err)
		return nil, toAppError(err, "failed to list tickets")
	}
	return dto.ToTicketDTOs(items), nil
}
