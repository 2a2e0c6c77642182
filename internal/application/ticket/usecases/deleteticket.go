package usecases

import (
	"context"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

type DeleteTicketCommand struct {
	Actor    authorization.Identity
	TicketID uint
}

type DeleteTicketUseCase struct {
	ticketRepo     ticket.TicketRepository
	attachmentRepo ticket.AttachmentRepository
	txRunner       TransactionRunner
	files          FileRemover
	notifier       CommitNotifier
	logger         logger.Interface
}

func NewDeleteTicketUseCase(
	ticketRepo ticket.TicketRepository,
	attachmentRepo ticket.AttachmentRepository,
	txRunner TransactionRunner,
	files FileRemover,
	notifier CommitNotifier,
	logger logger.Interface,
) *DeleteTicketUseCase {
	return &DeleteTicketUseCase{
		ticketRepo:     ticketRepo,
		attachmentRepo: attachmentRepo,
		txRunner:       txRunner,
		files:          files,
		notifier:       notifier,
		logger:         logger,
	}
}

func (uc *DeleteTicketUseCase) Execute(ctx context.Context, cmd DeleteTicketCommand) error {
	uc.logger.Infow("executing delete ticket use case", "ticket_id", cmd.TicketID, "actor", cmd.Actor.String())

	err := uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetVisible(txCtx, cmd.TicketID, ticket.ScopeFor(cmd.Actor))
		if err != nil {
			return err
		}
		if !canDelete(cmd.Actor, t) {
			uc.logger.Warnw("ticket delete forbidden", "ticket_id", cmd.TicketID, "actor", cmd.Actor.String())
			return errors.NewForbiddenError("you are not allowed to delete this ticket")
		}

		paths, err := uc.attachmentRepo.FilePathsForTicket(txCtx, t.ID())
		if err != nil {
			if !optional(err) {
				return err
			}
			uc.logger.Warnw("attachment table not found, no files to remove", "ticket_id", t.ID())
		}
		if failed := uc.files.RemoveAll(paths); failed > 0 {
			uc.logger.Warnw("some attachment files were not removed",
				"ticket_id", t.ID(),
				"failed", failed,
				"total", len(paths),
			)
		}

		return uc.ticketRepo.Delete(txCtx, t.ID())
	})
	if err != nil {
		uc.logger.Errorw("failed to delete ticket", "ticket_id", cmd.TicketID, "error", err)
		return toAppError(err, "failed to delete ticket")
	}

	uc.notifier.Committed(ctx, ticket.NewEvent(ticket.EventTypeTicketDeleted, cmd.TicketID, cmd.Actor.UserID))
	uc.logger.Infow("ticket deleted successfully", "ticket_id", cmd.TicketID)
	return nil
}

// canDelete allows admins and clients deleting their own tickets.
func canDelete(actor authorization.Identity, t *ticket.Ticket) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Role == authorization.RoleClient && t.IsOwnedBy(actor.UserID)
}
