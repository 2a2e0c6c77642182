package usecases

import (
	"context"

	"github.com/tdesk-io/tdesk/internal/application/ticket/services"
	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
	"github.com/tdesk-io/tdesk/internal/shared/utils"
)

type CreateTicketCommand struct {
	Actor       authorization.Identity
	Title       string
	Category    string
	Priority    string
	Description string
	Attachments []ticket.AttachmentMetadata
}

type CreateTicketResult struct {
	TicketID uint
}

type CreateTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	userRepo   user.Repository
	txRunner   TransactionRunner
	audit      AuditTrail
	ledger     AttachmentRecorder
	notifier   CommitNotifier
	logger     logger.Interface
}

func NewCreateTicketUseCase(
	ticketRepo ticket.TicketRepository,
	userRepo user.Repository,
	txRunner TransactionRunner,
	audit AuditTrail,
	ledger AttachmentRecorder,
	notifier CommitNotifier,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		txRunner:   txRunner,
		audit:      audit,
		ledger:     ledger,
		notifier:   notifier,
		logger:     logger,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error) {
	uc.logger.Infow("executing create ticket use case", "actor", cmd.Actor.String())

	priority, err := vo.ParsePriorityOrDefault(cmd.Priority)
	if err != nil {
		return nil, errors.NewValidationError("invalid priority", cmd.Priority)
	}

	t, err := ticket.NewTicket(
		cmd.Actor.UserID,
		utils.SanitizeText(cmd.Title),
		utils.SanitizeText(cmd.Category),
		utils.SanitizeText(cmd.Description),
		priority,
	)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	ownerID := cmd.Actor.UserID
	err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		exists, err := uc.userRepo.Exists(txCtx, ownerID)
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewNotFoundError("user not found")
		}

		if err := uc.ticketRepo.Create(txCtx, t); err != nil {
			return err
		}

		if err := uc.audit.Record(txCtx, services.AuditEntry{
			TicketID: t.ID(),
			ActorID:  &ownerID,
			Action:   ticket.ActionCreated,
			ToStatus: vo.StatusOpen,
			Details:  "Ticket created",
		}); err != nil {
			return err
		}

		if err := uc.ledger.RecordForTicket(txCtx, t.ID(), cmd.Attachments); err != nil {
			uc.logger.Warnw("ticket attachments not recorded",
				"ticket_id", t.ID(),
				"count", len(cmd.Attachments),
				"error", err,
			)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to create ticket", "actor", cmd.Actor.String(), "error", err)
		return nil, toAppError(err, "failed to create ticket")
	}

	uc.notifier.Committed(ctx, ticket.NewEvent(ticket.EventTypeTicketCreated, t.ID(), ownerID))
	uc.logger.Infow("ticket created successfully", "ticket_id", t.ID(), "owner_id", ownerID)

	return &CreateTicketResult{TicketID: t.ID()}, nil
}
