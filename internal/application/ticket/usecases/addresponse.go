package usecases

import (
	"context"

	"github.com/tdesk-io/tdesk/internal/application/ticket/services"
	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
	"github.com/tdesk-io/tdesk/internal/shared/utils"
)

type AddResponseCommand struct {
	Actor       authorization.Identity
	TicketID    uint
	Text        string
	Attachments []ticket.AttachmentMetadata
}

type AddResponseResult struct {
	ResponseID uint
}

type AddResponseUseCase struct {
	ticketRepo   ticket.TicketRepository
	responseRepo ticket.ResponseRepository
	userRepo     user.Repository
	txRunner     TransactionRunner
	audit        AuditTrail
	ledger       AttachmentRecorder
	notifier     CommitNotifier
	logger       logger.Interface
}

func NewAddResponseUseCase(
	ticketRepo ticket.TicketRepository,
	responseRepo ticket.ResponseRepository,
	userRepo user.Repository,
	txRunner TransactionRunner,
	audit AuditTrail,
	ledger AttachmentRecorder,
	notifier CommitNotifier,
	logger logger.Interface,
) *AddResponseUseCase {
	return &AddResponseUseCase{
		ticketRepo:   ticketRepo,
		responseRepo: responseRepo,
		userRepo:     userRepo,
		txRunner:     txRunner,
		audit:        audit,
		ledger:       ledger,
		notifier:     notifier,
		logger:       logger,
	}
}

func (uc *AddResponseUseCase) Execute(ctx context.Context, cmd AddResponseCommand) (*AddResponseResult, error) {
	uc.logger.Infow("executing add response use case", "ticket_id", cmd.TicketID, "actor", cmd.Actor.String())

	if !cmd.Actor.IsStaff() {
		uc.logger.Warnw("response forbidden", "ticket_id", cmd.TicketID, "actor", cmd.Actor.String())
		return nil, errors.NewForbiddenError("only support staff can respond to tickets")
	}

	text := utils.SanitizeText(cmd.Text)
	if text == "" {
		return nil, errors.NewValidationError("response text is required")
	}

	var resp *ticket.Response
	err := uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetByID(txCtx, cmd.TicketID)
		if err != nil {
			return err
		}

		exists, err := uc.userRepo.Exists(txCtx, cmd.Actor.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewNotFoundError("responder not found")
		}

		resp, err = ticket.NewResponse(t.ID(), cmd.Actor.UserID, text)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.responseRepo.Create(txCtx, resp); err != nil {
			return err
		}

		if err := uc.ledger.RecordForResponse(txCtx, resp.ID, cmd.Attachments); err != nil {
			uc.logger.Warnw("response attachments not recorded",
				"ticket_id", t.ID(),
				"response_id", resp.ID,
				"error", err,
			)
		}

		if err := uc.ticketRepo.Touch(txCtx, t.ID(), resp.CreatedAt); err != nil {
			return err
		}

		actorID := cmd.Actor.UserID
		return uc.audit.Record(txCtx, services.AuditEntry{
			TicketID: t.ID(),
			ActorID:  &actorID,
			Action:   ticket.ActionResponseAdded,
			Details:  "Support response added",
		})
	})
	if err != nil {
		uc.logger.Errorw("failed to add response", "ticket_id", cmd.TicketID, "error", err)
		return nil, toAppError(err, "failed to add response")
	}

	ev := ticket.NewEvent(ticket.EventTypeResponseAdded, cmd.TicketID, cmd.Actor.UserID)
	ev.ResponseID = resp.ID
	uc.notifier.Committed(ctx, ev)

	uc.logger.Infow("response added successfully", "ticket_id", cmd.TicketID, "response_id", resp.ID)
	return &AddResponseResult{ResponseID: resp.ID}, nil
}
