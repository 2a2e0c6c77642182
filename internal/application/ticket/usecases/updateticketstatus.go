package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/tdesk-io/tdesk/internal/application/ticket/services"
	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

type UpdateTicketStatusCommand struct {
	Actor    authorization.Identity
	TicketID uint
	Status   string
	Note     string
}

type UpdateTicketStatusResult struct {
	TicketID  uint
	OldStatus vo.TicketStatus
	NewStatus vo.TicketStatus
	// Changed is false when the ticket already had the requested status.
	Changed bool
}

type UpdateTicketStatusUseCase struct {
	ticketRepo ticket.TicketRepository
	txRunner   TransactionRunner
	audit      AuditTrail
	notifier   CommitNotifier
	// requireVisible limits status changes to tickets inside the actor's scope.
	requireVisible bool
	logger         logger.Interface
}

func NewUpdateTicketStatusUseCase(
	ticketRepo ticket.TicketRepository,
	txRunner TransactionRunner,
	audit AuditTrail,
	notifier CommitNotifier,
	requireVisible bool,
	logger logger.Interface,
) *UpdateTicketStatusUseCase {
	return &UpdateTicketStatusUseCase{
		ticketRepo:     ticketRepo,
		txRunner:       txRunner,
		audit:          audit,
		notifier:       notifier,
		requireVisible: requireVisible,
		logger:         logger,
	}
}

func (uc *UpdateTicketStatusUseCase) Execute(ctx context.Context, cmd UpdateTicketStatusCommand) (*UpdateTicketStatusResult, error) {
	uc.logger.Infow("executing update ticket status use case",
		"ticket_id", cmd.TicketID,
		"actor", cmd.Actor.String(),
		"status", cmd.Status,
	)

	if !ticket.CanChangeStatus(cmd.Actor.Role) {
		uc.logger.Warnw("status change forbidden", "ticket_id", cmd.TicketID, "actor", cmd.Actor.String())
		return nil, errors.NewForbiddenError(ticket.ErrStatusChangeForbidden.Error())
	}
	if _, err := vo.ParseTicketStatus(cmd.Status); err != nil {
		return nil, errors.NewValidationError("invalid status", cmd.Status)
	}

	var plan ticket.Transition
	err := uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetByIDForUpdate(txCtx, cmd.TicketID)
		if err != nil {
			return err
		}
		if uc.requireVisible && !ticket.ScopeFor(cmd.Actor).Permits(t) {
			return errors.NewNotFoundError(constants.ErrMsgTicketNotFound)
		}

		plan, err = ticket.PlanTransition(cmd.Actor, t.Status(), cmd.Status, cmd.Note)
		if err != nil {
			return err
		}
		if plan.NoOp {
			return nil
		}

		if err := uc.ticketRepo.UpdateStatus(txCtx, t.ID(), plan.To, time.Now().UTC()); err != nil {
			return err
		}

		actorID := cmd.Actor.UserID
		return uc.audit.Record(txCtx, services.AuditEntry{
			TicketID:   t.ID(),
			ActorID:    &actorID,
			Action:     ticket.ActionStatusUpdate,
			FromStatus: plan.From,
			ToStatus:   plan.To,
			Details:    plan.Note,
		})
	})
	if err != nil {
		switch {
		case stderrors.Is(err, ticket.ErrStatusChangeForbidden):
			return nil, errors.NewForbiddenError(err.Error())
		case stderrors.Is(err, ticket.ErrInvalidStatus):
			return nil, errors.NewValidationError("invalid status", cmd.Status)
		}
		uc.logger.Errorw("failed to update ticket status", "ticket_id", cmd.TicketID, "error", err)
		return nil, toAppError(err, "failed to update ticket status")
	}

	result := &UpdateTicketStatusResult{
		TicketID:  cmd.TicketID,
		OldStatus: plan.From,
		NewStatus: plan.To,
		Changed:   !plan.NoOp,
	}
	if plan.NoOp {
		uc.logger.Infow("ticket already has requested status", "ticket_id", cmd.TicketID, "status", plan.To)
		return result, nil
	}

	ev := ticket.NewEvent(ticket.EventTypeTicketStatusChanged, cmd.TicketID, cmd.Actor.UserID)
	ev.FromStatus, ev.ToStatus = plan.From, plan.To
	uc.notifier.Committed(ctx, ev)

	uc.logger.Infow("ticket status changed successfully",
		"ticket_id", cmd.TicketID,
		"old_status", plan.From,
		"new_status", plan.To,
	)
	return result, nil
}
