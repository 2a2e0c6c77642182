package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/tdesk-io/tdesk/internal/application/ticket/services"
	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

type AssignTicketCommand struct {
	Actor    authorization.Identity
	TicketID uint
	AgentID  uint
}

type AssignTicketResult struct {
	TicketID   uint
	AssigneeID uint
}

type AssignTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	userRepo   user.Repository
	txRunner   TransactionRunner
	audit      AuditTrail
	notifier   CommitNotifier
	logger     logger.Interface
}

func NewAssignTicketUseCase(
	ticketRepo ticket.TicketRepository,
	userRepo user.Repository,
	txRunner TransactionRunner,
	audit AuditTrail,
	notifier CommitNotifier,
	logger logger.Interface,
) *AssignTicketUseCase {
	return &AssignTicketUseCase{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		txRunner:   txRunner,
		audit:      audit,
		notifier:   notifier,
		logger:     logger,
	}
}

func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*AssignTicketResult, error) {
	uc.logger.Infow("executing assign ticket use case",
		"ticket_id", cmd.TicketID,
		"agent_id", cmd.AgentID,
		"actor", cmd.Actor.String(),
	)

	if !cmd.Actor.IsAdmin() {
		uc.logger.Warnw("ticket assignment forbidden", "ticket_id", cmd.TicketID, "actor", cmd.Actor.String())
		return nil, errors.NewForbiddenError("only administrators can assign tickets")
	}

	err := uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		agent, err := uc.userRepo.GetByID(txCtx, cmd.AgentID)
		if stderrors.Is(err, user.ErrUserNotFound) {
			return errors.NewValidationError("invalid agent")
		}
		if err != nil {
			return err
		}
		if !agent.CanWorkTickets() {
			return errors.NewValidationError("invalid agent")
		}

		t, err := uc.ticketRepo.GetByIDForUpdate(txCtx, cmd.TicketID)
		if err != nil {
			return err
		}

		if err := uc.ticketRepo.UpdateAssignee(txCtx, t.ID(), agent.ID(), time.Now().UTC()); err != nil {
			return err
		}

		actorID := cmd.Actor.UserID
		return uc.audit.Record(txCtx, services.AuditEntry{
			TicketID: t.ID(),
			ActorID:  &actorID,
			Action:   ticket.ActionAssignment,
			Details:  fmt.Sprintf("Ticket assigned to %s", agent.Name()),
		})
	})
	if err != nil {
		uc.logger.Errorw("failed to assign ticket", "ticket_id", cmd.TicketID, "agent_id", cmd.AgentID, "error", err)
		return nil, toAppError(err, "failed to assign ticket")
	}

	ev := ticket.NewEvent(ticket.EventTypeTicketAssigned, cmd.TicketID, cmd.Actor.UserID)
	agentID := cmd.AgentID
	ev.AssigneeID = &agentID
	uc.notifier.Committed(ctx, ev)

	uc.logger.Infow("ticket assigned successfully", "ticket_id", cmd.TicketID, "agent_id", cmd.AgentID)
	return &AssignTicketResult{TicketID: cmd.TicketID, AssigneeID: cmd.AgentID}, nil
}
