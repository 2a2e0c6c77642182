package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/tdesk-io/tdesk/internal/application/ticket/services"
	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
	"github.com/tdesk-io/tdesk/internal/shared/utils"
)

// UpdateTicketCommand edits ticket fields. Nil fields are left unchanged.
type UpdateTicketCommand struct {
	Actor       authorization.Identity
	TicketID    uint
	Title       *string
	Category    *string
	Priority    *string
	Description *string
}

type UpdateTicketResult struct {
	TicketID      uint
	UpdatedFields []string
}

type UpdateTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	txRunner   TransactionRunner
	audit      AuditTrail
	notifier   CommitNotifier
	logger     logger.Interface
}

func NewUpdateTicketUseCase(
	ticketRepo ticket.TicketRepository,
	txRunner TransactionRunner,
	audit AuditTrail,
	notifier CommitNotifier,
	logger logger.Interface,
) *UpdateTicketUseCase {
	return &UpdateTicketUseCase{
		ticketRepo: ticketRepo,
		txRunner:   txRunner,
		audit:      audit,
		notifier:   notifier,
		logger:     logger,
	}
}

func (uc *UpdateTicketUseCase) Execute(ctx context.Context, cmd UpdateTicketCommand) (*UpdateTicketResult, error) {
	uc.logger.Infow("executing update ticket use case", "ticket_id", cmd.TicketID, "actor", cmd.Actor.String())

	edit := ticket.Edit{
		Title:       sanitized(cmd.Title),
		Category:    sanitized(cmd.Category),
		Priority:    cmd.Priority,
		Description: sanitized(cmd.Description),
	}
	if edit.IsEmpty() {
		return nil, errors.NewValidationError(ticket.ErrNoFieldsToUpdate.Error())
	}

	var changed []string
	err := uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetVisible(txCtx, cmd.TicketID, ticket.ScopeFor(cmd.Actor))
		if err != nil {
			return err
		}
		if !canEdit(cmd.Actor, t) {
			uc.logger.Warnw("ticket edit forbidden", "ticket_id", cmd.TicketID, "actor", cmd.Actor.String())
			return errors.NewForbiddenError("you are not allowed to edit this ticket")
		}

		changed, err = t.ApplyEdit(edit, time.Now().UTC())
		if err != nil {
			if stderrors.Is(err, ticket.ErrInvalidPriority) {
				return errors.NewValidationError("invalid priority", *cmd.Priority)
			}
			return errors.NewValidationError(err.Error())
		}

		if err := uc.ticketRepo.UpdateFields(txCtx, t, changed); err != nil {
			return err
		}

		actorID := cmd.Actor.UserID
		return uc.audit.Record(txCtx, services.AuditEntry{
			TicketID: t.ID(),
			ActorID:  &actorID,
			Action:   ticket.ActionUpdated,
			Details:  fmt.Sprintf("Ticket updated: %s", strings.Join(changed, ", ")),
		})
	})
	if err != nil {
		uc.logger.Errorw("failed to update ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, toAppError(err, "failed to update ticket")
	}

	ev := ticket.NewEvent(ticket.EventTypeTicketUpdated, cmd.TicketID, cmd.Actor.UserID)
	ev.Fields = changed
	uc.notifier.Committed(ctx, ev)

	uc.logger.Infow("ticket updated successfully", "ticket_id", cmd.TicketID, "fields", changed)
	return &UpdateTicketResult{TicketID: cmd.TicketID, UpdatedFields: changed}, nil
}

// canEdit allows admins, the support agent the ticket is assigned to and
// the ticket owner.
func canEdit(actor authorization.Identity, t *ticket.Ticket) bool {
	switch actor.Role {
	case authorization.RoleAdmin:
		return true
	case authorization.RoleSupport:
		return t.IsAssignedTo(actor.UserID) || t.IsOwnedBy(actor.UserID)
	case authorization.RoleClient:
		return t.IsOwnedBy(actor.UserID)
	}
	panic(fmt.Sprintf("usecases: unknown role %q", string(actor.Role)))
}

func sanitized(s *string) *string {
	if s == nil {
		return nil
	}
	clean := utils.SanitizeText(*s)
	return &clean
}
