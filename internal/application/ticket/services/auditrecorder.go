package services

import (
	"context"
	"fmt"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/db"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

// AuditEntry is one audit trail record to append.
type AuditEntry struct {
	TicketID   uint
	ActorID    *uint
	Action     ticket.ActivityAction
	FromStatus vo.TicketStatus
	ToStatus   vo.TicketStatus
	Details    string
}

// AuditRecorder appends activity entries as the last step of a mutation.
// A missing activity table degrades to a warning; an actor that no longer
// resolves is stored as NULL.
type AuditRecorder struct {
	activityRepo ticket.ActivityRepository
	users        UserChecker
	txRunner     TransactionRunner
	degrade      DegradeRecorder
	logger       logger.Interface
}

func NewAuditRecorder(
	activityRepo ticket.ActivityRepository,
	users UserChecker,
	txRunner TransactionRunner,
	degrade DegradeRecorder,
	logger logger.Interface,
) *AuditRecorder {
	return &AuditRecorder{
		activityRepo: activityRepo,
		users:        users,
		txRunner:     txRunner,
		degrade:      degrade,
		logger:       logger,
	}
}

// Record returns nil when the entry was written or skipped as a degraded
// write. Any other error must abort the surrounding transaction.
func (r *AuditRecorder) Record(ctx context.Context, e AuditEntry) error {
	a, err := ticket.NewActivity(e.TicketID, e.ActorID, e.Action)
	if err != nil {
		return err
	}
	a.WithStatuses(e.FromStatus, e.ToStatus).WithDetails(e.Details)

	if a.ActorID != nil {
		ok, err := r.users.Exists(ctx, *a.ActorID)
		if err != nil {
			return fmt.Errorf("failed to resolve audit actor: %w", err)
		}
		if !ok {
			r.logger.Warnw("audit actor not found, recording without actor",
				"ticket_id", e.TicketID,
				"actor_id", *a.ActorID,
				"action", e.Action,
			)
			a = a.WithoutActor()
		}
	}

	err = r.insert(ctx, a)
	if err != nil && a.ActorID != nil && db.IsForeignKeyViolation(err) {
		r.logger.Warnw("audit actor rejected by foreign key, retrying without actor",
			"ticket_id", e.TicketID,
			"actor_id", *a.ActorID,
			"action", e.Action,
		)
		err = r.insert(ctx, a.WithoutActor())
	}

	switch {
	case err == nil:
		return nil
	case db.IsRelationNotFound(err):
		r.logger.Warnw("activity table not found, audit entry skipped",
			"ticket_id", e.TicketID,
			"action", e.Action,
		)
		r.degrade.DegradedWrite(constants.TableTicketActivity)
		return nil
	default:
		return fmt.Errorf("failed to record ticket activity: %w", err)
	}
}

func (r *AuditRecorder) insert(ctx context.Context, a *ticket.Activity) error {
	return r.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		return r.activityRepo.Append(ctx, a)
	})
}
