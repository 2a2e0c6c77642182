package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
	"github.com/tdesk-io/tdesk/internal/infrastructure/persistence/mappers"
	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/db"
)

// activityRow is the scan target of the joined activity queries.
type activityRow struct {
	ID          uint
	TicketID    uint
	TicketTitle string
	ActorID     *uint
	ActorName   *string
	Action      string
	FromStatus  *string
	ToStatus    *string
	Details     *string
	CreatedAt   time.Time
}

func (r activityRow) toEntry() ticket.ActivityEntry {
	e := ticket.ActivityEntry{
		ID:          r.ID,
		TicketID:    r.TicketID,
		TicketTitle: r.TicketTitle,
		ActorID:     r.ActorID,
		Action:      ticket.ActivityAction(r.Action),
		Details:     r.Details,
		CreatedAt:   r.CreatedAt,
	}
	if r.ActorName != nil {
		e.ActorName = *r.ActorName
	}
	if r.FromStatus != nil {
		s := vo.TicketStatus(*r.FromStatus)
		e.FromStatus = &s
	}
	if r.ToStatus != nil {
		s := vo.TicketStatus(*r.ToStatus)
		e.ToStatus = &s
	}
	return e
}

type ActivityRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *ActivityRepository) Append(ctx context.Context, a *ticket.Activity) error {
	model := r.mapper.ActivityToModel(a)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to append ticket activity: %w", db.Classify(err))
	}
	a.ID = model.ID
	return nil
}

func (r *ActivityRepository) base(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db).
		Table(constants.TableTicketActivity+" AS a").
		Select("a.id, a.ticket_id, t.title AS ticket_title, a.actor_id, u.name AS actor_name, " +
			"a.action, a.from_status, a.to_status, a.details, a.created_at").
		Joins("JOIN " + constants.TableTickets + " t ON t.id = a.ticket_id").
		Joins("LEFT JOIN " + constants.TableUsers + " u ON u.id = a.actor_id").
		Order("a.created_at DESC").
		Order("a.id DESC")
}

// ListForTicket returns the newest entries of one ticket.
func (r *ActivityRepository) ListForTicket(ctx context.Context, ticketID uint, limit int) ([]ticket.ActivityEntry, error) {
	var rows []activityRow
	err := r.base(ctx).
		Where("a.ticket_id = ?", ticketID).
		Scopes(db.Limit(limit, constants.DetailActivityLimit)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket activity: %w", db.Classify(err))
	}
	return toEntries(rows), nil
}

// Recent returns the newest entries on tickets visible in scope.
func (r *ActivityRepository) Recent(ctx context.Context, scope ticket.Scope, limit int) ([]ticket.ActivityEntry, error) {
	var rows []activityRow
	err := r.base(ctx).
		Scopes(visibleTo(scope, "t"), db.Limit(limit, constants.RecentActivityLimit)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activity: %w", db.Classify(err))
	}
	return toEntries(rows), nil
}

func toEntries(rows []activityRow) []ticket.ActivityEntry {
	out := make([]ticket.ActivityEntry, len(rows))
	for i, row := range rows {
		out[i] = row.toEntry()
	}
	return out
}

var _ ticket.ActivityRepository = (*ActivityRepository)(nil)
