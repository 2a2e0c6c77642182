package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/db"
)

type summaryRow struct {
	ID           uint
	Title        string
	Category     string
	Priority     string
	Status       string
	Description  string
	OwnerID      uint
	OwnerName    *string
	AssigneeID   *uint
	AssigneeName *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r summaryRow) toSummary() ticket.Summary {
	s := ticket.Summary{
		ID:          r.ID,
		Title:       r.Title,
		Category:    r.Category,
		Priority:    vo.Priority(r.Priority),
		Status:      vo.TicketStatus(r.Status),
		Description: r.Description,
		OwnerID:     r.OwnerID,
		AssigneeID:  r.AssigneeID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.OwnerName != nil {
		s.OwnerName = *r.OwnerName
	}
	if r.AssigneeName != nil {
		s.AssigneeName = *r.AssigneeName
	}
	return s
}

// TicketQueryRepository serves the read models. Every query is filtered by
// a visibility scope on the tickets alias "t".
type TicketQueryRepository struct {
	db *gorm.DB
}

func NewTicketQueryRepository(db *gorm.DB) *TicketQueryRepository {
	return &TicketQueryRepository{db: db}
}

func (r *TicketQueryRepository) tickets(ctx context.Context, scope ticket.Scope) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db).
		Table(constants.TableTickets+" AS t").
		Scopes(visibleTo(scope, "t"))
}

func (r *TicketQueryRepository) summaries(ctx context.Context, scope ticket.Scope) *gorm.DB {
	return r.tickets(ctx, scope).
		Select("t.id, t.title, t.category, t.priority, t.status, t.description, " +
			"t.user_id AS owner_id, o.name AS owner_name, " +
			"t.assigned_to AS assignee_id, a.name AS assignee_name, t.created_at, t.updated_at").
		Joins("LEFT JOIN " + constants.TableUsers + " o ON o.id = t.user_id").
		Joins("LEFT JOIN " + constants.TableUsers + " a ON a.id = t.assigned_to")
}

// List returns one of the list read models. Recent is ordered by last
// update, the board and the closed list by creation.
func (r *TicketQueryRepository) List(ctx context.Context, scope ticket.Scope, q ticket.ListQuery) ([]ticket.Summary, error) {
	query := r.summaries(ctx, scope)

	switch q.Kind {
	case ticket.ListRecent:
		query = query.Order("t.updated_at DESC").Scopes(db.Limit(q.Limit, constants.TicketListLimit))
	case ticket.ListBoard:
		limit := q.Limit
		if limit <= 0 {
			limit = constants.BoardMinLimit
		}
		query = query.Order("t.created_at DESC").Limit(db.Clamp(limit, constants.BoardMinLimit, constants.BoardMaxLimit))
	case ticket.ListClosed:
		query = query.
			Where("t.status IN ?", []string{vo.StatusResolved.String(), vo.StatusClosed.String()}).
			Order("t.updated_at DESC").
			Scopes(db.Limit(q.Limit, constants.ClosedListLimit))
	default:
		return nil, fmt.Errorf("unknown list kind %d", q.Kind)
	}

	var rows []summaryRow
	if err := query.Order("t.id DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", db.Classify(err))
	}

	out := make([]ticket.Summary, len(rows))
	for i, row := range rows {
		out[i] = row.toSummary()
	}
	return out, nil
}

func (r *TicketQueryRepository) GetSummary(ctx context.Context, id uint, scope ticket.Scope) (*ticket.Summary, error) {
	var row summaryRow
	err := r.summaries(ctx, scope).Where("t.id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket summary: %w", db.Classify(err))
	}
	s := row.toSummary()
	return &s, nil
}

// Stats counts tickets by state. Completed covers resolved and closed.
func (r *TicketQueryRepository) Stats(ctx context.Context, scope ticket.Scope) (ticket.Stats, error) {
	var stats ticket.Stats
	err := r.tickets(ctx, scope).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN t.status = ? THEN 1 ELSE 0 END), 0) AS open,
			COALESCE(SUM(CASE WHEN t.status = ? THEN 1 ELSE 0 END), 0) AS in_progress,
			COALESCE(SUM(CASE WHEN t.status IN (?, ?) THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN t.priority = ? AND t.status <> ? THEN 1 ELSE 0 END), 0) AS alerts`,
			vo.StatusOpen.String(),
			vo.StatusInProgress.String(),
			vo.StatusResolved.String(), vo.StatusClosed.String(),
			vo.PriorityHigh.String(), vo.StatusResolved.String(),
		).
		Scan(&stats).Error
	if err != nil {
		return ticket.Stats{}, fmt.Errorf("failed to compute ticket stats: %w", db.Classify(err))
	}
	return stats, nil
}

func (r *TicketQueryRepository) PriorityDistribution(ctx context.Context, scope ticket.Scope) ([]ticket.Bucket, error) {
	return r.distribution(ctx, scope, "t.priority")
}

func (r *TicketQueryRepository) StatusDistribution(ctx context.Context, scope ticket.Scope) ([]ticket.Bucket, error) {
	return r.distribution(ctx, scope, "t.status")
}

func (r *TicketQueryRepository) distribution(ctx context.Context, scope ticket.Scope, column string) ([]ticket.Bucket, error) {
	var rows []struct {
		Bucket string
		Total  int64
	}
	err := r.tickets(ctx, scope).
		Select(column + " AS bucket, COUNT(*) AS total").
		Group(column).
		Order("bucket ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute distribution: %w", db.Classify(err))
	}

	out := make([]ticket.Bucket, len(rows))
	for i, row := range rows {
		out[i] = ticket.Bucket{Key: row.Bucket, Count: row.Total}
	}
	return out, nil
}

// CreatedSince returns creation time and status of every visible ticket
// created at or after since.
func (r *TicketQueryRepository) CreatedSince(ctx context.Context, scope ticket.Scope, since time.Time) ([]ticket.CreatedPoint, error) {
	var rows []struct {
		CreatedAt time.Time
		Status    string
	}
	err := r.tickets(ctx, scope).
		Select("t.created_at, t.status").
		Where("t.created_at >= ?", since).
		Order("t.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket series: %w", db.Classify(err))
	}

	out := make([]ticket.CreatedPoint, len(rows))
	for i, row := range rows {
		out[i] = ticket.CreatedPoint{CreatedAt: row.CreatedAt, Status: vo.TicketStatus(row.Status)}
	}
	return out, nil
}

var _ ticket.QueryRepository = (*TicketQueryRepository)(nil)
