package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
	"github.com/tdesk-io/tdesk/internal/infrastructure/persistence/mappers"
	"github.com/tdesk-io/tdesk/internal/infrastructure/persistence/models"
	"github.com/tdesk-io/tdesk/internal/shared/db"
)

// editableTicketColumns whitelists the columns UpdateFields may write.
var editableTicketColumns = map[string]bool{
	"title":       true,
	"category":    true,
	"priority":    true,
	"description": true,
}

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", db.Classify(err))
	}
	return t.SetID(model.ID)
}

func (r *TicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	return r.first(db.GetTxFromContext(ctx, r.db), id)
}

func (r *TicketRepository) GetByIDForUpdate(ctx context.Context, id uint) (*ticket.Ticket, error) {
	tx := db.GetTxFromContext(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.first(tx, id)
}

func (r *TicketRepository) GetVisible(ctx context.Context, id uint, scope ticket.Scope) (*ticket.Ticket, error) {
	tx := db.GetTxFromContext(ctx, r.db).Scopes(visibleTo(scope, ""))
	return r.first(tx, id)
}

func (r *TicketRepository) first(tx *gorm.DB, id uint) (*ticket.Ticket, error) {
	var model models.TicketModel
	if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", db.Classify(err))
	}
	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, id uint, status vo.TicketStatus, at time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     status.String(),
		"updated_at": at,
	})
}

func (r *TicketRepository) UpdateAssignee(ctx context.Context, id uint, agentID uint, at time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"assigned_to": agentID,
		"updated_at":  at,
	})
}

func (r *TicketRepository) UpdateFields(ctx context.Context, t *ticket.Ticket, columns []string) error {
	model := r.mapper.ToModel(t)
	values := map[string]interface{}{"updated_at": model.UpdatedAt}
	for _, c := range columns {
		if !editableTicketColumns[c] {
			return fmt.Errorf("column %q is not editable", c)
		}
		switch c {
		case "title":
			values[c] = model.Title
		case "category":
			values[c] = model.Category
		case "priority":
			values[c] = model.Priority
		case "description":
			values[c] = model.Description
		}
	}
	return r.update(ctx, t.ID(), values)
}

func (r *TicketRepository) Touch(ctx context.Context, id uint, at time.Time) error {
	return r.update(ctx, id, map[string]interface{}{"updated_at": at})
}

func (r *TicketRepository) update(ctx context.Context, id uint, values map[string]interface{}) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.TicketModel{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", db.Classify(result.Error))
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL reports zero affected rows when nothing changed, so check the row exists.
	var count int64
	if err := tx.Model(&models.TicketModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check ticket: %w", db.Classify(err))
	}
	if count == 0 {
		return ticket.ErrTicketNotFound
	}
	return nil
}

// Delete removes the ticket and everything it owns. Optional child tables
// that do not exist are skipped.
func (r *TicketRepository) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	children := []func(tx *gorm.DB) error{
		func(tx *gorm.DB) error {
			responses := tx.Model(&models.TicketResponseModel{}).Select("id").Where("ticket_id = ?", id)
			return tx.Where("response_id IN (?)", responses).Delete(&models.ResponseAttachmentModel{}).Error
		},
		func(tx *gorm.DB) error {
			return tx.Where("ticket_id = ?", id).Delete(&models.TicketResponseModel{}).Error
		},
		func(tx *gorm.DB) error {
			return tx.Where("ticket_id = ?", id).Delete(&models.TicketAttachmentModel{}).Error
		},
		func(tx *gorm.DB) error {
			return tx.Where("ticket_id = ?", id).Delete(&models.TicketActivityModel{}).Error
		},
	}
	for _, del := range children {
		if err := tx.Transaction(del); err != nil && !db.IsRelationNotFound(err) {
			return fmt.Errorf("failed to delete ticket children: %w", db.Classify(err))
		}
	}

	result := tx.Where("id = ?", id).Delete(&models.TicketModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete ticket: %w", db.Classify(result.Error))
	}
	if result.RowsAffected == 0 {
		return ticket.ErrTicketNotFound
	}
	return nil
}

// CountByUser counts tickets the user owns or is assigned to.
func (r *TicketRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.TicketModel{}).
		Where("user_id = ? OR assigned_to = ?", userID, userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count user tickets: %w", db.Classify(err))
	}
	return count, nil
}
