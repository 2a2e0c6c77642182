package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/infrastructure/persistence/models"
	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/db"
)

type responseRow struct {
	ID            uint
	TicketID      uint
	UserID        uint
	ResponderName *string
	ResponderRole *string
	ResponseText  string
	CreatedAt     time.Time
}

type ResponseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

func (r *ResponseRepository) Create(ctx context.Context, resp *ticket.Response) error {
	model := &models.TicketResponseModel{
		TicketID:     resp.TicketID,
		UserID:       resp.UserID,
		ResponseText: resp.Text,
		CreatedAt:    resp.CreatedAt,
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket response: %w", db.Classify(err))
	}
	resp.ID = model.ID
	return nil
}

// ListForTicket returns responses oldest first, without attachments.
func (r *ResponseRepository) ListForTicket(ctx context.Context, ticketID uint) ([]ticket.ResponseView, error) {
	var rows []responseRow
	err := db.GetTxFromContext(ctx, r.db).
		Table(constants.TableTicketResponses+" AS r").
		Select("r.id, r.ticket_id, r.user_id, u.name AS responder_name, u.role AS responder_role, r.response_text, r.created_at").
		Joins("LEFT JOIN "+constants.TableUsers+" u ON u.id = r.user_id").
		Where("r.ticket_id = ?", ticketID).
		Order("r.created_at ASC").
		Order("r.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket responses: %w", db.Classify(err))
	}

	out := make([]ticket.ResponseView, len(rows))
	for i, row := range rows {
		out[i] = ticket.ResponseView{
			ID:        row.ID,
			TicketID:  row.TicketID,
			UserID:    row.UserID,
			Text:      row.ResponseText,
			CreatedAt: row.CreatedAt,
		}
		if row.ResponderName != nil {
			out[i].ResponderName = *row.ResponderName
		}
		if row.ResponderRole != nil {
			out[i].ResponderRole = *row.ResponderRole
		}
	}
	return out, nil
}

var _ ticket.ResponseRepository = (*ResponseRepository)(nil)
