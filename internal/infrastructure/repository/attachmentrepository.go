package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/infrastructure/persistence/mappers"
	"github.com/tdesk-io/tdesk/internal/infrastructure/persistence/models"
	"github.com/tdesk-io/tdesk/internal/shared/db"
)

type AttachmentRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *AttachmentRepository) AddToTicket(ctx context.Context, ticketID uint, items []ticket.AttachmentMetadata) error {
	if len(items) == 0 {
		return nil
	}
	rows := r.mapper.TicketAttachmentsToModels(ticketID, items)
	if err := db.GetTxFromContext(ctx, r.db).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to store ticket attachments: %w", db.Classify(err))
	}
	return nil
}

func (r *AttachmentRepository) AddToResponse(ctx context.Context, responseID uint, items []ticket.AttachmentMetadata) error {
	if len(items) == 0 {
		return nil
	}
	rows := r.mapper.ResponseAttachmentsToModels(responseID, items)
	if err := db.GetTxFromContext(ctx, r.db).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to store response attachments: %w", db.Classify(err))
	}
	return nil
}

func (r *AttachmentRepository) ListForTicket(ctx context.Context, ticketID uint) ([]*ticket.Attachment, error) {
	var rows []models.TicketAttachmentModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("ticket_id = ?", ticketID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket attachments: %w", db.Classify(err))
	}

	out := make([]*ticket.Attachment, len(rows))
	for i := range rows {
		out[i] = r.mapper.TicketAttachmentToDomain(&rows[i])
	}
	return out, nil
}

// ListForResponses groups the attachments of the given responses by response ID.
func (r *AttachmentRepository) ListForResponses(ctx context.Context, responseIDs []uint) (map[uint][]*ticket.Attachment, error) {
	out := make(map[uint][]*ticket.Attachment)
	if len(responseIDs) == 0 {
		return out, nil
	}

	var rows []models.ResponseAttachmentModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("response_id IN ?", responseIDs).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list response attachments: %w", db.Classify(err))
	}
	for i := range rows {
		a := r.mapper.ResponseAttachmentToDomain(&rows[i])
		out[a.OwnerID] = append(out[a.OwnerID], a)
	}
	return out, nil
}

// FilePathsForTicket collects stored paths from both attachment tables. A
// missing response attachment table contributes nothing.
func (r *AttachmentRepository) FilePathsForTicket(ctx context.Context, ticketID uint) ([]string, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var paths []string
	err := tx.Model(&models.TicketAttachmentModel{}).
		Where("ticket_id = ?", ticketID).
		Pluck("file_path", &paths).Error
	if err != nil {
		return nil, fmt.Errorf("failed to collect ticket files: %w", db.Classify(err))
	}

	var responsePaths []string
	responses := tx.Model(&models.TicketResponseModel{}).Select("id").Where("ticket_id = ?", ticketID)
	err = tx.Model(&models.ResponseAttachmentModel{}).
		Where("response_id IN (?)", responses).
		Pluck("file_path", &responsePaths).Error
	if err != nil {
		if classified := db.Classify(err); !db.IsRelationNotFound(classified) {
			return nil, fmt.Errorf("failed to collect response files: %w", classified)
		}
	}
	return append(paths, responsePaths...), nil
}

var _ ticket.AttachmentRepository = (*AttachmentRepository)(nil)
