package mappers

import (
	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
	"github.com/tdesk-io/tdesk/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between ticket domain types and persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	ActivityToModel(a *ticket.Activity) *models.TicketActivityModel
	TicketAttachmentsToModels(ticketID uint, items []ticket.AttachmentMetadata) []models.TicketAttachmentModel
	ResponseAttachmentsToModels(responseID uint, items []ticket.AttachmentMetadata) []models.ResponseAttachmentModel
	TicketAttachmentToDomain(model *models.TicketAttachmentModel) *ticket.Attachment
	ResponseAttachmentToDomain(model *models.ResponseAttachmentModel) *ticket.Attachment
}

// TicketMapperImpl is the concrete implementation of TicketMapper.
type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	return &models.TicketModel{
		ID:          t.ID(),
		UserID:      t.OwnerID(),
		AssignedTo:  t.AssigneeID(),
		Title:       t.Title(),
		Category:    t.Category(),
		Priority:    t.Priority().String(),
		Status:      t.Status().String(),
		Description: t.Description(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	return ticket.ReconstructTicket(
		model.ID,
		model.UserID,
		model.AssignedTo,
		model.Title,
		model.Category,
		vo.Priority(model.Priority),
		vo.TicketStatus(model.Status),
		model.Description,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *TicketMapperImpl) ActivityToModel(a *ticket.Activity) *models.TicketActivityModel {
	model := &models.TicketActivityModel{
		ID:        a.ID,
		TicketID:  a.TicketID,
		ActorID:   a.ActorID,
		Action:    a.Action.String(),
		Details:   a.Details,
		CreatedAt: a.CreatedAt,
	}
	if a.FromStatus != nil {
		s := a.FromStatus.String()
		model.FromStatus = &s
	}
	if a.ToStatus != nil {
		s := a.ToStatus.String()
		model.ToStatus = &s
	}
	return model
}

func (m *TicketMapperImpl) TicketAttachmentsToModels(ticketID uint, items []ticket.AttachmentMetadata) []models.TicketAttachmentModel {
	out := make([]models.TicketAttachmentModel, len(items))
	for i, it := range items {
		out[i] = models.TicketAttachmentModel{
			TicketID:     ticketID,
			OriginalName: it.OriginalName,
			StoredName:   it.StoredName,
			FilePath:     it.FilePath,
			FileSize:     it.FileSize,
			MimeType:     it.MimeType,
		}
	}
	return out
}

func (m *TicketMapperImpl) ResponseAttachmentsToModels(responseID uint, items []ticket.AttachmentMetadata) []models.ResponseAttachmentModel {
	out := make([]models.ResponseAttachmentModel, len(items))
	for i, it := range items {
		out[i] = models.ResponseAttachmentModel{
			ResponseID:   responseID,
			OriginalName: it.OriginalName,
			StoredName:   it.StoredName,
			FilePath:     it.FilePath,
			FileSize:     it.FileSize,
			MimeType:     it.MimeType,
		}
	}
	return out
}

func (m *TicketMapperImpl) TicketAttachmentToDomain(model *models.TicketAttachmentModel) *ticket.Attachment {
	return &ticket.Attachment{
		ID:        model.ID,
		OwnerID:   model.TicketID,
		CreatedAt: model.CreatedAt,
		AttachmentMetadata: ticket.AttachmentMetadata{
			OriginalName: model.OriginalName,
			StoredName:   model.StoredName,
			FilePath:     model.FilePath,
			FileSize:     model.FileSize,
			MimeType:     model.MimeType,
		},
	}
}

func (m *TicketMapperImpl) ResponseAttachmentToDomain(model *models.ResponseAttachmentModel) *ticket.Attachment {
	return &ticket.Attachment{
		ID:        model.ID,
		OwnerID:   model.ResponseID,
		CreatedAt: model.CreatedAt,
		AttachmentMetadata: ticket.AttachmentMetadata{
			OriginalName: model.OriginalName,
			StoredName:   model.StoredName,
			FilePath:     model.FilePath,
			FileSize:     model.FileSize,
			MimeType:     model.MimeType,
		},
	}
}
