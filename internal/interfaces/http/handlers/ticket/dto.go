package ticket

import (
	"github.com/tdesk-io/tdesk/internal/application/ticket/usecases"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
)

// CreateTicketRequest binds from JSON or from the text fields of a
// multipart form. Files travel in the "attachments" form field.
type CreateTicketRequest struct {
	Title       string `json:"title" form:"title" binding:"required,max=255"`
	Category    string `json:"category" form:"category" binding:"required,max=100"`
	Priority    string `json:"priority" form:"priority"`
	Description string `json:"description" form:"description" binding:"required,max=10000"`
}

func (r *CreateTicketRequest) ToCommand(actor authorization.Identity) usecases.CreateTicketCommand {
	return usecases.CreateTicketCommand{
		Actor:       actor,
		Title:       r.Title,
		Category:    r.Category,
		Priority:    r.Priority,
		Description: r.Description,
	}
}

// UpdateTicketRequest is a partial edit; absent fields are left alone.
type UpdateTicketRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Category    *string `json:"category" binding:"omitempty,max=100"`
	Priority    *string `json:"priority"`
	Description *string `json:"description" binding:"omitempty,max=10000"`
}

func (r *UpdateTicketRequest) ToCommand(actor authorization.Identity, ticketID uint) usecases.UpdateTicketCommand {
	return usecases.UpdateTicketCommand{
		Actor:       actor,
		TicketID:    ticketID,
		Title:       r.Title,
		Category:    r.Category,
		Priority:    r.Priority,
		Description: r.Description,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"omitempty,max=1000"`
}

type AssignTicketRequest struct {
	AgentID uint `json:"agent_id" binding:"required"`
}

type AddResponseRequest struct {
	Text string `json:"response_text" form:"response_text" binding:"required,max=10000"`
}

type StatusChangeResponse struct {
	TicketID  uint   `json:"ticket_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Changed   bool   `json:"changed"`
}

type AssignmentResponse struct {
	TicketID   uint `json:"ticket_id"`
	AssigneeID uint `json:"assigned_to"`
}
