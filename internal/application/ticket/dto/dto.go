package dto

import (
	"time"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/shared/mapper"
)

type TicketDTO struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Priority     string    `json:"priority"`
	Status       string    `json:"status"`
	Description  string    `json:"description"`
	OwnerID      uint      `json:"user_id"`
	OwnerName    string    `json:"requester_name"`
	AssigneeID   *uint     `json:"assigned_to"`
	AssigneeName string    `json:"assigned_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AttachmentDTO struct {
	ID           uint      `json:"id"`
	OriginalName string    `json:"original_name"`
	FilePath     string    `json:"file_path"`
	FileSize     int64     `json:"file_size"`
	MimeType     string    `json:"mime_type"`
	CreatedAt    time.Time `json:"created_at"`
}

type ActivityDTO struct {
	ID          uint      `json:"id"`
	TicketID    uint      `json:"ticket_id"`
	TicketTitle string    `json:"ticket_title,omitempty"`
	ActorID     *uint     `json:"actor_id"`
	ActorName   string    `json:"actor_name,omitempty"`
	Action      string    `json:"action"`
	FromStatus  *string   `json:"from_status"`
	ToStatus    *string   `json:"to_status"`
	Details     *string   `json:"details"`
	CreatedAt   time.Time `json:"created_at"`
}

type ResponseDTO struct {
	ID            uint            `json:"id"`
	UserID        uint            `json:"user_id"`
	ResponderName string          `json:"responder_name"`
	ResponderRole string          `json:"responder_role"`
	Text          string          `json:"response_text"`
	CreatedAt     time.Time       `json:"created_at"`
	Attachments   []AttachmentDTO `json:"attachments"`
}

type TicketDetailsDTO struct {
	TicketDTO
	Attachments []AttachmentDTO `json:"attachments"`
	Activity    []ActivityDTO   `json:"activity"`
	Responses   []ResponseDTO   `json:"responses"`
}

type BucketDTO struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type StatsDTO struct {
	Total      int64       `json:"total"`
	Open       int64       `json:"open"`
	InProgress int64       `json:"in_progress"`
	Completed  int64       `json:"completed"`
	Alerts     int64       `json:"alerts"`
	ByPriority []BucketDTO `json:"by_priority"`
	ByStatus   []BucketDTO `json:"by_status"`
}

type DailyPointDTO struct {
	Day       string `json:"day"`
	Active    int64  `json:"active"`
	Completed int64  `json:"completed"`
}

func ToTicketDTO(s ticket.Summary) TicketDTO {
	return TicketDTO{
		ID:           s.ID,
		Title:        s.Title,
		Category:     s.Category,
		Priority:     s.Priority.String(),
		Status:       s.Status.String(),
		Description:  s.Description,
		OwnerID:      s.OwnerID,
		OwnerName:    s.OwnerName,
		AssigneeID:   s.AssigneeID,
		AssigneeName: s.AssigneeName,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func ToTicketDTOs(items []ticket.Summary) []TicketDTO {
	return orEmpty(mapper.MapSlice(items, ToTicketDTO))
}

func ToAttachmentDTO(a *ticket.Attachment) AttachmentDTO {
	return AttachmentDTO{
		ID:           a.ID,
		OriginalName: a.OriginalName,
		FilePath:     a.FilePath,
		FileSize:     a.FileSize,
		MimeType:     a.MimeType,
		CreatedAt:    a.CreatedAt,
	}
}

func ToAttachmentDTOs(items []*ticket.Attachment) []AttachmentDTO {
	return orEmpty(mapper.MapSlice(items, ToAttachmentDTO))
}

func ToActivityDTO(e ticket.ActivityEntry) ActivityDTO {
	out := ActivityDTO{
		ID:          e.ID,
		TicketID:    e.TicketID,
		TicketTitle: e.TicketTitle,
		ActorID:     e.ActorID,
		ActorName:   e.ActorName,
		Action:      e.Action.String(),
		Details:     e.Details,
		CreatedAt:   e.CreatedAt,
	}
	if e.FromStatus != nil {
		s := e.FromStatus.String()
		out.FromStatus = &s
	}
	if e.ToStatus != nil {
		s := e.ToStatus.String()
		out.ToStatus = &s
	}
	return out
}

func ToActivityDTOs(items []ticket.ActivityEntry) []ActivityDTO {
	return orEmpty(mapper.MapSlice(items, ToActivityDTO))
}

func ToResponseDTO(r ticket.ResponseView) ResponseDTO {
	return ResponseDTO{
		ID:            r.ID,
		UserID:        r.UserID,
		ResponderName: r.ResponderName,
		ResponderRole: r.ResponderRole,
		Text:          r.Text,
		CreatedAt:     r.CreatedAt,
		Attachments:   ToAttachmentDTOs(r.Attachments),
	}
}

func ToTicketDetailsDTO(d ticket.Details) *TicketDetailsDTO {
	return &TicketDetailsDTO{
		TicketDTO:   ToTicketDTO(d.Ticket),
		Attachments: ToAttachmentDTOs(d.Attachments),
		Activity:    ToActivityDTOs(d.Activity),
		Responses:   orEmpty(mapper.MapSlice(d.Responses, ToResponseDTO)),
	}
}

func ToBucketDTOs(items []ticket.Bucket) []BucketDTO {
	return orEmpty(mapper.MapSlice(items, func(b ticket.Bucket) BucketDTO {
		return BucketDTO{Key: b.Key, Count: b.Count}
	}))
}

func ToDailyPointDTOs(items []ticket.DailyPoint) []DailyPointDTO {
	return orEmpty(mapper.MapSlice(items, func(p ticket.DailyPoint) DailyPointDTO {
		return DailyPointDTO{Day: p.Day, Active: p.Active, Completed: p.Completed}
	}))
}

// orEmpty keeps JSON arrays from being rendered as null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
