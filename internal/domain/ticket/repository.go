package ticket

import (
	"context"
	"time"

	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
)

// TicketRepository persists ticket rows. Lookups return ErrTicketNotFound
// for missing rows; store failures are wrapped with db.Classify.
type TicketRepository interface {
	Create(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id uint) (*Ticket, error)
	// GetByIDForUpdate reads the row under an exclusive row lock. It must be
	// called inside a transaction.
	GetByIDForUpdate(ctx context.Context, id uint) (*Ticket, error)
	GetVisible(ctx context.Context, id uint, scope Scope) (*Ticket, error)
	UpdateStatus(ctx context.Context, id uint, status vo.TicketStatus, at time.Time) error
	UpdateAssignee(ctx context.Context, id uint, agentID uint, at time.Time) error
	UpdateFields(ctx context.Context, t *Ticket, columns []string) error
	Touch(ctx context.Context, id uint, at time.Time) error
	// Delete removes the ticket with its responses, attachments and activity.
	Delete(ctx context.Context, id uint) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// ActivityRepository stores the audit trail.
type ActivityRepository interface {
	Append(ctx context.Context, a *Activity) error
	ListForTicket(ctx context.Context, ticketID uint, limit int) ([]ActivityEntry, error)
	Recent(ctx context.Context, scope Scope, limit int) ([]ActivityEntry, error)
}

// AttachmentRepository stores attachment metadata for tickets and responses.
type AttachmentRepository interface {
	AddToTicket(ctx context.Context, ticketID uint, items []AttachmentMetadata) error
	AddToResponse(ctx context.Context, responseID uint, items []AttachmentMetadata) error
	ListForTicket(ctx context.Context, ticketID uint) ([]*Attachment, error)
	ListForResponses(ctx context.Context, responseIDs []uint) (map[uint][]*Attachment, error)
	// FilePathsForTicket returns the stored paths of every file owned by the
	// ticket, including files attached to its responses.
	FilePathsForTicket(ctx context.Context, ticketID uint) ([]string, error)
}

type ResponseRepository interface {
	Create(ctx context.Context, r *Response) error
	ListForTicket(ctx context.Context, ticketID uint) ([]ResponseView, error)
}

// QueryRepository serves the scoped read models.
type QueryRepository interface {
	List(ctx context.Context, scope Scope, q ListQuery) ([]Summary, error)
	GetSummary(ctx context.Context, id uint, scope Scope) (*Summary, error)
	Stats(ctx context.Context, scope Scope) (Stats, error)
	PriorityDistribution(ctx context.Context, scope Scope) ([]Bucket, error)
	StatusDistribution(ctx context.Context, scope Scope) ([]Bucket, error)
	CreatedSince(ctx context.Context, scope Scope, since time.Time) ([]CreatedPoint, error)
}
