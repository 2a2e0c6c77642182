package ticket

import (
	"time"

	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
)

// Summary is a ticket row as shown in lists, joined with user names.
type Summary struct {
	ID           uint
	Title        string
	Category     string
	Priority     vo.Priority
	Status       vo.TicketStatus
	Description  string
	OwnerID      uint
	OwnerName    string
	AssigneeID   *uint
	AssigneeName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListKind selects one of the list read models.
type ListKind int

const (
	// ListRecent returns the most recently updated tickets.
	ListRecent ListKind = iota + 1
	// ListBoard returns the operational board ordered by creation.
	ListBoard
	// ListClosed returns resolved and closed tickets.
	ListClosed
)

type ListQuery struct {
	Kind  ListKind
	Limit int
}

// Stats are the dashboard counters of one scope.
type Stats struct {
	Total      int64
	Open       int64
	InProgress int64
	Completed  int64
	// Alerts counts high priority tickets that are not resolved yet.
	Alerts int64
}

// Bucket is one row of a distribution.
type Bucket struct {
	Key   string
	Count int64
}

// CreatedPoint is the creation time and status of one ticket, used to build
// daily series without dialect specific date functions.
type CreatedPoint struct {
	CreatedAt time.Time
	Status    vo.TicketStatus
}

// DailyPoint is one day of the activity chart.
type DailyPoint struct {
	Day       string
	Active    int64
	Completed int64
}

// ActivityEntry is an audit entry joined with actor name and ticket title.
type ActivityEntry struct {
	ID          uint
	TicketID    uint
	TicketTitle string
	ActorID     *uint
	ActorName   string
	Action      ActivityAction
	FromStatus  *vo.TicketStatus
	ToStatus    *vo.TicketStatus
	Details     *string
	CreatedAt   time.Time
}

// ResponseView is a response joined with the responder and its attachments.
type ResponseView struct {
	ID            uint
	TicketID      uint
	UserID        uint
	ResponderName string
	ResponderRole string
	Text          string
	CreatedAt     time.Time
	Attachments   []*Attachment
}

// Details is the full ticket page.
type Details struct {
	Ticket      Summary
	Attachments []*Attachment
	Activity    []ActivityEntry
	Responses   []ResponseView
}
