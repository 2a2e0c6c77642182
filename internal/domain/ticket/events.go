package ticket

import (
	"fmt"
	"time"

	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
)

const (
	EventTypeTicketCreated       = "ticket.created"
	EventTypeTicketStatusChanged = "ticket.status.changed"
	EventTypeTicketAssigned      = "ticket.assigned"
	EventTypeTicketUpdated       = "ticket.updated"
	EventTypeTicketDeleted       = "ticket.deleted"
	EventTypeResponseAdded       = "ticket.response.added"
)

// Event announces a committed ticket mutation to other systems.
type Event struct {
	EventType   string          `json:"event_type"`
	AggregateID string          `json:"aggregate_id"`
	TicketID    uint            `json:"ticket_id"`
	ActorID     uint            `json:"actor_id"`
	FromStatus  vo.TicketStatus `json:"from_status,omitempty"`
	ToStatus    vo.TicketStatus `json:"to_status,omitempty"`
	AssigneeID  *uint           `json:"assignee_id,omitempty"`
	ResponseID  uint            `json:"response_id,omitempty"`
	Fields      []string        `json:"fields,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Version     int             `json:"version"`
}

// NewEvent fills the envelope fields of an event about ticketID.
func NewEvent(eventType string, ticketID, actorID uint) Event {
	return Event{
		EventType:   eventType,
		AggregateID: fmt.Sprintf("ticket:%d", ticketID),
		TicketID:    ticketID,
		ActorID:     actorID,
		OccurredAt:  time.Now().UTC(),
		Version:     1,
	}
}
