package ticket

import (
	"fmt"
	"time"

	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
)

// ActivityAction names an audit trail event.
type ActivityAction string

const (
	ActionCreated       ActivityAction = "created"
	ActionStatusUpdate  ActivityAction = "status_update"
	ActionAssignment    ActivityAction = "assignment"
	ActionUpdated       ActivityAction = "updated"
	ActionResponseAdded ActivityAction = "response_added"
)

func (a ActivityAction) String() string {
	return string(a)
}

func (a ActivityAction) IsValid() bool {
	switch a {
	case ActionCreated, ActionStatusUpdate, ActionAssignment, ActionUpdated, ActionResponseAdded:
		return true
	}
	return false
}

// Activity is one append-only audit entry. ActorID is a weak reference and
// may be nil when the actor no longer resolves.
type Activity struct {
	ID         uint
	TicketID   uint
	ActorID    *uint
	Action     ActivityAction
	FromStatus *vo.TicketStatus
	ToStatus   *vo.TicketStatus
	Details    *string
	CreatedAt  time.Time
}

func NewActivity(ticketID uint, actorID *uint, action ActivityAction) (*Activity, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if !action.IsValid() {
		return nil, fmt.Errorf("invalid activity action: %q", action)
	}
	return &Activity{
		TicketID:  ticketID,
		ActorID:   actorID,
		Action:    action,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// WithStatuses sets the from/to pair; a blank status is stored as NULL.
func (a *Activity) WithStatuses(from, to vo.TicketStatus) *Activity {
	if from != "" {
		a.FromStatus = &from
	}
	if to != "" {
		a.ToStatus = &to
	}
	return a
}

func (a *Activity) WithDetails(details string) *Activity {
	if details != "" {
		a.Details = &details
	}
	return a
}

// WithoutActor returns a copy whose actor reference is cleared.
func (a *Activity) WithoutActor() *Activity {
	c := *a
	c.ActorID = nil
	return &c
}
