package ticket

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
)

const (
	maxTitleLength    = 255
	maxCategoryLength = 100
)

type Ticket struct {
	id          uint
	ownerID     uint
	assigneeID  *uint
	title       string
	category    string
	priority    vo.Priority
	status      vo.TicketStatus
	description string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewTicket builds an open ticket. Text fields are expected to be sanitised
// by the caller; they are trimmed and must not be empty.
func NewTicket(ownerID uint, title, category, description string, priority vo.Priority) (*Ticket, error) {
	if ownerID == 0 {
		return nil, fmt.Errorf("owner ID is required")
	}
	title = strings.TrimSpace(title)
	category = strings.TrimSpace(category)
	description = strings.TrimSpace(description)

	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if description == "" {
		return nil, fmt.Errorf("description is required")
	}
	if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}

	now := time.Now().UTC()
	return &Ticket{
		ownerID:     ownerID,
		title:       title,
		category:    category,
		priority:    priority,
		status:      vo.StatusOpen,
		description: description,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructTicket(
	id uint,
	ownerID uint,
	assigneeID *uint,
	title string,
	category string,
	priority vo.Priority,
	status vo.TicketStatus,
	description string,
	createdAt, updatedAt time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("ticket %d: %w %q", id, ErrInvalidPriority, priority)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("ticket %d: %w %q", id, ErrInvalidStatus, status)
	}

	return &Ticket{
		id:          id,
		ownerID:     ownerID,
		assigneeID:  assigneeID,
		title:       title,
		category:    category,
		priority:    priority,
		status:      status,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (t *Ticket) ID() uint                { return t.id }
func (t *Ticket) OwnerID() uint           { return t.ownerID }
func (t *Ticket) AssigneeID() *uint       { return t.assigneeID }
func (t *Ticket) Title() string           { return t.title }
func (t *Ticket) Category() string        { return t.category }
func (t *Ticket) Priority() vo.Priority   { return t.priority }
func (t *Ticket) Status() vo.TicketStatus { return t.status }
func (t *Ticket) Description() string     { return t.description }
func (t *Ticket) CreatedAt() time.Time    { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time    { return t.updatedAt }

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

func (t *Ticket) IsOwnedBy(userID uint) bool {
	return t.ownerID == userID
}

func (t *Ticket) IsUnassigned() bool {
	return t.assigneeID == nil
}

func (t *Ticket) IsAssignedTo(userID uint) bool {
	return t.assigneeID != nil && *t.assigneeID == userID
}

// SetStatus records a transition planned by the status machine.
func (t *Ticket) SetStatus(status vo.TicketStatus, at time.Time) {
	t.status = status
	t.updatedAt = at
}

func (t *Ticket) AssignTo(agentID uint, at time.Time) {
	t.assigneeID = &agentID
	t.updatedAt = at
}

// Edit carries the fields a caller wants to change; nil fields stay untouched.
type Edit struct {
	Title       *string
	Category    *string
	Priority    *string
	Description *string
}

// IsEmpty reports whether no field was supplied.
func (e Edit) IsEmpty() bool {
	return e.Title == nil && e.Category == nil && e.Priority == nil && e.Description == nil
}

// ApplyEdit validates and applies e, returning the names of the columns it changed.
func (t *Ticket) ApplyEdit(e Edit, at time.Time) ([]string, error) {
	if e.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}

	next := *t
	var changed []string

	if e.Title != nil {
		title := strings.TrimSpace(*e.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		next.title = title
		changed = append(changed, "title")
	}
	if e.Category != nil {
		category := strings.TrimSpace(*e.Category)
		if err := validateCategory(category); err != nil {
			return nil, err
		}
		next.category = category
		changed = append(changed, "category")
	}
	if e.Priority != nil {
		p, err := vo.ParsePriority(*e.Priority)
		if err != nil {
			return nil, ErrInvalidPriority
		}
		next.priority = p
		changed = append(changed, "priority")
	}
	if e.Description != nil {
		description := strings.TrimSpace(*e.Description)
		if description == "" {
			return nil, fmt.Errorf("description is required")
		}
		next.description = description
		changed = append(changed, "description")
	}

	next.updatedAt = at
	*t = next
	return changed, nil
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > maxTitleLength {
		return fmt.Errorf("title exceeds maximum length of %d characters", maxTitleLength)
	}
	return nil
}

func validateCategory(category string) error {
	if category == "" {
		return fmt.Errorf("category is required")
	}
	if len(category) > maxCategoryLength {
		return fmt.Errorf("category exceeds maximum length of %d characters", maxCategoryLength)
	}
	return nil
}
