package valueobjects

import (
	"fmt"
	"strings"
)

type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
)

// Statuses lists every valid status in workflow order.
var Statuses = []TicketStatus{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	switch ts {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// IsCompleted reports whether the ticket counts as done in reports.
func (ts TicketStatus) IsCompleted() bool {
	return ts == StatusResolved || ts == StatusClosed
}

// ParseTicketStatus normalises raw (trim, lower case) and checks it against the enum.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	status := TicketStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %q", raw)
	}
	return status, nil
}
