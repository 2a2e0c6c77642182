package valueobjects

import (
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is used when a ticket is filed without one.
const DefaultPriority = PriorityMedium

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority normalises raw and checks it against the enum.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %q", raw)
	}
	return p, nil
}

// ParsePriorityOrDefault is ParsePriority with blank input mapped to DefaultPriority.
func ParsePriorityOrDefault(raw string) (Priority, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultPriority, nil
	}
	return ParsePriority(raw)
}
