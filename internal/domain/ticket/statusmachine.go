package ticket

import (
	"fmt"
	"strings"

	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
)

// Transition is the outcome of planning a status change. A NoOp transition
// must not be persisted or audited.
type Transition struct {
	From vo.TicketStatus
	To   vo.TicketStatus
	Note string
	NoOp bool
}

// CanChangeStatus reports whether the role may move tickets between statuses.
func CanChangeStatus(role authorization.UserRole) bool {
	return role.IsStaff()
}

// PlanTransition validates a requested status change. Every status may move
// to every other status; only the actor's role and the target value are checked.
func PlanTransition(actor authorization.Identity, current vo.TicketStatus, requested, note string) (Transition, error) {
	if !CanChangeStatus(actor.Role) {
		return Transition{}, ErrStatusChangeForbidden
	}

	target, err := vo.ParseTicketStatus(requested)
	if err != nil {
		return Transition{}, fmt.Errorf("%w: %q", ErrInvalidStatus, requested)
	}

	if target == current {
		return Transition{From: current, To: target, NoOp: true}, nil
	}

	note = strings.TrimSpace(note)
	if note == "" {
		note = DefaultTransitionNote(current, target)
	}

	return Transition{From: current, To: target, Note: note}, nil
}

// DefaultTransitionNote is the audit text used when the actor gives no note.
func DefaultTransitionNote(from, to vo.TicketStatus) string {
	return fmt.Sprintf("Status updated from %s to %s", from, to)
}
