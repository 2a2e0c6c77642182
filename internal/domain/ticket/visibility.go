package ticket

import (
	"fmt"

	"github.com/tdesk-io/tdesk/internal/shared/authorization"
)

// ScopeKind identifies which visibility predicate applies.
type ScopeKind int

const (
	// ScopeAll sees every ticket.
	ScopeAll ScopeKind = iota + 1
	// ScopeQueue sees unassigned tickets and tickets assigned to UserID.
	ScopeQueue
	// ScopeOwned sees tickets owned by UserID.
	ScopeOwned
)

// Scope is the visibility predicate of one actor. Repositories render it
// as a WHERE clause; Permits evaluates it in memory.
type Scope struct {
	Kind   ScopeKind
	UserID uint
}

// ScopeFor derives the visibility scope from the actor's role.
func ScopeFor(id authorization.Identity) Scope {
	switch id.Role {
	case authorization.RoleAdmin:
		return Scope{Kind: ScopeAll}
	case authorization.RoleSupport:
		return Scope{Kind: ScopeQueue, UserID: id.UserID}
	case authorization.RoleClient:
		return Scope{Kind: ScopeOwned, UserID: id.UserID}
	}
	panic(fmt.Sprintf("ticket: no visibility scope for role %q", string(id.Role)))
}

// Unrestricted reports whether the scope filters nothing.
func (s Scope) Unrestricted() bool {
	return s.Kind == ScopeAll
}

// Permits reports whether t is visible under s.
func (s Scope) Permits(t *Ticket) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeQueue:
		return t.IsUnassigned() || t.IsAssignedTo(s.UserID)
	case ScopeOwned:
		return t.IsOwnedBy(s.UserID)
	}
	panic(fmt.Sprintf("ticket: unknown scope kind %d", s.Kind))
}
