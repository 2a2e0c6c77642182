package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
)

func mustTicket(t *testing.T, id, owner uint, assignee *uint) *Ticket {
	t.Helper()
	tk, err := ReconstructTicket(id, owner, assignee, "title", "general", vo.PriorityMedium, vo.StatusOpen, "d", time.Now(), time.Now())
	require.NoError(t, err)
	return tk
}

func uintPtr(v uint) *uint { return &v }

func TestScopeFor(t *testing.T) {
	assert.Equal(t, Scope{Kind: ScopeAll}, ScopeFor(authorization.Identity{UserID: 2, Role: authorization.RoleAdmin}))
	assert.Equal(t, Scope{Kind: ScopeQueue, UserID: 1}, ScopeFor(authorization.Identity{UserID: 1, Role: authorization.RoleSupport}))
	assert.Equal(t, Scope{Kind: ScopeOwned, UserID: 4}, ScopeFor(authorization.Identity{UserID: 4, Role: authorization.RoleClient}))

	assert.Panics(t, func() {
		ScopeFor(authorization.Identity{UserID: 9, Role: "auditor"})
	})
}

func TestScope_Permits(t *testing.T) {
	unassigned := mustTicket(t, 1, 4, nil)
	mine := mustTicket(t, 2, 4, uintPtr(1))
	theirs := mustTicket(t, 3, 5, uintPtr(3))

	admin := ScopeFor(authorization.Identity{UserID: 2, Role: authorization.RoleAdmin})
	support := ScopeFor(authorization.Identity{UserID: 1, Role: authorization.RoleSupport})
	client := ScopeFor(authorization.Identity{UserID: 4, Role: authorization.RoleClient})

	tests := []struct {
		name  string
		scope Scope
		t     *Ticket
		want  bool
	}{
		{"admin sees unassigned", admin, unassigned, true},
		{"admin sees other agent's", admin, theirs, true},
		{"support sees unassigned", support, unassigned, true},
		{"support sees own assignment", support, mine, true},
		{"support blind to other agent's", support, theirs, false},
		{"client sees own unassigned", client, unassigned, true},
		{"client sees own assigned", client, mine, true},
		{"client blind to others", client, theirs, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.Permits(tt.t))
		})
	}
}
