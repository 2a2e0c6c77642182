package admin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdesk-io/tdesk/internal/application/user/usecases"
	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
	"github.com/tdesk-io/tdesk/internal/infrastructure/auth"
	"github.com/tdesk-io/tdesk/internal/infrastructure/database/dbtest"
	"github.com/tdesk-io/tdesk/internal/infrastructure/repository"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

const fixtureYAML = `
users:
  - name: Ada Admin
    email: ada@example.com
    password: Secret123
    role: admin
  - name: Sam Support
    email: sam@example.com
    password: Secret123
    role: support
  - name: Carla Client
    email: carla@example.com
    password: Secret123
    role: client
tickets:
  - title: Printer on fire
    category: Hardware
    priority: high
    description: Smoke is coming out of the tray.
    owner: carla@example.com
    assignee: sam@example.com
    status: in_progress
  - title: VPN drops every hour
    category: Network
    description: Reconnecting works for a while.
    owner: CARLA@example.com
`

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func newTestApp(t *testing.T) (*app, *repository.TicketRepository) {
	t.Helper()
	gdb := dbtest.Open(t)
	a := newApp(gdb, auth.NewBcryptPasswordHasher(4), logger.NewDiscard())
	t.Cleanup(a.tracker.Wait)
	return a, repository.NewTicketRepository(gdb)
}

func TestLoadFixture(t *testing.T) {
	f, err := loadFixture(writeFixture(t, fixtureYAML))
	require.NoError(t, err)
	require.Len(t, f.Users, 3)
	require.Len(t, f.Tickets, 2)
	assert.Equal(t, "sam@example.com", f.Tickets[0].Assignee)
	assert.Empty(t, f.Tickets[1].Priority)

	_, err = loadFixture(writeFixture(t, "users: [oops"))
	assert.Error(t, err)

	_, err = loadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	a, tickets := newTestApp(t)

	f, err := loadFixture(writeFixture(t, fixtureYAML))
	require.NoError(t, err)

	report, err := a.seed(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, &SeedReport{UsersCreated: 3, TicketsCreated: 2}, report)

	sam, err := a.users.GetByEmail(ctx, "sam@example.com")
	require.NoError(t, err)

	first, err := tickets.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusInProgress, first.Status())
	require.NotNil(t, first.AssigneeID())
	assert.Equal(t, sam.ID(), *first.AssigneeID())

	second, err := tickets.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusOpen, second.Status())
	assert.Nil(t, second.AssigneeID())

	t.Run("existing users are skipped", func(t *testing.T) {
		again, err := a.seed(ctx, &Fixture{Users: f.Users})
		require.NoError(t, err)
		assert.Equal(t, 3, again.UsersSkipped)
		assert.Zero(t, again.UsersCreated)
	})
}

func TestSeed_UnknownOwner(t *testing.T) {
	a, _ := newTestApp(t)

	report, err := a.seed(context.Background(), &Fixture{
		Tickets: []FixtureTicket{{Title: "Lost", Category: "General", Description: "Nobody owns me", Owner: "ghost@example.com"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost@example.com")
	assert.Zero(t, report.TicketsCreated)
}

func TestPromote_UsesOperatorIdentity(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t)

	created, err := a.createUser.Execute(ctx, usecases.CreateUserCommand{
		Actor:    operator,
		Name:     "Sam Support",
		Email:    "sam@example.com",
		Password: "Secret123",
		Role:     string(authorization.RoleSupport),
	})
	require.NoError(t, err)

	require.NoError(t, a.updateRole.Execute(ctx, usecases.UpdateUserRoleCommand{
		Actor:  operator,
		UserID: created.ID,
		Role:   string(authorization.RoleAdmin),
	}))

	u, err := a.users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, authorization.RoleAdmin, u.Role())

	err = a.updateRole.Execute(ctx, usecases.UpdateUserRoleCommand{Actor: operator, UserID: created.ID, Role: "owner"})
	assert.True(t, errors.IsValidationError(err))
}
