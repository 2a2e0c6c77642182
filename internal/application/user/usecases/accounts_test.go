package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
)

func TestRegister(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	uc := NewRegisterUseCase(h.users, h.hasher, h.log)

	res, err := uc.Execute(ctx, RegisterCommand{Name: "Carla Client", Email: " Carla@Example.com ", Password: "Secret123"})
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, "carla@example.com", res.Email)
	assert.Equal(t, authorization.RoleClient.String(), res.Role)

	stored, err := h.users.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", stored.PasswordHash())
	assert.NoError(t, h.hasher.Verify("Secret123", stored.PasswordHash()))

	tests := []struct {
		name    string
		cmd     RegisterCommand
		checkFn func(error) bool
	}{
		{"weak password", RegisterCommand{Name: "Weak Pass", Email: "weak@example.com", Password: "secret"}, errors.IsValidationError},
		{"no upper case", RegisterCommand{Name: "Weak Pass", Email: "weak@example.com", Password: "secret123"}, errors.IsValidationError},
		{"name with digits", RegisterCommand{Name: "R2 D2", Email: "r2@example.com", Password: "Secret123"}, errors.IsValidationError},
		{"bad email", RegisterCommand{Name: "No Email", Email: "nope", Password: "Secret123"}, errors.IsValidationError},
		{"duplicate email", RegisterCommand{Name: "Carla Again", Email: "CARLA@example.com", Password: "Secret123"}, errors.IsConflictError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.cmd)
			require.Error(t, err)
			assert.True(t, tt.checkFn(err), "got %v", err)
		})
	}
}

func TestCreateUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.account(t, "Ada Admin", "ada@example.com", authorization.RoleAdmin)
	support := h.account(t, "Sam Support", "sam@example.com", authorization.RoleSupport)
	uc := NewCreateUserUseCase(h.users, h.hasher, h.log)

	_, err := uc.Execute(ctx, CreateUserCommand{Actor: support, Name: "New Agent", Email: "new@example.com", Password: "Secret123", Role: "support"})
	assert.True(t, errors.IsForbiddenError(err))

	_, err = uc.Execute(ctx, CreateUserCommand{Actor: admin, Name: "New Agent", Email: "new@example.com", Password: "Secret123", Role: "owner"})
	assert.True(t, errors.IsValidationError(err))

	res, err := uc.Execute(ctx, CreateUserCommand{Actor: admin, Name: "New Agent", Email: "new@example.com", Password: "Secret123", Role: "support"})
	require.NoError(t, err)
	assert.Equal(t, "support", res.Role)
}

func TestUpdateUserRole(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.account(t, "Ada Admin", "ada@example.com", authorization.RoleAdmin)
	client := h.account(t, "Carla Client", "carla@example.com", authorization.RoleClient)
	uc := NewUpdateUserRoleUseCase(h.users, h.log)

	tests := []struct {
		name    string
		cmd     UpdateUserRoleCommand
		checkFn func(error) bool
	}{
		{"client cannot promote", UpdateUserRoleCommand{Actor: client, UserID: client.UserID, Role: "admin"}, errors.IsForbiddenError},
		{"admin cannot change own role", UpdateUserRoleCommand{Actor: admin, UserID: admin.UserID, Role: "client"}, errors.IsValidationError},
		{"invalid role", UpdateUserRoleCommand{Actor: admin, UserID: client.UserID, Role: "root"}, errors.IsValidationError},
		{"unknown user", UpdateUserRoleCommand{Actor: admin, UserID: 999, Role: "support"}, errors.IsNotFoundError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := uc.Execute(ctx, tt.cmd)
			require.Error(t, err)
			assert.True(t, tt.checkFn(err), "got %v", err)
		})
	}

	require.NoError(t, uc.Execute(ctx, UpdateUserRoleCommand{Actor: admin, UserID: client.UserID, Role: "support"}))
	u, err := h.users.GetByID(ctx, client.UserID)
	require.NoError(t, err)
	assert.Equal(t, authorization.RoleSupport, u.Role())
	assert.True(t, u.CanWorkTickets())
}

func TestListUsersAndAgents(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.account(t, "Zoe Admin", "zoe@example.com", authorization.RoleAdmin)
	h.account(t, "Bob Support", "bob@example.com", authorization.RoleSupport)
	client := h.account(t, "Carla Client", "carla@example.com", authorization.RoleClient)

	list := NewListUsersUseCase(h.users, h.log)
	_, err := list.Execute(ctx, ListUsersQuery{Actor: client})
	assert.True(t, errors.IsForbiddenError(err))

	all, err := list.Execute(ctx, ListUsersQuery{Actor: admin})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	clients, err := list.Execute(ctx, ListUsersQuery{Actor: admin, Role: "client"})
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "carla@example.com", clients[0].Email)

	found, err := list.Execute(ctx, ListUsersQuery{Actor: admin, Search: " bob "})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Bob Support", found[0].Name)

	_, err = list.Execute(ctx, ListUsersQuery{Actor: admin, Role: "owner"})
	assert.True(t, errors.IsValidationError(err))

	agents, err := NewListAgentsUseCase(h.users, h.log).Execute(ctx, admin)
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "Bob Support", agents[0].Name)
	assert.Equal(t, "Zoe Admin", agents[1].Name)
}
