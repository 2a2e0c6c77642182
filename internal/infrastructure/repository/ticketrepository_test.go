package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/infrastructure/database/dbtest"
	"github.com/tdesk-io/tdesk/internal/infrastructure/persistence/models"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/db"
)

func createTestUser(t *testing.T, gdb *gorm.DB, name, email string, role authorization.UserRole) *user.User {
	t.Helper()
	u, err := user.NewUser(name, email, "hash", role)
	require.NoError(t, err)
	require.NoError(t, NewUserRepository(gdb).Create(context.Background(), u))
	return u
}

func createTestTicket(t *testing.T, gdb *gorm.DB, ownerID uint, title string) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket(ownerID, title, "Network", "Something is broken", vo.PriorityMedium)
	require.NoError(t, err)
	require.NoError(t, NewTicketRepository(gdb).Create(context.Background(), tk))
	return tk
}

func TestTicketRepository_CreateAndGet(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewTicketRepository(gdb)
	ctx := context.Background()
	client := createTestUser(t, gdb, "Carla Client", "carla@example.com", authorization.RoleClient)

	tk := createTestTicket(t, gdb, client.ID(), "Printer offline")
	assert.NotZero(t, tk.ID())

	found, err := repo.GetByID(ctx, tk.ID())
	require.NoError(t, err)
	assert.Equal(t, "Printer offline", found.Title())
	assert.Equal(t, vo.StatusOpen, found.Status())
	assert.True(t, found.IsUnassigned())

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ticket.ErrTicketNotFound)
}

func TestTicketRepository_GetVisible(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewTicketRepository(gdb)
	ctx := context.Background()

	owner := createTestUser(t, gdb, "Carla Client", "carla@example.com", authorization.RoleClient)
	other := createTestUser(t, gdb, "Oscar Other", "oscar@example.com", authorization.RoleClient)
	agent := createTestUser(t, gdb, "Sam Support", "sam@example.com", authorization.RoleSupport)
	peer := createTestUser(t, gdb, "Pia Support", "pia@example.com", authorization.RoleSupport)

	tk := createTestTicket(t, gdb, owner.ID(), "VPN down")

	tests := []struct {
		name    string
		scope   ticket.Scope
		visible bool
	}{
		{"owner sees own ticket", ticket.Scope{Kind: ticket.ScopeOwned, UserID: owner.ID()}, true},
		{"other client does not", ticket.Scope{Kind: ticket.ScopeOwned, UserID: other.ID()}, false},
		{"support sees unassigned", ticket.Scope{Kind: ticket.ScopeQueue, UserID: agent.ID()}, true},
		{"admin sees everything", ticket.Scope{Kind: ticket.ScopeAll}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.GetVisible(ctx, tk.ID(), tt.scope)
			if tt.visible {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ticket.ErrTicketNotFound)
			}
		})
	}

	require.NoError(t, repo.UpdateAssignee(ctx, tk.ID(), agent.ID(), time.Now().UTC()))

	_, err := repo.GetVisible(ctx, tk.ID(), ticket.Scope{Kind: ticket.ScopeQueue, UserID: agent.ID()})
	assert.NoError(t, err)
	_, err = repo.GetVisible(ctx, tk.ID(), ticket.Scope{Kind: ticket.ScopeQueue, UserID: peer.ID()})
	assert.ErrorIs(t, err, ticket.ErrTicketNotFound)
}

func TestTicketRepository_Updates(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewTicketRepository(gdb)
	ctx := context.Background()
	owner := createTestUser(t, gdb, "Carla Client", "carla@example.com", authorization.RoleClient)
	tk := createTestTicket(t, gdb, owner.ID(), "Mail bounce")

	t.Run("status", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, tk.ID(), vo.StatusInProgress, time.Now().UTC()))
		found, err := repo.GetByID(ctx, tk.ID())
		require.NoError(t, err)
		assert.Equal(t, vo.StatusInProgress, found.Status())
	})

	t.Run("fields", func(t *testing.T) {
		title := "Mail bounces for everyone"
		changed, err := tk.ApplyEdit(ticket.Edit{Title: &title}, time.Now().UTC())
		require.NoError(t, err)
		require.NoError(t, repo.UpdateFields(ctx, tk, changed))

		found, err := repo.GetByID(ctx, tk.ID())
		require.NoError(t, err)
		assert.Equal(t, title, found.Title())
	})

	t.Run("column outside whitelist", func(t *testing.T) {
		assert.Error(t, repo.UpdateFields(ctx, tk, []string{"user_id"}))
	})

	t.Run("missing ticket", func(t *testing.T) {
		assert.ErrorIs(t, repo.UpdateStatus(ctx, 4242, vo.StatusClosed, time.Now().UTC()), ticket.ErrTicketNotFound)
		assert.ErrorIs(t, repo.Touch(ctx, 4242, time.Now().UTC()), ticket.ErrTicketNotFound)
	})
}

func TestTicketRepository_DeleteCascades(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewTicketRepository(gdb)
	ctx := context.Background()
	owner := createTestUser(t, gdb, "Carla Client", "carla@example.com", authorization.RoleClient)
	agent := createTestUser(t, gdb, "Sam Support", "sam@example.com", authorization.RoleSupport)
	tk := createTestTicket(t, gdb, owner.ID(), "Disk full")
	keep := createTestTicket(t, gdb, owner.ID(), "Unrelated")

	attachments := NewAttachmentRepository(gdb)
	meta := []ticket.AttachmentMetadata{{
		OriginalName: "log.txt", StoredName: "a.txt", FilePath: "uploads/attachments/a.txt", FileSize: 10, MimeType: "text/plain",
	}}
	require.NoError(t, attachments.AddToTicket(ctx, tk.ID(), meta))

	resp, err := ticket.NewResponse(tk.ID(), agent.ID(), "Looking into it")
	require.NoError(t, err)
	require.NoError(t, NewResponseRepository(gdb).Create(ctx, resp))
	require.NoError(t, attachments.AddToResponse(ctx, resp.ID, meta))

	act, err := ticket.NewActivity(tk.ID(), nil, ticket.ActionCreated)
	require.NoError(t, err)
	require.NoError(t, NewActivityRepository(gdb).Append(ctx, act))

	require.NoError(t, repo.Delete(ctx, tk.ID()))

	for _, m := range []interface{}{
		&models.TicketActivityModel{}, &models.TicketAttachmentModel{},
		&models.TicketResponseModel{}, &models.ResponseAttachmentModel{},
	} {
		var count int64
		require.NoError(t, gdb.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}

	_, err = repo.GetByID(ctx, keep.ID())
	assert.NoError(t, err)
	assert.ErrorIs(t, repo.Delete(ctx, tk.ID()), ticket.ErrTicketNotFound)
}

func TestTicketRepository_DeleteWithoutOptionalTables(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewTicketRepository(gdb)
	owner := createTestUser(t, gdb, "Carla Client", "carla@example.com", authorization.RoleClient)
	tk := createTestTicket(t, gdb, owner.ID(), "Old schema")

	dbtest.DropTable(t, gdb, constants.TableTicketResponseAttachments)
	dbtest.DropTable(t, gdb, constants.TableTicketActivity)

	assert.NoError(t, repo.Delete(context.Background(), tk.ID()))
}

func TestTicketRepository_ForUpdateInTransaction(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewTicketRepository(gdb)
	owner := createTestUser(t, gdb, "Carla Client", "carla@example.com", authorization.RoleClient)
	tk := createTestTicket(t, gdb, owner.ID(), "Locked")

	err := db.NewTransactionManager(gdb).RunInTransaction(context.Background(), func(ctx context.Context) error {
		found, err := repo.GetByIDForUpdate(ctx, tk.ID())
		if err != nil {
			return err
		}
		return repo.UpdateStatus(ctx, found.ID(), vo.StatusResolved, time.Now().UTC())
	})
	require.NoError(t, err)

	found, err := repo.GetByID(context.Background(), tk.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusResolved, found.Status())
}

func TestTicketRepository_CountByUser(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewTicketRepository(gdb)
	ctx := context.Background()
	owner := createTestUser(t, gdb, "Carla Client", "carla@example.com", authorization.RoleClient)
	agent := createTestUser(t, gdb, "Sam Support", "sam@example.com", authorization.RoleSupport)
	idle := createTestUser(t, gdb, "Ian Idle", "ian@example.com", authorization.RoleSupport)

	tk := createTestTicket(t, gdb, owner.ID(), "Assigned")
	require.NoError(t, repo.UpdateAssignee(ctx, tk.ID(), agent.ID(), time.Now().UTC()))

	for _, tc := range []struct {
		id   uint
		want int64
	}{{owner.ID(), 1}, {agent.ID(), 1}, {idle.ID(), 0}} {
		n, err := repo.CountByUser(ctx, tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.want, n)
	}
}
