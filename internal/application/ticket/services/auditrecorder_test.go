package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/infrastructure/database/dbtest"
	"github.com/tdesk-io/tdesk/internal/infrastructure/repository"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/db"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

func uintPtr(v uint) *uint { return &v }

func TestAuditRecorder_Record(t *testing.T) {
	repo := &mockActivityRepository{}
	runner := &inlineRunner{}
	rec := NewAuditRecorder(repo, &mockUserChecker{}, runner, &countingDegrade{}, logger.NewDiscard())

	err := rec.Record(context.Background(), AuditEntry{
		TicketID:   7,
		ActorID:    uintPtr(2),
		Action:     ticket.ActionStatusUpdate,
		FromStatus: vo.StatusOpen,
		ToStatus:   vo.StatusInProgress,
		Details:    "picked up",
	})
	require.NoError(t, err)
	require.Len(t, repo.appended, 1)
	assert.Equal(t, 1, runner.calls)

	a := repo.appended[0]
	require.NotNil(t, a.ActorID)
	assert.Equal(t, uint(2), *a.ActorID)
	assert.Equal(t, vo.StatusOpen, *a.FromStatus)
	assert.Equal(t, vo.StatusInProgress, *a.ToStatus)
	assert.Equal(t, "picked up", *a.Details)
}

func TestAuditRecorder_UnresolvedActorStoredAsNull(t *testing.T) {
	repo := &mockActivityRepository{}
	users := &mockUserChecker{ExistsFunc: func(ctx context.Context, id uint) (bool, error) { return false, nil }}
	rec := NewAuditRecorder(repo, users, &inlineRunner{}, &countingDegrade{}, logger.NewDiscard())

	require.NoError(t, rec.Record(context.Background(), AuditEntry{TicketID: 7, ActorID: uintPtr(99), Action: ticket.ActionUpdated}))
	require.Len(t, repo.appended, 1)
	assert.Nil(t, repo.appended[0].ActorID)
}

func TestAuditRecorder_ForeignKeyRetryWithoutActor(t *testing.T) {
	repo := &mockActivityRepository{
		AppendFunc: func(ctx context.Context, a *ticket.Activity) error {
			if a.ActorID != nil {
				return fmt.Errorf("failed to append activity: %w", db.ErrForeignKeyViolation)
			}
			return nil
		},
	}
	runner := &inlineRunner{}
	rec := NewAuditRecorder(repo, &mockUserChecker{}, runner, &countingDegrade{}, logger.NewDiscard())

	require.NoError(t, rec.Record(context.Background(), AuditEntry{TicketID: 7, ActorID: uintPtr(3), Action: ticket.ActionAssignment}))
	require.Len(t, repo.appended, 1)
	assert.Nil(t, repo.appended[0].ActorID)
	assert.Equal(t, 2, runner.calls)
}

func TestAuditRecorder_MissingTableDegrades(t *testing.T) {
	repo := &mockActivityRepository{
		AppendFunc: func(ctx context.Context, a *ticket.Activity) error {
			return fmt.Errorf("failed to append activity: %w", db.ErrRelationNotFound)
		},
	}
	degrade := &countingDegrade{}
	rec := NewAuditRecorder(repo, &mockUserChecker{}, &inlineRunner{}, degrade, logger.NewDiscard())

	require.NoError(t, rec.Record(context.Background(), AuditEntry{TicketID: 7, Action: ticket.ActionCreated}))
	assert.Equal(t, []string{constants.TableTicketActivity}, degrade.tables)
}

func TestAuditRecorder_OtherErrorsPropagate(t *testing.T) {
	boom := errors.New("disk full")
	repo := &mockActivityRepository{
		AppendFunc: func(ctx context.Context, a *ticket.Activity) error { return boom },
	}
	rec := NewAuditRecorder(repo, &mockUserChecker{}, &inlineRunner{}, &countingDegrade{}, logger.NewDiscard())

	err := rec.Record(context.Background(), AuditEntry{TicketID: 7, ActorID: uintPtr(1), Action: ticket.ActionCreated})
	assert.ErrorIs(t, err, boom)

	lookupErr := errors.New("connection reset")
	users := &mockUserChecker{ExistsFunc: func(ctx context.Context, id uint) (bool, error) { return false, lookupErr }}
	rec = NewAuditRecorder(&mockActivityRepository{}, users, &inlineRunner{}, &countingDegrade{}, logger.NewDiscard())
	assert.ErrorIs(t, rec.Record(context.Background(), AuditEntry{TicketID: 7, ActorID: uintPtr(1), Action: ticket.ActionCreated}), lookupErr)

	assert.Error(t, rec.Record(context.Background(), AuditEntry{TicketID: 0, Action: ticket.ActionCreated}))
}

func TestAuditRecorder_SQLiteDroppedTable(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	users := repository.NewUserRepository(gdb)

	u, err := user.NewUser("Ada Admin", "ada@example.com", "hash", authorization.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, u))

	tm := db.NewTransactionManager(gdb)
	degrade := &countingDegrade{}
	rec := NewAuditRecorder(repository.NewActivityRepository(gdb), users, tm, degrade, logger.NewDiscard())

	dbtest.DropTable(t, gdb, constants.TableTicketActivity)

	err = tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		return rec.Record(txCtx, AuditEntry{TicketID: 1, ActorID: uintPtr(u.ID()), Action: ticket.ActionCreated})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{constants.TableTicketActivity}, degrade.tables)
}
