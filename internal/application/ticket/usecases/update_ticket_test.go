package usecases

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
)

func strPtr(s string) *string { return &s }

func TestUpdateTicket(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.user(t, "Ada Admin", "ada@example.com", authorization.RoleAdmin)
	support := h.user(t, "Sam Support", "sam@example.com", authorization.RoleSupport)
	owner := h.user(t, "Carla Client", "carla@example.com", authorization.RoleClient)
	other := h.user(t, "Olga Other", "olga@example.com", authorization.RoleClient)
	id := h.createTicket(t, owner, "Wifi slow")
	uc := h.updateUseCase()

	res, err := uc.Execute(ctx, UpdateTicketCommand{Actor: owner, TicketID: id, Title: strPtr("<i>Wifi</i> very slow"), Priority: strPtr("HIGH")})
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "priority"}, res.UpdatedFields)

	tk := h.load(t, id)
	assert.Equal(t, "Wifi very slow", tk.Title())
	assert.Equal(t, vo.PriorityHigh, tk.Priority())
	assert.Equal(t, "Details for Wifi slow", tk.Description())

	entries := h.activityFor(t, id)
	assert.Equal(t, ticket.ActionUpdated, entries[0].Action)
	assert.Equal(t, "Ticket updated: title, priority", *entries[0].Details)

	t.Run("no fields", func(t *testing.T) {
		_, err := uc.Execute(ctx, UpdateTicketCommand{Actor: owner, TicketID: id})
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("urgent priority", func(t *testing.T) {
		_, err := uc.Execute(ctx, UpdateTicketCommand{Actor: admin, TicketID: id, Priority: strPtr("urgent")})
		assert.True(t, errors.IsValidationError(err))
		assert.Equal(t, vo.PriorityHigh, h.load(t, id).Priority())
	})

	t.Run("other client sees not found", func(t *testing.T) {
		_, err := uc.Execute(ctx, UpdateTicketCommand{Actor: other, TicketID: id, Title: strPtr("Mine now")})
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("unassigned support agent is forbidden", func(t *testing.T) {
		_, err := uc.Execute(ctx, UpdateTicketCommand{Actor: support, TicketID: id, Category: strPtr("Network")})
		assert.True(t, errors.IsForbiddenError(err))
	})

	t.Run("assigned support agent may edit", func(t *testing.T) {
		h.assign(t, admin, id, support.UserID)
		_, err := uc.Execute(ctx, UpdateTicketCommand{Actor: support, TicketID: id, Category: strPtr("Network")})
		require.NoError(t, err)
		assert.Equal(t, "Network", h.load(t, id).Category())
	})
}

func TestUpdateTicket_AuditFailureRollsBack(t *testing.T) {
	h := newHarness(t)
	owner := h.user(t, "Carla Client", "carla@example.com", authorization.RoleClient)
	id := h.createTicket(t, owner, "Wifi slow")

	uc := NewUpdateTicketUseCase(h.tickets, h.tm, failingAudit{err: stderrors.New("boom")}, h.notifier, h.log)
	_, err := uc.Execute(context.Background(), UpdateTicketCommand{
		Actor:    owner,
		TicketID: id,
		Title:    strPtr("Wifi down"),
		Priority: strPtr("high"),
	})
	assert.True(t, errors.IsInternalError(err))

	tk := h.load(t, id)
	assert.Equal(t, "Wifi slow", tk.Title())
	assert.Equal(t, vo.PriorityMedium, tk.Priority())
	assert.Len(t, h.activityFor(t, id), 1)
}
