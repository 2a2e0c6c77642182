package usecases

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
)

func TestAddResponse(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	first := h.user(t, "Sam Support", "sam@example.com", authorization.RoleSupport)
	second := h.user(t, "Sue Support", "sue@example.com", authorization.RoleSupport)
	admin := h.user(t, "Ada Admin", "ada@example.com", authorization.RoleAdmin)
	client := h.user(t, "Carla Client", "carla@example.com", authorization.RoleClient)

	id := h.createTicket(t, client, "Phone line dead")
	h.assign(t, admin, id, first.UserID)
	before := h.load(t, id).UpdatedAt()
	time.Sleep(5 * time.Millisecond)

	uc := h.responseUseCase()

	_, err := uc.Execute(ctx, AddResponseCommand{Actor: client, TicketID: id, Text: "hello?"})
	assert.True(t, errors.IsForbiddenError(err))

	_, err = uc.Execute(ctx, AddResponseCommand{Actor: first, TicketID: id, Text: " <br> "})
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.Execute(ctx, AddResponseCommand{Actor: first, TicketID: 999, Text: "hi"})
	assert.True(t, errors.IsNotFoundError(err))

	// Responding is not limited by visibility.
	res, err := uc.Execute(ctx, AddResponseCommand{
		Actor:       second,
		TicketID:    id,
		Text:        "Technician on the way",
		Attachments: []ticket.AttachmentMetadata{attachment("route.pdf")},
	})
	require.NoError(t, err)
	assert.NotZero(t, res.ResponseID)
	assert.True(t, h.load(t, id).UpdatedAt().After(before))

	entries := h.activityFor(t, id)
	assert.Equal(t, ticket.ActionResponseAdded, entries[0].Action)

	details, err := h.getUseCase().Execute(ctx, GetTicketQuery{Actor: client, TicketID: id})
	require.NoError(t, err)
	require.Len(t, details.Responses, 1)
	assert.Equal(t, "Technician on the way", details.Responses[0].Text)
	assert.Equal(t, "Sue Support", details.Responses[0].ResponderName)
	require.Len(t, details.Responses[0].Attachments, 1)
	assert.Equal(t, "route.pdf", details.Responses[0].Attachments[0].OriginalName)
	assert.Len(t, details.Activity, 3)
	assert.Equal(t, "Sam Support", details.AssigneeName)
}

func TestGetTicket_OptionalTablesMissing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	client := h.user(t, "Carla Client", "carla@example.com", authorization.RoleClient)
	id := h.createTicket(t, client, "Door badge", attachment("badge.png"))

	for _, table := range []string{
		constants.TableTicketAttachments,
		constants.TableTicketResponseAttachments,
		constants.TableTicketResponses,
		constants.TableTicketActivity,
	} {
		require.NoError(t, h.gdb.Migrator().DropTable(table))
	}

	details, err := h.getUseCase().Execute(ctx, GetTicketQuery{Actor: client, TicketID: id})
	require.NoError(t, err)
	assert.Equal(t, "Door badge", details.Title)
	assert.Empty(t, details.Attachments)
	assert.Empty(t, details.Activity)
	assert.Empty(t, details.Responses)
}

func TestAddResponse_AuditFailureRollsBack(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	support := h.user(t, "Sam Support", "sam@example.com", authorization.RoleSupport)
	client := h.user(t, "Carla Client", "carla@example.com", authorization.RoleClient)
	id := h.createTicket(t, client, "Phone line dead")
	before := h.load(t, id).UpdatedAt()
	time.Sleep(5 * time.Millisecond)

	uc := NewAddResponseUseCase(h.tickets, h.responses, h.users, h.tm, failingAudit{err: stderrors.New("boom")}, h.ledger, h.notifier, h.log)
	_, err := uc.Execute(ctx, AddResponseCommand{
		Actor:       support,
		TicketID:    id,
		Text:        "Checking the exchange",
		Attachments: []ticket.AttachmentMetadata{attachment("trace.pdf")},
	})
	assert.True(t, errors.IsInternalError(err))

	responses, err := h.responses.ListForTicket(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, responses)
	assert.True(t, before.Equal(h.load(t, id).UpdatedAt()))

	var files int64
	require.NoError(t, h.gdb.Table(constants.TableTicketResponseAttachments).Count(&files).Error)
	assert.Zero(t, files)
}
