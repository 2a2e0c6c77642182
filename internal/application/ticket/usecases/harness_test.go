package usecases

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tdesk-io/tdesk/internal/application/ticket/services"
	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/infrastructure/database/dbtest"
	"github.com/tdesk-io/tdesk/internal/infrastructure/repository"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/db"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []ticket.Event
}

func (n *recordingNotifier) Committed(_ context.Context, ev ticket.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, ev := range n.events {
		out[i] = ev.EventType
	}
	return out
}

type countingDegrade struct {
	mu     sync.Mutex
	tables []string
}

func (d *countingDegrade) DegradedWrite(table string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tables = append(d.tables, table)
}

type fakeFiles struct {
	removed []string
	fail    int
}

func (f *fakeFiles) RemoveAll(paths []string) int {
	f.removed = append(f.removed, paths...)
	return f.fail
}

type failingAudit struct{ err error }

func (a failingAudit) Record(context.Context, services.AuditEntry) error { return a.err }

// harness wires the ticket use cases to a throwaway SQLite database.
type harness struct {
	gdb         *gorm.DB
	tm          *db.TransactionManager
	tickets     *repository.TicketRepository
	users       *repository.UserRepository
	activity    *repository.ActivityRepository
	attachments *repository.AttachmentRepository
	responses   *repository.ResponseRepository
	queries     *repository.TicketQueryRepository
	audit       *services.AuditRecorder
	ledger      *services.AttachmentLedger
	degrade     *countingDegrade
	notifier    *recordingNotifier
	files       *fakeFiles
	log         logger.Interface
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gdb := dbtest.Open(t)
	h := &harness{
		gdb:         gdb,
		tm:          db.NewTransactionManager(gdb),
		tickets:     repository.NewTicketRepository(gdb),
		users:       repository.NewUserRepository(gdb),
		activity:    repository.NewActivityRepository(gdb),
		attachments: repository.NewAttachmentRepository(gdb),
		responses:   repository.NewResponseRepository(gdb),
		queries:     repository.NewTicketQueryRepository(gdb),
		degrade:     &countingDegrade{},
		notifier:    &recordingNotifier{},
		files:       &fakeFiles{},
		log:         logger.NewDiscard(),
	}
	h.audit = services.NewAuditRecorder(h.activity, h.users, h.tm, h.degrade, h.log)
	h.ledger = services.NewAttachmentLedger(h.attachments, h.tm, h.degrade, h.log)
	return h
}

func (h *harness) user(t *testing.T, name, email string, role authorization.UserRole) authorization.Identity {
	t.Helper()
	u, err := user.NewUser(name, email, "hash", role)
	require.NoError(t, err)
	require.NoError(t, h.users.Create(context.Background(), u))
	return u.Identity()
}

func (h *harness) createUseCase() *CreateTicketUseCase {
	return NewCreateTicketUseCase(h.tickets, h.users, h.tm, h.audit, h.ledger, h.notifier, h.log)
}

func (h *harness) statusUseCase(requireVisible bool) *UpdateTicketStatusUseCase {
	return NewUpdateTicketStatusUseCase(h.tickets, h.tm, h.audit, h.notifier, requireVisible, h.log)
}

func (h *harness) assignUseCase() *AssignTicketUseCase {
	return NewAssignTicketUseCase(h.tickets, h.users, h.tm, h.audit, h.notifier, h.log)
}

func (h *harness) updateUseCase() *UpdateTicketUseCase {
	return NewUpdateTicketUseCase(h.tickets, h.tm, h.audit, h.notifier, h.log)
}

func (h *harness) deleteUseCase() *DeleteTicketUseCase {
	return NewDeleteTicketUseCase(h.tickets, h.attachments, h.tm, h.files, h.notifier, h.log)
}

func (h *harness) responseUseCase() *AddResponseUseCase {
	return NewAddResponseUseCase(h.tickets, h.responses, h.users, h.tm, h.audit, h.ledger, h.notifier, h.log)
}

func (h *harness) getUseCase() *GetTicketUseCase {
	return NewGetTicketUseCase(h.queries, h.attachments, h.activity, h.responses, h.log)
}

func (h *harness) listUseCase() *ListTicketsUseCase {
	return NewListTicketsUseCase(h.queries, 100, h.log)
}

func (h *harness) createTicket(t *testing.T, actor authorization.Identity, title string, attachments ...ticket.AttachmentMetadata) uint {
	t.Helper()
	res, err := h.createUseCase().Execute(context.Background(), CreateTicketCommand{
		Actor:       actor,
		Title:       title,
		Category:    "Hardware",
		Priority:    "medium",
		Description: "Details for " + title,
		Attachments: attachments,
	})
	require.NoError(t, err)
	return res.TicketID
}

func (h *harness) assign(t *testing.T, admin authorization.Identity, ticketID, agentID uint) {
	t.Helper()
	_, err := h.assignUseCase().Execute(context.Background(), AssignTicketCommand{Actor: admin, TicketID: ticketID, AgentID: agentID})
	require.NoError(t, err)
}

func (h *harness) activityFor(t *testing.T, ticketID uint) []ticket.ActivityEntry {
	t.Helper()
	entries, err := h.activity.ListForTicket(context.Background(), ticketID, 100)
	require.NoError(t, err)
	return entries
}

func (h *harness) load(t *testing.T, ticketID uint) *ticket.Ticket {
	t.Helper()
	tk, err := h.tickets.GetByID(context.Background(), ticketID)
	require.NoError(t, err)
	return tk
}
