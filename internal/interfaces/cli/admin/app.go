package admin

import (
	"gorm.io/gorm"

	ticketServices "github.com/tdesk-io/tdesk/internal/application/ticket/services"
	ticketUsecases "github.com/tdesk-io/tdesk/internal/application/ticket/usecases"
	userUsecases "github.com/tdesk-io/tdesk/internal/application/user/usecases"
	"github.com/tdesk-io/tdesk/internal/infrastructure/events"
	"github.com/tdesk-io/tdesk/internal/infrastructure/metrics"
	"github.com/tdesk-io/tdesk/internal/infrastructure/repository"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/db"
	"github.com/tdesk-io/tdesk/internal/shared/goroutine"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

// operator is the identity maintenance commands act as. ID 0 never matches a
// stored user, so the self-modification checks cannot trip.
var operator = authorization.Identity{UserID: 0, Role: authorization.RoleAdmin}

// app is the slice of the application the admin commands drive. Events are
// dropped: a running server publishes its own.
type app struct {
	users        *repository.UserRepository
	tracker      *goroutine.Tracker
	createUser   *userUsecases.CreateUserUseCase
	updateRole   *userUsecases.UpdateUserRoleUseCase
	createTicket *ticketUsecases.CreateTicketUseCase
	assignTicket *ticketUsecases.AssignTicketUseCase
	updateStatus *ticketUsecases.UpdateTicketStatusUseCase
}

func newApp(gdb *gorm.DB, hasher userUsecases.PasswordHasher, log logger.Interface) *app {
	var m *metrics.Metrics

	users := repository.NewUserRepository(gdb)
	tickets := repository.NewTicketRepository(gdb)
	tm := db.NewTransactionManager(gdb)
	tracker := goroutine.NewTracker(log)

	audit := ticketServices.NewAuditRecorder(repository.NewActivityRepository(gdb), users, tm, m, log)
	ledger := ticketServices.NewAttachmentLedger(repository.NewAttachmentRepository(gdb), tm, m, log)
	notifier := ticketServices.NewMutationNotifier(events.NoopPublisher{}, m, tracker, log)

	return &app{
		users:        users,
		tracker:      tracker,
		createUser:   userUsecases.NewCreateUserUseCase(users, hasher, log),
		updateRole:   userUsecases.NewUpdateUserRoleUseCase(users, log),
		createTicket: ticketUsecases.NewCreateTicketUseCase(tickets, users, tm, audit, ledger, notifier, log),
		assignTicket: ticketUsecases.NewAssignTicketUseCase(tickets, users, tm, audit, notifier, log),
		updateStatus: ticketUsecases.NewUpdateTicketStatusUseCase(tickets, tm, audit, notifier, false, log),
	}
}
