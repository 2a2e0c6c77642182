package http

import (
	"time"

	"github.com/tdesk-io/tdesk/internal/application/ticket/usecases"
	"github.com/tdesk-io/tdesk/internal/application/user"
	userUsecases "github.com/tdesk-io/tdesk/internal/application/user/usecases"
	"github.com/tdesk-io/tdesk/internal/infrastructure/token"
	sharedConfig "github.com/tdesk-io/tdesk/internal/shared/config"
)

type allUseCases struct {
	createTicket   *usecases.CreateTicketUseCase
	updateTicket   *usecases.UpdateTicketUseCase
	updateStatus   *usecases.UpdateTicketStatusUseCase
	assignTicket   *usecases.AssignTicketUseCase
	deleteTicket   *usecases.DeleteTicketUseCase
	addResponse    *usecases.AddResponseUseCase
	getTicket      *usecases.GetTicketUseCase
	listTickets    *usecases.ListTicketsUseCase
	stats          *usecases.GetTicketStatsUseCase
	chart          *usecases.GetTicketChartUseCase
	recentActivity *usecases.ListRecentActivityUseCase

	userService   *user.ServiceDDD
	cleanupResets *userUsecases.CleanupPasswordResetsUseCase

	collab *ticketCollaborators
}

func (c *Container) newUseCases() *allUseCases {
	cfg := c.cfg
	log := c.log
	r := c.repos
	tm := r.txManager
	collab := c.newTicketCollaborators()
	requireVisible := cfg.Policy.StatusUpdateScope == sharedConfig.StatusScopeVisible

	ucs := &allUseCases{
		createTicket: usecases.NewCreateTicketUseCase(r.ticketRepo, r.userRepo, tm, collab.audit, collab.ledger, collab.notifier, log),
		updateTicket: usecases.NewUpdateTicketUseCase(r.ticketRepo, tm, collab.audit, collab.notifier, log),
		updateStatus: usecases.NewUpdateTicketStatusUseCase(r.ticketRepo, tm, collab.audit, collab.notifier, requireVisible, log),
		assignTicket: usecases.NewAssignTicketUseCase(r.ticketRepo, r.userRepo, tm, collab.audit, collab.notifier, log),
		deleteTicket: usecases.NewDeleteTicketUseCase(r.ticketRepo, r.attachmentRepo, tm, collab.files, collab.notifier, log),
		addResponse: usecases.NewAddResponseUseCase(
			r.ticketRepo, r.responseRepo, r.userRepo, tm,
			collab.audit, collab.ledger, collab.notifier, log,
		),
		getTicket:      usecases.NewGetTicketUseCase(r.queryRepo, r.attachmentRepo, r.activityRepo, r.responseRepo, log),
		listTickets:    usecases.NewListTicketsUseCase(r.queryRepo, cfg.Policy.BoardDefaultLimit, log),
		stats:          usecases.NewGetTicketStatsUseCase(r.queryRepo, log),
		chart:          usecases.NewGetTicketChartUseCase(r.queryRepo, cfg.Policy.ChartDays, log),
		recentActivity: usecases.NewListRecentActivityUseCase(r.activityRepo, log),
		cleanupResets:  userUsecases.NewCleanupPasswordResetsUseCase(r.resetRepo, log),
		collab:         collab,
	}

	loginLimit := userUsecases.Limit{
		Max:    cfg.RateLimit.LoginAttempts,
		Window: time.Duration(cfg.RateLimit.LoginWindowMinutes) * time.Minute,
	}
	resetLimit := userUsecases.Limit{
		Max:    cfg.RateLimit.ResetRequests,
		Window: time.Duration(cfg.RateLimit.ResetWindowMinutes) * time.Minute,
	}

	ucs.userService = user.NewServiceDDD(user.UseCases{
		Register:   userUsecases.NewRegisterUseCase(r.userRepo, c.hasher, log),
		CreateUser: userUsecases.NewCreateUserUseCase(r.userRepo, c.hasher, log),
		UpdateRole: userUsecases.NewUpdateUserRoleUseCase(r.userRepo, log),
		DeleteUser: userUsecases.NewDeleteUserUseCase(r.userRepo, r.resetRepo, r.ticketRepo, tm, log),
		ListUsers:  userUsecases.NewListUsersUseCase(r.userRepo, log),
		ListAgents: userUsecases.NewListAgentsUseCase(r.userRepo, log),
		Login:      userUsecases.NewLoginUseCase(r.userRepo, c.hasher, c.jwtSvc, c.limiter, loginLimit, log),
		RequestPasswordReset: userUsecases.NewRequestPasswordResetUseCase(
			r.userRepo, r.resetRepo, c.hasher, token.NewGenerator(), collab.mailer,
			c.limiter, resetLimit, cfg.Auth.Token.ResetTTL(), tm, log,
		),
		ResetPassword: userUsecases.NewResetPasswordUseCase(r.userRepo, r.resetRepo, c.hasher, tm, log),
	}, log)

	return ucs
}
