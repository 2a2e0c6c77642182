package http

import (
	"fmt"

	"github.com/tdesk-io/tdesk/internal/interfaces/http/handlers"
	tickethandlers "github.com/tdesk-io/tdesk/internal/interfaces/http/handlers/ticket"
)

type allHandlers struct {
	ticketHandler *tickethandlers.TicketHandler
	authHandler   *handlers.AuthHandler
	userHandler   *handlers.UserHandler
	healthHandler *handlers.HealthHandler
}

func (c *Container) newHandlers() (*allHandlers, error) {
	ucs := c.ucs
	log := c.log

	sqlDB, err := c.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB for health checks: %w", err)
	}

	return &allHandlers{
		ticketHandler: tickethandlers.NewTicketHandler(tickethandlers.Executors{
			CreateTicket:   ucs.createTicket,
			UpdateTicket:   ucs.updateTicket,
			UpdateStatus:   ucs.updateStatus,
			AssignTicket:   ucs.assignTicket,
			DeleteTicket:   ucs.deleteTicket,
			AddResponse:    ucs.addResponse,
			GetTicket:      ucs.getTicket,
			ListTickets:    ucs.listTickets,
			Stats:          ucs.stats,
			Chart:          ucs.chart,
			RecentActivity: ucs.recentActivity,
		}, ucs.collab.files, log.Named("handler.ticket")),
		authHandler:   handlers.NewAuthHandler(ucs.userService, log.Named("handler.auth")),
		userHandler:   handlers.NewUserHandler(ucs.userService, log.Named("handler.user")),
		healthHandler: handlers.NewHealthHandler(sqlDB, log.Named("handler.health")),
	}, nil
}
