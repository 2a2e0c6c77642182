package routes

import (
	"github.com/gin-gonic/gin"

	tickethandlers "github.com/tdesk-io/tdesk/internal/interfaces/http/handlers/ticket"
	"github.com/tdesk-io/tdesk/internal/interfaces/http/middleware"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
)

type TicketRouteConfig struct {
	TicketHandler  *tickethandlers.TicketHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	tickets := engine.Group("/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		// Specific paths are registered before /:id.
		tickets.POST("", config.TicketHandler.CreateTicket)
		tickets.GET("", config.TicketHandler.ListTickets)
		tickets.GET("/board", config.TicketHandler.ListBoard)
		tickets.GET("/closed", config.TicketHandler.ListClosed)
		tickets.GET("/stats", config.TicketHandler.GetStats)
		tickets.GET("/charts", config.TicketHandler.GetChart)
		tickets.GET("/activity", config.TicketHandler.ListRecentActivity)

		tickets.PATCH("/:id/status", config.TicketHandler.UpdateStatus)
		tickets.POST("/:id/assign",
			authorization.RequireAdmin(),
			config.TicketHandler.AssignTicket)
		tickets.POST("/:id/responses",
			authorization.RequireStaff(),
			config.TicketHandler.AddResponse)

		tickets.GET("/:id", config.TicketHandler.GetTicket)
		tickets.PATCH("/:id", config.TicketHandler.UpdateTicket)
		// Owners may delete their own tickets; the use case decides.
		tickets.DELETE("/:id", config.TicketHandler.DeleteTicket)
	}
}
