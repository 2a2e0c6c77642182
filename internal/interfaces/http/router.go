package http

import (
	"github.com/tdesk-io/tdesk/internal/interfaces/http/middleware"
	"github.com/tdesk-io/tdesk/internal/interfaces/http/routes"
	"github.com/tdesk-io/tdesk/internal/shared/utils"
)

const healthPath = "/health"

// SetupRoutes installs the global middleware chain and registers every route
// group on the container's engine.
func (c *Container) SetupRoutes() {
	utils.UseJSONFieldNames()

	e := c.engine
	e.Use(middleware.Logger(c.log.Named("http"), healthPath))
	e.Use(middleware.Recovery(c.log.Named("recovery")))
	e.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	e.Use(middleware.SecurityHeaders())

	if c.metrics != nil {
		e.Use(c.metrics.Middleware(c.cfg.Metrics.Path))
		e.GET(c.cfg.Metrics.Path, c.metrics.Handler())
	}

	e.GET(healthPath, c.hdlrs.healthHandler.HealthCheck)
	e.GET("/version", c.hdlrs.healthHandler.Version)

	routes.SetupAuthRoutes(e, &routes.AuthRouteConfig{
		AuthHandler: c.hdlrs.authHandler,
		RateLimiter: c.rateLimiter,
	})
	routes.SetupTicketRoutes(e, &routes.TicketRouteConfig{
		TicketHandler:  c.hdlrs.ticketHandler,
		AuthMiddleware: c.authMiddleware,
	})
	routes.SetupUserRoutes(e, &routes.UserRouteConfig{
		UserHandler:    c.hdlrs.userHandler,
		AuthMiddleware: c.authMiddleware,
	})
}
