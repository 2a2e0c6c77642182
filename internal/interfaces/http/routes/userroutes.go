package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/tdesk-io/tdesk/internal/interfaces/http/handlers"
	"github.com/tdesk-io/tdesk/internal/interfaces/http/middleware"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
)

type UserRouteConfig struct {
	UserHandler    *handlers.UserHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupUserRoutes(engine *gin.Engine, config *UserRouteConfig) {
	users := engine.Group("/users")
	users.Use(config.AuthMiddleware.RequireAuth())
	{
		users.GET("", authorization.RequireStaff(), config.UserHandler.ListUsers)
		users.GET("/agents", authorization.RequireStaff(), config.UserHandler.ListAgents)
		users.POST("", authorization.RequireAdmin(), config.UserHandler.CreateUser)
		users.PATCH("/:id/role", authorization.RequireAdmin(), config.UserHandler.UpdateRole)
		users.DELETE("/:id", authorization.RequireAdmin(), config.UserHandler.DeleteUser)
	}
}
