package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/tdesk-io/tdesk/internal/interfaces/http/handlers"
	"github.com/tdesk-io/tdesk/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler *handlers.AuthHandler
	RateLimiter *middleware.RateLimiter
}

// SetupAuthRoutes configures the public account routes.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/auth")
	{
		auth.POST("/register", cfg.RateLimiter.Limit(), cfg.AuthHandler.Register)
		auth.POST("/login", cfg.RateLimiter.Limit(), cfg.AuthHandler.Login)
		auth.POST("/password/forgot", cfg.RateLimiter.Limit(), cfg.AuthHandler.ForgotPassword)
		auth.POST("/password/reset", cfg.RateLimiter.Limit(), cfg.AuthHandler.ResetPassword)
	}
}
