package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tdesk-io/tdesk/internal/infrastructure/auth"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
	"github.com/tdesk-io/tdesk/internal/shared/utils"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	logger   logger.Interface
}

func NewAuthMiddleware(verifier TokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// RequireAuth resolves the bearer token into an identity or aborts with 401.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.verifier.Verify(parts[1])
		if err != nil {
			m.reject(c, err)
			return
		}

		id, err := claims.Identity()
		if err != nil {
			m.reject(c, err)
			return
		}

		authorization.SetIdentity(c, id)
		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context, cause error) {
	var authErr *errors.AuthError
	if stderrors.Is(cause, jwt.ErrTokenExpired) {
		authErr = errors.NewTokenExpiredError("access token")
	} else {
		authErr = errors.NewTokenInvalidError("access token")
	}
	if errors.ShouldLogAuthError(authErr) {
		m.logger.Warnw("rejected access token", "path", c.Request.URL.Path, "error", cause)
	}
	utils.ErrorResponseWithError(c, authErr)
	c.Abort()
}
