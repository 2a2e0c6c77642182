package authorization

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	contextKeyUserID   = "user_id"
	contextKeyUserRole = "user_role"
)

// SetIdentity stores the identity on the gin context.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(contextKeyUserID, id.UserID)
	c.Set(contextKeyUserRole, string(id.Role))
}

// IdentityFrom reads the identity placed by the auth middleware.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	raw, exists := c.Get(contextKeyUserID)
	if !exists {
		return Identity{}, false
	}
	userID, ok := raw.(uint)
	if !ok {
		return Identity{}, false
	}
	id, err := NewIdentity(userID, UserRole(c.GetString(contextKeyUserRole)))
	if err != nil {
		return Identity{}, false
	}
	return id, true
}

// RequireRoles aborts with 403 unless the caller holds one of the roles.
func RequireRoles(roles ...UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := UserRole(c.GetString(contextKeyUserRole))
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"type":    "forbidden",
				"message": "insufficient role",
			},
		})
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(RoleAdmin)
}

func RequireStaff() gin.HandlerFunc {
	return RequireRoles(RoleAdmin, RoleSupport)
}
