package authorization

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserRole(t *testing.T) {
	for _, r := range Roles {
		got, err := ParseUserRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseUserRole("manager")
	assert.Error(t, err)
	_, err = ParseUserRole("")
	assert.Error(t, err)
}

func TestUserRole_IsStaff(t *testing.T) {
	assert.True(t, RoleAdmin.IsStaff())
	assert.True(t, RoleSupport.IsStaff())
	assert.False(t, RoleClient.IsStaff())
	assert.Panics(t, func() { UserRole("root").IsStaff() })
}

func TestNewIdentity(t *testing.T) {
	id, err := NewIdentity(3, RoleSupport)
	require.NoError(t, err)
	assert.Equal(t, "support#3", id.String())
	assert.True(t, id.IsStaff())
	assert.False(t, id.IsAdmin())

	_, err = NewIdentity(0, RoleAdmin)
	assert.Error(t, err)
	_, err = NewIdentity(1, "guest")
	assert.Error(t, err)
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		role     UserRole
		wantCode int
	}{
		{"admin passes", RoleAdmin, http.StatusOK},
		{"support passes", RoleSupport, http.StatusOK},
		{"client blocked", RoleClient, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := gin.New()
			r.Use(func(c *gin.Context) {
				SetIdentity(c, Identity{UserID: 1, Role: tt.role})
				c.Next()
			})
			r.GET("/x", RequireStaff(), func(c *gin.Context) {
				id, ok := IdentityFrom(c)
				assert.True(t, ok)
				assert.Equal(t, tt.role, id.Role)
				c.Status(http.StatusOK)
			})
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
