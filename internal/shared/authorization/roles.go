package authorization

import "fmt"

// UserRole is the closed set of helpdesk roles.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleSupport UserRole = "support"
	RoleClient  UserRole = "client"
)

// Roles lists every valid role in display order.
var Roles = []UserRole{RoleAdmin, RoleSupport, RoleClient}

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSupport, RoleClient:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// IsStaff reports whether the role works tickets (admin or support).
func (r UserRole) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleSupport:
		return true
	case RoleClient:
		return false
	}
	panic(fmt.Sprintf("authorization: unknown role %q", string(r)))
}

// ParseUserRole parses s into a role, rejecting anything outside the enum.
func ParseUserRole(s string) (UserRole, error) {
	role := UserRole(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return role, nil
}
