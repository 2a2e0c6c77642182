package authorization

import "fmt"

// Identity is the authenticated actor of a request. It is produced by the
// auth middleware and passed explicitly to every use case.
type Identity struct {
	UserID uint
	Role   UserRole
}

// NewIdentity validates the pair and returns an Identity.
func NewIdentity(userID uint, role UserRole) (Identity, error) {
	if userID == 0 {
		return Identity{}, fmt.Errorf("identity requires a user id")
	}
	if !role.IsValid() {
		return Identity{}, fmt.Errorf("invalid role %q", string(role))
	}
	return Identity{UserID: userID, Role: role}, nil
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func (i Identity) IsStaff() bool {
	return i.Role.IsStaff()
}

func (i Identity) String() string {
	return fmt.Sprintf("%s#%d", i.Role, i.UserID)
}
