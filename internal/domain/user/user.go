// Package user holds helpdesk accounts and password recovery.
package user

import (
	"fmt"
	"time"

	vo "github.com/tdesk-io/tdesk/internal/domain/user/valueobjects"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
)

type User struct {
	id           uint
	name         vo.Name
	email        vo.Email
	passwordHash string
	role         authorization.UserRole
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser validates the profile fields. passwordHash is opaque here.
func NewUser(name, email, passwordHash string, role authorization.UserRole) (*User, error) {
	n, err := vo.NewName(name)
	if err != nil {
		return nil, err
	}
	e, err := vo.NewEmail(email)
	if err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", string(role))
	}

	now := time.Now().UTC()
	return &User{
		name:         n,
		email:        e,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructUser(id uint, name, email, passwordHash string, role authorization.UserRole, createdAt, updatedAt time.Time) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("user %d: invalid role %q", id, string(role))
	}
	return &User{
		id:           id,
		name:         vo.Name(name),
		email:        vo.Email(email),
		passwordHash: passwordHash,
		role:         role,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (u *User) ID() uint                     { return u.id }
func (u *User) Name() string                 { return u.name.String() }
func (u *User) Email() string                { return u.email.String() }
func (u *User) PasswordHash() string         { return u.passwordHash }
func (u *User) Role() authorization.UserRole { return u.role }
func (u *User) CreatedAt() time.Time         { return u.createdAt }
func (u *User) UpdatedAt() time.Time         { return u.updatedAt }

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	u.id = id
	return nil
}

// Identity returns the actor identity of this account.
func (u *User) Identity() authorization.Identity {
	return authorization.Identity{UserID: u.id, Role: u.role}
}

// CanWorkTickets reports whether the user may be assigned tickets.
func (u *User) CanWorkTickets() bool {
	return u.role.IsStaff()
}

func (u *User) ChangeRole(role authorization.UserRole) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role %q", string(role))
	}
	u.role = role
	u.updatedAt = time.Now().UTC()
	return nil
}

// ValidatePasswordStrength checks a plain password against the default policy.
func ValidatePasswordStrength(password string) error {
	return vo.DefaultPasswordPolicy().ValidatePassword(password)
}
