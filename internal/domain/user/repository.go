package user

import (
	"context"
	"time"

	"github.com/tdesk-io/tdesk/internal/shared/authorization"
)

// Repository defines the interface for user data operations.
// Lookups return ErrUserNotFound for missing rows.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateRole(ctx context.Context, id uint, role authorization.UserRole) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ListFilter) ([]*User, error)
	// ListAgents returns admin and support users ordered by name.
	ListAgents(ctx context.Context) ([]*User, error)
}

// ListFilter narrows the user list. Empty fields do not filter.
type ListFilter struct {
	Role   authorization.UserRole
	Search string
}

// PasswordResetRepository stores recovery grants.
type PasswordResetRepository interface {
	Create(ctx context.Context, r *PasswordReset) error
	GetBySelector(ctx context.Context, selector string) (*PasswordReset, error)
	MarkUsed(ctx context.Context, id uint, at time.Time) error
	DeleteForUser(ctx context.Context, userID uint) error
	// DeleteStale removes used grants and grants expired before now.
	DeleteStale(ctx context.Context, now time.Time) (int64, error)
}
