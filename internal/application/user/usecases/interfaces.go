package usecases

import (
	"context"
	"time"

	"github.com/tdesk-io/tdesk/internal/infrastructure/auth"
	"github.com/tdesk-io/tdesk/internal/infrastructure/email"
	"github.com/tdesk-io/tdesk/internal/infrastructure/token"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
)

type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PasswordHasher hashes passwords and reset tokens.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) error
}

type TokenIssuer interface {
	Generate(id authorization.Identity) (*auth.AccessToken, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Reset(ctx context.Context, key string) error
}

type ResetMailer interface {
	SendPasswordReset(ctx context.Context, msg email.PasswordResetMessage) error
}

type CredentialGenerator interface {
	ResetCredentials() (token.ResetCredentials, error)
}

// TicketCounter reports how many tickets a user owns or works on.
type TicketCounter interface {
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// Limit is a sliding window quota. A zero Max disables the check.
type Limit struct {
	Max    int
	Window time.Duration
}
