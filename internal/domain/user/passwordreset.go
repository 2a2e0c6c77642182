package user

import (
	"fmt"
	"time"
)

// PasswordReset is a one-time recovery grant. The selector is looked up in
// clear text; the token is only ever stored hashed.
type PasswordReset struct {
	ID        uint
	UserID    uint
	Selector  string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

func NewPasswordReset(userID uint, selector, tokenHash string, ttl time.Duration, now time.Time) (*PasswordReset, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if selector == "" || tokenHash == "" {
		return nil, fmt.Errorf("selector and token hash are required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("reset ttl must be positive")
	}
	return &PasswordReset{
		UserID:    userID,
		Selector:  selector,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// CheckUsable returns ErrResetUsed or ErrResetExpired when the grant can no
// longer be redeemed at now.
func (r *PasswordReset) CheckUsable(now time.Time) error {
	if r.UsedAt != nil {
		return ErrResetUsed
	}
	if !now.Before(r.ExpiresAt) {
		return ErrResetExpired
	}
	return nil
}

func (r *PasswordReset) MarkUsed(now time.Time) {
	r.UsedAt = &now
}
