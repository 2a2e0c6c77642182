package usecases

import (
	"context"
	"errors"

	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/shared/db"
	apperrors "github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

func toAppError(err error, msg string) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, user.ErrUserNotFound):
		return apperrors.NewNotFoundError("user not found")
	case errors.Is(err, user.ErrEmailTaken):
		return apperrors.NewConflictError("email already registered")
	case db.IsForeignKeyViolation(err):
		return apperrors.NewConflictError("user is still referenced by ticket records")
	}
	return apperrors.WrapInternal(msg, err)
}

// allow consults the limiter. A limiter failure lets the request through.
func allow(ctx context.Context, limiter RateLimiter, key string, l Limit, log logger.Interface) bool {
	if l.Max <= 0 {
		return true
	}
	ok, err := limiter.Allow(ctx, key, l.Max, l.Window)
	if err != nil {
		log.Warnw("rate limiter unavailable, allowing request", "key", key, "error", err)
		return true
	}
	return ok
}
