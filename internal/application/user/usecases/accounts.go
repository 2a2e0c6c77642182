package usecases

import (
	"context"

	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
	"github.com/tdesk-io/tdesk/internal/shared/utils"
)

// accountCreator validates, hashes and stores a new account. Register and
// the admin create-user flow share it.
type accountCreator struct {
	userRepo user.Repository
	hasher   PasswordHasher
	logger   logger.Interface
}

func (a accountCreator) create(ctx context.Context, name, email, password string, role authorization.UserRole) (*user.User, error) {
	if err := user.ValidatePasswordStrength(password); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		a.logger.Errorw("failed to hash password", "error", err)
		return nil, errors.WrapInternal("failed to create account", err)
	}

	u, err := user.NewUser(name, email, hash, role)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	taken, err := a.userRepo.ExistsByEmail(ctx, u.Email())
	if err != nil {
		a.logger.Errorw("failed to check email", "error", err)
		return nil, toAppError(err, "failed to create account")
	}
	if taken {
		return nil, errors.NewConflictError("email already registered")
	}

	if err := a.userRepo.Create(ctx, u); err != nil {
		appErr := toAppError(err, "failed to create account")
		if errors.IsInternalError(appErr) {
			a.logger.Errorw("failed to create user", "email", utils.MaskEmail(u.Email()), "error", err)
		}
		return nil, appErr
	}
	return u, nil
}
