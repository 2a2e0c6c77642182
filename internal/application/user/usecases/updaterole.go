package usecases

import (
	"context"

	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

type UpdateUserRoleCommand struct {
	Actor  authorization.Identity
	UserID uint
	Role   string
}

type UpdateUserRoleUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewUpdateUserRoleUseCase(userRepo user.Repository, logger logger.Interface) *UpdateUserRoleUseCase {
	return &UpdateUserRoleUseCase{userRepo: userRepo, logger: logger}
}

func (uc *UpdateUserRoleUseCase) Execute(ctx context.Context, cmd UpdateUserRoleCommand) error {
	if !cmd.Actor.IsAdmin() {
		uc.logger.Warnw("role change denied", "actor", cmd.Actor.String(), "user_id", cmd.UserID)
		return errors.NewForbiddenError("only administrators can change roles")
	}
	if cmd.UserID == cmd.Actor.UserID {
		return errors.NewValidationError("you cannot change your own role")
	}

	role, err := authorization.ParseUserRole(cmd.Role)
	if err != nil {
		return errors.NewValidationError("invalid role", cmd.Role)
	}

	if err := uc.userRepo.UpdateRole(ctx, cmd.UserID, role); err != nil {
		appErr := toAppError(err, "failed to update role")
		if errors.IsInternalError(appErr) {
			uc.logger.Errorw("failed to update role", "user_id", cmd.UserID, "error", err)
		}
		return appErr
	}

	uc.logger.Infow("user role updated", "user_id", cmd.UserID, "role", role.String(), "actor", cmd.Actor.String())
	return nil
}
