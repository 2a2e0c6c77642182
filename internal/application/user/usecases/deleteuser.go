package usecases

import (
	"context"

	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/db"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

type DeleteUserCommand struct {
	Actor  authorization.Identity
	UserID uint
}

// DeleteUserUseCase removes an account that has no tickets, together with
// its pending password resets.
type DeleteUserUseCase struct {
	userRepo  user.Repository
	resetRepo user.PasswordResetRepository
	tickets   TicketCounter
	txRunner  TransactionRunner
	logger    logger.Interface
}

func NewDeleteUserUseCase(
	userRepo user.Repository,
	resetRepo user.PasswordResetRepository,
	tickets TicketCounter,
	txRunner TransactionRunner,
	logger logger.Interface,
) *DeleteUserUseCase {
	return &DeleteUserUseCase{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		tickets:   tickets,
		txRunner:  txRunner,
		logger:    logger,
	}
}

func (uc *DeleteUserUseCase) Execute(ctx context.Context, cmd DeleteUserCommand) error {
	if !cmd.Actor.IsAdmin() {
		uc.logger.Warnw("user deletion denied", "actor", cmd.Actor.String(), "user_id", cmd.UserID)
		return errors.NewForbiddenError("only administrators can delete users")
	}
	if cmd.UserID == cmd.Actor.UserID {
		return errors.NewValidationError("you cannot delete your own account")
	}

	err := uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.userRepo.GetByID(txCtx, cmd.UserID); err != nil {
			return err
		}

		count, err := uc.tickets.CountByUser(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		if count > 0 {
			return errors.NewConflictError("user still has tickets", "reassign or delete them first")
		}

		if err := uc.resetRepo.DeleteForUser(txCtx, cmd.UserID); err != nil && !db.IsRelationNotFound(err) {
			return err
		}
		return uc.userRepo.Delete(txCtx, cmd.UserID)
	})
	if err != nil {
		appErr := toAppError(err, "failed to delete user")
		if errors.IsInternalError(appErr) {
			uc.logger.Errorw("failed to delete user", "user_id", cmd.UserID, "error", err)
		}
		return appErr
	}

	uc.logger.Infow("user deleted", "user_id", cmd.UserID, "actor", cmd.Actor.String())
	return nil
}
