package usecases

import (
	"context"
	"errors"

	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/shared/biztime"
	apperrors "github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

const invalidResetLink = "invalid or expired reset link"

type ResetPasswordCommand struct {
	Selector    string
	Token       string
	NewPassword string
}

type ResetPasswordUseCase struct {
	userRepo  user.Repository
	resetRepo user.PasswordResetRepository
	hasher    PasswordHasher
	txRunner  TransactionRunner
	logger    logger.Interface
}

func NewResetPasswordUseCase(
	userRepo user.Repository,
	resetRepo user.PasswordResetRepository,
	hasher PasswordHasher,
	txRunner TransactionRunner,
	logger logger.Interface,
) *ResetPasswordUseCase {
	return &ResetPasswordUseCase{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		hasher:    hasher,
		txRunner:  txRunner,
		logger:    logger,
	}
}

func (uc *ResetPasswordUseCase) Execute(ctx context.Context, cmd ResetPasswordCommand) error {
	if err := user.ValidatePasswordStrength(cmd.NewPassword); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	now := biztime.NowUTC()
	var userID uint
	err := uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		reset, err := uc.resetRepo.GetBySelector(txCtx, cmd.Selector)
		if err != nil {
			return err
		}
		if err := reset.CheckUsable(now); err != nil {
			return err
		}
		if err := uc.hasher.Verify(cmd.Token, reset.TokenHash); err != nil {
			return user.ErrResetTokenInvalid
		}

		hash, err := uc.hasher.Hash(cmd.NewPassword)
		if err != nil {
			return err
		}
		if err := uc.userRepo.UpdatePasswordHash(txCtx, reset.UserID, hash); err != nil {
			return err
		}
		userID = reset.UserID
		return uc.resetRepo.MarkUsed(txCtx, reset.ID, now)
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrResetNotFound),
			errors.Is(err, user.ErrResetUsed),
			errors.Is(err, user.ErrResetExpired),
			errors.Is(err, user.ErrResetTokenInvalid):
			uc.logger.Warnw("password reset rejected", "selector", cmd.Selector, "reason", err.Error())
			return apperrors.NewValidationError(invalidResetLink)
		}
		uc.logger.Errorw("failed to reset password", "selector", cmd.Selector, "error", err)
		return toAppError(err, "failed to reset password")
	}

	uc.logger.Infow("password reset completed", "user_id", userID)
	return nil
}
