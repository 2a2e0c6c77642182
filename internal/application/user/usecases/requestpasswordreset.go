package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/infrastructure/email"
	"github.com/tdesk-io/tdesk/internal/shared/biztime"
	apperrors "github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
	"github.com/tdesk-io/tdesk/internal/shared/utils"
)

type RequestPasswordResetCommand struct {
	Email string
}

// RequestPasswordResetUseCase issues a recovery grant and mails the link.
// Unknown addresses succeed silently so callers cannot probe accounts.
type RequestPasswordResetUseCase struct {
	userRepo  user.Repository
	resetRepo user.PasswordResetRepository
	hasher    PasswordHasher
	creds     CredentialGenerator
	mailer    ResetMailer
	limiter   RateLimiter
	limit     Limit
	ttl       time.Duration
	txRunner  TransactionRunner
	logger    logger.Interface
}

func NewRequestPasswordResetUseCase(
	userRepo user.Repository,
	resetRepo user.PasswordResetRepository,
	hasher PasswordHasher,
	creds CredentialGenerator,
	mailer ResetMailer,
	limiter RateLimiter,
	limit Limit,
	ttl time.Duration,
	txRunner TransactionRunner,
	logger logger.Interface,
) *RequestPasswordResetUseCase {
	return &RequestPasswordResetUseCase{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		hasher:    hasher,
		creds:     creds,
		mailer:    mailer,
		limiter:   limiter,
		limit:     limit,
		ttl:       ttl,
		txRunner:  txRunner,
		logger:    logger,
	}
}

func (uc *RequestPasswordResetUseCase) Execute(ctx context.Context, cmd RequestPasswordResetCommand) error {
	addr := strings.ToLower(strings.TrimSpace(cmd.Email))

	if !allow(ctx, uc.limiter, "reset:"+addr, uc.limit, uc.logger) {
		uc.logger.Warnw("password reset rate limit exceeded", "email", utils.MaskEmail(addr))
		return apperrors.NewTooManyRequestsError("too many reset requests, try again later")
	}

	u, err := uc.userRepo.GetByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			uc.logger.Infow("password reset requested for unknown email", "email", utils.MaskEmail(addr))
			return nil
		}
		uc.logger.Errorw("failed to get user by email", "error", err)
		return toAppError(err, "failed to request password reset")
	}

	creds, err := uc.creds.ResetCredentials()
	if err != nil {
		uc.logger.Errorw("failed to generate reset credentials", "user_id", u.ID(), "error", err)
		return apperrors.WrapInternal("failed to request password reset", err)
	}
	tokenHash, err := uc.hasher.Hash(creds.Token)
	if err != nil {
		uc.logger.Errorw("failed to hash reset token", "user_id", u.ID(), "error", err)
		return apperrors.WrapInternal("failed to request password reset", err)
	}

	reset, err := user.NewPasswordReset(u.ID(), creds.Selector, tokenHash, uc.ttl, biztime.NowUTC())
	if err != nil {
		return apperrors.WrapInternal("failed to request password reset", err)
	}

	err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.resetRepo.DeleteForUser(txCtx, u.ID()); err != nil {
			return err
		}
		return uc.resetRepo.Create(txCtx, reset)
	})
	if err != nil {
		uc.logger.Errorw("failed to store password reset", "user_id", u.ID(), "error", err)
		return toAppError(err, "failed to request password reset")
	}

	msg := email.PasswordResetMessage{
		To:       u.Email(),
		Name:     u.Name(),
		Selector: creds.Selector,
		Token:    creds.Token,
		TTL:      uc.ttl,
	}
	if err := uc.mailer.SendPasswordReset(ctx, msg); err != nil {
		uc.logger.Warnw("failed to send password reset email", "user_id", u.ID(), "error", err)
	}

	uc.logger.Infow("password reset requested", "user_id", u.ID())
	return nil
}
