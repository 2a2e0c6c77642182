package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/tdesk-io/tdesk/internal/application/user/dto"
	"github.com/tdesk-io/tdesk/internal/domain/user"
	apperrors "github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
	"github.com/tdesk-io/tdesk/internal/shared/utils"
)

type LoginCommand struct {
	Email    string
	Password string
}

type LoginUseCase struct {
	userRepo user.Repository
	hasher   PasswordHasher
	issuer   TokenIssuer
	limiter  RateLimiter
	limit    Limit
	logger   logger.Interface
}

func NewLoginUseCase(
	userRepo user.Repository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	limiter RateLimiter,
	limit Limit,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
		limiter:  limiter,
		limit:    limit,
		logger:   logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	key := "login:" + email

	if !allow(ctx, uc.limiter, key, uc.limit, uc.logger) {
		uc.logger.Warnw("login rate limit exceeded", "email", utils.MaskEmail(email))
		return nil, apperrors.NewTooManyRequestsError("too many login attempts, try again later")
	}

	u, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NewInvalidCredentialsError()
		}
		uc.logger.Errorw("failed to get user by email", "error", err)
		return nil, toAppError(err, "failed to log in")
	}

	if err := uc.hasher.Verify(cmd.Password, u.PasswordHash()); err != nil {
		uc.logger.Infow("login failed", "user_id", u.ID())
		return nil, apperrors.NewInvalidCredentialsError()
	}

	token, err := uc.issuer.Generate(u.Identity())
	if err != nil {
		uc.logger.Errorw("failed to issue access token", "user_id", u.ID(), "error", err)
		return nil, apperrors.WrapInternal("failed to log in", err)
	}

	if err := uc.limiter.Reset(ctx, key); err != nil {
		uc.logger.Warnw("failed to reset login counter", "user_id", u.ID(), "error", err)
	}

	uc.logger.Infow("user logged in", "user_id", u.ID(), "role", u.Role().String())
	return &dto.LoginResponse{
		AccessToken: token.Token,
		TokenType:   "Bearer",
		ExpiresIn:   token.ExpiresIn,
		User:        dto.ToUserResponse(u),
	}, nil
}
