package usecases

import (
	"context"

	"github.com/tdesk-io/tdesk/internal/application/user/dto"
	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
	"github.com/tdesk-io/tdesk/internal/shared/utils"
)

type RegisterCommand struct {
	Name     string
	Email    string
	Password string
}

// RegisterUseCase opens a client account.
type RegisterUseCase struct {
	accounts accountCreator
	logger   logger.Interface
}

func NewRegisterUseCase(userRepo user.Repository, hasher PasswordHasher, logger logger.Interface) *RegisterUseCase {
	return &RegisterUseCase{
		accounts: accountCreator{userRepo: userRepo, hasher: hasher, logger: logger},
		logger:   logger,
	}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (*dto.UserResponse, error) {
	u, err := uc.accounts.create(ctx, cmd.Name, cmd.Email, cmd.Password, authorization.RoleClient)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("user registered", "user_id", u.ID(), "email", utils.MaskEmail(u.Email()))
	return dto.ToUserResponse(u), nil
}
