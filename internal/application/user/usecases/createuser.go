package usecases

import (
	"context"

	"github.com/tdesk-io/tdesk/internal/application/user/dto"
	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

type CreateUserCommand struct {
	Actor    authorization.Identity
	Name     string
	Email    string
	Password string
	Role     string
}

type CreateUserUseCase struct {
	accounts accountCreator
	logger   logger.Interface
}

func NewCreateUserUseCase(userRepo user.Repository, hasher PasswordHasher, logger logger.Interface) *CreateUserUseCase {
	return &CreateUserUseCase{
		accounts: accountCreator{userRepo: userRepo, hasher: hasher, logger: logger},
		logger:   logger,
	}
}

func (uc *CreateUserUseCase) Execute(ctx context.Context, cmd CreateUserCommand) (*dto.UserResponse, error) {
	if !cmd.Actor.IsAdmin() {
		uc.logger.Warnw("user creation denied", "actor", cmd.Actor.String())
		return nil, errors.NewForbiddenError("only administrators can create users")
	}

	role, err := authorization.ParseUserRole(cmd.Role)
	if err != nil {
		return nil, errors.NewValidationError("invalid role", cmd.Role)
	}

	u, err := uc.accounts.create(ctx, cmd.Name, cmd.Email, cmd.Password, role)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("user created", "user_id", u.ID(), "role", role.String(), "actor", cmd.Actor.String())
	return dto.ToUserResponse(u), nil
}
