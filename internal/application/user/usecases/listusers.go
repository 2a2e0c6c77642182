package usecases

import (
	"context"
	"strings"

	"github.com/tdesk-io/tdesk/internal/application/user/dto"
	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

type ListUsersQuery struct {
	Actor  authorization.Identity
	Role   string
	Search string
}

type ListUsersUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewListUsersUseCase(userRepo user.Repository, logger logger.Interface) *ListUsersUseCase {
	return &ListUsersUseCase{userRepo: userRepo, logger: logger}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context, query ListUsersQuery) ([]*dto.UserResponse, error) {
	if !query.Actor.IsStaff() {
		return nil, errors.NewForbiddenError("only staff can list users")
	}

	filter := user.ListFilter{Search: strings.TrimSpace(query.Search)}
	if query.Role != "" {
		role, err := authorization.ParseUserRole(query.Role)
		if err != nil {
			return nil, errors.NewValidationError("invalid role", query.Role)
		}
		filter.Role = role
	}

	users, err := uc.userRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list users", "error", err)
		return nil, toAppError(err, "failed to list users")
	}
	return dto.ToUserResponses(users), nil
}

// ListAgentsUseCase returns the accounts tickets can be assigned to.
type ListAgentsUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewListAgentsUseCase(userRepo user.Repository, logger logger.Interface) *ListAgentsUseCase {
	return &ListAgentsUseCase{userRepo: userRepo, logger: logger}
}

func (uc *ListAgentsUseCase) Execute(ctx context.Context, actor authorization.Identity) ([]*dto.UserResponse, error) {
	if !actor.IsStaff() {
		return nil, errors.NewForbiddenError("only staff can list agents")
	}

	agents, err := uc.userRepo.ListAgents(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list agents", "error", err)
		return nil, toAppError(err, "failed to list agents")
	}
	return dto.ToUserResponses(agents), nil
}
