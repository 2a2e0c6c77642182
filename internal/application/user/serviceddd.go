package user

import (
	"context"

	"github.com/tdesk-io/tdesk/internal/application/user/dto"
	"github.com/tdesk-io/tdesk/internal/application/user/usecases"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

// ServiceDDD is the application service the account handlers talk to.
type ServiceDDD struct {
	registerUC   *usecases.RegisterUseCase
	createUserUC *usecases.CreateUserUseCase
	updateRoleUC *usecases.UpdateUserRoleUseCase
	deleteUserUC *usecases.DeleteUserUseCase
	listUsersUC  *usecases.ListUsersUseCase
	listAgentsUC *usecases.ListAgentsUseCase
	loginUC      *usecases.LoginUseCase
	requestUC    *usecases.RequestPasswordResetUseCase
	resetUC      *usecases.ResetPasswordUseCase
	logger       logger.Interface
}

// UseCases groups the constructed account use cases.
type UseCases struct {
	Register             *usecases.RegisterUseCase
	CreateUser           *usecases.CreateUserUseCase
	UpdateRole           *usecases.UpdateUserRoleUseCase
	DeleteUser           *usecases.DeleteUserUseCase
	ListUsers            *usecases.ListUsersUseCase
	ListAgents           *usecases.ListAgentsUseCase
	Login                *usecases.LoginUseCase
	RequestPasswordReset *usecases.RequestPasswordResetUseCase
	ResetPassword        *usecases.ResetPasswordUseCase
}

func NewServiceDDD(uc UseCases, logger logger.Interface) *ServiceDDD {
	return &ServiceDDD{
		registerUC:   uc.Register,
		createUserUC: uc.CreateUser,
		updateRoleUC: uc.UpdateRole,
		deleteUserUC: uc.DeleteUser,
		listUsersUC:  uc.ListUsers,
		listAgentsUC: uc.ListAgents,
		loginUC:      uc.Login,
		requestUC:    uc.RequestPasswordReset,
		resetUC:      uc.ResetPassword,
		logger:       logger,
	}
}

func (s *ServiceDDD) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	return s.registerUC.Execute(ctx, usecases.RegisterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
}

func (s *ServiceDDD) CreateUser(ctx context.Context, actor authorization.Identity, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	return s.createUserUC.Execute(ctx, usecases.CreateUserCommand{
		Actor:    actor,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
}

func (s *ServiceDDD) UpdateRole(ctx context.Context, actor authorization.Identity, userID uint, req dto.UpdateRoleRequest) error {
	return s.updateRoleUC.Execute(ctx, usecases.UpdateUserRoleCommand{Actor: actor, UserID: userID, Role: req.Role})
}

func (s *ServiceDDD) DeleteUser(ctx context.Context, actor authorization.Identity, userID uint) error {
	return s.deleteUserUC.Execute(ctx, usecases.DeleteUserCommand{Actor: actor, UserID: userID})
}

func (s *ServiceDDD) ListUsers(ctx context.Context, actor authorization.Identity, req dto.ListUsersRequest) ([]*dto.UserResponse, error) {
	return s.listUsersUC.Execute(ctx, usecases.ListUsersQuery{Actor: actor, Role: req.Role, Search: req.Search})
}

func (s *ServiceDDD) ListAgents(ctx context.Context, actor authorization.Identity) ([]*dto.UserResponse, error) {
	return s.listAgentsUC.Execute(ctx, actor)
}

func (s *ServiceDDD) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	return s.loginUC.Execute(ctx, usecases.LoginCommand{Email: req.Email, Password: req.Password})
}

func (s *ServiceDDD) RequestPasswordReset(ctx context.Context, req dto.ForgotPasswordRequest) error {
	return s.requestUC.Execute(ctx, usecases.RequestPasswordResetCommand{Email: req.Email})
}

func (s *ServiceDDD) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	return s.resetUC.Execute(ctx, usecases.ResetPasswordCommand{
		Selector:    req.Selector,
		Token:       req.Token,
		NewPassword: req.Password,
	})
}
