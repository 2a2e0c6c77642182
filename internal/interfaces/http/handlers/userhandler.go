package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tdesk-io/tdesk/internal/application/user/dto"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
	"github.com/tdesk-io/tdesk/internal/shared/utils"
)

type userService interface {
	CreateUser(ctx context.Context, actor authorization.Identity, req dto.CreateUserRequest) (*dto.UserResponse, error)
	UpdateRole(ctx context.Context, actor authorization.Identity, userID uint, req dto.UpdateRoleRequest) error
	DeleteUser(ctx context.Context, actor authorization.Identity, userID uint) error
	ListUsers(ctx context.Context, actor authorization.Identity, req dto.ListUsersRequest) ([]*dto.UserResponse, error)
	ListAgents(ctx context.Context, actor authorization.Identity) ([]*dto.UserResponse, error)
}

// UserHandler handles HTTP requests for user administration
type UserHandler struct {
	users  userService
	logger logger.Interface
}

func NewUserHandler(users userService, log logger.Interface) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: log,
	}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req dto.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	users, err := h.users.ListUsers(c.Request.Context(), actor, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", users)
}

// ListAgents handles GET /users/agents
func (h *UserHandler) ListAgents(c *gin.Context) {
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}

	agents, err := h.users.ListAgents(c.Request.Context(), actor)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", agents)
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create user", "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	userResp, err := h.users.CreateUser(c.Request.Context(), actor, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, userResp, "User created successfully")
}

// UpdateRole handles PATCH /users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}
	userID, err := utils.ParseIDParam(c, "id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	if err := h.users.UpdateRole(c.Request.Context(), actor, userID, req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role updated successfully", nil)
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}
	userID, err := utils.ParseIDParam(c, "id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), actor, userID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func requireIdentity(c *gin.Context) (authorization.Identity, bool) {
	id, ok := authorization.IdentityFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return authorization.Identity{}, false
	}
	return id, true
}
