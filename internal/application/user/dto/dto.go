package dto

import (
	"time"

	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/shared/mapper"
)

// RegisterRequest is the public sign-up form. New accounts are clients.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// CreateUserRequest is the admin form; any role may be chosen.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,oneof=admin support client"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin support client"`
}

// ListUsersRequest filters the user list. Search matches name or email.
type ListUsersRequest struct {
	Role   string `form:"role" binding:"omitempty,oneof=admin support client"`
	Search string `form:"search" binding:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Selector string `json:"selector" binding:"required,hexadecimal,len=16"`
	Token    string `json:"token" binding:"required,hexadecimal,len=64"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	User        *UserResponse `json:"user"`
}

func ToUserResponse(u *user.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email(),
		Role:      u.Role().String(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func ToUserResponses(users []*user.User) []*UserResponse {
	if len(users) == 0 {
		return []*UserResponse{}
	}
	return mapper.MapSlice(users, ToUserResponse)
}
