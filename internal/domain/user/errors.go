package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrResetNotFound     = errors.New("password reset not found")
	ErrResetUsed         = errors.New("password reset already used")
	ErrResetExpired      = errors.New("password reset expired")
	ErrResetTokenInvalid = errors.New("password reset token invalid")
)
