package user

import "storefront-be/internal/apperror"

var (
	ErrUserExists         = apperror.Conflict("user already exists")
	ErrInvalidCredentials = apperror.Unauthorized("invalid email or password")
	ErrUserNotFound       = apperror.NotFound("user not found")
	ErrNameRequired       = apperror.InvalidInput("name is required")
	ErrInvalidEmail       = apperror.InvalidInput("a valid email is required")
	ErrPasswordTooShort   = apperror.InvalidInput("password must be at least 6 characters")
)
