package category

import "storefront-be/internal/apperror"

var (
	ErrCategoryNotFound = apperror.NotFound("category not found")
	ErrCategoryExists   = apperror.Conflict("category already exist")
	ErrTitleRequired    = apperror.InvalidInput("category title is required")
	ErrTitleTooShort    = apperror.InvalidInput("too short category name")
	ErrTitleTooLong     = apperror.InvalidInput("too long category name")
)
