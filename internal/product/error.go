package product

import "storefront-be/internal/apperror"

var (
	ErrProductNotFound = apperror.NotFound("product not found")
	ErrNameRequired    = apperror.InvalidInput("product name is required")
	ErrInvalidPrice    = apperror.InvalidInput("price must be zero or greater")
	ErrInvalidStock    = apperror.InvalidInput("countInStock must be zero or greater")
	ErrInvalidCategory = apperror.InvalidInput("category must be a valid id")
)
