package cart

import "storefront-be/internal/apperror"

var (
	ErrCartNotFound       = apperror.NotFound("cart not found")
	ErrItemNotFound       = apperror.NotFound("item not found in cart")
	ErrProductUnavailable = apperror.NotFound("product not found or out of stock")

	ErrProductRequired    = apperror.InvalidInput("productId is required")
	ErrInvalidQuantity    = apperror.InvalidInput("quantity must be at least 1")
	ErrLocalItemsNotArray = apperror.InvalidInput("localItems must be an array")
	ErrInvalidLocalItem   = apperror.InvalidInput("each local item needs a product and a quantity of at least 1")

	ErrInsufficientStock = apperror.Conflict("insufficient stock")
)
