package order

import "storefront-be/internal/apperror"

var (
	ErrOrderNotFound   = apperror.NotFound("Order not found")
	ErrProductNotFound = apperror.NotFound("product not found")

	ErrNoOrderItems          = apperror.InvalidInput("No order items")
	ErrInvalidQuantity       = apperror.InvalidInput("order item quantity must be at least 1")
	ErrShippingRequired      = apperror.InvalidInput("shipping address is required")
	ErrPaymentMethodRequired = apperror.InvalidInput("payment method is required")
	ErrNoOrderIDs            = apperror.InvalidInput("ordersIds must be a non-empty array")

	ErrForbidden        = apperror.Forbidden("not authorized to access this order")
	ErrCancelNotAllowed = apperror.Unauthorized("Not authorized to cancel this order")
	ErrNotCancellable   = apperror.InvalidState("Cannot cancel a paid or delivered order")

	ErrInsufficientStock = apperror.Conflict("insufficient stock")
)
