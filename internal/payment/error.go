package payment

import (
	"errors"
	"fmt"

	"storefront-be/internal/apperror"
)

var (
	ErrNoItems         = apperror.InvalidInput("orderItems must be a non-empty array")
	ErrNothingToCharge = apperror.InvalidInput("payment amount must be greater than zero")

	ErrNotConfigured = errors.New("payment gateway is not configured")
)

// GatewayError is a non-2xx answer from Stripe.
type GatewayError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("stripe error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("stripe error %d: %s", e.StatusCode, e.Message)
}
