package pricing

import (
	"errors"
	"fmt"
)

// ErrPricingModelNotFound signals a missing or inactive pricing model.
var ErrPricingModelNotFound = errors.New("pricing model not found or inactive")

// ErrActiveSubscriptionExists signals the mentee already holds a running
// subscription with this mentor.
var ErrActiveSubscriptionExists = errors.New("an active subscription with this mentor already exists")

// UnsupportedPricingTypeError signals an unknown pricing type tag.
type UnsupportedPricingTypeError struct {
	Type string
}

func (e *UnsupportedPricingTypeError) Error() string {
	return fmt.Sprintf("unsupported pricing type: %s", e.Type)
}

// AmountTooLowError signals a computed charge below the platform minimum.
type AmountTooLowError struct {
	Amount  float64
	Minimum float64
}

func (e *AmountTooLowError) Error() string {
	return fmt.Sprintf("amount %.2f is below the minimum charge of %.2f", e.Amount, e.Minimum)
}

// ValidationError signals a booking request that fails pricing-level checks.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
