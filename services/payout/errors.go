package payout

import (
	"errors"
	"fmt"
)

// ErrSettlementBusy signals another payout for the mentor is being settled
// right now; the caller may retry.
var ErrSettlementBusy = errors.New("another payout is in progress for this mentor")

// InsufficientEarningsError signals the mentor's unsettled earnings do not
// cover the requested payout amount.
type InsufficientEarningsError struct {
	Requested float64
	Available float64
}

func (e *InsufficientEarningsError) Error() string {
	return fmt.Sprintf("insufficient earnings: requested %.2f, available %.2f", e.Requested, e.Available)
}

// IsInsufficientEarnings reports whether err is an insufficient-earnings failure.
func IsInsufficientEarnings(err error) bool {
	var ie *InsufficientEarningsError
	return errors.As(err, &ie)
}

// ValidationError signals a malformed payout request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
