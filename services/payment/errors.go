package payment

import "errors"

// ErrAlreadyPaid signals an attempt to re-process a session whose transaction
// has already completed.
var ErrAlreadyPaid = errors.New("session has already been paid")

// ErrTransactionNotFound signals an unknown transaction id.
var ErrTransactionNotFound = errors.New("transaction not found")

// ErrUnknownOutcome signals a gateway event with an unrecognized outcome tag.
var ErrUnknownOutcome = errors.New("unknown gateway event outcome")

// ErrUnsupportedMethod signals a payment method the processor cannot handle.
var ErrUnsupportedMethod = errors.New("unsupported payment method")
