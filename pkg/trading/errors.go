package trading

import "errors"

// Taxonomy of recoverable pipeline errors. All of these are local to
// one message: the offending message is logged and discarded, state is
// left unchanged, and the driver loop keeps running.
var (
	// ErrMalformedInput marks an unknown action or side string.
	ErrMalformedInput = errors.New("malformed input")
	// ErrNotFound marks a modify/delete/lookup on a missing order ID.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidAmendment marks a modify that would grow a resting order.
	ErrInvalidAmendment = errors.New("invalid amendment")
	// ErrValidationRejected marks an order dropped by admission control.
	ErrValidationRejected = errors.New("validation rejected")
	// ErrDuplicateOrder marks a venue New reusing a resting order ID.
	ErrDuplicateOrder = errors.New("duplicate order id")
	// ErrProtocolMismatch marks an execution report for an ID the
	// receiver never stored.
	ErrProtocolMismatch = errors.New("protocol mismatch")
)
