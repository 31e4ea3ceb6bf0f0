package domain

import "errors"

// Failure kinds surfaced by the booking core. Callers match with errors.Is;
// the HTTP layer maps each kind to a distinct status. The core never retries
// on its own.
var (
	// ErrNotFound: the referenced flight or booking is absent, or not in the
	// state the operation requires (e.g. cancelling an already-cancelled
	// booking).
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest: malformed input, such as an empty passenger list.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInsufficientCapacity: fewer seats available than requested.
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	// ErrBusy: the row lock could not be acquired within the configured wait.
	ErrBusy = errors.New("resource busy")

	// ErrTransactionFailure: the storage transaction failed to commit; all
	// writes in it were rolled back.
	ErrTransactionFailure = errors.New("transaction failure")
)
