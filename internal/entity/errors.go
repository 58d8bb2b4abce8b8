package entity

import "errors"

// Domain error taxonomy. Callers match with errors.Is after any wrapping.
var (
	// ErrEntityNotFound is returned on a lookup miss in either store.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrInvalidRequest covers operations illegal for the aggregate's current
	// status and duplicate-key inserts.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrDataAccess means a store stayed unreachable after retries.
	ErrDataAccess = errors.New("data access failure")

	// ErrAddressNormalization means no deterministic identity could be
	// derived from an address.
	ErrAddressNormalization = errors.New("address normalization failure")
)
