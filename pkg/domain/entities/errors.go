package entities

import "errors"

// Sentinel errors for the planning domain. Callers classify failures with
// errors.Is; every operation that detects one of these leaves state unchanged.
var (
	// ErrPrecondition indicates the cycle or order is in the wrong state for
	// the requested operation.
	ErrPrecondition = errors.New("precondition not met")

	// ErrNotFound indicates an unknown material, resource or operation reference.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed or missing required input.
	ErrValidation = errors.New("validation failed")
)
