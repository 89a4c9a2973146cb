// Package domain also centralizes the typed failure taxonomy shared by the
// stores and the dispatcher. Every core operation returns either a success
// value or one of these sentinels; unexpected faults are caught at the
// dispatcher boundary and never leak raw.
package domain

import "errors"

var (
	// ErrNotFound indicates the referenced request does not exist.
	ErrNotFound = errors.New("request not found")

	// ErrForbidden indicates the actor lacks operator authority for a
	// mutating operation.
	ErrForbidden = errors.New("operator authority required")

	// ErrInvalidTransition indicates the requested status change is
	// unreachable from the current status; the original status is preserved.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput indicates a malformed phone, email, or date during a
	// capture flow. The conversation mode is kept so the user can retry.
	ErrInvalidInput = errors.New("invalid input")
)
