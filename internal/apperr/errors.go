package apperr

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Specific conflicts. Both satisfy errors.Is(err, ErrConflict).
var (
	// ErrAlreadyClaimed - the request was claimed by another courier first.
	// Retrying blindly is pointless; the candidate is gone.
	ErrAlreadyClaimed = fmt.Errorf("%w: request already claimed", ErrConflict)

	// ErrStaleVersion - the expected version did not match the stored one.
	// Safely retryable after refetching current state.
	ErrStaleVersion = fmt.Errorf("%w: stale version", ErrConflict)
)

// Specific validation failures. Both satisfy errors.Is(err, ErrInvalid).
var (
	// ErrInvalidTransition - the requested state change is not in the
	// transition table. A client error, never retried automatically.
	ErrInvalidTransition = fmt.Errorf("%w: invalid transition", ErrInvalid)

	// ErrMissingProof - delivered without recipient name plus signature or photo.
	ErrMissingProof = fmt.Errorf("%w: missing proof of delivery", ErrInvalid)
)

// Specific not-founds. Both satisfy errors.Is(err, ErrNotFound).
var (
	ErrRequestNotFound  = fmt.Errorf("%w: delivery request", ErrNotFound)
	ErrDeliveryNotFound = fmt.Errorf("%w: delivery", ErrNotFound)
)
