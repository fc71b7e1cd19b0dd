package usage

import "errors"

var (
	// ErrLimitReached is returned when a run would exceed the plan allowance.
	ErrLimitReached = errors.New("recommendation allowance exhausted")
	// ErrMissingCandidate is returned when no candidate id was supplied.
	ErrMissingCandidate = errors.New("candidate id is required")
)
