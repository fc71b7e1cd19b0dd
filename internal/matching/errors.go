package matching

import "errors"

var (
	ErrProfileNotFound = errors.New("candidate profile not found")
	ErrNotFound        = errors.New("match result not found")
)
