package candidatemetrics

import "errors"

var (
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrNotFound          = errors.New("metrics snapshot not found")
)
