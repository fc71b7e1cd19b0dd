package activity

import "errors"

var (
	ErrNotFound     = errors.New("activity record not found")
	ErrInvalidInput = errors.New("invalid input")
)
