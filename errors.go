package todovault

import "errors"

var (
	// ErrNotFound is returned when a todo record is not found
	ErrNotFound = errors.New("not found")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when credential verification fails
	ErrUnauthorized = errors.New("unauthorized")
)
