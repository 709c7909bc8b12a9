package http

import "errors"

// ErrUnauthorized is returned when credential verification fails.
var ErrUnauthorized = errors.New("unauthorized")
