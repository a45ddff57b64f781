package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrInvalidID   = errors.New("invalid id")
	ErrUnavailable = errors.New("service unavailable")
)
