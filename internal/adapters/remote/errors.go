package remote

import (
	"errors"
	"fmt"
)

// Sentinel errors for the remote client.
var (
	ErrInvalidBaseURL   = errors.New("invalid base url")
	ErrUnexpectedStatus = errors.New("unexpected api status")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: api status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: api status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Is matches ErrUnexpectedStatus.
func (e *StatusError) Is(target error) bool { return target == ErrUnexpectedStatus }
