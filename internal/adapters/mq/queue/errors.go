package queue

import "errors"

// Sentinel enqueue errors.
var (
	ErrClosed = errors.New("report queue closed")
	ErrFull   = errors.New("report queue full")
)
