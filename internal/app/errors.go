package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrInvalidLimit = errors.New("limit must be positive")
	ErrExportKey    = errors.New("export key outside the export prefix")
)
