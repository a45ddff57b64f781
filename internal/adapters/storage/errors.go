package storage

import "errors"

// Sentinel errors for the SQL backend.
var (
	ErrUnknownDialect = errors.New("unknown sql dialect")
	ErrOpen           = errors.New("open database failed")
)
