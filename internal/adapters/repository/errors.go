package repository

import "errors"

// Sentinel kinds for standings errors.
var (
	ErrNotFound     = errors.New("participant not ranked")
	ErrInvalidLimit = errors.New("invalid standings limit")
)
