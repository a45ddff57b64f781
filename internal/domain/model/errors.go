package model

import "errors"

// Validation errors for domain models.
var (
	ErrUnknownTeam         = errors.New("team must be blue or yellow")
	ErrNameRequired        = errors.New("name is required")
	ErrInvalidAge          = errors.New("age must not be negative")
	ErrDescriptionRequired = errors.New("description is required")
	ErrUnknownReportKind   = errors.New("report kind must be email or telegram")
	ErrRecipientRequired   = errors.New("recipient is required")
	ErrInvalidEmail        = errors.New("invalid email address")
)

// ErrNotFound is returned by backends when a record does not exist.
var ErrNotFound = errors.New("not found")
