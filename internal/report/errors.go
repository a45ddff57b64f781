package report

import "errors"

// Sentinel errors.
var (
	ErrTelegramUnsupported = errors.New("telegram reports need the remote backend")
	ErrJobNotFound         = errors.New("report job not found")
)
