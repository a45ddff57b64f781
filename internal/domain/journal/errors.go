package journal

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. ValidationError and RemoteError match ErrValidation
// and ErrRemote through errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrRemote             = errors.New("remote call failed")
	ErrCellLocked         = errors.New("cell is saved and read-only")
	ErrNotConfirmed       = errors.New("action was not confirmed")
	ErrUnknownColumn      = errors.New("unknown date column")
	ErrUnknownParticipant = errors.New("unknown participant")
)

// User-visible messages for the error slot.
const (
	msgEmptyScore         = "Score must not be empty."
	msgInvalidScore       = "Invalid score value."
	msgOutOfRange         = "Score must be N or between 0 and 6 in half points."
	msgCellLocked         = "This score is saved and can no longer be changed."
	msgUnknownColumn      = "Unknown date column."
	msgUnknownParticipant = "Unknown participant."
	msgInvalidDate        = "Invalid date."
	msgLoadParticipants   = "Failed to load participants. Please try again."
	msgLoadScores         = "Failed to load scores. Please try again."
	msgDeleteDate         = "Failed to delete the date. Please try again."
	msgSaveScore          = "Failed to save the score. Please try again."
	confirmDeleteTemplate = "Are you sure you want to delete the scores for %s?"
)

// ValidationError reports input rejected before any collaborator call.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// RemoteError wraps an opaque collaborator failure. It is never retried.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Is matches ErrRemote.
func (e *RemoteError) Is(target error) bool { return target == ErrRemote }
