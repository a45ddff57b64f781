// Package repository holds the journal standings: participants ranked by
// their total score.
package repository

import (
	"context"

	"github.com/okian/journal/internal/domain/types"
)

// Entry is one participant's total before ranking.
type Entry struct {
	ParticipantID int64
	Name          string
	Team          string
	Total         float64
}

// Store provides read/write access to the standings.
type Store interface {
	// Replace swaps the standings for a fresh ranking of entries.
	Replace(ctx context.Context, entries []Entry)

	// Rank returns the current standing of a participant.
	// Returns ErrNotFound if the participant is unknown.
	Rank(ctx context.Context, participantID int64) (types.Standing, error)

	// TopN returns the top-N standings ordered by total desc, id asc.
	TopN(ctx context.Context, n int) ([]types.Standing, error)

	// Count returns the number of ranked participants.
	Count(ctx context.Context) int
}
