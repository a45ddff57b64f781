package repository

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/okian/journal/internal/domain/types"
)

// snapshot is an immutable ranking. Readers never lock.
type snapshot struct {
	ordered []types.Standing
	index   map[int64]int // participant id -> position in ordered
}

// RankedStore keeps the standings as an atomically swapped sorted snapshot.
type RankedStore struct {
	current atomic.Pointer[snapshot]
}

var _ Store = (*RankedStore)(nil)

// NewRankedStore creates an empty store.
func NewRankedStore() *RankedStore {
	s := &RankedStore{}
	s.current.Store(&snapshot{index: map[int64]int{}})
	return s
}

// compare orders by total desc, then participant id asc.
func compare(a, b Entry) int {
	switch {
	case a.Total > b.Total:
		return -1
	case a.Total < b.Total:
		return 1
	case a.ParticipantID < b.ParticipantID:
		return -1
	case a.ParticipantID > b.ParticipantID:
		return 1
	}
	return 0
}

// Replace ranks entries and publishes them. Later duplicates of a
// participant id win.
func (s *RankedStore) Replace(_ context.Context, entries []Entry) {
	byID := make(map[int64]Entry, len(entries))
	for _, e := range entries {
		byID[e.ParticipantID] = e
	}
	sorted := make([]Entry, 0, len(byID))
	for _, e := range byID {
		sorted = append(sorted, e)
	}
	slices.SortFunc(sorted, compare)

	snap := &snapshot{
		ordered: make([]types.Standing, len(sorted)),
		index:   make(map[int64]int, len(sorted)),
	}
	for i, e := range sorted {
		snap.ordered[i] = types.Standing{
			Rank:          i + 1,
			ParticipantID: e.ParticipantID,
			Name:          e.Name,
			Team:          e.Team,
			Total:         e.Total,
		}
		snap.index[e.ParticipantID] = i
	}
	s.current.Store(snap)
}

// Rank returns a participant's standing.
func (s *RankedStore) Rank(_ context.Context, participantID int64) (types.Standing, error) {
	snap := s.current.Load()
	i, ok := snap.index[participantID]
	if !ok {
		return types.Standing{}, fmt.Errorf("%w: %d", ErrNotFound, participantID)
	}
	return snap.ordered[i], nil
}

// TopN returns up to n standings.
func (s *RankedStore) TopN(_ context.Context, n int) ([]types.Standing, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	snap := s.current.Load()
	n = min(n, len(snap.ordered))
	return slices.Clone(snap.ordered[:n]), nil
}

// Count returns the number of ranked participants.
func (s *RankedStore) Count(_ context.Context) int {
	return len(s.current.Load().ordered)
}
