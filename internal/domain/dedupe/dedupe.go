// Package dedupe provides an insertion-ordered set used to keep journal
// columns unique while preserving the order they first appeared in.
package dedupe

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Set records seen keys in first-seen order. Safe for concurrent use.
type Set[K comparable] struct {
	mu    sync.RWMutex
	index map[K]int // key -> position in order
	order []K
	size  atomic.Int64
}

// New creates an empty set configured by opts.
func New[K comparable](opts ...Option) *Set[K] {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Set[K]{
		index: make(map[K]int, cfg.capacity),
		order: make([]K, 0, cfg.capacity),
	}
}

// SeenAndRecord atomically checks if key was seen and appends it if not.
// Returns true if key was already present.
func (s *Set[K]) SeenAndRecord(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[key]; exists {
		return true
	}
	s.index[key] = len(s.order)
	s.order = append(s.order, key)
	s.size.Add(1)
	return false
}

// Unrecord removes key, keeping the relative order of the rest.
// Returns true if key was present.
func (s *Set[K]) Unrecord(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, exists := s.index[key]
	if !exists {
		return false
	}
	delete(s.index, key)
	s.order = slices.Delete(s.order, pos, pos+1)
	for i := pos; i < len(s.order); i++ {
		s.index[s.order[i]] = i
	}
	s.size.Add(-1)
	return true
}

// Contains reports whether key is present.
func (s *Set[K]) Contains(key K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[key]
	return ok
}

// Items returns a copy of the keys in first-seen order.
func (s *Set[K]) Items() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Size returns the current number of keys.
func (s *Set[K]) Size() int64 {
	return s.size.Load()
}
