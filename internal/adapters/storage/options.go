package storage

import "github.com/okian/journal/internal/domain/pairing"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithPairing sets the generator used by ListPairs.
func WithPairing(g *pairing.Generator) Option {
	return func(s *Store) {
		if g != nil {
			s.pairs = g
		}
	}
}

// WithMaxOpenConns caps the connection pool. SQLite always uses one
// connection so that in-memory databases are shared.
func WithMaxOpenConns(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxOpen = n
		}
	}
}
