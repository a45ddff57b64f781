// Package pairing matches blue participants with yellow participants.
package pairing

import (
	"math/rand/v2"
	"sync"

	"github.com/okian/journal/internal/domain/model"
)

// Generator builds random blue/yellow pairs.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed makes pair generation deterministic.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // pairing is not security sensitive
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // pairing is not security sensitive
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate shuffles both teams and pairs them index by index. Participants
// of the larger team beyond the smaller team's size stay unpaired. Inputs
// are not modified.
func (g *Generator) Generate(blue, yellow []model.Participant) []model.Pair {
	g.mu.Lock()
	b := g.shuffled(blue)
	y := g.shuffled(yellow)
	g.mu.Unlock()

	n := min(len(b), len(y))
	pairs := make([]model.Pair, n)
	for i := range n {
		pairs[i] = model.Pair{Blue: b[i], Yellow: y[i]}
	}
	return pairs
}

func (g *Generator) shuffled(in []model.Participant) []model.Participant {
	out := append([]model.Participant(nil), in...)
	g.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
