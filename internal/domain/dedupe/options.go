package dedupe

type config struct {
	capacity int
}

// Option applies a configuration option to a Set.
type Option func(*config)

// WithCapacity preallocates room for n keys. Non-positive values are ignored.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}
