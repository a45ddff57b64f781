package journal

// Option applies a configuration option to the Grid.
type Option func(*Grid)

// WithConfirmer sets the capability used before removing a column.
func WithConfirmer(c Confirmer) Option {
	return func(g *Grid) {
		if c != nil {
			g.confirm = c
		}
	}
}
