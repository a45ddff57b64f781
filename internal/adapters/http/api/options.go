package api

const defaultMaxStandingsLimit = 100

// Option configures a Server.
type Option func(*Server)

// WithMaxStandingsLimit caps the limit accepted by the standings endpoint.
func WithMaxStandingsLimit(limit int) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxStandingsLimit = limit
		}
	}
}
