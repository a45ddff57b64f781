package email

import "net/http"

// Option configures a ResendSender.
type Option func(*ResendSender)

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(s *ResendSender) {
		if u != "" {
			s.baseURL = u
		}
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *ResendSender) {
		if c != nil {
			s.httpClient = c
		}
	}
}
