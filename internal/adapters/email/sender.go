// Package email delivers activity reports by email.
package email

import (
	"context"
	"errors"
	"time"
)

// Providers.
const (
	ProviderNoop   = "noop"
	ProviderResend = "resend"
)

// Sentinel errors.
var (
	ErrNoRecipients    = errors.New("email has no recipients")
	ErrSubjectRequired = errors.New("email subject required")
	ErrUnknownProvider = errors.New("unknown email provider")
)

// Message is one outgoing email.
type Message struct {
	To      []string
	From    string // empty means the sender default
	Subject string
	HTML    string
	Text    string
}

// Validate checks the fields every provider needs.
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	if m.Subject == "" {
		return ErrSubjectRequired
	}
	return nil
}

// Result is the provider's acknowledgement.
type Result struct {
	MessageID string    `json:"messageId"`
	SentAt    time.Time `json:"sentAt"`
}

// Sender delivers email.
type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
	// Provider names the implementation ("noop", "resend").
	Provider() string
}

// New returns the Sender for provider.
func New(provider, apiKey, from string, opts ...Option) (Sender, error) {
	switch provider {
	case ProviderNoop, "":
		return NewNoop(), nil
	case ProviderResend:
		s, err := NewResend(apiKey, from, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, ErrUnknownProvider
}
