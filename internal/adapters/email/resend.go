package email

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/okian/journal/pkg/logger"
)

// ResendSender sends email through the Resend API.
type ResendSender struct {
	client     *resend.Client
	from       string
	baseURL    string
	httpClient *http.Client
}

// NewResend creates a sender with a default from address.
func NewResend(apiKey, from string, opts ...Option) (*ResendSender, error) {
	s := &ResendSender{from: from, httpClient: &http.Client{Timeout: 10 * time.Second}}
	for _, opt := range opts {
		opt(s)
	}
	s.client = resend.NewCustomClient(s.httpClient, apiKey)
	if s.baseURL != "" {
		u, err := url.Parse(strings.TrimRight(s.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse resend base url: %w", err)
		}
		s.client.BaseURL = u
	}
	return s, nil
}

// Provider names the implementation.
func (s *ResendSender) Provider() string { return ProviderResend }

// Send delivers one message.
func (s *ResendSender) Send(ctx context.Context, msg Message) (Result, error) {
	if err := msg.Validate(); err != nil {
		return Result{}, err
	}
	from := msg.From
	if from == "" {
		from = s.from
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		logger.Get().Named("email").Error(ctx, "resend send failed",
			logger.Any("to", msg.To), logger.String("subject", msg.Subject), logger.Error(err))
		return Result{}, fmt.Errorf("resend send failed: %w", err)
	}

	logger.Get().Named("email").Info(ctx, "resend sent",
		logger.String("message_id", sent.Id), logger.Any("to", msg.To))
	return Result{MessageID: sent.Id, SentAt: time.Now().UTC()}, nil
}
