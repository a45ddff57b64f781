package email

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/okian/journal/pkg/logger"
)

// NoopSender logs messages instead of delivering them.
type NoopSender struct{}

// NewNoop creates a NoopSender.
func NewNoop() *NoopSender { return &NoopSender{} }

// Provider names the implementation.
func (s *NoopSender) Provider() string { return ProviderNoop }

// Send validates and logs msg.
func (s *NoopSender) Send(ctx context.Context, msg Message) (Result, error) {
	if err := msg.Validate(); err != nil {
		return Result{}, err
	}
	logger.Get().Named("email").Info(ctx, "noop email send",
		logger.Any("to", msg.To), logger.String("subject", msg.Subject))
	return Result{MessageID: "noop-" + uuid.NewString(), SentAt: time.Now().UTC()}, nil
}
