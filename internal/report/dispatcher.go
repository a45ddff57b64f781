package report

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/journal/internal/adapters/email"
	"github.com/okian/journal/internal/domain/model"
	"github.com/okian/journal/pkg/logger"
)

// Source provides the data an activity report is built from.
type Source interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	ListActivities(ctx context.Context) ([]model.Activity, error)
}

// Relay asks the remote backend to deliver reports itself.
type Relay interface {
	SendEmail(ctx context.Context, address string) error
	SendTelegram(ctx context.Context, chatID string) error
}

// Dispatcher delivers report jobs. It satisfies worker.Processor.
type Dispatcher struct {
	source  Source
	sender  email.Sender
	relay   Relay
	tracker *Tracker
	now     func() time.Time
	logger  logger.Logger
}

// NewDispatcher builds a dispatcher. relay may be nil when the backend cannot
// deliver reports, in which case telegram jobs fail.
func NewDispatcher(source Source, sender email.Sender, relay Relay, tracker *Tracker) *Dispatcher {
	return &Dispatcher{
		source:  source,
		sender:  sender,
		relay:   relay,
		tracker: tracker,
		now:     time.Now,
		logger:  logger.Get().Named("reports"),
	}
}

// Process delivers one job and records its outcome on the tracker.
func (d *Dispatcher) Process(ctx context.Context, j model.ReportJob) error {
	d.tracker.Start(j.ID)
	msgID, err := d.deliver(ctx, j)
	d.tracker.Finish(j.ID, msgID, err)
	if err != nil {
		return err
	}
	d.logger.Info(ctx, "report delivered",
		logger.String("job_id", j.ID),
		logger.String("kind", string(j.Kind)),
		logger.String("message_id", msgID),
	)
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, j model.ReportJob) (string, error) {
	switch j.Kind {
	case model.ReportTelegram:
		if d.relay == nil {
			return "", ErrTelegramUnsupported
		}
		return "", d.relay.SendTelegram(ctx, j.Recipient)
	case model.ReportEmail:
		// Without a configured provider the remote backend sends its own report.
		if d.relay != nil && d.sender.Provider() == email.ProviderNoop {
			return "", d.relay.SendEmail(ctx, j.Recipient)
		}
		return d.sendEmail(ctx, j)
	}
	return "", model.ErrUnknownReportKind
}

func (d *Dispatcher) sendEmail(ctx context.Context, j model.ReportJob) (string, error) {
	users, err := d.source.ListUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("load users: %w", err)
	}
	activities, err := d.source.ListActivities(ctx)
	if err != nil {
		return "", fmt.Errorf("load activities: %w", err)
	}

	md := ActivitiesMarkdown(users, activities, d.now())
	html, err := HTML(md)
	if err != nil {
		return "", err
	}
	res, err := d.sender.Send(ctx, email.Message{
		To:      []string{j.Recipient},
		Subject: "Activity report",
		HTML:    html,
		Text:    md,
	})
	if err != nil {
		return "", err
	}
	return res.MessageID, nil
}
