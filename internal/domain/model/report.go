package model

import (
	"strings"
	"time"
)

// ReportKind is the delivery channel of an activity report.
type ReportKind string

// Report kinds.
const (
	ReportEmail    ReportKind = "email"
	ReportTelegram ReportKind = "telegram"
)

// ParseReportKind validates a report kind.
func ParseReportKind(s string) (ReportKind, error) {
	switch k := ReportKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ReportEmail, ReportTelegram:
		return k, nil
	}
	return "", ErrUnknownReportKind
}

// ReportState tracks a report job through the worker pool.
type ReportState string

// Report states.
const (
	ReportQueued  ReportState = "queued"
	ReportRunning ReportState = "running"
	ReportSent    ReportState = "sent"
	ReportFailed  ReportState = "failed"
)

// ReportJob asks for the activity report to be delivered to Recipient, an
// email address or a Telegram chat id depending on Kind.
type ReportJob struct {
	ID          string     `json:"id"`
	Kind        ReportKind `json:"kind"`
	Recipient   string     `json:"recipient"`
	RequestedAt time.Time  `json:"requestedAt"`
}

// Validate checks fields required to enqueue a job.
func (j ReportJob) Validate() error {
	if _, err := ParseReportKind(string(j.Kind)); err != nil {
		return err
	}
	if strings.TrimSpace(j.Recipient) == "" {
		return ErrRecipientRequired
	}
	if j.Kind == ReportEmail && !strings.Contains(j.Recipient, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// ReportStatus is the externally visible state of a job.
type ReportStatus struct {
	ReportJob
	State      ReportState `json:"state"`
	Error      string      `json:"error,omitempty"`
	MessageID  string      `json:"messageId,omitempty"`
	FinishedAt *time.Time  `json:"finishedAt,omitempty"`
}
