package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/journal/internal/domain/model"
	"github.com/okian/journal/pkg/logger"
)

// SubmitReport queues an activity report for delivery.
func (s *Service) SubmitReport(ctx context.Context, kind model.ReportKind, recipient string) (model.ReportStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return model.ReportStatus{}, ErrNotStarted
	}

	job := model.ReportJob{
		ID:          uuid.NewString(),
		Kind:        kind,
		Recipient:   strings.TrimSpace(recipient),
		RequestedAt: time.Now().UTC(),
	}
	if err := job.Validate(); err != nil {
		return model.ReportStatus{}, err
	}

	st := s.tracker.Submit(job)
	if err := s.reportQueue.Enqueue(ctx, job); err != nil {
		s.tracker.Forget(job.ID)
		s.logger.Warn(ctx, "report rejected", logger.String("job_id", job.ID), logger.Error(err))
		return model.ReportStatus{}, err
	}
	s.logger.Info(ctx, "report queued", logger.String("job_id", job.ID), logger.String("kind", string(kind)))
	return st, nil
}

// ReportStatus returns the state of a report job.
func (s *Service) ReportStatus(_ context.Context, id string) (model.ReportStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tracker == nil {
		return model.ReportStatus{}, ErrNotStarted
	}
	return s.tracker.Get(id)
}
