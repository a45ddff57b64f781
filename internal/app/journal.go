package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/journal/internal/adapters/blob"
	"github.com/okian/journal/internal/adapters/repository"
	"github.com/okian/journal/internal/domain/journal"
	"github.com/okian/journal/internal/domain/types"
	"github.com/okian/journal/internal/report"
	"github.com/okian/journal/pkg/logger"
	"github.com/okian/journal/pkg/metrics"
)

// outcome labels a grid operation result for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, journal.ErrValidation):
		return "validation"
	case errors.Is(err, journal.ErrRemote):
		return "remote"
	case errors.Is(err, journal.ErrCellLocked):
		return "locked"
	case errors.Is(err, journal.ErrNotConfirmed):
		return "cancelled"
	case errors.Is(err, journal.ErrUnknownColumn), errors.Is(err, journal.ErrUnknownParticipant):
		return "rejected"
	}
	return "error"
}

// finish records metrics for op, refreshes the standings and returns the
// current view together with err.
func (s *Service) finish(ctx context.Context, op string, err error, fields ...logger.Field) (journal.View, error) {
	metrics.RecordGridOperation(op, outcome(err))
	if err != nil {
		s.logger.Warn(ctx, "journal "+op+" failed", append(fields, logger.Error(err))...)
	} else {
		s.logger.Debug(ctx, "journal "+op, fields...)
	}

	view := s.grid.Snapshot()
	entries := make([]repository.Entry, len(view.Rows))
	for i, row := range view.Rows {
		entries[i] = repository.Entry{
			ParticipantID: row.Participant.ID,
			Name:          row.Participant.Name,
			Team:          string(row.Participant.Team),
			Total:         row.Total,
		}
	}
	s.standings.Replace(ctx, entries)

	st := s.grid.Stats()
	metrics.UpdateGridSize(st.Columns, st.Cells, st.Saved, st.Participants)
	return view, err
}

// Journal returns the current grid.
func (s *Service) Journal(_ context.Context) journal.View {
	return s.grid.Snapshot()
}

// Reload fetches participants and scores again.
func (s *Service) Reload(ctx context.Context) (journal.View, error) {
	return s.finish(ctx, "load", s.grid.Load(ctx))
}

// AddColumn adds a date column.
func (s *Service) AddColumn(ctx context.Context, rawDate string) (journal.View, error) {
	_, err := s.grid.AddColumn(rawDate)
	return s.finish(ctx, "add_column", err, logger.String("date", rawDate))
}

// RemoveColumn deletes a date column and its scores. The request context
// must carry a confirmation (see journal.WithConfirmation).
func (s *Service) RemoveColumn(ctx context.Context, rawDate string) (journal.View, error) {
	err := s.grid.RemoveColumn(ctx, rawDate)
	return s.finish(ctx, "remove_column", err, logger.String("date", rawDate))
}

// SetCell edits a cell locally.
func (s *Service) SetCell(ctx context.Context, participantID int64, rawDate, value string) (journal.View, error) {
	err := s.grid.SetCellValue(participantID, rawDate, value)
	return s.finish(ctx, "set_cell", err,
		logger.Int64("participant_id", participantID), logger.String("date", rawDate))
}

// SaveCell persists a cell.
func (s *Service) SaveCell(ctx context.Context, participantID int64, rawDate string) (journal.View, error) {
	err := s.grid.SaveCell(ctx, participantID, rawDate)
	return s.finish(ctx, "save_cell", err,
		logger.Int64("participant_id", participantID), logger.String("date", rawDate))
}

// DismissError clears the grid's error message.
func (s *Service) DismissError(ctx context.Context) journal.View {
	s.grid.ClearError()
	view, _ := s.finish(ctx, "dismiss_error", nil)
	return view
}

// TopN returns the n best ranked participants.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Standing, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	return s.standings.TopN(ctx, n)
}

// Rank returns one participant's standing.
func (s *Service) Rank(ctx context.Context, participantID int64) (types.Standing, error) {
	return s.standings.Rank(ctx, participantID)
}

// Export writes the current grid as CSV to the blob store.
func (s *Service) Export(ctx context.Context) (blob.Info, error) {
	view := s.grid.Snapshot()
	var buf bytes.Buffer
	if err := report.WriteGridCSV(&buf, view); err != nil {
		return blob.Info{}, fmt.Errorf("render export: %w", err)
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("%sjournal-%s-%s.csv", s.exportPrefix, now.Format("20060102T150405Z"), uuid.NewString()[:8])
	info, err := s.blobs.Put(ctx, key, &buf, blob.PutOptions{
		ContentType: "text/csv",
		Metadata: map[string]string{
			"rows":    strconv.Itoa(len(view.Rows)),
			"columns": strconv.Itoa(len(view.Columns)),
		},
	})
	metrics.RecordExport(string(s.blobs.Driver()), err)
	if err != nil {
		s.logger.Error(ctx, "journal export failed", logger.String("key", key), logger.Error(err))
		return blob.Info{}, fmt.Errorf("write export: %w", err)
	}
	s.logger.Info(ctx, "journal exported", logger.String("key", info.Key), logger.Int64("bytes", info.Size))
	return info, nil
}

// Exports lists previous exports, newest first.
func (s *Service) Exports(ctx context.Context) ([]blob.Info, error) {
	list, err := s.blobs.List(ctx, s.exportPrefix)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}

// OpenExport returns the contents of one export.
func (s *Service) OpenExport(ctx context.Context, key string) (blob.Info, io.ReadCloser, error) {
	if !strings.HasPrefix(key, s.exportPrefix) {
		return blob.Info{}, nil, fmt.Errorf("%w: %s", ErrExportKey, key)
	}
	return s.blobs.Get(ctx, key)
}
