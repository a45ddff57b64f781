package journal_test

import (
	"context"
	"sync"

	"github.com/okian/journal/internal/domain/model"
	"github.com/okian/journal/internal/domain/types"
)

type fakeDirectory struct {
	mu    sync.Mutex
	teams map[model.Team][]model.Participant
	err   error
	calls int
}

func newDirectory(ps ...model.Participant) *fakeDirectory {
	d := &fakeDirectory{teams: make(map[model.Team][]model.Participant)}
	for _, p := range ps {
		d.teams[p.Team] = append(d.teams[p.Team], p)
	}
	return d
}

func (d *fakeDirectory) ListParticipants(_ context.Context, team model.Team) ([]model.Participant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return append([]model.Participant(nil), d.teams[team]...), nil
}

func (d *fakeDirectory) fail(err error) {
	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
}

type fakeScores struct {
	mu         sync.Mutex
	records    []model.ScoreRecord
	listErr    error
	upsertErr  error
	deleteErr  error
	upserts    []model.ScoreRecord
	deletes    []types.Date
	beforeSave func()
}

func (s *fakeScores) ListScores(context.Context) ([]model.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]model.ScoreRecord(nil), s.records...), nil
}

func (s *fakeScores) UpsertScore(_ context.Context, rec model.ScoreRecord) error {
	s.mu.Lock()
	hook := s.beforeSave
	s.mu.Unlock()
	if hook != nil {
		hook()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts = append(s.upserts, rec)
	return s.upsertErr
}

func (s *fakeScores) DeleteScoresForDate(_ context.Context, date types.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, date)
	return s.deleteErr
}

func (s *fakeScores) upsertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.upserts)
}

func (s *fakeScores) set(fn func(*fakeScores)) {
	s.mu.Lock()
	fn(s)
	s.mu.Unlock()
}
