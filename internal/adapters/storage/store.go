// Package storage is the local SQL backend: participants, scores, users and
// activities in SQLite (modernc.org/sqlite) or Postgres (pgx).
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/okian/journal/internal/domain/model"
	"github.com/okian/journal/internal/domain/pairing"
	"github.com/okian/journal/internal/domain/scoring"
	"github.com/okian/journal/internal/domain/types"
	"github.com/okian/journal/pkg/metrics"
)

// Store implements the journal collaborators on database/sql.
type Store struct {
	db      *sql.DB
	dialect Dialect
	pairs   *pairing.Generator
	maxOpen int
}

// Open connects to dsn, applies the schema and returns a ready Store.
func Open(ctx context.Context, d Dialect, dsn string, opts ...Option) (*Store, error) {
	s := &Store{dialect: d, maxOpen: 10}
	for _, opt := range opts {
		opt(s)
	}
	if s.pairs == nil {
		s.pairs = pairing.New()
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, d.Name, err)
	}
	db.SetMaxOpenConns(s.maxOpen)
	db.SetMaxIdleConns(s.maxOpen)
	db.SetConnMaxLifetime(time.Hour)
	if d.Name == SQLite.Name {
		// One long-lived connection keeps pragmas and :memory: databases alive.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrOpen, d.Name, err)
	}
	s.db = db
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	for _, p := range s.dialect.pragma {
		if _, err := s.db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	for _, stmt := range s.dialect.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Name identifies the backend in logs and metrics.
func (s *Store) Name() string { return s.dialect.Name }

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) observe(op string, start time.Time, err error) {
	metrics.RecordBackendCall(s.dialect.Name, op, err, float64(time.Since(start).Milliseconds()))
}

func (s *Store) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.rebind(q), args...)
}

func (s *Store) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.dialect.rebind(q), args...)
}

func (s *Store) insertID(ctx context.Context, q string, args ...any) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(q+" RETURNING id"), args...).Scan(&id)
	return id, err
}

func expectRow(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, model.ErrNotFound)
	}
	return nil
}

// Participants.

// ListParticipants returns the participants of one team ordered by id.
func (s *Store) ListParticipants(ctx context.Context, team model.Team) (_ []model.Participant, err error) {
	defer func(start time.Time) { s.observe("list_participants", start, err) }(time.Now())

	rows, err := s.query(ctx, "SELECT id, name, team FROM participants WHERE team = ? ORDER BY id", string(team))
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Participant
	for rows.Next() {
		var p model.Participant
		var t string
		if err := rows.Scan(&p.ID, &p.Name, &t); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		p.Team = model.Team(t)
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateParticipant inserts p and returns it with its id.
func (s *Store) CreateParticipant(ctx context.Context, p model.Participant) (_ model.Participant, err error) {
	defer func(start time.Time) { s.observe("create_participant", start, err) }(time.Now())

	if err := p.Validate(); err != nil {
		return model.Participant{}, err
	}
	p.ID, err = s.insertID(ctx, "INSERT INTO participants (name, team) VALUES (?, ?)", p.Name, string(p.Team))
	if err != nil {
		return model.Participant{}, fmt.Errorf("create participant: %w", err)
	}
	return p, nil
}

// DeleteParticipant removes a participant and, by cascade, their scores.
func (s *Store) DeleteParticipant(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { s.observe("delete_participant", start, err) }(time.Now())

	res, err := s.exec(ctx, "DELETE FROM participants WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	return expectRow(res, "participant", id)
}

// ListPairs pairs the current blue and yellow rosters at random.
func (s *Store) ListPairs(ctx context.Context) ([]model.Pair, error) {
	blue, err := s.ListParticipants(ctx, model.TeamBlue)
	if err != nil {
		return nil, err
	}
	yellow, err := s.ListParticipants(ctx, model.TeamYellow)
	if err != nil {
		return nil, err
	}
	return s.pairs.Generate(blue, yellow), nil
}

// Scores.

// ListScores returns every score ordered by date, then participant.
func (s *Store) ListScores(ctx context.Context) (_ []model.ScoreRecord, err error) {
	defer func(start time.Time) { s.observe("list_scores", start, err) }(time.Now())

	rows, err := s.query(ctx, "SELECT participant_id, date, score FROM scores ORDER BY date, participant_id")
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.ScoreRecord
	for rows.Next() {
		var (
			rec        model.ScoreRecord
			date, text string
		)
		if err := rows.Scan(&rec.ParticipantID, &date, &text); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		rec.Date = types.Date(date)
		if rec.Score, err = scoring.Parse(text); err != nil {
			return nil, fmt.Errorf("score of participant %d on %s: %w", rec.ParticipantID, date, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpsertScore inserts or overwrites the score of (participant, date).
func (s *Store) UpsertScore(ctx context.Context, rec model.ScoreRecord) (err error) {
	defer func(start time.Time) { s.observe("upsert_score", start, err) }(time.Now())

	_, err = s.exec(ctx, `INSERT INTO scores (participant_id, date, score) VALUES (?, ?, ?)
		ON CONFLICT (participant_id, date) DO UPDATE SET score = excluded.score`,
		rec.ParticipantID, rec.Date.String(), rec.Score.String())
	if err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	return nil
}

// DeleteScoresForDate removes every score on date. Deleting an empty date succeeds.
func (s *Store) DeleteScoresForDate(ctx context.Context, date types.Date) (err error) {
	defer func(start time.Time) { s.observe("delete_scores", start, err) }(time.Now())

	if _, err = s.exec(ctx, "DELETE FROM scores WHERE date = ?", date.String()); err != nil {
		return fmt.Errorf("delete scores: %w", err)
	}
	return nil
}

// Users.

// ListUsers returns all users ordered by id.
func (s *Store) ListUsers(ctx context.Context) (_ []model.User, err error) {
	defer func(start time.Time) { s.observe("list_users", start, err) }(time.Now())

	rows, err := s.query(ctx, "SELECT id, first_name, last_name, age FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Age); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CreateUser inserts u and returns it with its id.
func (s *Store) CreateUser(ctx context.Context, u model.User) (_ model.User, err error) {
	defer func(start time.Time) { s.observe("create_user", start, err) }(time.Now())

	if err := u.Validate(); err != nil {
		return model.User{}, err
	}
	u.ID, err = s.insertID(ctx, "INSERT INTO users (first_name, last_name, age) VALUES (?, ?, ?)",
		u.FirstName, u.LastName, u.Age)
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// UpdateUser replaces the user with u.ID.
func (s *Store) UpdateUser(ctx context.Context, u model.User) (_ model.User, err error) {
	defer func(start time.Time) { s.observe("update_user", start, err) }(time.Now())

	if err := u.Validate(); err != nil {
		return model.User{}, err
	}
	res, err := s.exec(ctx, "UPDATE users SET first_name = ?, last_name = ?, age = ? WHERE id = ?",
		u.FirstName, u.LastName, u.Age, u.ID)
	if err != nil {
		return model.User{}, fmt.Errorf("update user: %w", err)
	}
	if err := expectRow(res, "user", u.ID); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// DeleteUser removes a user.
func (s *Store) DeleteUser(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { s.observe("delete_user", start, err) }(time.Now())

	res, err := s.exec(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectRow(res, "user", id)
}

// Activities.

// ListActivities returns all activities ordered by id.
func (s *Store) ListActivities(ctx context.Context) (_ []model.Activity, err error) {
	defer func(start time.Time) { s.observe("list_activities", start, err) }(time.Now())

	rows, err := s.query(ctx, "SELECT id, description, user_id FROM activities ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.Description, &a.UserID); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateActivity inserts a and returns it with its id.
func (s *Store) CreateActivity(ctx context.Context, a model.Activity) (_ model.Activity, err error) {
	defer func(start time.Time) { s.observe("create_activity", start, err) }(time.Now())

	if err := a.Validate(); err != nil {
		return model.Activity{}, err
	}
	a.ID, err = s.insertID(ctx, "INSERT INTO activities (description, user_id) VALUES (?, ?)", a.Description, a.UserID)
	if err != nil {
		return model.Activity{}, fmt.Errorf("create activity: %w", err)
	}
	return a, nil
}

// DeleteActivity removes an activity.
func (s *Store) DeleteActivity(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { s.observe("delete_activity", start, err) }(time.Now())

	res, err := s.exec(ctx, "DELETE FROM activities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return expectRow(res, "activity", id)
}
