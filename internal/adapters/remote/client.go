// Package remote is a client for the journal REST API. It serves as both the
// participant directory and the score service of the grid, and passes the
// dashboard's CRUD screens through.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/journal/internal/domain/model"
	"github.com/okian/journal/internal/domain/types"
	"github.com/okian/journal/pkg/logger"
	"github.com/okian/journal/pkg/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
	backendName    = "remote"

	headerRequestID = "X-Request-ID"
)

// Client talks to the remote API.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
}

// New creates a client for baseURL, e.g. "http://localhost:8000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	c := &Client{base: u, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// Name identifies the backend in logs and metrics.
func (c *Client) Name() string { return backendName }

// Participants.

// ListParticipants returns the participants of one team.
func (c *Client) ListParticipants(ctx context.Context, team model.Team) ([]model.Participant, error) {
	var out []model.Participant
	q := url.Values{"team": {string(team)}}
	if err := c.do(ctx, "list_participants", http.MethodGet, "/api/participants", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateParticipant adds a participant. The API may echo the stored record;
// if it does not, the input is returned.
func (c *Client) CreateParticipant(ctx context.Context, p model.Participant) (model.Participant, error) {
	body := map[string]any{"name": p.Name, "team": p.Team}
	out := p
	if err := c.do(ctx, "create_participant", http.MethodPost, "/api/participants", nil, body, &out); err != nil {
		return model.Participant{}, err
	}
	return out, nil
}

// DeleteParticipant removes a participant by id.
func (c *Client) DeleteParticipant(ctx context.Context, id int64) error {
	q := url.Values{"id": {strconv.FormatInt(id, 10)}}
	return c.do(ctx, "delete_participant", http.MethodDelete, "/api/participants", q, nil, nil)
}

// ListPairs asks the API to pair blue and yellow participants.
func (c *Client) ListPairs(ctx context.Context) ([]model.Pair, error) {
	var out []model.Pair
	if err := c.do(ctx, "list_pairs", http.MethodGet, "/api/getPairs", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Scores.

// ListScores returns every stored score record.
func (c *Client) ListScores(ctx context.Context) ([]model.ScoreRecord, error) {
	var out []model.ScoreRecord
	if err := c.do(ctx, "list_scores", http.MethodGet, "/api/journal/scores", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertScore stores one record; the API overwrites an existing one.
func (c *Client) UpsertScore(ctx context.Context, rec model.ScoreRecord) error {
	return c.do(ctx, "upsert_score", http.MethodPost, "/api/journal/scores", nil, rec, nil)
}

// DeleteScoresForDate removes every record on date.
func (c *Client) DeleteScoresForDate(ctx context.Context, date types.Date) error {
	q := url.Values{"date": {date.String()}}
	return c.do(ctx, "delete_scores", http.MethodDelete, "/api/journal/scores/delete", q, nil, nil)
}

// Users.

// ListUsers returns all users.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := c.do(ctx, "list_users", http.MethodGet, "/api/users/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser adds a user.
func (c *Client) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	out := u
	if err := c.do(ctx, "create_user", http.MethodPost, "/api/users/", nil, u, &out); err != nil {
		return model.User{}, err
	}
	return out, nil
}

// UpdateUser replaces a user.
func (c *Client) UpdateUser(ctx context.Context, u model.User) (model.User, error) {
	out := u
	path := "/api/users/" + strconv.FormatInt(u.ID, 10)
	if err := c.do(ctx, "update_user", http.MethodPut, path, nil, u, &out); err != nil {
		return model.User{}, err
	}
	return out, nil
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_user", http.MethodDelete, "/api/users/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// Activities.

// ListActivities returns all activities.
func (c *Client) ListActivities(ctx context.Context) ([]model.Activity, error) {
	var out []model.Activity
	if err := c.do(ctx, "list_activities", http.MethodGet, "/api/activities/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateActivity adds an activity.
func (c *Client) CreateActivity(ctx context.Context, a model.Activity) (model.Activity, error) {
	out := a
	if err := c.do(ctx, "create_activity", http.MethodPost, "/api/activities/", nil, a, &out); err != nil {
		return model.Activity{}, err
	}
	return out, nil
}

// DeleteActivity removes an activity.
func (c *Client) DeleteActivity(ctx context.Context, id int64) error {
	path := "/api/activities/" + strconv.FormatInt(id, 10)
	return c.do(ctx, "delete_activity", http.MethodDelete, path, nil, nil, nil)
}

// Reports.

// SendTelegram asks the API to post the activity report to a Telegram chat.
func (c *Client) SendTelegram(ctx context.Context, chatID string) error {
	body := map[string]string{"chatId": chatID}
	return c.do(ctx, "send_telegram", http.MethodPost, "/api/telegram/send", nil, body, nil)
}

// SendEmail asks the API to mail the activity report.
func (c *Client) SendEmail(ctx context.Context, address string) error {
	body := map[string]string{"email": address}
	return c.do(ctx, "send_email", http.MethodPost, "/api/email/send", nil, body, nil)
}

// do performs one request. A non-nil out is decoded from a non-empty body.
func (c *Client) do(ctx context.Context, op, method, path string, q url.Values, body, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordBackendCall(backendName, op, err, float64(time.Since(start).Milliseconds()))
	}()

	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = q.Encode()

	var reader io.Reader
	if body != nil {
		b, mErr := json.Marshal(body)
		if mErr != nil {
			return fmt.Errorf("encode %s body: %w", op, mErr)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID, ok := logger.RequestID(ctx)
	if !ok {
		reqID = uuid.New().String()
	}
	req.Header.Set(headerRequestID, reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", model.ErrNotFound, statusErr)
		}
		return statusErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}
