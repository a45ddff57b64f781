// Package journal implements the journal score grid: a sparse matrix of
// scores keyed by participant and date, with date columns that can be added
// and removed and cells that lock once saved.
package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/journal/internal/domain/dedupe"
	"github.com/okian/journal/internal/domain/model"
	"github.com/okian/journal/internal/domain/scoring"
	"github.com/okian/journal/internal/domain/types"
)

// ParticipantDirectory supplies participants.
type ParticipantDirectory interface {
	ListParticipants(ctx context.Context, team model.Team) ([]model.Participant, error)
}

// ScoreService persists score records.
type ScoreService interface {
	ListScores(ctx context.Context) ([]model.ScoreRecord, error)
	UpsertScore(ctx context.Context, rec model.ScoreRecord) error
	DeleteScoresForDate(ctx context.Context, date types.Date) error
}

// CellKey addresses one cell.
type CellKey struct {
	ParticipantID int64
	Date          types.Date
}

// Cell is a raw score value and whether it has been persisted.
type Cell struct {
	Value string `json:"value"`
	Saved bool   `json:"isSaved"`
}

// Grid holds the journal state for one session. The mutex guards local state
// only and is never held across a collaborator call, so overlapping
// operations resolve in completion order.
type Grid struct {
	directory ParticipantDirectory
	scores    ScoreService
	confirm   Confirmer

	mu           sync.RWMutex
	participants []model.Participant
	known        map[int64]struct{}
	columns      *dedupe.Set[types.Date]
	cells        map[CellKey]Cell
	errMsg       string
}

// New creates an empty grid. Call Load to populate it.
func New(directory ParticipantDirectory, scores ScoreService, opts ...Option) *Grid {
	g := &Grid{
		directory: directory,
		scores:    scores,
		confirm:   DenyAll,
		known:     make(map[int64]struct{}),
		columns:   dedupe.New[types.Date](),
		cells:     make(map[CellKey]Cell),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddColumn normalizes raw and appends it as a column if it is new.
// It never contacts the score service.
func (g *Grid) AddColumn(raw string) (types.Date, error) {
	date, err := types.ParseDate(raw)
	if err != nil {
		g.setError(msgInvalidDate)
		return "", &ValidationError{Field: "date", Err: err}
	}
	g.columns.SeenAndRecord(date)
	return date, nil
}

// RemoveColumn deletes every score for date remotely and, on success, drops
// the column and all of its cells. A declined confirmation returns
// ErrNotConfirmed and changes nothing.
func (g *Grid) RemoveColumn(ctx context.Context, raw string) error {
	date, err := types.ParseDate(raw)
	if err != nil {
		g.setError(msgInvalidDate)
		return &ValidationError{Field: "date", Err: err}
	}
	if !g.columns.Contains(date) {
		g.setError(msgUnknownColumn)
		return fmt.Errorf("%w: %s", ErrUnknownColumn, date)
	}
	if !g.confirm.Confirm(ctx, fmt.Sprintf(confirmDeleteTemplate, date)) {
		return ErrNotConfirmed
	}

	if err := g.scores.DeleteScoresForDate(ctx, date); err != nil {
		g.setError(msgDeleteDate)
		return &RemoteError{Op: "delete scores for " + date.String(), Err: err}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.columns.Unrecord(date)
	for k := range g.cells {
		if k.Date == date {
			delete(g.cells, k)
		}
	}
	g.errMsg = ""
	return nil
}

// SetCellValue records a local edit. The value is not validated until save.
// Saved cells are read-only and return ErrCellLocked.
func (g *Grid) SetCellValue(participantID int64, rawDate, value string) error {
	key, err := g.key(participantID, rawDate)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.known[participantID]; !ok {
		g.errMsg = msgUnknownParticipant
		return fmt.Errorf("%w: %d", ErrUnknownParticipant, participantID)
	}
	if g.cells[key].Saved {
		g.errMsg = msgCellLocked
		return ErrCellLocked
	}
	g.cells[key] = Cell{Value: value}
	return nil
}

// SaveCell validates and persists one cell. Empty, non-numeric and
// out-of-domain values fail with a ValidationError before any remote call. On remote failure the
// cell keeps its value and stays editable so the save can be retried.
func (g *Grid) SaveCell(ctx context.Context, participantID int64, rawDate string) error {
	key, err := g.key(participantID, rawDate)
	if err != nil {
		return err
	}

	g.mu.RLock()
	cell := g.cells[key]
	g.mu.RUnlock()
	if cell.Saved {
		g.setError(msgCellLocked)
		return ErrCellLocked
	}

	value, err := scoring.Validate(cell.Value)
	if err != nil {
		msg := msgInvalidScore
		switch {
		case errors.Is(err, scoring.ErrEmptyValue):
			msg = msgEmptyScore
		case errors.Is(err, scoring.ErrOutOfRange):
			msg = msgOutOfRange
		}
		g.setError(msg)
		return &ValidationError{Field: "score", Err: err}
	}

	rec := model.ScoreRecord{ParticipantID: participantID, Date: key.Date, Score: value}
	if err := g.scores.UpsertScore(ctx, rec); err != nil {
		g.setError(msgSaveScore)
		return &RemoteError{Op: "save score", Err: err}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// The column may have been removed while the save was in flight.
	if _, ok := g.cells[key]; ok {
		g.cells[key] = Cell{Value: value.String(), Saved: true}
	}
	g.errMsg = ""
	return nil
}

// TotalScore sums a participant's cells. "N", unparseable and out-of-domain
// values count as 0.
func (g *Grid) TotalScore(participantID int64) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.totalLocked(participantID)
}

func (g *Grid) totalLocked(participantID int64) float64 {
	var total float64
	for k, c := range g.cells {
		if k.ParticipantID == participantID {
			total += scoring.Contribution(c.Value)
		}
	}
	return total
}

// Cell returns the cell at (participantID, date).
func (g *Grid) Cell(participantID int64, date types.Date) (Cell, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.cells[CellKey{ParticipantID: participantID, Date: date}]
	return c, ok
}

// Columns returns the known dates in display order.
func (g *Grid) Columns() []types.Date {
	return g.columns.Items()
}

// Participants returns the loaded participants, blue team first.
func (g *Grid) Participants() []model.Participant {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]model.Participant, len(g.participants))
	copy(out, g.participants)
	return out
}

// Err returns the current user-visible error message, or "".
func (g *Grid) Err() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.errMsg
}

// ClearError empties the error slot.
func (g *Grid) ClearError() {
	g.setError("")
}

// Load fetches participants and scores concurrently. Each result is applied
// as soon as it arrives; a failure of one fetch is reported in the error slot
// and returned, but does not prevent the other from being applied.
func (g *Grid) Load(ctx context.Context) error {
	g.ClearError()

	var (
		wg                    sync.WaitGroup
		participantErr, scErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		participantErr = g.loadParticipants(ctx)
	}()
	go func() {
		defer wg.Done()
		scErr = g.loadScores(ctx)
	}()
	wg.Wait()

	return errors.Join(participantErr, scErr)
}

func (g *Grid) loadParticipants(ctx context.Context) error {
	var all []model.Participant
	for _, team := range model.Teams() {
		ps, err := g.directory.ListParticipants(ctx, team)
		if err != nil {
			g.setError(msgLoadParticipants)
			return &RemoteError{Op: "list " + string(team) + " participants", Err: err}
		}
		all = append(all, ps...)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.participants = all
	g.known = make(map[int64]struct{}, len(all))
	for _, p := range all {
		g.known[p.ID] = struct{}{}
	}
	return nil
}

func (g *Grid) loadScores(ctx context.Context) error {
	records, err := g.scores.ListScores(ctx)
	if err != nil {
		g.setError(msgLoadScores)
		return &RemoteError{Op: "list scores", Err: err}
	}

	loaded := make(map[CellKey]Cell, len(records))
	for _, r := range records {
		loaded[CellKey{ParticipantID: r.ParticipantID, Date: r.Date}] = Cell{Value: r.Score.String(), Saved: true}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// Saved cells the service no longer returns were deleted elsewhere.
	for k, c := range g.cells {
		if _, ok := loaded[k]; c.Saved && !ok {
			delete(g.cells, k)
		}
	}
	for _, r := range records {
		g.columns.SeenAndRecord(r.Date)
	}
	for k, c := range loaded {
		g.cells[k] = c
	}
	return nil
}

func (g *Grid) key(participantID int64, rawDate string) (CellKey, error) {
	date, err := types.ParseDate(rawDate)
	if err != nil {
		g.setError(msgInvalidDate)
		return CellKey{}, &ValidationError{Field: "date", Err: err}
	}
	if !g.columns.Contains(date) {
		g.setError(msgUnknownColumn)
		return CellKey{}, fmt.Errorf("%w: %s", ErrUnknownColumn, date)
	}
	return CellKey{ParticipantID: participantID, Date: date}, nil
}

func (g *Grid) setError(msg string) {
	g.mu.Lock()
	g.errMsg = msg
	g.mu.Unlock()
}
