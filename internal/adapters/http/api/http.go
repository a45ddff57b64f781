// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/journal/internal/adapters/blob"
	"github.com/okian/journal/internal/adapters/mq/queue"
	"github.com/okian/journal/internal/adapters/remote"
	"github.com/okian/journal/internal/adapters/repository"
	service "github.com/okian/journal/internal/app"
	"github.com/okian/journal/internal/domain/journal"
	"github.com/okian/journal/internal/domain/model"
	"github.com/okian/journal/internal/domain/scoring"
	"github.com/okian/journal/internal/domain/types"
	"github.com/okian/journal/internal/report"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	JournalDependencies
	StandingsDependencies
	ExportDependencies
	TeamDependencies
	UserDependencies
	ActivityDependencies
	ReportDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	journalHandler    *JournalHandler
	standingsHandler  *StandingsHandler
	exportHandler     *ExportHandler
	teamHandler       *TeamHandler
	userHandler       *UserHandler
	activityHandler   *ActivityHandler
	reportHandler     *ReportHandler
	maxStandingsLimit int
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxStandingsLimit: defaultMaxStandingsLimit}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.journalHandler = NewJournalHandler(deps)
	s.standingsHandler = NewStandingsHandler(deps, s.maxStandingsLimit)
	s.exportHandler = NewExportHandler(deps)
	s.teamHandler = NewTeamHandler(deps)
	s.userHandler = NewUserHandler(deps)
	s.activityHandler = NewActivityHandler(deps)
	s.reportHandler = NewReportHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	handle := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	handle("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	handle("GET /stats", "stats", s.statsHandler.HandleStats)

	handle("GET /api/journal", "journal", s.journalHandler.HandleGet)
	handle("POST /api/journal/reload", "journal_reload", s.journalHandler.HandleReload)
	handle("DELETE /api/journal/error", "journal_error", s.journalHandler.HandleDismissError)
	handle("POST /api/journal/columns", "journal_columns", s.journalHandler.HandleAddColumn)
	handle("DELETE /api/journal/columns", "journal_columns", s.journalHandler.HandleRemoveColumn)
	handle("PUT /api/journal/cells", "journal_cells", s.journalHandler.HandleSetCell)
	handle("POST /api/journal/cells/save", "journal_cells_save", s.journalHandler.HandleSaveCell)

	handle("GET /api/journal/standings", "standings", s.standingsHandler.HandleTopN)
	handle("GET /api/journal/standings/{id}", "standings_rank", s.standingsHandler.HandleRank)

	handle("GET /api/journal/exports", "exports", s.exportHandler.HandleList)
	handle("POST /api/journal/exports", "exports", s.exportHandler.HandleCreate)
	handle("GET /api/journal/exports/{key...}", "exports_download", s.exportHandler.HandleDownload)

	handle("GET /api/teams/{team}/participants", "participants", s.teamHandler.HandleList)
	handle("POST /api/teams/{team}/participants", "participants", s.teamHandler.HandleCreate)
	handle("DELETE /api/teams/{team}/participants/{id}", "participants", s.teamHandler.HandleDelete)
	handle("GET /api/pairs", "pairs", s.teamHandler.HandlePairs)

	handle("GET /api/users", "users", s.userHandler.HandleList)
	handle("POST /api/users", "users", s.userHandler.HandleCreate)
	handle("PUT /api/users/{id}", "users", s.userHandler.HandleUpdate)
	handle("DELETE /api/users/{id}", "users", s.userHandler.HandleDelete)

	handle("GET /api/activities", "activities", s.activityHandler.HandleList)
	handle("POST /api/activities", "activities", s.activityHandler.HandleCreate)
	handle("DELETE /api/activities/{id}", "activities", s.activityHandler.HandleDelete)

	handle("POST /api/reports/{kind}", "reports", s.reportHandler.HandleSubmit)
	handle("GET /api/reports/{id}", "reports_status", s.reportHandler.HandleStatus)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before writing the header so an unencodable value
// becomes a 500 rather than an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal_error", Message: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeErr maps err onto a status and writes it.
func writeErr(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}

// statusFor maps domain and adapter errors onto HTTP statuses.
func statusFor(err error) (int, string) {
	switch {
	case isValidation(err):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, journal.ErrCellLocked), errors.Is(err, journal.ErrNotConfirmed), errors.Is(err, blob.ErrExists):
		return http.StatusConflict, "conflict"
	case errors.Is(err, journal.ErrRemote):
		return http.StatusBadGateway, "remote_error"
	case errors.Is(err, model.ErrNotFound), errors.Is(err, repository.ErrNotFound), errors.Is(err, blob.ErrNotFound),
		errors.Is(err, report.ErrJobNotFound), errors.Is(err, journal.ErrUnknownColumn),
		errors.Is(err, journal.ErrUnknownParticipant):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, remote.ErrUnexpectedStatus):
		return http.StatusBadGateway, "remote_error"
	case errors.Is(err, queue.ErrFull), errors.Is(err, queue.ErrClosed), errors.Is(err, ErrUnavailable),
		errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "backpressure"
	}
	return http.StatusInternalServerError, "internal_error"
}

var validationErrors = []error{ //nolint:gochecknoglobals // lookup table
	ErrBadRequest, ErrInvalidID, journal.ErrValidation,
	model.ErrUnknownTeam, model.ErrNameRequired, model.ErrInvalidAge, model.ErrDescriptionRequired,
	model.ErrUnknownReportKind, model.ErrRecipientRequired, model.ErrInvalidEmail,
	repository.ErrInvalidLimit, blob.ErrInvalidKey, service.ErrInvalidLimit, service.ErrExportKey,
	types.ErrEmptyDate, types.ErrInvalidDate, scoring.ErrEmptyValue, scoring.ErrNotNumeric, scoring.ErrInvalidScore,
	scoring.ErrOutOfRange,
}

func isValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// pathID parses a positive integer path value.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, r.PathValue(name))
	}
	return id, nil
}

// confirmed carries ?confirm=true into the request context.
func confirmed(r *http.Request) context.Context {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return journal.WithConfirmation(r.Context(), ok)
}
