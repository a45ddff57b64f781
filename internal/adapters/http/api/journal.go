package api

import (
	"context"
	"net/http"

	"github.com/okian/journal/internal/domain/journal"
)

// JournalDependencies is the grid surface used by JournalHandler.
type JournalDependencies interface {
	Journal(ctx context.Context) journal.View
	Reload(ctx context.Context) (journal.View, error)
	AddColumn(ctx context.Context, rawDate string) (journal.View, error)
	RemoveColumn(ctx context.Context, rawDate string) (journal.View, error)
	SetCell(ctx context.Context, participantID int64, rawDate, value string) (journal.View, error)
	SaveCell(ctx context.Context, participantID int64, rawDate string) (journal.View, error)
	DismissError(ctx context.Context) journal.View
}

// JournalHandler serves the score grid.
type JournalHandler struct {
	deps JournalDependencies
}

// NewJournalHandler creates a new journal handler.
func NewJournalHandler(deps JournalDependencies) *JournalHandler {
	return &JournalHandler{deps: deps}
}

type columnRequest struct {
	Date string `json:"date"`
}

type cellRequest struct {
	ParticipantID int64  `json:"participantId"`
	Date          string `json:"date"`
	Value         string `json:"value"`
}

// viewErrorResponse keeps the grid next to the error so the UI can redraw.
type viewErrorResponse struct {
	errorResponse
	View journal.View `json:"view"`
}

// HandleGet handles GET /api/journal.
func (h *JournalHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Journal(r.Context()))
}

// HandleReload handles POST /api/journal/reload.
func (h *JournalHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Reload(r.Context())
	writeView(w, view, err)
}

// HandleDismissError handles DELETE /api/journal/error.
func (h *JournalHandler) HandleDismissError(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.DismissError(r.Context()))
}

// HandleAddColumn handles POST /api/journal/columns.
func (h *JournalHandler) HandleAddColumn(w http.ResponseWriter, r *http.Request) {
	var req columnRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	view, err := h.deps.AddColumn(r.Context(), req.Date)
	writeView(w, view, err)
}

// HandleRemoveColumn handles DELETE /api/journal/columns?date=&confirm=true.
func (h *JournalHandler) HandleRemoveColumn(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.RemoveColumn(confirmed(r), r.URL.Query().Get("date"))
	writeView(w, view, err)
}

// HandleSetCell handles PUT /api/journal/cells.
func (h *JournalHandler) HandleSetCell(w http.ResponseWriter, r *http.Request) {
	var req cellRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	view, err := h.deps.SetCell(r.Context(), req.ParticipantID, req.Date, req.Value)
	writeView(w, view, err)
}

// HandleSaveCell handles POST /api/journal/cells/save.
func (h *JournalHandler) HandleSaveCell(w http.ResponseWriter, r *http.Request) {
	var req cellRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	view, err := h.deps.SaveCell(r.Context(), req.ParticipantID, req.Date)
	writeView(w, view, err)
}

func writeView(w http.ResponseWriter, view journal.View, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, view)
		return
	}
	status, code := statusFor(err)
	writeJSON(w, status, viewErrorResponse{
		errorResponse: errorResponse{Code: code, Message: err.Error()},
		View:          view,
	})
}
