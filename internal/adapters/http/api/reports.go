package api

import (
	"context"
	"net/http"

	"github.com/okian/journal/internal/domain/model"
)

// ReportDependencies queues activity reports and tracks their delivery.
type ReportDependencies interface {
	SubmitReport(ctx context.Context, kind model.ReportKind, recipient string) (model.ReportStatus, error)
	ReportStatus(ctx context.Context, id string) (model.ReportStatus, error)
}

// ReportHandler accepts report jobs.
type ReportHandler struct {
	deps ReportDependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

type reportRequest struct {
	Recipient string `json:"recipient"`
}

// HandleSubmit handles POST /api/reports/{kind}. Delivery is asynchronous;
// the response carries the job id to poll.
func (h *ReportHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseReportKind(r.PathValue("kind"))
	if err != nil {
		writeErr(w, err)
		return
	}
	var req reportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	st, err := h.deps.SubmitReport(r.Context(), kind, req.Recipient)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Location", "/api/reports/"+st.ID)
	writeJSON(w, http.StatusAccepted, st)
}

// HandleStatus handles GET /api/reports/{id}.
func (h *ReportHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.ReportStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
