package api

import (
	"context"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/okian/journal/internal/adapters/blob"
)

// ExportDependencies writes and reads CSV exports of the grid.
type ExportDependencies interface {
	Export(ctx context.Context) (blob.Info, error)
	Exports(ctx context.Context) ([]blob.Info, error)
	OpenExport(ctx context.Context, key string) (blob.Info, io.ReadCloser, error)
}

// ExportHandler serves grid exports.
type ExportHandler struct {
	deps ExportDependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps ExportDependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleList handles GET /api/journal/exports.
func (h *ExportHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	infos, err := h.deps.Exports(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

// HandleCreate handles POST /api/journal/exports.
func (h *ExportHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	info, err := h.deps.Export(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// HandleDownload handles GET /api/journal/exports/{key...}.
func (h *ExportHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	info, body, err := h.deps.OpenExport(r.Context(), r.PathValue("key"))
	if err != nil {
		writeErr(w, err)
		return
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(info.Key)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}
