package api

import (
	"context"
	"net/http"

	"github.com/okian/journal/internal/domain/model"
)

// ActivityDependencies manages logged activities.
type ActivityDependencies interface {
	Activities(ctx context.Context) ([]model.Activity, error)
	CreateActivity(ctx context.Context, a model.Activity) (model.Activity, error)
	DeleteActivity(ctx context.Context, id int64) error
}

// ActivityHandler serves the activities collection.
type ActivityHandler struct {
	deps ActivityDependencies
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(deps ActivityDependencies) *ActivityHandler {
	return &ActivityHandler{deps: deps}
}

// HandleList handles GET /api/activities.
func (h *ActivityHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.deps.Activities(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleCreate handles POST /api/activities.
func (h *ActivityHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var a model.Activity
	if err := decodeJSON(w, r, &a); err != nil {
		writeErr(w, err)
		return
	}
	a.ID = 0
	created, err := h.deps.CreateActivity(r.Context(), a)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleDelete handles DELETE /api/activities/{id}.
func (h *ActivityHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := h.deps.DeleteActivity(r.Context(), id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
