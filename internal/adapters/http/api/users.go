package api

import (
	"context"
	"net/http"

	"github.com/okian/journal/internal/domain/model"
)

// UserDependencies manages dashboard users.
type UserDependencies interface {
	Users(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	UpdateUser(ctx context.Context, u model.User) (model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// UserHandler serves the users collection.
type UserHandler struct {
	deps UserDependencies
}

// NewUserHandler creates a new user handler.
func NewUserHandler(deps UserDependencies) *UserHandler {
	return &UserHandler{deps: deps}
}

// HandleList handles GET /api/users.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.deps.Users(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleCreate handles POST /api/users.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var u model.User
	if err := decodeJSON(w, r, &u); err != nil {
		writeErr(w, err)
		return
	}
	u.ID = 0
	created, err := h.deps.CreateUser(r.Context(), u)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /api/users/{id}.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	var u model.User
	if err := decodeJSON(w, r, &u); err != nil {
		writeErr(w, err)
		return
	}
	u.ID = id
	updated, err := h.deps.UpdateUser(r.Context(), u)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /api/users/{id}.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := h.deps.DeleteUser(r.Context(), id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
