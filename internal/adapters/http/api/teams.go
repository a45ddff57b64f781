package api

import (
	"context"
	"net/http"

	"github.com/okian/journal/internal/domain/model"
)

// TeamDependencies manages the blue and yellow rosters.
type TeamDependencies interface {
	TeamParticipants(ctx context.Context, team model.Team) ([]model.Participant, error)
	AddParticipant(ctx context.Context, p model.Participant) (model.Participant, error)
	RemoveParticipant(ctx context.Context, id int64) error
	Pairs(ctx context.Context) ([]model.Pair, error)
}

// TeamHandler serves team rosters and pairs.
type TeamHandler struct {
	deps TeamDependencies
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(deps TeamDependencies) *TeamHandler {
	return &TeamHandler{deps: deps}
}

// HandleList handles GET /api/teams/{team}/participants.
func (h *TeamHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	team, err := model.ParseTeam(r.PathValue("team"))
	if err != nil {
		writeErr(w, err)
		return
	}
	ps, err := h.deps.TeamParticipants(r.Context(), team)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// HandleCreate handles POST /api/teams/{team}/participants. The team in the
// path wins over the body.
func (h *TeamHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	team, err := model.ParseTeam(r.PathValue("team"))
	if err != nil {
		writeErr(w, err)
		return
	}
	var p model.Participant
	if err := decodeJSON(w, r, &p); err != nil {
		writeErr(w, err)
		return
	}
	p.ID = 0
	p.Team = team
	created, err := h.deps.AddParticipant(r.Context(), p)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleDelete handles DELETE /api/teams/{team}/participants/{id}?confirm=true.
func (h *TeamHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := model.ParseTeam(r.PathValue("team")); err != nil {
		writeErr(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := h.deps.RemoveParticipant(confirmed(r), id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePairs handles GET /api/pairs.
func (h *TeamHandler) HandlePairs(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.deps.Pairs(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pairs)
}
