package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/journal/internal/domain/types"
)

// StandingsDependencies exposes the ranked totals.
type StandingsDependencies interface {
	TopN(ctx context.Context, n int) ([]types.Standing, error)
	Rank(ctx context.Context, participantID int64) (types.Standing, error)
}

// StandingsHandler serves participant rankings by total score.
type StandingsHandler struct {
	deps     StandingsDependencies
	maxLimit int
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps StandingsDependencies, maxLimit int) *StandingsHandler {
	if maxLimit <= 0 {
		maxLimit = defaultMaxStandingsLimit
	}
	return &StandingsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleTopN handles GET /api/journal/standings?limit=N.
func (h *StandingsHandler) HandleTopN(w http.ResponseWriter, r *http.Request) {
	limit := h.maxLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit %q", ErrBadRequest, raw))
			return
		}
		limit = min(n, h.maxLimit)
	}
	standings, err := h.deps.TopN(r.Context(), limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

// HandleRank handles GET /api/journal/standings/{id}.
func (h *StandingsHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	standing, err := h.deps.Rank(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standing)
}
