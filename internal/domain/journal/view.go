package journal

import (
	"github.com/okian/journal/internal/domain/model"
	"github.com/okian/journal/internal/domain/scoring"
	"github.com/okian/journal/internal/domain/types"
)

// View is an immutable rendering of the grid.
type View struct {
	Columns []types.Date `json:"columns"`
	Rows    []Row        `json:"rows"`
	Options []string     `json:"options"`
	Error   string       `json:"error,omitempty"`
}

// Row is one participant with its total and cells by date.
type Row struct {
	Participant model.Participant   `json:"participant"`
	Total       float64             `json:"total"`
	Cells       map[types.Date]Cell `json:"cells"`
}

// Stats summarizes grid size.
type Stats struct {
	Participants int `json:"participants"`
	Columns      int `json:"columns"`
	Cells        int `json:"cells"`
	Saved        int `json:"saved"`
}

// Snapshot returns the current state for rendering. Scores of participants
// that are not loaded yet are kept but not shown.
func (g *Grid) Snapshot() View {
	columns := g.columns.Items()

	g.mu.RLock()
	defer g.mu.RUnlock()

	rows := make([]Row, 0, len(g.participants))
	for _, p := range g.participants {
		cells := make(map[types.Date]Cell)
		for _, d := range columns {
			if c, ok := g.cells[CellKey{ParticipantID: p.ID, Date: d}]; ok {
				cells[d] = c
			}
		}
		rows = append(rows, Row{Participant: p, Total: g.totalLocked(p.ID), Cells: cells})
	}
	return View{
		Columns: columns,
		Rows:    rows,
		Options: scoring.Options(),
		Error:   g.errMsg,
	}
}

// Stats reports the current grid size.
func (g *Grid) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s := Stats{
		Participants: len(g.participants),
		Columns:      int(g.columns.Size()),
		Cells:        len(g.cells),
	}
	for _, c := range g.cells {
		if c.Saved {
			s.Saved++
		}
	}
	return s
}
