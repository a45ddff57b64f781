package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/okian/journal/internal/domain/journal"
)

// WriteGridCSV writes one row per participant: id, name, team, one column
// per date (empty when there is no cell), total.
func WriteGridCSV(w io.Writer, v journal.View) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(v.Columns)+4)
	header = append(header, "participant_id", "name", "team")
	for _, d := range v.Columns {
		header = append(header, d.String())
	}
	header = append(header, "total")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range v.Rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, strconv.FormatInt(row.Participant.ID, 10), row.Participant.Name, string(row.Participant.Team))
		for _, d := range v.Columns {
			rec = append(rec, row.Cells[d].Value)
		}
		rec = append(rec, strconv.FormatFloat(row.Total, 'f', -1, 64))
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %d: %w", row.Participant.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
