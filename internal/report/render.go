// Package report renders journal reports and delivers activity reports
// from the job queue.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/okian/journal/internal/domain/model"
)

// Raw HTML in activity descriptions is escaped (WithUnsafe is not set).
var mdRenderer = goldmark.New( //nolint:gochecknoglobals // stateless renderer
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

// ActivitiesMarkdown lists activities grouped by user, users sorted by last
// then first name. Activities of unknown users are listed last.
func ActivitiesMarkdown(users []model.User, activities []model.Activity, at time.Time) string {
	byUser := make(map[int64][]model.Activity)
	for _, a := range activities {
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}

	sorted := append([]model.User(nil), users...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].LastName != sorted[j].LastName {
			return sorted[i].LastName < sorted[j].LastName
		}
		return sorted[i].FirstName < sorted[j].FirstName
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# Activity report\n\n_Generated %s_\n\n", at.UTC().Format("2006-01-02 15:04 MST"))
	if len(activities) == 0 {
		b.WriteString("No activities recorded.\n")
		return b.String()
	}

	known := make(map[int64]bool, len(sorted))
	for _, u := range sorted {
		known[u.ID] = true
		acts := byUser[u.ID]
		if len(acts) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s %s\n\n", escape(u.FirstName), escape(u.LastName))
		writeActivities(&b, acts)
	}

	var orphans []model.Activity
	for _, a := range activities {
		if !known[a.UserID] {
			orphans = append(orphans, a)
		}
	}
	if len(orphans) > 0 {
		b.WriteString("## Unknown user\n\n")
		writeActivities(&b, orphans)
	}
	return b.String()
}

func writeActivities(b *strings.Builder, acts []model.Activity) {
	for _, a := range acts {
		fmt.Fprintf(b, "- %s\n", escape(a.Description))
	}
	b.WriteString("\n")
}

// escape neutralizes markdown control characters in user supplied text.
func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "#", `\#`, "`", "\\`", "[", `\[`, "]", `\]`, "\n", " ")
	return r.Replace(strings.TrimSpace(s))
}

// HTML converts markdown to HTML.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
