package seed

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/okian/journal/internal/domain/model"
	"github.com/okian/journal/internal/domain/scoring"
	"github.com/okian/journal/internal/domain/types"
)

var firstNames = []string{ //nolint:gochecknoglobals // name pool
	"Ada", "Ben", "Cleo", "Dan", "Eva", "Finn", "Gia", "Hugo",
	"Ines", "Jon", "Kira", "Leo", "Mia", "Noah", "Olga", "Paul",
}

var lastNames = []string{ //nolint:gochecknoglobals // name pool
	"Berg", "Costa", "Dahl", "Ernst", "Fox", "Gray", "Hale", "Ivanov",
}

var activityDescriptions = []string{ //nolint:gochecknoglobals // description pool
	"Morning run", "Swimming", "Team practice", "Stretching", "Cycling", "Strength training",
}

// generator produces reproducible seed data.
type generator struct {
	rnd *rand.Rand
}

func newGenerator(seed uint64) *generator {
	return &generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))} //nolint:gosec // test data
}

// participantName returns a readable, run-unique participant name.
func (g *generator) participantName(team model.Team, i int, runID string) string {
	return fmt.Sprintf("%s %s-%d (%s)", firstNames[g.rnd.IntN(len(firstNames))], team, i+1, runID)
}

// dates returns n consecutive date columns starting at start.
func dates(start time.Time, n int) []types.Date {
	out := make([]types.Date, n)
	for i := range n {
		out[i] = types.DateOf(start.AddDate(0, 0, i))
	}
	return out
}

// score picks one of the offered cell values.
func (g *generator) score(options []string) string {
	if len(options) == 0 {
		return scoring.Number(float64(g.rnd.IntN(int(scoring.MaxScore)+1))).String()
	}
	return options[g.rnd.IntN(len(options))]
}

func (g *generator) user() model.User {
	return model.User{
		FirstName: firstNames[g.rnd.IntN(len(firstNames))],
		LastName:  lastNames[g.rnd.IntN(len(lastNames))],
		Age:       18 + g.rnd.IntN(50),
	}
}

func (g *generator) activity(userID int64) model.Activity {
	return model.Activity{
		Description: activityDescriptions[g.rnd.IntN(len(activityDescriptions))],
		UserID:      userID,
	}
}

// cellJob is one score to set and save.
type cellJob struct {
	ParticipantID int64
	Date          types.Date
	Value         string
}

// plan assigns a score to every participant and date and returns the
// expected total per participant.
func (g *generator) plan(participants []model.Participant, columns []types.Date, options []string) ([]cellJob, map[int64]float64) {
	jobs := make([]cellJob, 0, len(participants)*len(columns))
	totals := make(map[int64]float64, len(participants))
	for _, p := range participants {
		totals[p.ID] = 0
		for _, d := range columns {
			v := g.score(options)
			jobs = append(jobs, cellJob{ParticipantID: p.ID, Date: d, Value: v})
			totals[p.ID] += scoring.Contribution(v)
		}
	}
	return jobs, totals
}

// runID tags the names of one run.
func runID(t time.Time) string {
	return strconv.FormatInt(t.Unix()%100000, 10)
}
