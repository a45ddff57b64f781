package seed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/journal/internal/domain/journal"
	"github.com/okian/journal/internal/domain/model"
	"github.com/okian/journal/internal/domain/types"
	"github.com/okian/journal/pkg/logger"
)

// ErrConfig reports an unusable seed configuration.
var ErrConfig = errors.New("invalid seed config")

// Run executes a complete seed run against config.BaseURL.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if config.Participants < 1 || config.Dates < 1 {
		return nil, fmt.Errorf("%w: participants and dates must be positive", ErrConfig)
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.StartDate.IsZero() {
		config.StartDate = DefaultStartDate(config.Dates)
	}

	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("seed")
	client := newHTTPClient(config.BaseURL, config.Timeout)
	gen := newGenerator(config.Seed)

	log.Info(ctx, "starting journal seed",
		logger.String("baseURL", config.BaseURL),
		logger.Int("participantsPerTeam", config.Participants),
		logger.Int("dates", config.Dates),
		logger.Int("workers", config.Workers))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Create participants on both teams
	participants, err := createParticipants(ctx, config, client, gen, stats)
	if err != nil {
		return stats, fmt.Errorf("participant creation failed: %w", err)
	}

	// Step 3: Add date columns and read the offered score values
	columns := dates(config.StartDate, config.Dates)
	view, err := addColumns(ctx, client, columns, stats)
	if err != nil {
		return stats, fmt.Errorf("column creation failed: %w", err)
	}

	// Step 4: Set and save every cell concurrently
	jobs, expected := gen.plan(participants, columns, view.Options)
	submitCells(ctx, config, client, jobs, stats)
	if stats.CellsFailed > 0 {
		return stats, fmt.Errorf("%d of %d cells failed", stats.CellsFailed, len(jobs))
	}

	// Step 5: Users and their activities
	if err := createUsers(ctx, config, client, gen, stats); err != nil {
		return stats, fmt.Errorf("user creation failed: %w", err)
	}

	// Step 6: Verify the standings
	ids := make([]int64, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	byID := retrieveStandings(ctx, config, client, ids)
	var top []types.Standing
	if err := client.Do(ctx, http.MethodGet, "/api/journal/standings", nil, &top); err != nil {
		return stats, fmt.Errorf("standings retrieval failed: %w", err)
	}
	if err := verifyStandings(ctx, expected, byID, top, stats); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := client.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: healthz %d", ErrStatus, resp.StatusCode)
	}
	return nil
}

func createParticipants(ctx context.Context, config *Config, client *HTTPClient, gen *generator, stats *Stats) ([]model.Participant, error) {
	run := runID(stats.StartTime)
	var out []model.Participant
	for _, team := range model.Teams() {
		for i := range config.Participants {
			var p model.Participant
			body := map[string]string{"name": gen.participantName(team, i, run)}
			if err := client.Do(ctx, http.MethodPost, "/api/teams/"+string(team)+"/participants", body, &p); err != nil {
				return nil, err
			}
			out = append(out, p)
			stats.ParticipantsCreated++
		}
	}
	return out, nil
}

func addColumns(ctx context.Context, client *HTTPClient, columns []types.Date, stats *Stats) (journal.View, error) {
	var view journal.View
	for _, d := range columns {
		if err := client.Do(ctx, http.MethodPost, "/api/journal/columns", map[string]string{"date": d.String()}, &view); err != nil {
			return view, err
		}
		stats.ColumnsAdded++
	}
	return view, nil
}

func createUsers(ctx context.Context, config *Config, client *HTTPClient, gen *generator, stats *Stats) error {
	for range config.Users {
		var u model.User
		if err := client.Do(ctx, http.MethodPost, "/api/users", gen.user(), &u); err != nil {
			return err
		}
		stats.UsersCreated++
		for range config.Activities {
			if err := client.Do(ctx, http.MethodPost, "/api/activities", gen.activity(u.ID), nil); err != nil {
				return err
			}
			stats.ActivitiesCreated++
		}
	}
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, cellsPerSecond float64
	if total := stats.CellsSaved + stats.CellsFailed; total > 0 {
		successRate = float64(stats.CellsSaved) / float64(total) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		cellsPerSecond = float64(stats.CellsSaved) / stats.Duration.Seconds()
	}

	logger.Get().Named("seed").Info(ctx, "final statistics",
		logger.Int("participantsCreated", stats.ParticipantsCreated),
		logger.Int("columnsAdded", stats.ColumnsAdded),
		logger.Int("cellsSaved", stats.CellsSaved),
		logger.Int("cellsFailed", stats.CellsFailed),
		logger.Int("usersCreated", stats.UsersCreated),
		logger.Int("activitiesCreated", stats.ActivitiesCreated),
		logger.Int("standingsChecked", stats.StandingsChecked),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("cellsPerSecond", cellsPerSecond))
}
