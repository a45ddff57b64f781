package seed

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/okian/journal/internal/domain/types"
	"github.com/okian/journal/pkg/logger"
)

// ErrVerification reports standings that disagree with the seeded scores.
var ErrVerification = errors.New("standings verification failed")

// verifyStandings checks that every seeded participant is ranked with the
// expected total and that the top of the standings is ordered by total.
func verifyStandings(ctx context.Context, expected map[int64]float64, byID map[int64]types.Standing, top []types.Standing, stats *Stats) error {
	log := logger.Get().Named("seed")
	log.Info(ctx, "verifying standings", logger.Int("expected", len(expected)), logger.Int("ranked", len(byID)))

	if err := verifyOrder(top); err != nil {
		return err
	}

	var problems []error
	for id, want := range expected {
		got, ok := byID[id]
		if !ok {
			problems = append(problems, fmt.Errorf("participant %d is not ranked", id))
			continue
		}
		if math.Abs(got.Total-want) > totalTolerance {
			problems = append(problems, fmt.Errorf("participant %d total %.1f, want %.1f", id, got.Total, want))
			continue
		}
		stats.StandingsChecked++
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrVerification, errors.Join(problems...))
	}

	displayTop(ctx, top)
	return nil
}

// verifyOrder checks that totals never increase down the standings and that
// ranks are consecutive.
func verifyOrder(standings []types.Standing) error {
	for i := range standings {
		if standings[i].Rank != i+1 {
			return fmt.Errorf("%w: entry %d has rank %d", ErrVerification, i, standings[i].Rank)
		}
		if i > 0 && standings[i].Total > standings[i-1].Total {
			return fmt.Errorf("%w: entry %d has a higher total than entry %d", ErrVerification, i, i-1)
		}
	}
	return nil
}

func displayTop(ctx context.Context, standings []types.Standing) {
	log := logger.Get().Named("seed")
	for _, s := range standings[:min(10, len(standings))] {
		log.Info(ctx, "standing", logger.Int("rank", s.Rank), logger.String("name", s.Name),
			logger.String("team", s.Team), logger.Float64("total", s.Total))
	}
}
