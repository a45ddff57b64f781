package seed

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/okian/journal/internal/domain/types"
	"github.com/okian/journal/pkg/logger"
)

// retrieveStandings fetches the standing of every id concurrently. Failed
// lookups are left out of the result.
func retrieveStandings(ctx context.Context, config *Config, client *HTTPClient, ids []int64) map[int64]types.Standing {
	log := logger.Get().Named("seed")

	var (
		mu  sync.Mutex
		out = make(map[int64]types.Standing, len(ids))
		wg  sync.WaitGroup
	)
	idChan := make(chan int64, config.Workers*WorkerChannelMultiplier)

	for range config.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range idChan {
				var st types.Standing
				if err := client.Do(ctx, http.MethodGet, "/api/journal/standings/"+strconv.FormatInt(id, 10), nil, &st); err != nil {
					if config.Verbose {
						log.Warn(ctx, "standing lookup failed", logger.Int64("participant_id", id), logger.Error(err))
					}
					continue
				}
				mu.Lock()
				out[id] = st
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(idChan)
		for _, id := range ids {
			select {
			case <-ctx.Done():
				return
			case idChan <- id:
			}
		}
	}()

	wg.Wait()
	log.Info(ctx, "standings retrieved", logger.Int("retrieved", len(out)), logger.Int("requested", len(ids)))
	return out
}
