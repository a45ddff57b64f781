package seed

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/journal/pkg/logger"
)

type cellRequest struct {
	ParticipantID int64  `json:"participantId"`
	Date          string `json:"date"`
	Value         string `json:"value,omitempty"`
}

// submitCells sets and saves every cell using a pool of workers.
func submitCells(ctx context.Context, config *Config, client *HTTPClient, jobs []cellJob, stats *Stats) {
	log := logger.Get().Named("seed")
	log.Info(ctx, "saving cells", logger.Int("cells", len(jobs)), logger.Int("workers", config.Workers))

	var (
		saved      int64
		failed     int64
		lastReport atomic.Int64
	)

	jobChan := make(chan cellJob, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for range config.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				if ctx.Err() != nil {
					return
				}
				if err := submitSingleCell(ctx, client, job); err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Warn(ctx, "cell failed", logger.Int64("participant_id", job.ParticipantID),
							logger.String("date", job.Date.String()), logger.Error(err))
					}
				} else {
					atomic.AddInt64(&saved, 1)
				}

				now := time.Now().UnixNano()
				last := lastReport.Load()
				if now-last >= int64(progressInterval) && lastReport.CompareAndSwap(last, now) {
					log.Info(ctx, "progress",
						logger.Int64("saved", atomic.LoadInt64(&saved)),
						logger.Int64("failed", atomic.LoadInt64(&failed)),
						logger.Int("total", len(jobs)))
				}
			}
		}()
	}

	go func() {
		defer close(jobChan)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobChan <- job:
			}
		}
	}()

	wg.Wait()

	stats.CellsSaved = int(atomic.LoadInt64(&saved))
	stats.CellsFailed = int(atomic.LoadInt64(&failed))
	log.Info(ctx, "cell submission completed",
		logger.Int("saved", stats.CellsSaved), logger.Int("failed", stats.CellsFailed))
}

// submitSingleCell sets a cell value and saves it.
func submitSingleCell(ctx context.Context, client *HTTPClient, job cellJob) error {
	req := cellRequest{ParticipantID: job.ParticipantID, Date: job.Date.String(), Value: job.Value}
	if err := client.Do(ctx, http.MethodPut, "/api/journal/cells", req, nil); err != nil {
		return err
	}
	req.Value = ""
	return client.Do(ctx, http.MethodPost, "/api/journal/cells/save", req, nil)
}
