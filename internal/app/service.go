// Package service wires the journal grid, its backend and the supporting
// stores into the operations served by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"

	"github.com/okian/journal/internal/adapters/blob"
	"github.com/okian/journal/internal/adapters/email"
	eventqueue "github.com/okian/journal/internal/adapters/mq/queue"
	workerpool "github.com/okian/journal/internal/adapters/mq/worker"
	"github.com/okian/journal/internal/adapters/repository"
	"github.com/okian/journal/internal/domain/journal"
	"github.com/okian/journal/internal/domain/model"
	"github.com/okian/journal/internal/report"
	"github.com/okian/journal/pkg/logger"
	"github.com/okian/journal/pkg/metrics"
)

// Backend is everything the dashboard reads and writes. Both the remote REST
// client and the SQL store satisfy it.
type Backend interface {
	Name() string

	journal.ParticipantDirectory
	journal.ScoreService

	CreateParticipant(ctx context.Context, p model.Participant) (model.Participant, error)
	DeleteParticipant(ctx context.Context, id int64) error
	ListPairs(ctx context.Context) ([]model.Pair, error)

	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	UpdateUser(ctx context.Context, u model.User) (model.User, error)
	DeleteUser(ctx context.Context, id int64) error

	ListActivities(ctx context.Context) ([]model.Activity, error)
	CreateActivity(ctx context.Context, a model.Activity) (model.Activity, error)
	DeleteActivity(ctx context.Context, id int64) error
}

// Service implements the API dependencies of the journal dashboard.
type Service struct {
	mu sync.RWMutex

	backend   Backend
	grid      *journal.Grid
	standings repository.Store
	blobs     blob.Store
	sender    email.Sender

	reportQueue *eventqueue.InMemoryQueue
	workerPool  *workerpool.Pool
	tracker     *report.Tracker

	workerCount  int
	queueSize    int
	exportPrefix string

	started bool
	logger  logger.Logger
}

// New constructs a Service over backend.
func New(backend Backend, opts ...Option) *Service {
	s := &Service{
		backend:      backend,
		standings:    repository.NewRankedStore(),
		blobs:        blob.NewMemory(),
		sender:       email.NewNoop(),
		workerCount:  runtime.NumCPU(),
		queueSize:    1000,
		exportPrefix: "exports/",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("journal")
	}
	s.grid = journal.New(backend, backend, journal.WithConfirmer(requestConfirmer(s.logger)))
	return s
}

// Start launches the report workers and performs the initial grid load. A
// failed load is logged and left in the grid's error slot.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.logger.Info(ctx, "starting journal service...", logger.String("backend", s.backend.Name()))

	s.tracker = report.NewTracker(s.queueSize)
	s.reportQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))

	var relay report.Relay
	if r, ok := s.backend.(report.Relay); ok {
		relay = r
	}
	dispatcher := report.NewDispatcher(s.backend, s.sender, relay, s.tracker)
	s.workerPool = workerpool.NewPool(s.workerCount, s.reportQueue, dispatcher)
	s.workerPool.Start(context.WithoutCancel(ctx))
	s.started = true
	s.mu.Unlock()

	if _, err := s.Reload(ctx); err != nil {
		s.logger.Warn(ctx, "initial journal load failed", logger.Error(err))
	}

	s.logger.Info(ctx, "journal service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("blob", string(s.blobs.Driver())),
		logger.String("email", s.sender.Provider()),
	)
	return nil
}

// Stop drains the report queue and stops the workers.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.logger.Info(ctx, "stopping journal service...")
	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "report workers did not stop cleanly", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "journal service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	gs := s.grid.Stats()
	stats := map[string]interface{}{
		"started":      s.started,
		"backend":      s.backend.Name(),
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"participants": gs.Participants,
		"columns":      gs.Columns,
		"cells":        gs.Cells,
		"savedCells":   gs.Saved,
		"ranked":       s.standings.Count(ctx),
		"blobDriver":   string(s.blobs.Driver()),
		"emailSender":  s.sender.Provider(),
	}
	if s.started {
		queueLen := s.reportQueue.Len()
		stats["queueLength"] = queueLen
		metrics.UpdateQueueSize(queueLen)
	}
	if msg := s.grid.Err(); msg != "" {
		stats["error"] = msg
	}
	metrics.UpdateGridSize(gs.Columns, gs.Cells, gs.Saved, gs.Participants)
	return stats
}
