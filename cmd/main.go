package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/journal/internal/adapters/blob"
	"github.com/okian/journal/internal/adapters/email"
	"github.com/okian/journal/internal/adapters/http/api"
	"github.com/okian/journal/internal/adapters/http/site"
	"github.com/okian/journal/internal/adapters/http/swagger"
	"github.com/okian/journal/internal/adapters/remote"
	"github.com/okian/journal/internal/adapters/storage"
	service "github.com/okian/journal/internal/app"
	"github.com/okian/journal/internal/config"
	"github.com/okian/journal/pkg/logger"
	"github.com/okian/journal/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	svc, err := newService(ctx, cfg, backend, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop(context.Background())

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("backend", backend.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// openBackend connects to the remote API or opens the SQL store selected by
// cfg.Backend.Mode. The returned func releases it.
func openBackend(ctx context.Context, cfg *config.Config) (service.Backend, func(), error) {
	if cfg.Backend.Mode == config.BackendRemote {
		c, err := remote.New(cfg.Backend.BaseURL, remote.WithTimeout(cfg.Backend.Timeout))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create remote client: %w", err)
		}
		return c, func() {}, nil
	}

	dialect, err := storage.DialectFor(cfg.Backend.Mode)
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.Open(ctx, dialect, cfg.Backend.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", dialect.Name, err)
	}
	return store, func() { _ = store.Close() }, nil
}

// newService builds the journal service with its blob store and mail sender.
func newService(ctx context.Context, cfg *config.Config, backend service.Backend, log logger.Logger) (*service.Service, error) {
	blobs, err := blob.Open(ctx, blob.Config{
		Driver:    blob.Driver(cfg.Blob.Driver),
		Root:      cfg.Blob.Root,
		Bucket:    cfg.Blob.Bucket,
		Region:    cfg.Blob.Region,
		Endpoint:  cfg.Blob.Endpoint,
		AccessKey: cfg.Blob.AccessKey,
		SecretKey: cfg.Blob.SecretKey,
		PathStyle: cfg.Blob.UsePathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}
	sender, err := email.New(cfg.Email.Provider, cfg.Email.APIKey, cfg.Email.From)
	if err != nil {
		return nil, fmt.Errorf("failed to create email sender: %w", err)
	}

	return service.New(backend,
		service.WithLogger(log),
		service.WithWorkerCount(cfg.Reports.WorkerCount),
		service.WithQueueSize(cfg.Reports.QueueSize),
		service.WithBlobStore(blobs),
		service.WithExportPrefix(cfg.Blob.Prefix),
		service.WithEmailSender(sender),
	), nil
}

// newHandler mounts the docs, the admin UI and the API behind the shared
// middleware.
func newHandler(ctx context.Context, cfg *config.Config, svc *service.Service) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)
	api.NewServer(svc, svc, api.WithMaxStandingsLimit(cfg.MaxStandingsLimit)).Register(ctx, mux)

	middlewares := []func(http.Handler) http.Handler{}
	if cfg.CSRFKey != "" {
		middlewares = append(middlewares, api.CSRF([]byte(cfg.CSRFKey)))
	}
	middlewares = append(middlewares, api.RequestID)
	return api.Chain(mux, middlewares...)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
