// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers a YAML file and JOURNAL_* environment variables on top.
// - Validation errors wrap ErrInvalidConfig, source errors wrap ErrLoadConfig.
package config

import (
	"runtime"
	"time"
)

// Backend modes.
const (
	BackendRemote   = "remote"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CSRFKey enables CSRF protection of form posts when set (32 bytes).
	CSRFKey string `koanf:"csrf_key"`

	// MaxStandingsLimit caps GET /api/journal/standings?limit.
	MaxStandingsLimit int `koanf:"max_standings_limit"`

	Backend BackendConfig `koanf:"backend"`
	Blob    BlobConfig    `koanf:"blob"`
	Email   EmailConfig   `koanf:"email"`
	Reports ReportsConfig `koanf:"reports"`
}

// BackendConfig selects where participants, scores and the CRUD collections live.
type BackendConfig struct {
	// Mode is one of remote, sqlite, postgres.
	Mode string `koanf:"mode"`

	// BaseURL of the remote REST API (remote mode).
	BaseURL string `koanf:"base_url"`

	// Timeout bounds each remote request.
	Timeout time.Duration `koanf:"timeout"`

	// DSN of the SQL database (sqlite and postgres modes).
	DSN string `koanf:"dsn"`
}

// BlobConfig configures where grid exports are written.
type BlobConfig struct {
	Driver       string `koanf:"driver"` // memory, fs, s3
	Root         string `koanf:"root"`
	Bucket       string `koanf:"bucket"`
	Region       string `koanf:"region"`
	Endpoint     string `koanf:"endpoint"`
	AccessKey    string `koanf:"access_key"`
	SecretKey    string `koanf:"secret_key"`
	Prefix       string `koanf:"prefix"`
	UsePathStyle bool   `koanf:"use_path_style"`
}

// EmailConfig configures the report mail sender.
type EmailConfig struct {
	Provider string `koanf:"provider"` // noop, resend
	APIKey   string `koanf:"api_key"`
	From     string `koanf:"from"`
}

// ReportsConfig sizes the asynchronous report pipeline.
type ReportsConfig struct {
	QueueSize   int `koanf:"queue_size"`
	WorkerCount int `koanf:"worker_count"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		MaxStandingsLimit: 100,
		Backend: BackendConfig{
			Mode:    BackendRemote,
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Blob: BlobConfig{
			Driver: "memory",
			Root:   "exports",
		},
		Email: EmailConfig{
			Provider: "noop",
			From:     "journal@localhost",
		},
		Reports: ReportsConfig{
			QueueSize:   1_000,
			WorkerCount: runtime.NumCPU(),
		},
	}
}
