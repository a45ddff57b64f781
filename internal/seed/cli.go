package seed

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/journal/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging logs to stdout and, when logFile is set, to that file too.
// The returned func closes the file.
func SetupLogging(logFile string, verbose bool) (func(), error) {
	var out io.Writer = os.Stdout
	closeFn := func() {}
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
		closeFn = func() { _ = file.Close() }
	}
	if err := logger.Init(logger.WithOutput(out)); err != nil {
		closeFn()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closeFn, nil
}

// DefaultStartDate returns the first column of a run ending today.
func DefaultStartDate(dates int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -dates+1)
}

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	os.Stdout.WriteString(`Journal Seed Tool
=================

Fills a running journal dashboard with participants, scores, users and
activities through its HTTP API, then checks the standings against the
totals of the generated scores.

Usage:
  go run ./cmd/seed [options]

Options:
  -url string
        Base URL of the dashboard (default "http://localhost:9080")
  -participants int
        Participants created per team (default 8)
  -dates int
        Date columns to fill, ending today (default 7)
  -users int
        Users to create (default 4)
  -activities int
        Activities per user (default 3)
  -workers int
        Concurrent cell writers (default CPU cores)
  -timeout duration
        HTTP request timeout (default 10s)
  -seed uint
        Random seed for reproducible scores (default: current time)
  -log string
        Also write the log to this file
  -verbose
        Log every failed request
  -help
        Show this help message

Examples:
  # Seed a local dashboard
  go run ./cmd/seed

  # A larger reproducible run
  go run ./cmd/seed -participants 40 -dates 30 -seed 7
`)
}
