package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/journal/internal/seed"
)

// Default configuration constants.
const (
	defaultParticipants = 8
	defaultDates        = 7
	defaultUsers        = 4
	defaultActivities   = 3
	defaultRunTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the dashboard")
		participants = flag.Int("participants", defaultParticipants, "Participants created per team")
		dates        = flag.Int("dates", defaultDates, "Date columns to fill, ending today")
		users        = flag.Int("users", defaultUsers, "Users to create")
		activities   = flag.Int("activities", defaultActivities, "Activities per user")
		workers      = flag.Int("workers", runtime.NumCPU(), "Concurrent cell writers")
		timeout      = flag.Duration("timeout", seed.DefaultTimeout, "HTTP request timeout")
		randomSeed   = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed for reproducible scores")
		logFile      = flag.String("log", "", "Also write the log to this file")
		verbose      = flag.Bool("verbose", false, "Log every failed request")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	closeLog, err := seed.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLog()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &seed.Config{
		BaseURL:      *baseURL,
		Participants: *participants,
		Dates:        *dates,
		StartDate:    seed.DefaultStartDate(*dates),
		Users:        *users,
		Activities:   *activities,
		Workers:      *workers,
		Timeout:      *timeout,
		Seed:         *randomSeed,
		Verbose:      *verbose,
	}
	if _, err := seed.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Seed failed: " + err.Error() + "\n")
		cancel()
		closeLog()
		os.Exit(1)
	}
}
