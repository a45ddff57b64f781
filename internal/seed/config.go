// Package seed fills a running journal dashboard with participants, scores,
// users and activities through its HTTP API and checks the resulting
// standings.
package seed

import "time"

// Config holds configuration for a seed run.
type Config struct {
	BaseURL      string        // Base URL of the dashboard
	Participants int           // Participants created per team
	Dates        int           // Date columns to fill
	StartDate    time.Time     // First date column
	Users        int           // Users to create
	Activities   int           // Activities per user
	Workers      int           // Concurrent cell writers
	Timeout      time.Duration // HTTP request timeout
	Seed         uint64        // Random seed for reproducible scores
	Verbose      bool          // Log every request failure
}

// Stats holds run statistics.
type Stats struct {
	ParticipantsCreated int
	ColumnsAdded        int
	CellsSaved          int
	CellsFailed         int
	UsersCreated        int
	ActivitiesCreated   int
	StandingsChecked    int
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
