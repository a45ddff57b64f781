// Package types contains common types used across the application
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical column key format.
const DateLayout = "2006-01-02"

// Sentinel errors for date parsing.
var (
	ErrEmptyDate   = errors.New("date is empty")
	ErrInvalidDate = errors.New("invalid date")
)

// Accepted input layouts, tried in order. Timestamps are truncated to their date.
var inputLayouts = []string{ //nolint:gochecknoglobals // parse table
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02.01.2006",
}

// Date is a calendar date in canonical YYYY-MM-DD form.
type Date string

// ParseDate normalizes raw to a canonical Date.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyDate
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateOf(t), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// MustParseDate is ParseDate for literals; it panics on error.
func MustParseDate(raw string) Date {
	d, err := ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// String returns the canonical form.
func (d Date) String() string { return string(d) }

// Time returns midnight UTC of d. The zero time is returned for malformed values.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// UnmarshalJSON accepts any supported layout and stores the canonical form.
func (d *Date) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(b))
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Standing represents a participant's position in the journal standings.
type Standing struct {
	Rank          int     `json:"rank"`
	ParticipantID int64   `json:"participantId"`
	Name          string  `json:"name"`
	Team          string  `json:"team"`
	Total         float64 `json:"total"`
}
