// Package scoring defines the score value domain of the journal:
// half-point steps from 0 to 6 plus the "not applicable" marker.
package scoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Domain bounds.
const (
	NotApplicable = "N"

	MinScore  = 0.0
	MaxScore  = 6.0
	ScoreStep = 0.5
)

// Sentinel errors.
var (
	ErrEmptyValue   = errors.New("score value is empty")
	ErrNotNumeric   = errors.New("score value is not a number")
	ErrInvalidScore = errors.New("invalid score")
	ErrOutOfRange   = errors.New("score value is outside the score domain")
)

// Value is a parsed score: either a finite number or NotApplicable.
// The zero Value is the number 0.
type Value struct {
	num float64
	na  bool
}

// Number returns a numeric Value.
func Number(f float64) Value { return Value{num: f} }

// NA returns the not-applicable Value.
func NA() Value { return Value{na: true} }

// Parse converts a raw cell value. Empty input fails with ErrEmptyValue and
// anything that is neither NotApplicable nor a finite number with ErrNotNumeric.
// Domain membership is not checked; see Validate.
func Parse(raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return Value{}, ErrEmptyValue
	case raw == NotApplicable:
		return NA(), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("%w: %q", ErrNotNumeric, raw)
	}
	return Number(f), nil
}

// IsNA reports whether v is the not-applicable marker.
func (v Value) IsNA() bool { return v.na }

// Float returns the numeric value; NotApplicable yields 0.
func (v Value) Float() float64 {
	if v.na {
		return 0
	}
	return v.num
}

// InDomain reports whether v is NotApplicable or a half step within [MinScore, MaxScore].
func (v Value) InDomain() bool {
	if v.na {
		return true
	}
	if v.num < MinScore || v.num > MaxScore {
		return false
	}
	steps := v.num / ScoreStep
	return steps == math.Trunc(steps)
}

// String renders v the way cells display it: "N", "3", "4.5".
func (v Value) String() string {
	if v.na {
		return NotApplicable
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// MarshalJSON encodes numbers as JSON numbers and the marker as "N".
func (v Value) MarshalJSON() ([]byte, error) {
	if v.na {
		return []byte(`"` + NotApplicable + `"`), nil
	}
	return []byte(v.String()), nil
}

// UnmarshalJSON accepts a JSON number, "N", or a numeric string.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidScore, err)
		}
		parsed, err := Parse(s)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidScore, err)
		}
		*v = parsed
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidScore, string(b))
	}
	*v = Number(f)
	return nil
}

// Validate parses raw and rejects numbers outside the score domain.
func Validate(raw string) (Value, error) {
	v, err := Parse(raw)
	if err != nil {
		return Value{}, err
	}
	if !v.InDomain() {
		return Value{}, fmt.Errorf("%w: %s", ErrOutOfRange, v)
	}
	return v, nil
}

// Contribution returns what raw adds to a total. NotApplicable, empty,
// unparseable and out-of-domain values contribute 0.
func Contribution(raw string) float64 {
	v, err := Validate(raw)
	if err != nil {
		return 0
	}
	return v.Float()
}

// Options lists the selectable cell values in display order.
func Options() []string {
	n := int((MaxScore-MinScore)/ScoreStep) + 1
	out := make([]string, 0, n+1)
	for i := 0; i < n; i++ {
		out = append(out, Number(MinScore+float64(i)*ScoreStep).String())
	}
	return append(out, NotApplicable)
}
