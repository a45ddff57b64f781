// Package model contains domain models passed between layers.
// JSON field names mirror the journal REST API.
package model

import (
	"strings"

	"github.com/okian/journal/internal/domain/scoring"
	"github.com/okian/journal/internal/domain/types"
)

// Team is one of the two fixed participant teams.
type Team string

// Teams.
const (
	TeamBlue   Team = "blue"
	TeamYellow Team = "yellow"
)

// Teams returns the teams in load order.
func Teams() []Team { return []Team{TeamBlue, TeamYellow} }

// ParseTeam validates a team name.
func ParseTeam(s string) (Team, error) {
	switch t := Team(strings.ToLower(strings.TrimSpace(s))); t {
	case TeamBlue, TeamYellow:
		return t, nil
	}
	return "", ErrUnknownTeam
}

// Participant is a rostered person scored in the journal.
type Participant struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Team Team   `json:"team"`
}

// Validate checks fields required to create a participant.
func (p Participant) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if _, err := ParseTeam(string(p.Team)); err != nil {
		return err
	}
	return nil
}

// ScoreRecord is one persisted journal score.
type ScoreRecord struct {
	ParticipantID int64         `json:"participantId"`
	Date          types.Date    `json:"date"`
	Score         scoring.Value `json:"score"`
}

// User is an account managed from the dashboard.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       int    `json:"age"`
}

// Validate checks fields required to store a user.
func (u User) Validate() error {
	if strings.TrimSpace(u.FirstName) == "" || strings.TrimSpace(u.LastName) == "" {
		return ErrNameRequired
	}
	if u.Age < 0 {
		return ErrInvalidAge
	}
	return nil
}

// Activity is a logged user activity.
type Activity struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	UserID      int64  `json:"userId"`
}

// Validate checks fields required to store an activity.
func (a Activity) Validate() error {
	if strings.TrimSpace(a.Description) == "" {
		return ErrDescriptionRequired
	}
	return nil
}

// Pair matches one blue participant with one yellow participant.
type Pair struct {
	Blue   Participant `json:"blueParticipant"`
	Yellow Participant `json:"yellowParticipant"`
}
