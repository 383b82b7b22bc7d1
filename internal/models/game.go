package models

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	defaultUsLabel  = "Us"
	defaultDemLabel = "Dem"
)

// Game represents the game currently in progress
type Game struct {
	Rounds      []Round `json:"rounds" yaml:"rounds"`
	UsTeamName  string  `json:"usTeamName,omitempty" yaml:"usTeamName,omitempty"`
	DemTeamName string  `json:"demTeamName,omitempty" yaml:"demTeamName,omitempty"`
	GameOver    bool    `json:"gameOver,omitempty" yaml:"gameOver,omitempty"`
}

// RoundsPlayed returns the number of completed rounds
func (g Game) RoundsPlayed() int {
	return len(g.Rounds)
}

// LastRound returns the most recent round
func (g Game) LastRound() (Round, bool) {
	if len(g.Rounds) == 0 {
		return Round{}, false
	}
	return g.Rounds[len(g.Rounds)-1], true
}

// Label returns the display label for team
func (g Game) Label(team Team) string {
	return teamLabel(team, g.UsTeamName, g.DemTeamName)
}

// HistoricalGame is a completed game snapshot
type HistoricalGame struct {
	Rounds      []Round   `json:"rounds" yaml:"rounds"`
	FinalScore  Totals    `json:"finalScore" yaml:"finalScore"`
	UsTeamName  string    `json:"usTeamName,omitempty" yaml:"usTeamName,omitempty"`
	DemTeamName string    `json:"demTeamName,omitempty" yaml:"demTeamName,omitempty"`
	Timestamp   Timestamp `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Winner      Team      `json:"winner,omitempty" yaml:"winner,omitempty"`
	DurationMs  int64     `json:"durationMs,omitempty" yaml:"durationMs,omitempty"`
}

// SameTeams reports whether both team names equal those of g
func (h HistoricalGame) SameTeams(g Game) bool {
	return h.UsTeamName == g.UsTeamName && h.DemTeamName == g.DemTeamName
}

// WinningTeam returns the recorded winner, falling back to the final score
func (h HistoricalGame) WinningTeam() Team {
	if h.Winner == TeamUs || h.Winner == TeamDem {
		return h.Winner
	}
	return h.FinalScore.Leader()
}

// Label returns the display label for team
func (h HistoricalGame) Label(team Team) string {
	return teamLabel(team, h.UsTeamName, h.DemTeamName)
}

// TeamName returns the stored name for team, empty when unnamed
func (h HistoricalGame) TeamName(team Team) string {
	if team == TeamUs {
		return h.UsTeamName
	}
	return h.DemTeamName
}

func teamLabel(team Team, usName, demName string) string {
	if team == TeamUs {
		if usName != "" {
			return usName
		}
		return defaultUsLabel
	}
	if demName != "" {
		return demName
	}
	return defaultDemLabel
}

// Timestamp accepts either epoch milliseconds or an RFC 3339 string
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var ms float64
	if err := json.Unmarshal(data, &ms); err == nil {
		t.Time = time.UnixMilli(int64(ms)).UTC()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		t.Time = time.UnixMilli(n).UTC()
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Unparseable timestamps are dropped rather than failing the snapshot
		return nil
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UnixMilli())
}
