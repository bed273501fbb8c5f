package parser

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidFormat is returned when the replay bytes cannot be parsed.
var ErrInvalidFormat = errors.New("invalid replay format")

// Parser turns raw replay bytes into a Summary.
type Parser interface {
	Parse(ctx context.Context, data []byte) (*Summary, error)
	Version() string
}

// Player is one participant as seen by the parser.
type Player struct {
	Number         int    `json:"number"`
	ColorID        int    `json:"color_id"`
	Name           string `json:"name"`
	CivilizationID int    `json:"civilization_id"`
	Human          bool   `json:"human"`
	Winner         bool   `json:"winner"`
	Score          *int   `json:"score"`
	StartX         *int   `json:"start_x"`
	StartY         *int   `json:"start_y"`
}

// Team groups player numbers.
type Team struct {
	ID      int   `json:"id"`
	Players []int `json:"players"`
}

// Map describes the map a match was played on.
type Map struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Size string `json:"size"`
	Seed *int   `json:"seed"`
}

// Summary is everything the ingestion pipeline consumes from a parsed replay.
type Summary struct {
	// MatchHash identifies the logical game independently of who recorded it.
	MatchHash       string     `json:"hash"`
	Version         string     `json:"version"`
	MinorVersion    string     `json:"minor_version"`
	ParserVersion   string     `json:"parser_version"`
	DatasetID       int        `json:"dataset_id"`
	DatasetVersion  string     `json:"dataset_version"`
	Map             Map        `json:"map"`
	DurationMs      int64      `json:"duration_ms"`
	Played          *time.Time `json:"played"`
	Completed       bool       `json:"completed"`
	Restored        bool       `json:"restored"`
	Postgame        bool       `json:"postgame"`
	Rated           *bool      `json:"rated"`
	OwnerNumber     int        `json:"owner"`
	Encoding        string     `json:"encoding"`
	Language        string     `json:"language"`
	DiplomacyType   string     `json:"diplomacy_type"`
	TeamSize        string     `json:"team_size"`
	PopulationLimit int        `json:"population_limit"`
	Cheats          bool       `json:"cheats"`
	LockTeams       bool       `json:"lock_teams"`
	Speed           string     `json:"speed"`
	Players         []Player   `json:"players"`
	Teams           []Team     `json:"teams"`
}

// Duration returns the game length.
func (s *Summary) Duration() time.Duration {
	return time.Duration(s.DurationMs) * time.Millisecond
}

// Flagged reports whether the game is incomplete or was restored from a save.
func (s *Summary) Flagged() bool {
	return !s.Completed || s.Restored
}

// TeamOf returns the team id of the given player number, or 0.
func (s *Summary) TeamOf(number int) int {
	for _, team := range s.Teams {
		for _, n := range team.Players {
			if n == number {
				return team.ID
			}
		}
	}
	return 0
}

// WinningTeam returns the id of the team whose members won, or 0 when unknown.
func (s *Summary) WinningTeam() int {
	for _, p := range s.Players {
		if p.Winner {
			return s.TeamOf(p.Number)
		}
	}
	return 0
}

// Validate checks the fields the pipeline depends on.
func (s *Summary) Validate() error {
	if s.MatchHash == "" {
		return errors.New("summary has no match hash")
	}
	if len(s.Players) == 0 {
		return errors.New("summary has no players")
	}
	seen := make(map[int]bool, len(s.Players))
	for _, p := range s.Players {
		if seen[p.Number] {
			return errors.New("summary has duplicate player numbers")
		}
		seen[p.Number] = true
	}
	return nil
}
