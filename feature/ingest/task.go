package ingest

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SeriesInfo names the series a file belongs to.
type SeriesInfo struct {
	Name        string
	ChallongeID string
}

// PlatformInfo is the platform match a file was downloaded for.
type PlatformInfo struct {
	PlatformID string
	MatchID    string
	Ladder     string
	Rated      *bool
}

// PlayerData is per-player metadata known outside the replay itself,
// matched to a Player by color.
type PlayerData struct {
	ColorID      int
	UserID       string
	Clan         string
	RateBefore   *float64
	RateAfter    *float64
	RateSnapshot *float64
}

// Task is one file to ingest.
type Task struct {
	ID string
	// Path is the local file to read.
	Path string
	// OriginalFilename is recorded on the File. Defaults to the base of Path.
	OriginalFilename string
	Source           string
	Reference        string
	Tags             []string
	Series           *SeriesInfo
	Platform         *PlatformInfo
	// Played overrides the timestamp from the replay and its filename.
	Played   *time.Time
	UserData []PlayerData
	Force    bool
}

// NewTask creates a task with a fresh id.
func NewTask(path, source, reference string) Task {
	return Task{
		ID:        uuid.NewString(),
		Path:      path,
		Source:    source,
		Reference: reference,
	}
}

func (t Task) originalFilename() string {
	if t.OriginalFilename != "" {
		return t.OriginalFilename
	}
	return filepath.Base(t.Path)
}
