package peer

import (
	"context"
	"time"
)

// Owner is the platform identity of the player who recorded a file.
type Owner struct {
	ColorID      int      `json:"color_id"`
	UserID       string   `json:"user_id,omitempty"`
	Clan         string   `json:"clan,omitempty"`
	RateBefore   *float64 `json:"rate_before,omitempty"`
	RateAfter    *float64 `json:"rate_after,omitempty"`
	RateSnapshot *float64 `json:"rate_snapshot,omitempty"`
}

// File is one recording of a match held by the peer.
type File struct {
	ID               uint   `json:"id"`
	Hash             string `json:"hash"`
	OriginalFilename string `json:"original_filename"`
	Owner            *Owner `json:"owner,omitempty"`
}

// Series is the series a match belongs to.
type Series struct {
	Name        string `json:"name"`
	ChallongeID string `json:"challonge_id,omitempty"`
}

// Match is the metadata needed to re-ingest a match elsewhere.
type Match struct {
	ID              uint       `json:"id"`
	Hash            string     `json:"hash"`
	PlatformID      string     `json:"platform_id,omitempty"`
	PlatformMatchID string     `json:"platform_match_id,omitempty"`
	Ladder          string     `json:"ladder,omitempty"`
	Rated           *bool      `json:"rated,omitempty"`
	Played          *time.Time `json:"played,omitempty"`
	Series          *Series    `json:"series,omitempty"`
	Files           []File     `json:"files"`
}

// Peer is another mgzdb instance files can be replicated from.
type Peer interface {
	// ListMatches returns every match with its files.
	ListMatches(ctx context.Context) ([]Match, error)
	// GetFileBytes returns the original filename and raw bytes of a file.
	GetFileBytes(ctx context.Context, fileID uint) (string, []byte, error)
}
