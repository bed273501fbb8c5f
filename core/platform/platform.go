package platform

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Platform identifiers.
const (
	Voobly   = "voobly"
	VooblyCN = "vooblycn"
	IGZ      = "igz"
	QQ       = "qq"
	DE       = "de"
)

var (
	// ErrUnsupported is returned for operations a platform does not offer.
	ErrUnsupported = errors.New("operation unsupported for this platform")
	// ErrFetch is returned when a platform request fails.
	ErrFetch = errors.New("platform fetch failed")
	// ErrUnknownPlatform is returned by Registry.Get for unregistered identifiers.
	ErrUnknownPlatform = errors.New("unknown platform")
)

// Player is one participant of a platform match.
type Player struct {
	ColorID      int
	UserID       string
	Name         string
	Clan         string
	RateBefore   *float64
	RateAfter    *float64
	RateSnapshot *float64
	// URL is the recording download link. Empty when the player uploaded nothing.
	URL string
}

// Match is the platform's view of one game.
type Match struct {
	ID        string
	Timestamp *time.Time
	Ladder    string
	Rated     *bool
	Players   []Player
}

// User is a platform account.
type User struct {
	ID   string
	Name string
	Clan string
}

// Platform is the capability every match-hosting service exposes.
type Platform interface {
	// GetMatch fetches match metadata by platform match id.
	GetMatch(ctx context.Context, matchID string) (*Match, error)
	// DownloadRec downloads a recording into dir and returns its path.
	DownloadRec(ctx context.Context, recURL, dir string) (string, error)
	// FindUser looks up a platform account.
	FindUser(ctx context.Context, userID string) (*User, error)
}

// LadderLister is implemented by platforms that can list recent ladder matches.
type LadderLister interface {
	LadderMatches(ctx context.Context, ladderID string, limit int) ([]Match, error)
}

// Registry maps platform identifiers to implementations.
type Registry struct {
	platforms map[string]Platform
}

// NewRegistry builds every supported platform from cfg. igz shares the voobly session.
func NewRegistry(cfg Config) *Registry {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	voobly := NewVoobly(cfg.Voobly, timeout)
	cnCfg := cfg.Voobly
	cnCfg.BaseURL = cfg.VooblyCN.BaseURL
	if cnCfg.BaseURL == "" {
		cnCfg.BaseURL = "https://www.voobly.cn"
	}

	r := &Registry{platforms: map[string]Platform{}}
	r.Register(Voobly, voobly)
	r.Register(VooblyCN, NewVoobly(cnCfg, timeout))
	r.Register(IGZ, voobly)
	r.Register(QQ, NewQQ(cfg.QQ, timeout))
	r.Register(DE, NewDefinitive(cfg.DE, timeout, time.Duration(cfg.CacheMinutes)*time.Minute))
	return r
}

// Register adds or replaces a platform.
func (r *Registry) Register(id string, p Platform) {
	r.platforms[id] = p
}

// Get returns the platform registered under id.
func (r *Registry) Get(id string) (Platform, error) {
	p, ok := r.platforms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, id)
	}
	return p, nil
}

// IDs returns the registered identifiers, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.platforms))
	for id := range r.platforms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ParseMatchID accepts a bare match id or a match URL and returns the id,
// which is the last non-empty path segment of a URL.
func ParseMatchID(idOrURL string) string {
	s := strings.TrimSpace(idOrURL)
	if u, err := url.Parse(s); err == nil && u.Host != "" {
		s = u.Path
	}
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	return s
}
