package platform

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"mgzdb/core/utils"

	"github.com/patrickmn/go-cache"
)

// DefinitivePlatform talks to the Definitive Edition match service. Matches
// can only be fetched through a profile that played them, so GetMatch works
// for match ids seen earlier through LadderMatches or RememberMatches.
type DefinitivePlatform struct {
	client  *client
	baseURL string
	seen    *cache.Cache
}

// NewDefinitive creates a Definitive Edition platform client.
func NewDefinitive(cfg EndpointConfig, timeout, remember time.Duration) *DefinitivePlatform {
	base := cfg.BaseURL
	if base == "" {
		base = "https://aoe2.net"
	}
	if remember <= 0 {
		remember = 24 * time.Hour
	}
	return &DefinitivePlatform{
		client:  newClient(timeout, "", ""),
		baseURL: base,
		seen:    cache.New(remember, 10*time.Minute),
	}
}

// RememberMatches records the profile through which each match can be fetched.
func (d *DefinitivePlatform) RememberMatches(refs map[string]string) {
	for matchID, profileID := range refs {
		d.seen.SetDefault(matchID, profileID)
	}
}

func (d *DefinitivePlatform) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	profile, ok := d.seen.Get(matchID)
	if !ok {
		return nil, fmt.Errorf("%w: match %s not in cache", ErrFetch, matchID)
	}

	q := url.Values{}
	q.Set("profile_id", profile.(string))
	payload, err := d.client.getJSON(ctx, d.baseURL, "api/match/"+url.PathEscape(matchID), q)
	if err != nil {
		return nil, fmt.Errorf("failed to get de match %s: %w", matchID, err)
	}
	m := MatchFromPayload(payload)
	if m.ID == "" {
		m.ID = matchID
	}
	return &m, nil
}

func (d *DefinitivePlatform) DownloadRec(ctx context.Context, recURL, dir string) (string, error) {
	return d.client.download(ctx, recURL, dir)
}

func (d *DefinitivePlatform) FindUser(context.Context, string) (*User, error) {
	return nil, fmt.Errorf("find user on %s: %w", DE, ErrUnsupported)
}

// LadderMatches lists recent ladder matches and remembers their reference profiles.
func (d *DefinitivePlatform) LadderMatches(ctx context.Context, ladderID string, limit int) ([]Match, error) {
	q := url.Values{}
	q.Set("leaderboard_id", ladderID)
	if limit > 0 {
		q.Set("count", strconv.Itoa(limit))
	}
	payload, err := d.client.getJSON(ctx, d.baseURL, "api/matches", q)
	if err != nil {
		return nil, fmt.Errorf("failed to get de ladder %s: %w", ladderID, err)
	}

	raw, _ := payload["matches"].([]any)
	matches := make([]Match, 0, len(raw))
	refs := make(map[string]string, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		m := MatchFromPayload(obj)
		if profile := utils.ToString(obj["ref_profile_id"]); profile != "" && m.ID != "" {
			refs[m.ID] = profile
		}
		matches = append(matches, m)
	}
	d.RememberMatches(refs)
	return matches, nil
}
