package platform

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"mgzdb/core/utils"
)

// VooblyPlatform talks to a Voobly instance (global or cn).
type VooblyPlatform struct {
	client  *client
	baseURL string
	key     string
}

// NewVoobly creates a Voobly platform client.
func NewVoobly(cfg VooblyConfig, timeout time.Duration) *VooblyPlatform {
	base := cfg.BaseURL
	if base == "" {
		base = "https://www.voobly.com"
	}
	return &VooblyPlatform{
		client:  newClient(timeout, cfg.Username, cfg.Password),
		baseURL: base,
		key:     cfg.Key,
	}
}

func (v *VooblyPlatform) query() url.Values {
	q := url.Values{}
	if v.key != "" {
		q.Set("key", v.key)
	}
	return q
}

func (v *VooblyPlatform) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	payload, err := v.client.getJSON(ctx, v.baseURL, "api/match/"+url.PathEscape(matchID), v.query())
	if err != nil {
		return nil, fmt.Errorf("failed to get voobly match %s: %w", matchID, err)
	}
	m := MatchFromPayload(payload)
	if m.ID == "" {
		m.ID = matchID
	}
	return &m, nil
}

func (v *VooblyPlatform) DownloadRec(ctx context.Context, recURL, dir string) (string, error) {
	return v.client.download(ctx, recURL, dir)
}

func (v *VooblyPlatform) FindUser(ctx context.Context, userID string) (*User, error) {
	payload, err := v.client.getJSON(ctx, v.baseURL, "api/user/"+url.PathEscape(userID), v.query())
	if err != nil {
		return nil, fmt.Errorf("failed to find voobly user %s: %w", userID, err)
	}
	return &User{
		ID:   userID,
		Name: utils.ToString(first(payload, "display_name", "name")),
		Clan: utils.ToString(payload["clan"]),
	}, nil
}

func (v *VooblyPlatform) LadderMatches(ctx context.Context, ladderID string, limit int) ([]Match, error) {
	q := v.query()
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	payload, err := v.client.getJSON(ctx, v.baseURL, "api/ladder/"+url.PathEscape(ladderID)+"/matches", q)
	if err != nil {
		return nil, fmt.Errorf("failed to get voobly ladder %s: %w", ladderID, err)
	}
	return matchesFromPayload(payload), nil
}
