package platform

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// QQPlatform talks to aocrec.
type QQPlatform struct {
	client  *client
	baseURL string
}

// NewQQ creates an aocrec platform client.
func NewQQ(cfg EndpointConfig, timeout time.Duration) *QQPlatform {
	base := cfg.BaseURL
	if base == "" {
		base = "https://www.aocrec.com"
	}
	return &QQPlatform{client: newClient(timeout, "", ""), baseURL: base}
}

func (q *QQPlatform) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	payload, err := q.client.getJSON(ctx, q.baseURL, "api/match/"+url.PathEscape(matchID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get qq match %s: %w", matchID, err)
	}
	m := MatchFromPayload(payload)
	if m.ID == "" {
		m.ID = matchID
	}
	return &m, nil
}

func (q *QQPlatform) DownloadRec(ctx context.Context, recURL, dir string) (string, error) {
	return q.client.download(ctx, recURL, dir)
}

func (q *QQPlatform) FindUser(context.Context, string) (*User, error) {
	return nil, fmt.Errorf("find user on %s: %w", QQ, ErrUnsupported)
}

func (q *QQPlatform) LadderMatches(ctx context.Context, ladderID string, limit int) ([]Match, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	payload, err := q.client.getJSON(ctx, q.baseURL, "api/ladder/"+url.PathEscape(ladderID)+"/matches", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get qq ladder %s: %w", ladderID, err)
	}
	return matchesFromPayload(payload), nil
}
