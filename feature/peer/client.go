package peer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mgzdb/core/middleware/auth"
	"mgzdb/feature/records"
)

// Client reads from a remote instance running the serve command.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a client for the instance at baseURL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) get(ctx context.Context, route ...string) (*http.Response, error) {
	u, err := url.JoinPath(c.baseURL, route...)
	if err != nil {
		return nil, fmt.Errorf("failed to build peer url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build peer request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set(auth.Header, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach peer: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return resp, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, records.ErrNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("peer %s returned %d: %s", u, resp.StatusCode, string(body))
	}
}

// ListMatches fetches the match list from the peer.
func (c *Client) ListMatches(ctx context.Context) ([]Match, error) {
	resp, err := c.get(ctx, "peer", "matches")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var matches []Match
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return nil, fmt.Errorf("failed to decode peer matches: %w", err)
	}
	return matches, nil
}

// GetFileBytes downloads one file from the peer.
func (c *Client) GetFileBytes(ctx context.Context, fileID uint) (string, []byte, error) {
	resp, err := c.get(ctx, "peer", "files", strconv.FormatUint(uint64(fileID), 10))
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read peer file %d: %w", fileID, err)
	}
	name := ""
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	return name, data, nil
}
