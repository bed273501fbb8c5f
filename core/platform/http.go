package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// client is the HTTP plumbing shared by every platform.
type client struct {
	http     *http.Client
	username string
	password string
}

func newClient(timeout time.Duration, username, password string) *client {
	return &client{
		http:     &http.Client{Timeout: timeout},
		username: username,
		password: password,
	}
}

func (c *client) do(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %d: %s", ErrFetch, rawURL, resp.StatusCode, string(body))
	}
	return resp, nil
}

// getJSON fetches base+route with query and decodes the object body.
func (c *client) getJSON(ctx context.Context, base, route string, query url.Values) (map[string]any, error) {
	u, err := url.JoinPath(base, route)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	resp, err := c.do(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrFetch, err)
	}
	return out, nil
}

// download writes the body of recURL into dir. The filename comes from
// Content-Disposition, falling back to the last URL path segment; an
// existing file of the same name is never overwritten.
func (c *client) download(ctx context.Context, recURL, dir string) (string, error) {
	resp, err := c.do(ctx, recURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	name := ""
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	if name == "" {
		if u, err := url.Parse(recURL); err == nil {
			name = path.Base(u.Path)
		}
	}
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." {
		name = uuid.NewString() + ".mgz"
	}

	target := filepath.Join(dir, name)
	if _, err := os.Stat(target); err == nil {
		target = filepath.Join(dir, uuid.NewString()+"-"+name)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("%w: failed to download %s: %v", ErrFetch, recURL, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	return target, nil
}

func matchesFromPayload(payload map[string]any) []Match {
	raw, _ := payload["matches"].([]any)
	matches := make([]Match, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			matches = append(matches, MatchFromPayload(m))
		}
	}
	return matches
}
