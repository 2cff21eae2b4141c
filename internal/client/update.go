// Package client implements the HTTP clients the pace CLI uses to talk to
// the paced backend. Every call takes a context; callers set the timeout
// from user config so a slow server can never hang a command.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// UpdateInfo is the result of an update check.
type UpdateInfo struct {
	HasUpdate   bool   `json:"has_update"`
	Version     string `json:"version"`
	DownloadURL string `json:"download_url"`
	Description string `json:"description"`
	Message     string `json:"message"`
}

// Client talks to one paced instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL, e.g. "http://localhost:5010".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{},
	}
}

// CheckUpdate asks the backend whether a newer release exists for the
// given version and platform.
func (c *Client) CheckUpdate(ctx context.Context, version, platform string) (*UpdateInfo, error) {
	u := fmt.Sprintf("%s/api/check-update?%s", c.baseURL, url.Values{
		"version":  {version},
		"platform": {platform},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("update check failed: server returned status %d", resp.StatusCode)
	}

	var info UpdateInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("update check failed: invalid response: %w", err)
	}
	return &info, nil
}
