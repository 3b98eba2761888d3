// Package netinfo resolves the client-visible public IP through a
// what-is-my-IP echo service. The lookup is best effort: every failure mode
// silently yields the placeholder address.
package netinfo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// Placeholder is carried when the echo service is unreachable or returns
// garbage.
const Placeholder = "0.0.0.0"

// DefaultTimeout keeps the echo lookup from delaying anything that matters.
const DefaultTimeout = 5 * time.Second

// Client queries an ipify-style JSON echo endpoint ({"ip": "..."}).
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates an echo client for the given endpoint URL.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: DefaultTimeout},
	}
}

// NewClientWithHTTP allows injecting a custom http.Client.
func NewClientWithHTTP(endpoint string, hc *http.Client) *Client {
	return &Client{endpoint: endpoint, http: hc}
}

// PublicIP returns the echoed address, or Placeholder on any failure.
func (c *Client) PublicIP(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return Placeholder
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Placeholder
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Placeholder
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return Placeholder
	}

	var echo struct {
		IP string `json:"ip"`
	}
	if err := json.Unmarshal(body, &echo); err != nil || echo.IP == "" {
		return Placeholder
	}
	return echo.IP
}
