/*
Package approval dispatches completed leave applications to the external
approval endpoint.

DELIVERY SEMANTICS:
  Fire-and-forget, deliberately. The collaborator offers no acknowledgment
  contract (the original backend swallows POST responses), so success is
  defined as "the request left without a transport-level error". The
  response body is never parsed and there are no retries; on failure the
  user resubmits manually.
*/
package approval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Vinoisasian/jingshin-leave-public/leave"
)

// DefaultTimeout bounds the single submission POST.
const DefaultTimeout = 15 * time.Second

// Client posts submissions to the approval endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates an approval client for the given endpoint URL.
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

// Submit sends the application once. Any transport failure wraps
// leave.ErrSubmissionTransport; a completed round-trip of any status is
// treated as dispatched.
func (c *Client) Submit(ctx context.Context, sub leave.Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("%w: %v", leave.ErrSubmissionTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", leave.ErrSubmissionTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", leave.ErrSubmissionTransport, err)
	}
	// Drain and ignore: no response contract exists.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	resp.Body.Close()
	return nil
}
