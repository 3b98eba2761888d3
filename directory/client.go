/*
Package directory resolves worker IDs against the external employee
directory.

PURPOSE:
  Two pieces live here:
  - Client: the HTTP consumer of the directory endpoint
    (GET <endpoint>?workerId=<5-digit id> -> {success, name, dept, role,
    balance}).
  - Resolver: the identity-resolution state machine that drives lookups
    from worker-ID edits, tracks the pending/found/not-found/network-error
    status, and discards late responses for superseded IDs.

OUTCOME MAPPING:
  {success: true}       -> Found, profile populated
  {success: false}      -> NotFound (leave.ErrIdentityNotFound)
  transport / bad JSON  -> NetworkError (leave.ErrIdentityNetwork)
  balance absent        -> Found with nil balance (untracked, not an error)
*/
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vinoisasian/jingshin-leave-public/leave"
)

// Profile is the directory's record for a worker.
type Profile struct {
	WorkerID   string
	Name       string
	Department string
	Role       string

	// Balance is nil when the directory tracks no leave balance for the
	// worker.
	Balance *decimal.Decimal
}

// lookupResponse is the directory's wire shape.
type lookupResponse struct {
	Success bool             `json:"success"`
	Name    string           `json:"name,omitempty"`
	Dept    string           `json:"dept,omitempty"`
	Role    string           `json:"role,omitempty"`
	Balance *decimal.Decimal `json:"balance,omitempty"`
}

// DefaultTimeout bounds a single lookup round-trip.
const DefaultTimeout = 10 * time.Second

// Client consumes the directory lookup endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a directory client for the given endpoint URL.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: DefaultTimeout},
	}
}

// NewClientWithHTTP allows injecting a custom http.Client (tests, custom
// transports).
func NewClientWithHTTP(endpoint string, hc *http.Client) *Client {
	return &Client{endpoint: endpoint, http: hc}
}

// Lookup resolves a worker ID. It returns leave.ErrIdentityNotFound when the
// directory reports no record, and wraps leave.ErrIdentityNetwork for every
// transport-level failure including malformed responses.
func (c *Client) Lookup(ctx context.Context, workerID string) (*Profile, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: bad endpoint: %v", leave.ErrIdentityNetwork, err)
	}
	q := u.Query()
	q.Set("workerId", workerID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", leave.ErrIdentityNetwork, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", leave.ErrIdentityNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: directory returned %d", leave.ErrIdentityNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", leave.ErrIdentityNetwork, err)
	}

	var lr lookupResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", leave.ErrIdentityNetwork, err)
	}

	if !lr.Success {
		return nil, leave.ErrIdentityNotFound
	}

	return &Profile{
		WorkerID:   workerID,
		Name:       lr.Name,
		Department: lr.Dept,
		Role:       lr.Role,
		Balance:    lr.Balance,
	}, nil
}
