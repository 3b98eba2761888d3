package directory

import (
	"context"
	"errors"
	"sync"

	"github.com/Vinoisasian/jingshin-leave-public/leave"
)

// =============================================================================
// RESOLUTION STATUS
// =============================================================================

// Status is the identity-resolution state for the current worker ID.
type Status string

const (
	// StatusNotAttempted: no lookup has been issued for the current ID
	// (wrong length, or the session just started / was reset).
	StatusNotAttempted Status = "not_attempted"

	// StatusPending: a lookup is in flight for the current ID.
	StatusPending Status = "pending"

	// StatusFound: the directory returned a profile for the current ID.
	StatusFound Status = "found"

	// StatusNotFound: the directory explicitly reported no record.
	StatusNotFound Status = "not_found"

	// StatusNetworkError: the lookup failed at the transport level.
	StatusNetworkError Status = "network_error"
)

// Resolution is the resolver's observable state. WorkerID is always the ID
// the status belongs to; a Found resolution carries the profile.
type Resolution struct {
	Status   Status
	WorkerID string
	Profile  *Profile
	Err      error
}

// =============================================================================
// RESOLVER - ID-driven asynchronous lookup with stale-response rejection
// =============================================================================

// LookupFunc is the directory call the resolver drives. *Client.Lookup
// satisfies it.
type LookupFunc func(ctx context.Context, workerID string) (*Profile, error)

// Resolver turns worker-ID edits into directory lookups.
//
// Every accepted edit bumps a generation counter, and each in-flight lookup
// carries the generation it was issued under. A completion whose generation
// no longer matches is discarded, so a late response can never attach
// identity data to a different ID than it was requested for.
type Resolver struct {
	mu     sync.Mutex
	lookup LookupFunc

	gen     uint64
	current Resolution
}

// NewResolver creates a resolver over the given lookup function.
func NewResolver(lookup LookupFunc) *Resolver {
	return &Resolver{
		lookup:  lookup,
		current: Resolution{Status: StatusNotAttempted},
	}
}

// Observe feeds a raw worker-ID edit into the state machine and returns the
// normalized ID (digits only, truncated to five characters).
//
// A normalized ID of exactly five digits triggers an asynchronous lookup;
// anything else resets the resolution to NotAttempted. Either way, any
// previously in-flight lookup is superseded immediately.
func (r *Resolver) Observe(ctx context.Context, raw string) string {
	id := leave.NormalizeWorkerID(raw)

	r.mu.Lock()
	r.gen++
	token := r.gen

	if !leave.ValidWorkerID(id) {
		r.current = Resolution{Status: StatusNotAttempted, WorkerID: id}
		r.mu.Unlock()
		return id
	}

	r.current = Resolution{Status: StatusPending, WorkerID: id}
	r.mu.Unlock()

	go func() {
		profile, err := r.lookup(ctx, id)
		r.complete(token, id, profile, err)
	}()

	return id
}

// Reset abandons interest in any in-flight lookup and clears the
// resolution. Used when the user navigates back to the start.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.current = Resolution{Status: StatusNotAttempted}
}

// Snapshot returns the current resolution.
func (r *Resolver) Snapshot() Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// complete applies a lookup outcome if it still belongs to the current
// generation; stale outcomes are dropped on the floor.
func (r *Resolver) complete(token uint64, id string, profile *Profile, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token != r.gen {
		return // superseded by a newer edit or a reset
	}

	switch {
	case err == nil:
		r.current = Resolution{Status: StatusFound, WorkerID: id, Profile: profile}
	case errors.Is(err, leave.ErrIdentityNotFound):
		r.current = Resolution{Status: StatusNotFound, WorkerID: id, Err: err}
	default:
		r.current = Resolution{Status: StatusNetworkError, WorkerID: id, Err: err}
	}
}
