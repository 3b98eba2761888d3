/*
Package session owns the per-form-session draft and its lifecycle.

PURPOSE:
  One Session exists per open form. It holds the draft record, feeds
  worker-ID edits into the identity resolver, gates field edits on a
  resolved identity, computes the display-only duration preview, and runs
  the single fire-and-forget submission.

OWNERSHIP:
  The session exclusively owns its draft. State lives only in memory; when
  the session is discarded (submit + back, or expiry) the draft is gone.
  There is deliberately no persistence layer.

SEE ALSO:
  - fsm.go: The state machine the session methods drive
  - manager.go: Session registry, creation, expiry
*/
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Vinoisasian/jingshin-leave-public/directory"
	"github.com/Vinoisasian/jingshin-leave-public/leave"
	"github.com/Vinoisasian/jingshin-leave-public/locales"
	"github.com/Vinoisasian/jingshin-leave-public/worktime"
)

// Approver dispatches the final submission to the approval collaborator.
type Approver interface {
	Submit(ctx context.Context, sub leave.Submission) error
}

// Session is a single worker's open leave-request form.
type Session struct {
	ID        string
	Lang      locales.Language
	CreatedAt time.Time

	mu       sync.Mutex
	state    State
	draft    *leave.Draft
	resolver *directory.Resolver
	schedule worktime.Schedule
	approver Approver
	logger   *zap.Logger

	// failure holds the reason for StateFailed; verifyErr holds the inline
	// identity-lookup error shown next to the ID field.
	failure   error
	verifyErr error

	// Client-observed metadata packaged into the submission.
	ipAddress string
	userAgent string

	// baseCtx outlives individual HTTP requests so an in-flight lookup is
	// not torn down when the triggering request returns. Stale results are
	// discarded by the resolver's generation check instead.
	baseCtx context.Context

	now func() time.Time
}

// FieldEdits is a partial update to the draft's non-identity fields. Nil
// pointers leave the field untouched.
type FieldEdits struct {
	LeaveType *leave.Type
	StartDate *string
	StartTime *string
	EndDate   *string
	EndTime   *string
	Reason    *string
	HoneyPot  *string
}

// View is an immutable snapshot handed to the HTTP layer.
type View struct {
	ID         string
	Lang       locales.Language
	State      State
	Draft      leave.Draft
	Resolution directory.Resolution
	Duration   worktime.Result
	VerifyErr  error
	Failure    error
	IPAddress  string
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// SetWorkerID feeds a raw worker-ID edit into the session. The value is
// normalized to at most five digits; a full five-digit ID starts a
// verification lookup, anything else resets the identity.
func (s *Session) SetWorkerID(raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()

	if s.state == StateSubmitting || s.state == StateSubmitted {
		return &TransitionError{From: s.state, Event: EventLookupStarted}
	}

	id := s.resolver.Observe(s.baseCtx, raw)
	s.draft.WorkerID = id

	// Any ID change invalidates previously resolved identity immediately,
	// before the new lookup settles.
	s.draft.ClearIdentity()
	s.verifyErr = nil
	s.failure = nil

	ev := EventIDInvalid
	if leave.ValidWorkerID(id) {
		ev = EventLookupStarted
	}
	next, err := Reduce(s.state, ev)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// EditFields applies non-identity edits. Allowed only once the identity is
// resolved (FormActive), or to re-open a Failed session.
func (s *Session) EditFields(edits FieldEdits) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()

	next, err := Reduce(s.state, EventFieldEdited)
	if err != nil {
		if s.state == StateLanding || s.state == StateVerifying {
			return leave.ErrNotVerified
		}
		return err
	}

	if edits.LeaveType != nil {
		if !edits.LeaveType.Valid() {
			return &leave.ValidationFieldError{Field: "leaveType", Message: "unknown leave type"}
		}
		s.draft.LeaveType = *edits.LeaveType
	}
	if edits.StartDate != nil {
		s.draft.StartDate = *edits.StartDate
	}
	if edits.StartTime != nil {
		s.draft.StartTime = *edits.StartTime
	}
	if edits.EndDate != nil {
		s.draft.EndDate = *edits.EndDate
	}
	if edits.EndTime != nil {
		s.draft.EndTime = *edits.EndTime
	}
	if edits.Reason != nil {
		s.draft.Reason = *edits.Reason
	}
	if edits.HoneyPot != nil {
		s.draft.HoneyPot = *edits.HoneyPot
	}

	s.state = next
	s.failure = nil
	return nil
}

// SetAttachment attaches an already-validated file to the draft; a nil
// attachment removes the current one.
func (s *Session) SetAttachment(att *leave.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()

	next, err := Reduce(s.state, EventFieldEdited)
	if err != nil {
		if s.state == StateLanding || s.state == StateVerifying {
			return leave.ErrNotVerified
		}
		return err
	}
	s.draft.Attachment = att
	s.state = next
	s.failure = nil
	return nil
}

// Submit validates the draft and dispatches it to the approval endpoint.
// The dispatch runs asynchronously; the session sits in Submitting until it
// settles, and a second submit in that window is refused.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	s.syncLocked()

	if s.state == StateSubmitting {
		s.mu.Unlock()
		return leave.ErrSubmissionInFlight
	}
	if err := s.draft.ReadyToSubmit(); err != nil {
		s.mu.Unlock()
		return err
	}
	next, err := Reduce(s.state, EventSubmitRequested)
	if err != nil {
		s.mu.Unlock()
		if s.state == StateLanding || s.state == StateVerifying {
			return leave.ErrNotVerified
		}
		return err
	}
	s.state = next
	sub := leave.BuildSubmission(s.draft, s.ipAddress, s.userAgent, s.now())
	s.mu.Unlock()

	go func() {
		err := s.approver.Submit(s.baseCtx, sub)
		s.settleSubmission(err)
	}()
	return nil
}

// Back abandons the session: any in-flight lookup's result is no longer of
// interest. The manager removes the session afterwards; a reload starts a
// fresh one.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolver.Reset()
	s.draft = leave.NewDraft()
	s.state = StateLanding
	s.failure = nil
	s.verifyErr = nil
}

// View returns the current snapshot, folding in any resolver completion
// that landed since the last call. The duration preview is recomputed on
// every call; it is derived display data and never part of the submission.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()

	return View{
		ID:         s.ID,
		Lang:       s.Lang,
		State:      s.state,
		Draft:      *s.draft,
		Resolution: s.resolver.Snapshot(),
		Duration: worktime.ComputeRange(
			s.draft.StartDate, s.draft.StartTime,
			s.draft.EndDate, s.draft.EndTime,
			s.schedule,
		),
		VerifyErr: s.verifyErr,
		Failure:   s.failure,
		IPAddress: s.ipAddress,
	}
}

// =============================================================================
// INTERNAL
// =============================================================================

// syncLocked folds the resolver's latest snapshot into the session. The
// resolver already guarantees the snapshot belongs to the current ID; the
// extra WorkerID check keeps the invariant visible here.
func (s *Session) syncLocked() {
	if s.state != StateVerifying {
		return
	}
	snap := s.resolver.Snapshot()
	if snap.WorkerID != s.draft.WorkerID {
		return
	}

	switch snap.Status {
	case directory.StatusFound:
		if next, err := Reduce(s.state, EventIdentityFound); err == nil {
			s.state = next
		}
		s.draft.WorkerName = snap.Profile.Name
		s.draft.Department = snap.Profile.Department
		s.draft.Role = snap.Profile.Role
		s.draft.Balance = snap.Profile.Balance
		s.verifyErr = nil

	case directory.StatusNotFound, directory.StatusNetworkError:
		if next, err := Reduce(s.state, EventIdentityFailed); err == nil {
			s.state = next
		}
		s.draft.ClearIdentity()
		s.verifyErr = snap.Err
	}
}

func (s *Session) settleSubmission(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSubmitting {
		return
	}
	if err != nil {
		if next, rerr := Reduce(s.state, EventSubmitFailed); rerr == nil {
			s.state = next
		}
		s.failure = errors.Join(leave.ErrSubmissionTransport, err)
		s.logger.Warn("submission dispatch failed",
			zap.String("session_id", s.ID),
			zap.Error(err))
		return
	}
	if next, rerr := Reduce(s.state, EventSubmitDispatched); rerr == nil {
		s.state = next
	}
	s.logger.Info("submission dispatched",
		zap.String("session_id", s.ID),
		zap.String("worker_id", s.draft.WorkerID))
}

// setIPAddress records the best-effort origin address once the background
// echo lookup settles.
func (s *Session) setIPAddress(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ip != "" {
		s.ipAddress = ip
	}
}
