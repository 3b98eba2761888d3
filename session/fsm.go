/*
fsm.go - Explicit finite-state machine for a form session

PURPOSE:
  A session is always in exactly one of six states. The original form
  tracked the same lifecycle as half a dozen independent booleans (loading,
  fetchingName, submitted, error, ...), which allowed nonsense combinations;
  here the combinations are unrepresentable.

STATES:
  Landing     Worker-ID entry; identity not resolved
  Verifying   A directory lookup is in flight for the current ID
  FormActive  Identity resolved; the rest of the form is unlocked
  Submitting  A submission is in flight; submit is disabled
  Submitted   The application was dispatched; terminal until "back"
  Failed      The submission transport failed; any edit re-opens the form

TRANSITIONS:
  Landing     --lookup started-------> Verifying
  Verifying   --found----------------> FormActive
  Verifying   --not found / network--> Landing   (inline error)
  FormActive  --ID edited------------> Landing or Verifying
  FormActive  --submit---------------> Submitting
  Submitting  --dispatched-----------> Submitted
  Submitting  --transport error------> Failed
  Failed      --any edit-------------> FormActive

Reduce is pure: it never touches the draft or performs I/O.
*/
package session

import "fmt"

// State is the single explicit lifecycle value of a session.
type State string

const (
	StateLanding    State = "landing"
	StateVerifying  State = "verifying"
	StateFormActive State = "form_active"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
	StateFailed     State = "failed"
)

// EventKind names the discrete occurrences that move a session between
// states.
type EventKind string

const (
	// EventIDInvalid: the worker ID left the 5-digit shape; no lookup runs.
	EventIDInvalid EventKind = "id_invalid"

	// EventLookupStarted: a 5-digit ID triggered a directory lookup.
	EventLookupStarted EventKind = "lookup_started"

	// EventIdentityFound: the in-flight lookup resolved to a profile.
	EventIdentityFound EventKind = "identity_found"

	// EventIdentityFailed: the lookup settled as not-found or network error.
	EventIdentityFailed EventKind = "identity_failed"

	// EventFieldEdited: a non-identity field changed.
	EventFieldEdited EventKind = "field_edited"

	// EventSubmitRequested: the user pressed submit.
	EventSubmitRequested EventKind = "submit_requested"

	// EventSubmitDispatched: the outbound POST completed without a
	// transport error (fire-and-forget success).
	EventSubmitDispatched EventKind = "submit_dispatched"

	// EventSubmitFailed: the outbound POST threw at the transport level.
	EventSubmitFailed EventKind = "submit_failed"
)

// TransitionError reports an event that is not legal in the current state.
type TransitionError struct {
	From  State
	Event EventKind
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %s not allowed in state %s", e.Event, e.From)
}

// Reduce returns the state that follows cur when ev occurs. It is the only
// place transitions are defined.
func Reduce(cur State, ev EventKind) (State, error) {
	switch ev {
	case EventIDInvalid:
		switch cur {
		case StateLanding, StateVerifying, StateFormActive, StateFailed:
			return StateLanding, nil
		}

	case EventLookupStarted:
		switch cur {
		case StateLanding, StateVerifying, StateFormActive, StateFailed:
			return StateVerifying, nil
		}

	case EventIdentityFound:
		if cur == StateVerifying {
			return StateFormActive, nil
		}

	case EventIdentityFailed:
		if cur == StateVerifying {
			return StateLanding, nil
		}

	case EventFieldEdited:
		switch cur {
		case StateFormActive:
			return StateFormActive, nil
		case StateFailed:
			return StateFormActive, nil
		}

	case EventSubmitRequested:
		// Failed is resubmittable directly: retries are manual, never
		// automated.
		if cur == StateFormActive || cur == StateFailed {
			return StateSubmitting, nil
		}

	case EventSubmitDispatched:
		if cur == StateSubmitting {
			return StateSubmitted, nil
		}

	case EventSubmitFailed:
		if cur == StateSubmitting {
			return StateFailed, nil
		}
	}

	return cur, &TransitionError{From: cur, Event: ev}
}
