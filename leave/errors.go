/*
errors.go - Centralized error taxonomy for the leave-request flow

PURPOSE:
  All error categories the form surfaces, in one place. Every error here is
  recoverable: the session always returns to an editable state, and no
  retries are automated.

ERROR CATEGORIES:
  1. Validation errors  - malformed or incomplete required fields
  2. Identity errors    - worker ID lookup outcomes (not found, network)
  3. Attachment errors  - oversized or unconvertible files
  4. Submission errors  - final POST transport failure

USAGE:
  Packages wrap these sentinels with context:

    if errors.Is(err, leave.ErrIdentityNotFound) {
        // surface the localized "ID not found" message
    }
*/
package leave

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned when a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrIdentityNotFound is returned when the directory has no record for
	// the worker ID.
	ErrIdentityNotFound = errors.New("worker ID not found")

	// ErrIdentityNetwork is returned when the directory lookup fails at the
	// transport level (timeout, DNS, malformed response).
	ErrIdentityNetwork = errors.New("directory connection error")

	// ErrNotVerified is returned when an operation requires a resolved
	// identity and the draft has none.
	ErrNotVerified = errors.New("worker identity not verified")

	// ErrAttachmentTooLarge is returned before any decoding when a file
	// exceeds the attachment size cap.
	ErrAttachmentTooLarge = errors.New("attachment exceeds size limit")

	// ErrAttachmentConversion is returned for unsupported or corrupt
	// attachment formats.
	ErrAttachmentConversion = errors.New("attachment format not supported")

	// ErrSubmissionTransport is returned when the final POST to the approval
	// endpoint throws at the transport level.
	ErrSubmissionTransport = errors.New("submission transport failure")

	// ErrSubmissionInFlight is returned when a submit arrives while another
	// submission is still pending for the same session.
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// ErrBotDetected is returned when the honeypot field carries a value.
	ErrBotDetected = errors.New("automated submission detected")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationFieldError identifies which field failed validation.
type ValidationFieldError struct {
	Field   string
	Message string
}

func (e *ValidationFieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationFieldError) Unwrap() error { return ErrValidation }

// AttachmentSizeError reports the offending size alongside the cap.
type AttachmentSizeError struct {
	Size  int64
	Limit int64
}

func (e *AttachmentSizeError) Error() string {
	return fmt.Sprintf("attachment is %d bytes, limit is %d", e.Size, e.Limit)
}

func (e *AttachmentSizeError) Unwrap() error { return ErrAttachmentTooLarge }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is caused by user input rather
// than a collaborator failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotVerified) ||
		errors.Is(err, ErrAttachmentTooLarge) ||
		errors.Is(err, ErrAttachmentConversion) ||
		errors.Is(err, ErrBotDetected)
}

// IsTransportError reports whether the error came from an external
// collaborator rather than the user.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrIdentityNetwork) ||
		errors.Is(err, ErrSubmissionTransport)
}
