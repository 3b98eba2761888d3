// Package leave defines the leave-request domain model: the draft record a
// form session mutates, the leave-type taxonomy, and worker-ID normalization.
// The draft lives only in memory for the lifetime of a session; it is never
// persisted.
package leave

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEAVE TYPE
// =============================================================================

// Type is the categorical classification of a requested absence.
type Type string

const (
	TypePersonal    Type = "personal"
	TypeSick        Type = "sick"
	TypeAnnual      Type = "annual"
	TypeMenstrual   Type = "menstrual"
	TypeBereavement Type = "bereavement"
)

// AllTypes lists every leave type the form offers, in display order.
var AllTypes = []Type{TypePersonal, TypeSick, TypeAnnual, TypeMenstrual, TypeBereavement}

// Valid reports whether t is one of the known leave types.
func (t Type) Valid() bool {
	switch t {
	case TypePersonal, TypeSick, TypeAnnual, TypeMenstrual, TypeBereavement:
		return true
	}
	return false
}

// =============================================================================
// WORKER ID
// =============================================================================

// WorkerIDLength is the exact length a worker ID must have before a
// directory lookup is attempted.
const WorkerIDLength = 5

// NormalizeWorkerID strips non-digit characters and truncates the result to
// WorkerIDLength characters, mirroring the input filtering the form applies
// on every keystroke.
func NormalizeWorkerID(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
		if b.Len() == WorkerIDLength {
			break
		}
	}
	return b.String()
}

// ValidWorkerID reports whether id is ready for resolution: exactly
// WorkerIDLength digits.
func ValidWorkerID(id string) bool {
	if len(id) != WorkerIDLength {
		return false
	}
	for _, r := range id {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// =============================================================================
// ATTACHMENT
// =============================================================================

// Attachment is an optional supporting document carried on the draft.
// Data is the base64-encoded file content; ContentType is the sniffed MIME
// type, not the client-declared one.
type Attachment struct {
	Filename    string
	ContentType string
	Data        string
	Size        int64
}

// =============================================================================
// DRAFT
// =============================================================================

// Default clock times applied when a session starts. The original form
// pre-fills a full working day including the 10-minute close-out window.
const (
	DefaultStartTime = "08:00"
	DefaultEndTime   = "17:10"
)

// Draft is the mutable record a single form session owns. Identity fields
// (WorkerName, Department, Role, Balance) are populated only by a successful
// directory resolution and cleared whenever the worker ID changes away from
// the value they were resolved for.
type Draft struct {
	WorkerID   string
	WorkerName string
	Department string
	Role       string

	// Balance is the resolved leave balance. nil means the directory does
	// not track a balance for this worker, which is not an error.
	Balance *decimal.Decimal

	LeaveType Type
	StartDate string // 2006-01-02
	StartTime string // 15:04
	EndDate   string
	EndTime   string
	Reason    string

	Attachment *Attachment

	// HoneyPot must stay empty. A non-empty value marks the submission as
	// automated and it is rejected without reaching the approval endpoint.
	HoneyPot string
}

// NewDraft returns a fresh draft with the form's default clock times.
func NewDraft() *Draft {
	return &Draft{
		LeaveType: TypePersonal,
		StartTime: DefaultStartTime,
		EndTime:   DefaultEndTime,
	}
}

// Verified reports whether the draft carries resolved identity data.
func (d *Draft) Verified() bool {
	return d.WorkerName != ""
}

// ClearIdentity removes all resolver-populated fields. Called on any worker
// ID change so stale identity data never remains attached to a different ID.
func (d *Draft) ClearIdentity() {
	d.WorkerName = ""
	d.Department = ""
	d.Role = ""
	d.Balance = nil
}

// ReadyToSubmit checks the required fields the form enforces natively.
func (d *Draft) ReadyToSubmit() error {
	switch {
	case !ValidWorkerID(d.WorkerID):
		return &ValidationFieldError{Field: "workerId", Message: "worker ID must be 5 digits"}
	case !d.Verified():
		return ErrNotVerified
	case !d.LeaveType.Valid():
		return &ValidationFieldError{Field: "leaveType", Message: "unknown leave type"}
	case d.StartDate == "":
		return &ValidationFieldError{Field: "startDate", Message: "start date is required"}
	case d.EndDate == "":
		return &ValidationFieldError{Field: "endDate", Message: "end date is required"}
	case strings.TrimSpace(d.Reason) == "":
		return &ValidationFieldError{Field: "reason", Message: "reason is required"}
	case d.HoneyPot != "":
		return ErrBotDetected
	}
	return nil
}

// =============================================================================
// SUBMISSION PAYLOAD
// =============================================================================

// Submission is the outbound payload sent once to the approval endpoint.
// It is the full draft plus client-observed metadata.
type Submission struct {
	WorkerID   string `json:"workerId"`
	WorkerName string `json:"workerName"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
	LeaveType  string `json:"leaveType"`
	StartDate  string `json:"startDate"`
	StartTime  string `json:"startTime"`
	EndDate    string `json:"endDate"`
	EndTime    string `json:"endTime"`
	Reason     string `json:"reason"`

	AttachmentName string `json:"attachmentName,omitempty"`
	AttachmentType string `json:"attachmentType,omitempty"`
	AttachmentData string `json:"attachmentData,omitempty"`

	HoneyPot  string `json:"honeyPot"`
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent"`
	Timestamp string `json:"timestamp"`
}

// BuildSubmission packages the draft with the metadata observed at submit
// time. The timestamp is rendered in ISO-8601 / RFC 3339.
func BuildSubmission(d *Draft, ip, userAgent string, at time.Time) Submission {
	s := Submission{
		WorkerID:   d.WorkerID,
		WorkerName: d.WorkerName,
		Department: d.Department,
		Role:       d.Role,
		LeaveType:  string(d.LeaveType),
		StartDate:  d.StartDate,
		StartTime:  d.StartTime,
		EndDate:    d.EndDate,
		EndTime:    d.EndTime,
		Reason:     d.Reason,
		HoneyPot:   d.HoneyPot,
		IPAddress:  ip,
		UserAgent:  userAgent,
		Timestamp:  at.UTC().Format(time.RFC3339),
	}
	if d.Attachment != nil {
		s.AttachmentName = d.Attachment.Filename
		s.AttachmentType = d.Attachment.ContentType
		s.AttachmentData = d.Attachment.Data
	}
	return s
}
