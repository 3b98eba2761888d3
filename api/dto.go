/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the session API. These decouple the in-memory session
  model from the wire contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the session package, not in DTOs.
  DTOs are pure data carriers.
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/Vinoisasian/jingshin-leave-public/directory"
	"github.com/Vinoisasian/jingshin-leave-public/locales"
	"github.com/Vinoisasian/jingshin-leave-public/session"
)

// CreateSessionRequest opens a form session.
type CreateSessionRequest struct {
	Language string `json:"language"`
}

// WorkerIDRequest feeds a worker-ID edit into the session.
type WorkerIDRequest struct {
	WorkerID string `json:"workerId"`
}

// FieldsRequest is a partial draft update; absent fields stay untouched.
type FieldsRequest struct {
	LeaveType *string `json:"leaveType,omitempty"`
	StartDate *string `json:"startDate,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Reason    *string `json:"reason,omitempty"`
	HoneyPot  *string `json:"honeyPot,omitempty"`
}

// AttachmentDTO describes the draft's attachment without its payload.
type AttachmentDTO struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// SessionDTO is the full session snapshot the form renders from.
type SessionDTO struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	State    string `json:"state"`

	WorkerID   string           `json:"workerId"`
	WorkerName string           `json:"workerName,omitempty"`
	Department string           `json:"department,omitempty"`
	Role       string           `json:"role,omitempty"`
	Balance    *decimal.Decimal `json:"balance,omitempty"`

	LeaveType string `json:"leaveType"`
	StartDate string `json:"startDate,omitempty"`
	StartTime string `json:"startTime"`
	EndDate   string `json:"endDate,omitempty"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason,omitempty"`

	Attachment *AttachmentDTO `json:"attachment,omitempty"`

	Resolution string `json:"resolution"`

	// Duration is the derived display value ("2 Hours", "1.5 Days"); empty
	// until both endpoints are set. Never part of the submission.
	Duration string `json:"duration,omitempty"`

	// Error is the localized inline message for the current identity or
	// submission error, empty when there is none.
	Error string `json:"error,omitempty"`
}

// DurationDTO is the stateless duration-preview response.
type DurationDTO struct {
	Value   string `json:"value"`
	Unit    string `json:"unit"`
	Display string `json:"display"`
}

// LanguageDTO is one selectable locale.
type LanguageDTO struct {
	Code    string `json:"code"`
	Welcome string `json:"welcome"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// toSessionDTO flattens a session view for the wire.
func toSessionDTO(v session.View) SessionDTO {
	dto := SessionDTO{
		ID:         v.ID,
		Language:   string(v.Lang),
		State:      string(v.State),
		WorkerID:   v.Draft.WorkerID,
		WorkerName: v.Draft.WorkerName,
		Department: v.Draft.Department,
		Role:       v.Draft.Role,
		Balance:    v.Draft.Balance,
		LeaveType:  string(v.Draft.LeaveType),
		StartDate:  v.Draft.StartDate,
		StartTime:  v.Draft.StartTime,
		EndDate:    v.Draft.EndDate,
		EndTime:    v.Draft.EndTime,
		Reason:     v.Draft.Reason,
		Resolution: string(v.Resolution.Status),
	}

	if v.Draft.Attachment != nil {
		dto.Attachment = &AttachmentDTO{
			Filename:    v.Draft.Attachment.Filename,
			ContentType: v.Draft.Attachment.ContentType,
			Size:        v.Draft.Attachment.Size,
		}
	}

	if !v.Duration.IsZero() || (v.Draft.StartDate != "" && v.Draft.EndDate != "") {
		dto.Duration = v.Duration.String()
	}

	dto.Error = localizedError(v)
	return dto
}

// localizedError maps the view's current error to the catalog message the
// form shows inline.
func localizedError(v session.View) string {
	switch v.Resolution.Status {
	case directory.StatusNotFound:
		return locales.Message(v.Lang, "error_id_not_found")
	case directory.StatusNetworkError:
		return locales.Message(v.Lang, "error_network")
	}
	if v.Failure != nil {
		return locales.Message(v.Lang, "error_network")
	}
	return ""
}
