/*
handlers.go - HTTP handlers for the leave-request session API

PURPOSE:
  Exposes the form-session lifecycle over REST. Handles HTTP parsing, JSON
  serialization, and error mapping; all decisions live in the session,
  directory, and worktime packages.

ENDPOINTS:
  Sessions:
    POST   /api/sessions                    Open a session (language pick)
    GET    /api/sessions/{id}               Session snapshot
    PUT    /api/sessions/{id}/worker-id     Worker-ID edit (drives lookup)
    PUT    /api/sessions/{id}/fields        Non-identity field edits
    POST   /api/sessions/{id}/attachment    Upload supporting document
    DELETE /api/sessions/{id}/attachment    Remove it
    POST   /api/sessions/{id}/submit        Dispatch to approval
    POST   /api/sessions/{id}/back          Discard the session

  Stateless:
    GET    /api/duration                    Duration preview from raw fields
    GET    /api/languages                   Selectable locales

ERROR HANDLING:
  - 400: validation, honeypot, attachment intake failures
  - 404: unknown session
  - 409: operation illegal in the current state (e.g. double submit)
  - 502: collaborator transport failures surfaced synchronously
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Vinoisasian/jingshin-leave-public/attachment"
	"github.com/Vinoisasian/jingshin-leave-public/leave"
	"github.com/Vinoisasian/jingshin-leave-public/locales"
	"github.com/Vinoisasian/jingshin-leave-public/session"
	"github.com/Vinoisasian/jingshin-leave-public/worktime"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Sessions *session.Manager
	Schedule worktime.Schedule
	Logger   *zap.Logger
}

// NewHandler creates a handler over the session registry.
func NewHandler(sessions *session.Manager, schedule worktime.Schedule, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Sessions: sessions, Schedule: schedule, Logger: logger}
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// CreateSession opens a session for the picked language.
// POST /api/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s := h.Sessions.Create(r.Context(), locales.Language(req.Language), r.UserAgent())
	writeJSON(w, http.StatusCreated, toSessionDTO(s.View()))
}

// GetSession returns the session snapshot the form renders from.
// GET /api/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(s.View()))
}

// SetWorkerID feeds a worker-ID edit into the session. A five-digit value
// starts verification; anything else clears the resolved identity.
// PUT /api/sessions/{id}/worker-id
func (h *Handler) SetWorkerID(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var req WorkerIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := s.SetWorkerID(req.WorkerID); err != nil {
		h.writeDomainError(w, s, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(s.View()))
}

// EditFields applies partial non-identity edits to the draft.
// PUT /api/sessions/{id}/fields
func (h *Handler) EditFields(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	var req FieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	edits := session.FieldEdits{
		StartDate: req.StartDate,
		StartTime: req.StartTime,
		EndDate:   req.EndDate,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
		HoneyPot:  req.HoneyPot,
	}
	if req.LeaveType != nil {
		lt := leave.Type(*req.LeaveType)
		edits.LeaveType = &lt
	}

	if err := s.EditFields(edits); err != nil {
		h.writeDomainError(w, s, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(s.View()))
}

// UploadAttachment validates and attaches a supporting document.
// POST /api/sessions/{id}/attachment  (multipart field "file")
func (h *Handler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field", err)
		return
	}
	defer file.Close()

	att, err := attachment.Read(header.Filename, file, header.Size)
	if err != nil {
		h.writeDomainError(w, s, err)
		return
	}

	if err := s.SetAttachment(att); err != nil {
		h.writeDomainError(w, s, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(s.View()))
}

// DeleteAttachment removes the draft's attachment.
// DELETE /api/sessions/{id}/attachment
func (h *Handler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if err := s.SetAttachment(nil); err != nil {
		h.writeDomainError(w, s, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(s.View()))
}

// SubmitSession dispatches the draft to the approval endpoint,
// fire-and-forget. The snapshot reports Submitting until the dispatch
// settles.
// POST /api/sessions/{id}/submit
func (h *Handler) SubmitSession(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if err := s.Submit(r.Context()); err != nil {
		h.writeDomainError(w, s, err)
		return
	}
	writeJSON(w, http.StatusAccepted, toSessionDTO(s.View()))
}

// BackSession discards the session, abandoning any in-flight lookup.
// POST /api/sessions/{id}/back
func (h *Handler) BackSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.Sessions.Get(id) == nil {
		writeError(w, http.StatusNotFound, "Session not found", nil)
		return
	}
	h.Sessions.Discard(id)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// STATELESS ENDPOINTS
// =============================================================================

// PreviewDuration computes the business duration for raw form fields. Pure
// and sessionless so the calculator is directly testable and cacheable.
// GET /api/duration?start_date=&start_time=&end_date=&end_time=
func (h *Handler) PreviewDuration(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result := worktime.ComputeRange(
		q.Get("start_date"), q.Get("start_time"),
		q.Get("end_date"), q.Get("end_time"),
		h.Schedule,
	)

	writeJSON(w, http.StatusOK, DurationDTO{
		Value:   result.Value.String(),
		Unit:    string(result.Unit),
		Display: result.String(),
	})
}

// ListLanguages returns the selectable locales.
// GET /api/languages
func (h *Handler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	dtos := make([]LanguageDTO, len(locales.All))
	for i, lang := range locales.All {
		dtos[i] = LanguageDTO{
			Code:    string(lang),
			Welcome: locales.Message(lang, "welcome"),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	id := chi.URLParam(r, "id")
	s := h.Sessions.Get(id)
	if s == nil {
		writeError(w, http.StatusNotFound, "Session not found", nil)
	}
	return s
}

// writeDomainError maps taxonomy errors to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, s *session.Session, err error) {
	var transition *session.TransitionError

	switch {
	case errors.Is(err, leave.ErrSubmissionInFlight):
		writeError(w, http.StatusConflict, "Submission already in flight", err)
	case errors.As(err, &transition):
		writeError(w, http.StatusConflict, "Not allowed in current state", err)
	case errors.Is(err, leave.ErrNotVerified):
		writeError(w, http.StatusBadRequest, "Worker identity not verified", err)
	case errors.Is(err, leave.ErrBotDetected):
		// The original form silently drops bot submissions; surface a bare
		// 400 with no hint about the honeypot.
		writeError(w, http.StatusBadRequest, "Invalid submission", nil)
	case errors.Is(err, leave.ErrAttachmentTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Attachment exceeds 10MB limit", err)
	case errors.Is(err, leave.ErrAttachmentConversion):
		writeError(w, http.StatusBadRequest, "Attachment format not supported", err)
	case leave.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Validation failed", err)
	case leave.IsTransportError(err):
		writeError(w, http.StatusBadGateway, "Upstream service unavailable", err)
	default:
		h.Logger.Error("unhandled domain error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
