package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/example/interview-sessions/internal/application"
	"github.com/example/interview-sessions/internal/persistence"
)

var errBadRequestBody = errors.New("invalid request body")

type sessionService interface {
	Schedule(ctx context.Context, userID string, input application.ScheduleInput) (persistence.ScheduledInterview, error)
	StartSession(ctx context.Context, userID, scheduleID string) (application.StartedSession, error)
	StartAiSession(ctx context.Context, userID, title string) (persistence.InterviewSession, error)
	JoinSession(ctx context.Context, userID, sessionID, scheduleID string) (application.StartedSession, error)
	EndSession(ctx context.Context, userID, sessionID string) error
	CancelSession(ctx context.Context, userID, sessionID string) error
	ListSessions(ctx context.Context, userID string, request application.PageRequest, status string) (application.PageResult[persistence.InterviewSession], error)
	ListSchedules(ctx context.Context, userID string, request application.PageRequest) (application.PageResult[persistence.ScheduledInterview], error)
}

// SessionHandler exposes the session lifecycle over REST.
type SessionHandler struct {
	service   sessionService
	responder responder
}

func NewSessionHandler(service sessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{service: service, responder: newResponder(logger)}
}

type scheduleRequest struct {
	InterviewerID   *string   `json:"interviewerId"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"durationMinutes"`
}

func (h *SessionHandler) ScheduleInterview(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.fail(r.Context(), w, http.StatusBadRequest, errBadRequestBody.Error())
		return
	}

	userID, _ := UserIDFromContext(r.Context())
	schedule, err := h.service.Schedule(r.Context(), userID, application.ScheduleInput{
		InterviewerID: req.InterviewerID,
		ScheduledAt:   req.ScheduledAt,
		Duration:      time.Duration(req.DurationMinutes) * time.Minute,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.ok(r.Context(), w, "interview scheduled", newScheduleView(schedule))
}

func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request, scheduleID string) {
	userID, _ := UserIDFromContext(r.Context())

	started, err := h.service.StartSession(r.Context(), userID, scheduleID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.ok(r.Context(), w, "session started", newStartedSessionView(started))
}

func (h *SessionHandler) StartAiSession(w http.ResponseWriter, r *http.Request, rawTitle string) {
	userID, _ := UserIDFromContext(r.Context())

	title, err := url.PathUnescape(rawTitle)
	if err != nil {
		title = rawTitle
	}
	session, err := h.service.StartAiSession(r.Context(), userID, title)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.ok(r.Context(), w, "ai session started", newSessionView(session))
}

func (h *SessionHandler) JoinSession(w http.ResponseWriter, r *http.Request, scheduleID, sessionID string) {
	userID, _ := UserIDFromContext(r.Context())

	joined, err := h.service.JoinSession(r.Context(), userID, sessionID, scheduleID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.ok(r.Context(), w, "session joined", newStartedSessionView(joined))
}

func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	userID, _ := UserIDFromContext(r.Context())

	if err := h.service.EndSession(r.Context(), userID, sessionID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.ok(r.Context(), w, "session ended", nil)
}

func (h *SessionHandler) CancelSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	userID, _ := UserIDFromContext(r.Context())

	if err := h.service.CancelSession(r.Context(), userID, sessionID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.ok(r.Context(), w, "session canceled", nil)
}

func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	query := r.URL.Query()

	result, err := h.service.ListSessions(r.Context(), userID, pageRequestFromQuery(query), query.Get("status"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.ok(r.Context(), w, "sessions", newPageView(result, newSessionView))
}

func (h *SessionHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	result, err := h.service.ListSchedules(r.Context(), userID, pageRequestFromQuery(r.URL.Query()))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.ok(r.Context(), w, "scheduled interviews", newPageView(result, newScheduleView))
}

func pageRequestFromQuery(query url.Values) application.PageRequest {
	request := application.PageRequest{
		SortField: query.Get("sortField"),
		Direction: application.SortDirection(query.Get("direction")),
	}
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		request.Page = page
	}
	if size, err := strconv.Atoi(query.Get("size")); err == nil {
		request.Size = size
	}
	return request
}
