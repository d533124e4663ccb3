package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/interview-sessions/internal/application"
	"github.com/example/interview-sessions/internal/joinwindow"
)

// envelope is the uniform response shape: every endpoint answers with
// success/message/data.
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) ok(ctx context.Context, w http.ResponseWriter, message string, data any) {
	r.writeJSON(ctx, w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func (r responder) fail(ctx context.Context, w http.ResponseWriter, status int, message string) {
	r.writeJSON(ctx, w, status, envelope{Success: false, Message: message})
}

// handleServiceError maps application errors onto HTTP statuses.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := r.loggerFor(ctx)

	var violation *joinwindow.Violation
	var vErr *application.ValidationError
	var upstreamErr *application.UpstreamError

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.fail(ctx, w, http.StatusNotFound, "resource not found")
	case errors.Is(err, application.ErrUnauthorized):
		r.fail(ctx, w, http.StatusForbidden, "you are not a party to this interview")
	case errors.Is(err, application.ErrInvalidState):
		r.fail(ctx, w, http.StatusConflict, "session has already ended")
	case errors.Is(err, application.ErrConflict):
		r.fail(ctx, w, http.StatusConflict, "concurrent update, please retry")
	case errors.As(err, &violation):
		if violation.TooEarly {
			r.fail(ctx, w, http.StatusUnprocessableEntity, "the join window has not opened yet")
		} else {
			r.fail(ctx, w, http.StatusUnprocessableEntity, "the join window has closed")
		}
	case errors.As(err, &vErr):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, envelope{
			Success: false,
			Message: "validation failed",
			Errors:  vErr.FieldErrors,
		})
	case errors.As(err, &upstreamErr):
		logger.ErrorContext(ctx, "collaborator failure", "collaborator", upstreamErr.Collaborator, "retryable", upstreamErr.Retryable, "error", err)
		message := "a dependent service failed"
		if upstreamErr.Retryable {
			message = "a dependent service failed, please retry"
		}
		r.fail(ctx, w, http.StatusBadGateway, message)
	default:
		logger.ErrorContext(ctx, "request failed", "error", err)
		r.fail(ctx, w, http.StatusInternalServerError, "internal error")
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}
