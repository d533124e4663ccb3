package httptransport

import (
	"context"
	"log/slog"

	"github.com/example/interview-sessions/internal/logging"
)

type contextKey string

const userIDContextKey contextKey = "user_id"

// ContextWithUserID returns a derived context carrying the authenticated
// caller identity.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext extracts the authenticated caller identity.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok && userID != ""
}

// ContextWithLogger returns a derived context carrying a request scoped
// logger. Services down the call chain pick it up through the shared logging
// package.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request scoped logger if present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
