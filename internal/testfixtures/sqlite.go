package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/interview-sessions/internal/persistence"
	"github.com/example/interview-sessions/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// storage instance for integration-style tests.
type SQLiteHarness struct {
	Schedules persistence.ScheduleRepository
	Sessions  persistence.SessionRepository
	Messages  persistence.ChatMessageRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a harness over a migrated temporary database.
// Cleanup is registered with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "sessions.db")

	storage, err := sqlite.Open("file:" + path)
	if err != nil {
		tb.Fatalf("open sqlite storage: %v", err)
	}
	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("migrate sqlite storage: %v", err)
	}

	harness := &SQLiteHarness{
		Schedules: sqlite.NewScheduleRepository(storage),
		Sessions:  sqlite.NewSessionRepository(storage),
		Messages:  sqlite.NewChatMessageRepository(storage),
		cleanup:   func() { _ = storage.Close() },
	}
	tb.Cleanup(harness.Close)
	return harness
}
