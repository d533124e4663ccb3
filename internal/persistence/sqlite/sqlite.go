// Package sqlite implements the persistence repositories on top of SQLite
// using the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Storage owns the database handle shared by the repositories.
type Storage struct {
	db *sql.DB
}

// Open establishes the SQLite connection described by dsn.
func Open(dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open failed: %w", err)
	}
	// SQLite supports a single writer; serialising through one connection
	// avoids SQLITE_BUSY churn under concurrent session transitions.
	db.SetMaxOpenConns(1)
	return &Storage{db: db}, nil
}

// DB exposes the underlying handle for repository construction.
func (s *Storage) DB() *sql.DB {
	return s.db
}

// Close releases the database handle.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the connection is usable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS scheduled_interviews (
	id               TEXT PRIMARY KEY,
	interviewee_id   TEXT NOT NULL,
	interviewer_id   TEXT,
	scheduled_at     INTEGER NOT NULL,
	duration_seconds INTEGER NOT NULL,
	created_at       INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scheduled_interviews_parties
	ON scheduled_interviews (interviewee_id, interviewer_id);

CREATE TABLE IF NOT EXISTS interview_sessions (
	id             TEXT PRIMARY KEY,
	title          TEXT,
	interviewee_id TEXT,
	interviewer_id TEXT,
	status         TEXT NOT NULL,
	room           TEXT NOT NULL DEFAULT '',
	started_at     INTEGER,
	ended_at       INTEGER,
	version        INTEGER NOT NULL DEFAULT 0,
	created_at     INTEGER NOT NULL,
	updated_at     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_interview_sessions_parties
	ON interview_sessions (interviewee_id, interviewer_id, status);

CREATE TABLE IF NOT EXISTS chat_messages (
	id         TEXT PRIMARY KEY,
	sender     TEXT NOT NULL,
	recipient  TEXT NOT NULL,
	content    TEXT NOT NULL,
	type       TEXT NOT NULL,
	version    INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_messages_parties
	ON chat_messages (sender, recipient);
`

// Migrate applies the schema. Statements are idempotent so repeated startups
// are safe.
func (s *Storage) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migration failed: %w", err)
		}
	}
	return nil
}

// Timestamps are stored as UTC epoch nanoseconds so ordering and range
// comparisons happen in SQL without string parsing.

func encodeTime(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func decodeTime(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func encodeNullableTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: encodeTime(*t), Valid: true}
}

func decodeNullableTime(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := decodeTime(n.Int64)
	return &t
}

func encodeNullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func decodeNullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	value := s.String
	return &value
}
