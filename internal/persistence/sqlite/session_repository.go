package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/interview-sessions/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository using SQLite.
type SessionRepository struct {
	storage *Storage
}

// NewSessionRepository returns a session repository bound to the storage.
func NewSessionRepository(storage *Storage) *SessionRepository {
	return &SessionRepository{storage: storage}
}

const sessionColumns = `id, title, interviewee_id, interviewer_id, status, room, started_at, ended_at, version, created_at, updated_at`

// CreateSession inserts a new interview session at version 0.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.InterviewSession) (persistence.InterviewSession, error) {
	if session.ID == "" {
		return persistence.InterviewSession{}, errors.New("sqlite: session id is required")
	}
	session.Version = 0

	const query = `
		INSERT INTO interview_sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.storage.db.ExecContext(ctx, query,
		session.ID,
		encodeNullableString(session.Title),
		encodeNullableString(session.IntervieweeID),
		encodeNullableString(session.InterviewerID),
		string(session.Status),
		session.Room,
		encodeNullableTime(session.StartedAt),
		encodeNullableTime(session.EndedAt),
		session.Version,
		encodeTime(session.CreatedAt),
		encodeTime(session.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return persistence.InterviewSession{}, persistence.ErrDuplicate
		}
		return persistence.InterviewSession{}, fmt.Errorf("sqlite: create session: %w", err)
	}
	return session, nil
}

// GetSession retrieves a session by id.
func (r *SessionRepository) GetSession(ctx context.Context, id string) (persistence.InterviewSession, error) {
	const query = `SELECT ` + sessionColumns + ` FROM interview_sessions WHERE id = ?`

	row := r.storage.db.QueryRowContext(ctx, query, id)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.InterviewSession{}, persistence.ErrNotFound
		}
		return persistence.InterviewSession{}, fmt.Errorf("sqlite: get session: %w", err)
	}
	return session, nil
}

// UpdateSession writes the session back, guarded by the version it was read
// at. A stale version yields ErrVersionMismatch so the caller can retry or
// surface a conflict.
func (r *SessionRepository) UpdateSession(ctx context.Context, session persistence.InterviewSession) (persistence.InterviewSession, error) {
	const query = `
		UPDATE interview_sessions
		SET title = ?, interviewee_id = ?, interviewer_id = ?, status = ?, room = ?,
			started_at = ?, ended_at = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`
	result, err := r.storage.db.ExecContext(ctx, query,
		encodeNullableString(session.Title),
		encodeNullableString(session.IntervieweeID),
		encodeNullableString(session.InterviewerID),
		string(session.Status),
		session.Room,
		encodeNullableTime(session.StartedAt),
		encodeNullableTime(session.EndedAt),
		encodeTime(session.UpdatedAt),
		session.ID,
		session.Version,
	)
	if err != nil {
		return persistence.InterviewSession{}, fmt.Errorf("sqlite: update session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.InterviewSession{}, fmt.Errorf("sqlite: update session: %w", err)
	}
	if affected == 0 {
		// Either the row is gone or somebody raced us past the version check.
		if _, getErr := r.GetSession(ctx, session.ID); errors.Is(getErr, persistence.ErrNotFound) {
			return persistence.InterviewSession{}, persistence.ErrNotFound
		}
		return persistence.InterviewSession{}, persistence.ErrVersionMismatch
	}

	session.Version++
	return session, nil
}

// ListSessionsForUser returns the page of sessions where the user is a party,
// optionally narrowed by status, together with the total match count.
func (r *SessionRepository) ListSessionsForUser(ctx context.Context, userID string, status *persistence.SessionStatus, page persistence.Page) ([]persistence.InterviewSession, int64, error) {
	where := "WHERE (interviewee_id = ? OR interviewer_id = ?)"
	args := []any{userID, userID}
	if status != nil {
		where += " AND status = ?"
		args = append(args, string(*status))
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM interview_sessions " + where
	if err := r.storage.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: count sessions: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT "+sessionColumns+" FROM interview_sessions %s ORDER BY %s LIMIT ? OFFSET ?",
		where, sessionOrderClause(page),
	)
	args = append(args, page.Size, page.Number*page.Size)

	rows, err := r.storage.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]persistence.InterviewSession, 0, page.Size)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: list sessions: %w", err)
	}
	return sessions, total, nil
}

// sessionOrderClause maps the allow-listed sort fields onto columns. Unknown
// fields fall back to the creation instant, newest first.
func sessionOrderClause(page persistence.Page) string {
	column := "created_at"
	switch page.SortBy {
	case "started_at", "ended_at", "created_at":
		column = page.SortBy
	}
	direction := "ASC"
	if page.SortDesc {
		direction = "DESC"
	}
	return column + " " + direction
}

func scanSession(row rowScanner) (persistence.InterviewSession, error) {
	var (
		session       persistence.InterviewSession
		title         sql.NullString
		intervieweeID sql.NullString
		interviewerID sql.NullString
		status        string
		startedAt     sql.NullInt64
		endedAt       sql.NullInt64
		createdAt     int64
		updatedAt     int64
	)
	if err := row.Scan(
		&session.ID,
		&title,
		&intervieweeID,
		&interviewerID,
		&status,
		&session.Room,
		&startedAt,
		&endedAt,
		&session.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.InterviewSession{}, err
	}
	session.Title = decodeNullableString(title)
	session.IntervieweeID = decodeNullableString(intervieweeID)
	session.InterviewerID = decodeNullableString(interviewerID)
	session.Status = persistence.SessionStatus(status)
	session.StartedAt = decodeNullableTime(startedAt)
	session.EndedAt = decodeNullableTime(endedAt)
	session.CreatedAt = decodeTime(createdAt)
	session.UpdatedAt = decodeTime(updatedAt)
	return session, nil
}
