package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/interview-sessions/internal/persistence"
)

// ScheduleRepository implements persistence.ScheduleRepository using SQLite.
type ScheduleRepository struct {
	storage *Storage
}

// NewScheduleRepository returns a schedule repository bound to the storage.
func NewScheduleRepository(storage *Storage) *ScheduleRepository {
	return &ScheduleRepository{storage: storage}
}

// CreateSchedule inserts a new scheduled interview. Schedules are immutable
// once created; there is no update path.
func (r *ScheduleRepository) CreateSchedule(ctx context.Context, schedule persistence.ScheduledInterview) (persistence.ScheduledInterview, error) {
	if schedule.ID == "" {
		return persistence.ScheduledInterview{}, errors.New("sqlite: schedule id is required")
	}

	const query = `
		INSERT INTO scheduled_interviews (id, interviewee_id, interviewer_id, scheduled_at, duration_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.storage.db.ExecContext(ctx, query,
		schedule.ID,
		schedule.IntervieweeID,
		encodeNullableString(schedule.InterviewerID),
		encodeTime(schedule.ScheduledAt),
		int64(schedule.Duration/time.Second),
		encodeTime(schedule.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return persistence.ScheduledInterview{}, persistence.ErrDuplicate
		}
		return persistence.ScheduledInterview{}, fmt.Errorf("sqlite: create schedule: %w", err)
	}
	return schedule, nil
}

// GetSchedule retrieves a scheduled interview by id.
func (r *ScheduleRepository) GetSchedule(ctx context.Context, id string) (persistence.ScheduledInterview, error) {
	const query = `
		SELECT id, interviewee_id, interviewer_id, scheduled_at, duration_seconds, created_at
		FROM scheduled_interviews
		WHERE id = ?
	`
	row := r.storage.db.QueryRowContext(ctx, query, id)
	schedule, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ScheduledInterview{}, persistence.ErrNotFound
		}
		return persistence.ScheduledInterview{}, fmt.Errorf("sqlite: get schedule: %w", err)
	}
	return schedule, nil
}

// ListSchedulesForUser returns the page of schedules where the user is a
// party, together with the total match count.
func (r *ScheduleRepository) ListSchedulesForUser(ctx context.Context, userID string, page persistence.Page) ([]persistence.ScheduledInterview, int64, error) {
	const countQuery = `
		SELECT COUNT(*) FROM scheduled_interviews
		WHERE interviewee_id = ? OR interviewer_id = ?
	`
	var total int64
	if err := r.storage.db.QueryRowContext(ctx, countQuery, userID, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: count schedules: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, interviewee_id, interviewer_id, scheduled_at, duration_seconds, created_at
		FROM scheduled_interviews
		WHERE interviewee_id = ? OR interviewer_id = ?
		ORDER BY %s
		LIMIT ? OFFSET ?
	`, scheduleOrderClause(page))

	rows, err := r.storage.db.QueryContext(ctx, query, userID, userID, page.Size, page.Number*page.Size)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: list schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]persistence.ScheduledInterview, 0, page.Size)
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scan schedule: %w", err)
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: list schedules: %w", err)
	}
	return schedules, total, nil
}

// scheduleOrderClause maps the allow-listed sort fields onto columns. Unknown
// fields fall back to the scheduled instant.
func scheduleOrderClause(page persistence.Page) string {
	column := "scheduled_at"
	switch page.SortBy {
	case "scheduled_at", "created_at":
		column = page.SortBy
	}
	direction := "ASC"
	if page.SortDesc {
		direction = "DESC"
	}
	return column + " " + direction
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (persistence.ScheduledInterview, error) {
	var (
		schedule        persistence.ScheduledInterview
		interviewerID   sql.NullString
		scheduledAt     int64
		durationSeconds int64
		createdAt       int64
	)
	if err := row.Scan(
		&schedule.ID,
		&schedule.IntervieweeID,
		&interviewerID,
		&scheduledAt,
		&durationSeconds,
		&createdAt,
	); err != nil {
		return persistence.ScheduledInterview{}, err
	}
	schedule.InterviewerID = decodeNullableString(interviewerID)
	schedule.ScheduledAt = decodeTime(scheduledAt)
	schedule.Duration = time.Duration(durationSeconds) * time.Second
	schedule.CreatedAt = decodeTime(createdAt)
	return schedule, nil
}
