package persistence

import "context"

// Page carries pagination state translated to repository terms: a 0-indexed
// page, a size, and an allow-listed sort column with direction.
type Page struct {
	Number   int
	Size     int
	SortBy   string
	SortDesc bool
}

// ScheduleRepository stores scheduled interviews. Schedules are create-once;
// there is no update path.
type ScheduleRepository interface {
	CreateSchedule(ctx context.Context, schedule ScheduledInterview) (ScheduledInterview, error)
	GetSchedule(ctx context.Context, id string) (ScheduledInterview, error)
	ListSchedulesForUser(ctx context.Context, userID string, page Page) ([]ScheduledInterview, int64, error)
}

// SessionRepository stores interview sessions. UpdateSession enforces the
// optimistic version check and returns ErrVersionMismatch on a stale write.
type SessionRepository interface {
	CreateSession(ctx context.Context, session InterviewSession) (InterviewSession, error)
	GetSession(ctx context.Context, id string) (InterviewSession, error)
	UpdateSession(ctx context.Context, session InterviewSession) (InterviewSession, error)
	ListSessionsForUser(ctx context.Context, userID string, status *SessionStatus, page Page) ([]InterviewSession, int64, error)
}

// ChatMessageRepository stores relayed messages. Messages are insert-only.
type ChatMessageRepository interface {
	CreateMessage(ctx context.Context, message ChatMessage) (ChatMessage, error)
	ListConversation(ctx context.Context, userA, userB string) ([]ChatMessage, error)
	ListConversationPartners(ctx context.Context, userID string) ([]string, error)
}
