package persistence

import "time"

// SessionStatus enumerates the lifecycle states of an interview session.
type SessionStatus string

const (
	StatusScheduled SessionStatus = "SCHEDULED"
	StatusOngoing   SessionStatus = "ONGOING"
	StatusCompleted SessionStatus = "COMPLETED"
	StatusCanceled  SessionStatus = "CANCELED"
)

// Terminal reports whether the status admits no further transitions.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// ScheduledInterview is a future commitment between two parties to meet at a
// given time for a fixed duration. It is immutable once created.
type ScheduledInterview struct {
	ID            string
	IntervieweeID string
	InterviewerID *string
	ScheduledAt   time.Time
	Duration      time.Duration
	CreatedAt     time.Time
}

// InterviewSession is the live (or finished) instantiation of an interview.
// Version guards concurrent read-modify-write cycles: updates must carry the
// version they read, and the repository rejects stale writes.
type InterviewSession struct {
	ID            string
	Title         *string
	IntervieweeID *string
	InterviewerID *string
	Status        SessionStatus
	Room          string
	StartedAt     *time.Time
	EndedAt       *time.Time
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ChatMessageType marks the kind of a relayed message.
type ChatMessageType string

const (
	ChatMessageChat  ChatMessageType = "CHAT"
	ChatMessageJoin  ChatMessageType = "JOIN"
	ChatMessageLeave ChatMessageType = "LEAVE"
)

// ChatMessage is a point-to-point message persisted by the chat relay.
// Version is written as 0 on insert and never incremented; messages are not
// updated in place.
type ChatMessage struct {
	ID        string
	Sender    string
	Recipient string
	Content   string
	Type      ChatMessageType
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
