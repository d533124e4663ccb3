package httptransport

import (
	"time"

	"github.com/example/interview-sessions/internal/application"
	"github.com/example/interview-sessions/internal/persistence"
)

type scheduleView struct {
	ID              string    `json:"id"`
	IntervieweeID   string    `json:"intervieweeId"`
	InterviewerID   *string   `json:"interviewerId"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"durationMinutes"`
	CreatedAt       time.Time `json:"createdAt"`
}

func newScheduleView(schedule persistence.ScheduledInterview) scheduleView {
	return scheduleView{
		ID:              schedule.ID,
		IntervieweeID:   schedule.IntervieweeID,
		InterviewerID:   schedule.InterviewerID,
		ScheduledAt:     schedule.ScheduledAt,
		DurationMinutes: int(schedule.Duration.Minutes()),
		CreatedAt:       schedule.CreatedAt,
	}
}

type sessionView struct {
	ID            string     `json:"id"`
	Title         *string    `json:"title"`
	IntervieweeID *string    `json:"intervieweeId"`
	InterviewerID *string    `json:"interviewerId"`
	Status        string     `json:"status"`
	Room          string     `json:"room,omitempty"`
	StartedAt     *time.Time `json:"startedAt"`
	EndedAt       *time.Time `json:"endedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func newSessionView(session persistence.InterviewSession) sessionView {
	return sessionView{
		ID:            session.ID,
		Title:         session.Title,
		IntervieweeID: session.IntervieweeID,
		InterviewerID: session.InterviewerID,
		Status:        string(session.Status),
		Room:          session.Room,
		StartedAt:     session.StartedAt,
		EndedAt:       session.EndedAt,
		CreatedAt:     session.CreatedAt,
	}
}

type startedSessionView struct {
	Session sessionView `json:"session"`
	Token   string      `json:"token"`
}

func newStartedSessionView(started application.StartedSession) startedSessionView {
	return startedSessionView{Session: newSessionView(started.Session), Token: started.Token}
}

type messageView struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

func newMessageView(message persistence.ChatMessage) messageView {
	return messageView{
		ID:        message.ID,
		Sender:    message.Sender,
		Recipient: message.Recipient,
		Content:   message.Content,
		Type:      string(message.Type),
		CreatedAt: message.CreatedAt,
	}
}

type conversationView struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	Expertise   string `json:"expertise,omitempty"`
	Online      bool   `json:"online"`
}

type pageView[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Empty         bool  `json:"empty"`
}

func newPageView[T, U any](result application.PageResult[U], convert func(U) T) pageView[T] {
	content := make([]T, 0, len(result.Content))
	for _, item := range result.Content {
		content = append(content, convert(item))
	}
	return pageView[T]{
		Content:       content,
		Page:          result.Page,
		Size:          result.Size,
		TotalElements: result.TotalElements,
		TotalPages:    result.TotalPages,
		Empty:         result.Empty,
	}
}
