// Package testfixtures provides deterministic clocks, identifier generators
// and record builders for tests across the module.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/interview-sessions/internal/persistence"
)

var (
	scheduleCounter uint64
	sessionCounter  uint64
	messageCounter  uint64
)

var referenceTime = time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ScheduleFixture builds a deterministic scheduled interview. Overrides are
// applied by mutating the returned value.
func ScheduleFixture(interviewee string) persistence.ScheduledInterview {
	n := atomic.AddUint64(&scheduleCounter, 1)
	return persistence.ScheduledInterview{
		ID:            fmt.Sprintf("schedule-%d", n),
		IntervieweeID: interviewee,
		ScheduledAt:   referenceTime,
		Duration:      45 * time.Minute,
		CreatedAt:     referenceTime.Add(-24 * time.Hour),
	}
}

// SessionFixture builds a deterministic open session for the interviewee.
func SessionFixture(interviewee string) persistence.InterviewSession {
	n := atomic.AddUint64(&sessionCounter, 1)
	startedAt := referenceTime
	return persistence.InterviewSession{
		ID:            fmt.Sprintf("session-%d", n),
		IntervieweeID: &interviewee,
		Status:        persistence.StatusOngoing,
		Room:          fmt.Sprintf("room-%d", n),
		StartedAt:     &startedAt,
		CreatedAt:     referenceTime,
		UpdatedAt:     referenceTime,
	}
}

// MessageFixture builds a deterministic chat message between two users.
func MessageFixture(sender, recipient string) persistence.ChatMessage {
	n := atomic.AddUint64(&messageCounter, 1)
	createdAt := referenceTime.Add(time.Duration(n) * time.Second)
	return persistence.ChatMessage{
		ID:        fmt.Sprintf("message-%d", n),
		Sender:    sender,
		Recipient: recipient,
		Content:   fmt.Sprintf("message body %d", n),
		Type:      persistence.ChatMessageChat,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}
