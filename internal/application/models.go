package application

import (
	"time"

	"github.com/example/interview-sessions/internal/persistence"
)

// Profile is the slice of the external profile store this service consumes.
type Profile struct {
	ID               string
	DisplayName      string
	Email            string
	Expertise        string
	Role             string
	ConfidenceScore  float64
	PerformanceScore float64
}

// RoleInterviewer is the profile role that claims the interviewer seat when a
// session is started; every other role takes the interviewee seat.
const RoleInterviewer = "INTERVIEWER"

// Analysis is one AI-analysis record produced for a session by the external
// scoring provider.
type Analysis struct {
	ConfidenceScore  float64
	PerformanceScore float64
}

// MeetingInvite carries everything the notification sender needs to render a
// join invitation for the counterpart.
type MeetingInvite struct {
	ToEmail         string
	JoinURL         string
	ScheduledAt     time.Time
	Duration        time.Duration
	RecipientName   string
	SenderName      string
	SenderExpertise string
}

// ScheduleInput captures caller provided schedule fields.
type ScheduleInput struct {
	InterviewerID *string
	ScheduledAt   time.Time
	Duration      time.Duration
}

// StartedSession pairs a persisted session with the transient room token
// issued for the caller. The token is never stored; every join mints a fresh
// one.
type StartedSession struct {
	Session persistence.InterviewSession
	Token   string
}

// SortDirection selects ascending or descending ordering for listings.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// PageRequest carries boundary pagination state. Page is 1-indexed at the
// boundary and translated to 0-indexed repository terms internally.
type PageRequest struct {
	Page      int
	Size      int
	SortField string
	Direction SortDirection
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func (p PageRequest) toRepoPage() persistence.Page {
	page := p.Page - 1
	if page < 0 {
		page = 0
	}
	size := p.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return persistence.Page{
		Number:   page,
		Size:     size,
		SortBy:   p.SortField,
		SortDesc: p.Direction == SortDesc,
	}
}

// PageResult is the paginated response envelope shared by all listings.
type PageResult[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Empty         bool  `json:"empty"`
}

func newPageResult[T any](content []T, repoPage persistence.Page, total int64) PageResult[T] {
	totalPages := 0
	if repoPage.Size > 0 {
		totalPages = int((total + int64(repoPage.Size) - 1) / int64(repoPage.Size))
	}
	return PageResult[T]{
		Content:       content,
		Page:          repoPage.Number + 1,
		Size:          repoPage.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		Empty:         len(content) == 0,
	}
}

// ChatMessageInput captures an inbound chat frame before it is persisted.
type ChatMessageInput struct {
	Sender    string
	Recipient string
	Content   string
	Type      persistence.ChatMessageType
}
