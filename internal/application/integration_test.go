package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/interview-sessions/internal/application"
	"github.com/example/interview-sessions/internal/persistence"
	"github.com/example/interview-sessions/internal/presence"
	"github.com/example/interview-sessions/internal/testfixtures"
)

type profileStoreFake struct {
	profiles map[string]application.Profile
	updated  map[string][]float64
}

func (p *profileStoreFake) GetProfile(ctx context.Context, userID string) (application.Profile, error) {
	profile, ok := p.profiles[userID]
	if !ok {
		return application.Profile{}, errors.New("profile not found")
	}
	return profile, nil
}

func (p *profileStoreFake) UpdateScores(ctx context.Context, userID string, confidence, performance float64) error {
	if p.updated == nil {
		p.updated = make(map[string][]float64)
	}
	p.updated[userID] = []float64{confidence, performance}
	return nil
}

type scoringFake struct{ analyses []application.Analysis }

func (s *scoringFake) AnalysesForSession(ctx context.Context, sessionID string) ([]application.Analysis, error) {
	return s.analyses, nil
}

type notifierFake struct{ invites []application.MeetingInvite }

func (n *notifierFake) SendMeetingInvite(ctx context.Context, invite application.MeetingInvite) error {
	n.invites = append(n.invites, invite)
	return nil
}

type tokenFake struct{}

func (tokenFake) Issue(roomID, participant string) (string, error) {
	return fmt.Sprintf("token-%s-%s", roomID, participant), nil
}

// The full lifecycle against real SQLite repositories: schedule, start, join,
// end, with the chat relay sharing the same storage.
func TestSessionLifecycleOverSQLite(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	ids := testfixtures.NewIDGenerator("it")

	interviewer := "ivr-1"
	profiles := &profileStoreFake{profiles: map[string]application.Profile{
		"ivee-1": {ID: "ivee-1", DisplayName: "Ada", Email: "ada@example.com", Role: "INTERVIEWEE", ConfidenceScore: 6, PerformanceScore: 8},
		"ivr-1":  {ID: "ivr-1", DisplayName: "Grace", Email: "grace@example.com", Role: "INTERVIEWER"},
	}}
	notifier := &notifierFake{}

	service := application.NewSessionService(application.SessionServiceConfig{
		Schedules:   harness.Schedules,
		Sessions:    harness.Sessions,
		Profiles:    profiles,
		Scoring:     &scoringFake{analyses: []application.Analysis{{ConfidenceScore: 10, PerformanceScore: 4}}},
		Notifier:    notifier,
		Tokens:      tokenFake{},
		JoinURLBase: "https://intervw.example.com",
		IDGenerator: ids.NextFunc(),
		Now:         clock.NowFunc(),
		Spawn:       func(fn func()) { fn() },
	})

	ctx := context.Background()

	schedule := testfixtures.ScheduleFixture("ivee-1")
	schedule.InterviewerID = &interviewer
	schedule.ScheduledAt = clock.Now()
	if _, err := harness.Schedules.CreateSchedule(ctx, schedule); err != nil {
		t.Fatalf("seed schedule: %v", err)
	}

	started, err := service.StartSession(ctx, "ivee-1", schedule.ID)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if started.Token == "" || started.Session.Room == "" {
		t.Fatalf("expected room and token, got %+v", started)
	}
	if len(notifier.invites) != 1 || notifier.invites[0].ToEmail != "grace@example.com" {
		t.Fatalf("expected counterpart invite, got %+v", notifier.invites)
	}

	clock.Advance(5 * time.Minute)
	joined, err := service.JoinSession(ctx, "ivr-1", started.Session.ID, schedule.ID)
	if err != nil {
		t.Fatalf("join session: %v", err)
	}
	if joined.Session.InterviewerID == nil || *joined.Session.InterviewerID != "ivr-1" {
		t.Fatalf("expected interviewer seated, got %+v", joined.Session)
	}
	if !joined.Session.StartedAt.Equal(testfixtures.ReferenceTime()) {
		t.Fatalf("expected original startedAt preserved, got %v", joined.Session.StartedAt)
	}

	clock.Advance(40 * time.Minute)
	if err := service.EndSession(ctx, "ivee-1", started.Session.ID); err != nil {
		t.Fatalf("end session: %v", err)
	}

	stored, err := harness.Sessions.GetSession(ctx, started.Session.ID)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if stored.Status != persistence.StatusCompleted || stored.EndedAt == nil {
		t.Fatalf("expected completed session, got %+v", stored)
	}

	// Prior (6, 8) blended with analysis means (10, 4).
	if got := profiles.updated["ivee-1"]; len(got) != 2 || got[0] != 8 || got[1] != 6 {
		t.Fatalf("expected blended scores [8 6], got %v", got)
	}

	// A second end attempt hits the terminal guard.
	if err := service.EndSession(ctx, "ivee-1", started.Session.ID); !errors.Is(err, application.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestChatRelayOverSQLite(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	ids := testfixtures.NewIDGenerator("msg")

	chat := application.NewChatService(harness.Messages, presence.NewRegistry(), nil, ids.NextFunc(), clock.NowFunc(), nil)
	ctx := context.Background()

	seed := testfixtures.MessageFixture("alice", "bob")
	if _, err := harness.Messages.CreateMessage(ctx, seed); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	clock.Advance(time.Minute)
	if _, err := chat.Send(ctx, application.ChatMessageInput{Sender: "bob", Recipient: "alice", Content: "pong"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	history, err := chat.History(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].Sender != "alice" || history[1].Content != "pong" {
		t.Fatalf("unexpected history %+v", history)
	}

	partners, err := chat.ConversationPartners(ctx, "alice")
	if err != nil {
		t.Fatalf("partners: %v", err)
	}
	if len(partners) != 1 || partners[0] != "bob" {
		t.Fatalf("expected [bob], got %v", partners)
	}
}
