package notify

import (
	"context"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/example/interview-sessions/internal/application"
)

func testInvite() application.MeetingInvite {
	return application.MeetingInvite{
		ToEmail:         "grace@example.com",
		JoinURL:         "https://intervw.example.com/interview/meeting/sched-1?session=sess-1",
		ScheduledAt:     time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC),
		Duration:        45 * time.Minute,
		RecipientName:   "Grace",
		SenderName:      "Ada",
		SenderExpertise: "Compilers",
	}
}

func TestMailer_SendMeetingInvite(t *testing.T) {
	t.Run("sends a rendered html message", func(t *testing.T) {
		var gotAddr, gotFrom string
		var gotTo []string
		var gotMsg []byte

		mailer := NewMailer(SMTPConfig{Host: "mail.example.com", Port: 587, From: "noreply@example.com"})
		mailer.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		}

		if err := mailer.SendMeetingInvite(context.Background(), testInvite()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotAddr != "mail.example.com:587" {
			t.Fatalf("unexpected addr %s", gotAddr)
		}
		if gotFrom != "noreply@example.com" || len(gotTo) != 1 || gotTo[0] != "grace@example.com" {
			t.Fatalf("unexpected envelope from=%s to=%v", gotFrom, gotTo)
		}

		body := string(gotMsg)
		for _, fragment := range []string{
			"Content-Type: text/html",
			"Hi Grace,",
			"Ada (Compilers)",
			"https://intervw.example.com/interview/meeting/sched-1?session=sess-1",
			"Thu, 14 Mar 2024 09:00 UTC",
			"9:45AM",
		} {
			if !strings.Contains(body, fragment) {
				t.Fatalf("expected message to contain %q, got:\n%s", fragment, body)
			}
		}
	})

	t.Run("rejects an invite without a recipient", func(t *testing.T) {
		mailer := NewMailer(SMTPConfig{Host: "mail.example.com", Port: 587})
		mailer.send = func(string, smtp.Auth, string, []string, []byte) error { return nil }

		invite := testInvite()
		invite.ToEmail = ""
		if err := mailer.SendMeetingInvite(context.Background(), invite); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("honors a canceled context", func(t *testing.T) {
		mailer := NewMailer(SMTPConfig{Host: "mail.example.com", Port: 587})
		called := false
		mailer.send = func(string, smtp.Auth, string, []string, []byte) error {
			called = true
			return nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := mailer.SendMeetingInvite(ctx, testInvite()); err == nil {
			t.Fatal("expected a context error")
		}
		if called {
			t.Fatal("expected no smtp call after cancellation")
		}
	})
}
