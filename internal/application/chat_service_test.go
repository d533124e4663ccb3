package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/interview-sessions/internal/persistence"
	"github.com/example/interview-sessions/internal/presence"
)

type chatRepoStub struct {
	stored    []persistence.ChatMessage
	createErr error

	conversation []persistence.ChatMessage
	partners     []string
}

func (r *chatRepoStub) CreateMessage(ctx context.Context, message persistence.ChatMessage) (persistence.ChatMessage, error) {
	if r.createErr != nil {
		return persistence.ChatMessage{}, r.createErr
	}
	r.stored = append(r.stored, message)
	return message, nil
}

func (r *chatRepoStub) ListConversation(ctx context.Context, userA, userB string) ([]persistence.ChatMessage, error) {
	return r.conversation, nil
}

func (r *chatRepoStub) ListConversationPartners(ctx context.Context, userID string) ([]string, error) {
	return r.partners, nil
}

type delivererStub struct {
	delivered []persistence.ChatMessage
	err       error
}

func (d *delivererStub) Deliver(userID string, message persistence.ChatMessage) error {
	if d.err != nil {
		return d.err
	}
	d.delivered = append(d.delivered, message)
	return nil
}

func newChatFixture() (*ChatService, *chatRepoStub, *presence.Registry, *delivererStub) {
	repo := &chatRepoStub{}
	online := presence.NewRegistry()
	deliverer := &delivererStub{}
	service := NewChatService(repo, online, deliverer,
		func() string { return "msg-1" },
		func() time.Time { return referenceTime },
		nil)
	return service, repo, online, deliverer
}

func TestChatService_Send(t *testing.T) {
	t.Run("rejects a message without participants or content", func(t *testing.T) {
		service, _, _, _ := newChatFixture()

		_, err := service.Send(context.Background(), ChatMessageInput{})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"sender", "recipient", "content"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %s error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("allows empty content on presence events", func(t *testing.T) {
		service, repo, _, _ := newChatFixture()

		stored, err := service.Send(context.Background(), ChatMessageInput{
			Sender:    "alice",
			Recipient: "bob",
			Type:      persistence.ChatMessageJoin,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored.Type != persistence.ChatMessageJoin {
			t.Fatalf("expected JOIN type, got %s", stored.Type)
		}
		if len(repo.stored) != 1 {
			t.Fatalf("expected one stored message, got %d", len(repo.stored))
		}
	})

	t.Run("persists then pushes to an online recipient", func(t *testing.T) {
		service, repo, online, deliverer := newChatFixture()
		online.Connect("bob")

		stored, err := service.Send(context.Background(), ChatMessageInput{
			Sender:    "alice",
			Recipient: "bob",
			Content:   "hello",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored.Type != persistence.ChatMessageChat {
			t.Fatalf("expected default CHAT type, got %s", stored.Type)
		}
		if !stored.CreatedAt.Equal(referenceTime) {
			t.Fatalf("expected createdAt %v, got %v", referenceTime, stored.CreatedAt)
		}
		if len(repo.stored) != 1 {
			t.Fatalf("expected one stored message, got %d", len(repo.stored))
		}
		if len(deliverer.delivered) != 1 || deliverer.delivered[0].ID != stored.ID {
			t.Fatalf("expected live delivery of %s, got %+v", stored.ID, deliverer.delivered)
		}
	})

	t.Run("skips delivery for an offline recipient", func(t *testing.T) {
		service, repo, _, deliverer := newChatFixture()

		if _, err := service.Send(context.Background(), ChatMessageInput{
			Sender:    "alice",
			Recipient: "bob",
			Content:   "hello",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.stored) != 1 {
			t.Fatalf("expected the message stored, got %d", len(repo.stored))
		}
		if len(deliverer.delivered) != 0 {
			t.Fatalf("expected no live delivery, got %+v", deliverer.delivered)
		}
	})

	t.Run("a failed push never fails the send", func(t *testing.T) {
		service, _, online, deliverer := newChatFixture()
		online.Connect("bob")
		deliverer.err = errors.New("connection gone")

		if _, err := service.Send(context.Background(), ChatMessageInput{
			Sender:    "alice",
			Recipient: "bob",
			Content:   "hello",
		}); err != nil {
			t.Fatalf("expected send to succeed despite push failure, got %v", err)
		}
	})

	t.Run("surfaces a persistence failure", func(t *testing.T) {
		service, repo, online, deliverer := newChatFixture()
		online.Connect("bob")
		repo.createErr = errors.New("disk full")

		if _, err := service.Send(context.Background(), ChatMessageInput{
			Sender:    "alice",
			Recipient: "bob",
			Content:   "hello",
		}); err == nil {
			t.Fatal("expected an error")
		}
		if len(deliverer.delivered) != 0 {
			t.Fatal("expected no delivery for an unstored message")
		}
	})
}

func TestChatService_History(t *testing.T) {
	service, repo, _, _ := newChatFixture()
	repo.conversation = []persistence.ChatMessage{
		{ID: "m1", Sender: "alice", Recipient: "bob", Content: "hi"},
		{ID: "m2", Sender: "bob", Recipient: "alice", Content: "hey"},
	}

	messages, err := service.History(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 || messages[0].ID != "m1" {
		t.Fatalf("expected repository order preserved, got %+v", messages)
	}
}

func TestChatService_ConversationPartners(t *testing.T) {
	service, repo, _, _ := newChatFixture()
	repo.partners = []string{"bob", "carol"}

	partners, err := service.ConversationPartners(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(partners) != 2 || partners[0] != "bob" || partners[1] != "carol" {
		t.Fatalf("expected [bob carol], got %v", partners)
	}
}
