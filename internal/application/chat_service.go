package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/interview-sessions/internal/persistence"
	"github.com/example/interview-sessions/internal/presence"
)

// Deliverer pushes a stored message to a recipient's live connection. The ws
// layer implements it; absence of a connection is not an error.
type Deliverer interface {
	Deliver(userID string, message persistence.ChatMessage) error
}

// ChatService persists point-to-point messages and fans them out to live
// recipients. Delivery is best effort: an offline recipient simply reads the
// message from history later.
type ChatService struct {
	messages    persistence.ChatMessageRepository
	online      *presence.Registry
	deliverer   Deliverer
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewChatService wires the relay's dependencies. deliverer may be nil when no
// real-time layer is attached (history still works).
func NewChatService(messages persistence.ChatMessageRepository, online *presence.Registry, deliverer Deliverer, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ChatService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ChatService{
		messages:    messages,
		online:      online,
		deliverer:   deliverer,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// Send persists the message, then attempts delivery to the recipient's live
// connection when they are present.
func (s *ChatService) Send(ctx context.Context, input ChatMessageInput) (persistence.ChatMessage, error) {
	logger := serviceLogger(ctx, s.logger, "ChatService", "Send", "sender", input.Sender, "recipient", input.Recipient)

	vErr := &ValidationError{}
	if input.Sender == "" {
		vErr.add("sender", "sender is required")
	}
	if input.Recipient == "" {
		vErr.add("recipient", "recipient is required")
	}
	if input.Type == "" {
		input.Type = persistence.ChatMessageChat
	}
	switch input.Type {
	case persistence.ChatMessageChat, persistence.ChatMessageJoin, persistence.ChatMessageLeave:
	default:
		vErr.add("type", "unknown message type")
	}
	if input.Type == persistence.ChatMessageChat && input.Content == "" {
		vErr.add("content", "content is required")
	}
	if vErr.HasErrors() {
		return persistence.ChatMessage{}, vErr
	}

	createdAt := s.now()
	message := persistence.ChatMessage{
		ID:        s.idGenerator(),
		Sender:    input.Sender,
		Recipient: input.Recipient,
		Content:   input.Content,
		Type:      input.Type,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	stored, err := s.messages.CreateMessage(ctx, message)
	if err != nil {
		logger.ErrorContext(ctx, "message persistence failed", "error", err)
		return persistence.ChatMessage{}, mapRepoError(err)
	}

	if s.deliverer != nil && s.online != nil && s.online.IsOnline(stored.Recipient) {
		if err := s.deliverer.Deliver(stored.Recipient, stored); err != nil {
			// The message is stored; a failed push only means the recipient
			// reads it from history.
			logger.WarnContext(ctx, "live delivery failed", "message_id", stored.ID, "error", err)
		}
	}

	return stored, nil
}

// History returns every message exchanged between the two users in creation
// order, regardless of direction.
func (s *ChatService) History(ctx context.Context, userA, userB string) ([]persistence.ChatMessage, error) {
	messages, err := s.messages.ListConversation(ctx, userA, userB)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return messages, nil
}

// ConversationPartners returns the distinct set of counterparts the user has
// ever exchanged messages with.
func (s *ChatService) ConversationPartners(ctx context.Context, userID string) ([]string, error) {
	partners, err := s.messages.ListConversationPartners(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return partners, nil
}
