package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/interview-sessions/internal/persistence"
)

// ChatMessageRepository implements persistence.ChatMessageRepository using
// SQLite. Messages are insert-only; the version column is written once and
// never incremented.
type ChatMessageRepository struct {
	storage *Storage
}

// NewChatMessageRepository returns a chat repository bound to the storage.
func NewChatMessageRepository(storage *Storage) *ChatMessageRepository {
	return &ChatMessageRepository{storage: storage}
}

// CreateMessage inserts a relayed message.
func (r *ChatMessageRepository) CreateMessage(ctx context.Context, message persistence.ChatMessage) (persistence.ChatMessage, error) {
	if message.ID == "" {
		return persistence.ChatMessage{}, errors.New("sqlite: message id is required")
	}
	message.Version = 0

	const query = `
		INSERT INTO chat_messages (id, sender, recipient, content, type, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.storage.db.ExecContext(ctx, query,
		message.ID,
		message.Sender,
		message.Recipient,
		message.Content,
		string(message.Type),
		message.Version,
		encodeTime(message.CreatedAt),
		encodeTime(message.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return persistence.ChatMessage{}, persistence.ErrDuplicate
		}
		return persistence.ChatMessage{}, fmt.Errorf("sqlite: create message: %w", err)
	}
	return message, nil
}

// ListConversation returns every message exchanged between the two users, in
// creation order regardless of direction.
func (r *ChatMessageRepository) ListConversation(ctx context.Context, userA, userB string) ([]persistence.ChatMessage, error) {
	const query = `
		SELECT id, sender, recipient, content, type, version, created_at, updated_at
		FROM chat_messages
		WHERE (sender = ? AND recipient = ?) OR (sender = ? AND recipient = ?)
		ORDER BY created_at ASC, rowid ASC
	`
	rows, err := r.storage.db.QueryContext(ctx, query, userA, userB, userB, userA)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list conversation: %w", err)
	}
	defer rows.Close()

	messages := make([]persistence.ChatMessage, 0)
	for rows.Next() {
		var (
			message     persistence.ChatMessage
			messageType string
			createdAt   int64
			updatedAt   int64
		)
		if err := rows.Scan(
			&message.ID,
			&message.Sender,
			&message.Recipient,
			&message.Content,
			&messageType,
			&message.Version,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan message: %w", err)
		}
		message.Type = persistence.ChatMessageType(messageType)
		message.CreatedAt = decodeTime(createdAt)
		message.UpdatedAt = decodeTime(updatedAt)
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list conversation: %w", err)
	}
	return messages, nil
}

// ListConversationPartners returns the distinct set of counterparts the user
// has exchanged messages with, sorted for stable output.
func (r *ChatMessageRepository) ListConversationPartners(ctx context.Context, userID string) ([]string, error) {
	const query = `
		SELECT DISTINCT CASE WHEN sender = ? THEN recipient ELSE sender END AS partner
		FROM chat_messages
		WHERE sender = ? OR recipient = ?
		ORDER BY partner ASC
	`
	rows, err := r.storage.db.QueryContext(ctx, query, userID, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list partners: %w", err)
	}
	defer rows.Close()

	partners := make([]string, 0)
	for rows.Next() {
		var partner string
		if err := rows.Scan(&partner); err != nil {
			return nil, fmt.Errorf("sqlite: scan partner: %w", err)
		}
		partners = append(partners, partner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list partners: %w", err)
	}
	return partners, nil
}
