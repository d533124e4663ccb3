package ws

import (
	"time"

	"github.com/example/interview-sessions/internal/persistence"
)

// Frame types exchanged with clients.
const (
	frameChatMessage = "chat.message"
	frameOnlineUsers = "chat.online"
	frameError       = "error"
)

// inboundFrame is what clients send. Recipient/content/messageType are only
// read for chat.message frames.
type inboundFrame struct {
	Type        string `json:"type"`
	Recipient   string `json:"recipient,omitempty"`
	Content     string `json:"content,omitempty"`
	MessageType string `json:"messageType,omitempty"`
}

type messagePayload struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type outboundFrame struct {
	Type    string          `json:"type"`
	Message *messagePayload `json:"message,omitempty"`
	Users   []string        `json:"users,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func messageFrame(message persistence.ChatMessage) outboundFrame {
	return outboundFrame{
		Type: frameChatMessage,
		Message: &messagePayload{
			ID:        message.ID,
			Sender:    message.Sender,
			Recipient: message.Recipient,
			Content:   message.Content,
			Type:      string(message.Type),
			CreatedAt: message.CreatedAt,
		},
	}
}

func onlineFrame(users []string) outboundFrame {
	if users == nil {
		users = []string{}
	}
	return outboundFrame{Type: frameOnlineUsers, Users: users}
}

func errorFrame(message string) outboundFrame {
	return outboundFrame{Type: frameError, Error: message}
}
