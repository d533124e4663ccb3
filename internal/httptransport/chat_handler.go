package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/interview-sessions/internal/application"
	"github.com/example/interview-sessions/internal/persistence"
	"github.com/example/interview-sessions/internal/presence"
)

type chatService interface {
	History(ctx context.Context, userA, userB string) ([]persistence.ChatMessage, error)
	ConversationPartners(ctx context.Context, userID string) ([]string, error)
}

// ChatHandler exposes conversation history and presence over REST. The
// profile store is optional; when present, conversation partners are enriched
// with display names.
type ChatHandler struct {
	service   chatService
	online    *presence.Registry
	profiles  application.ProfileStore
	responder responder
}

func NewChatHandler(service chatService, online *presence.Registry, profiles application.ProfileStore, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		service:   service,
		online:    online,
		profiles:  profiles,
		responder: newResponder(logger),
	}
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request, recipient string) {
	userID, _ := UserIDFromContext(r.Context())

	messages, err := h.service.History(r.Context(), userID, recipient)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	views := make([]messageView, 0, len(messages))
	for _, message := range messages {
		views = append(views, newMessageView(message))
	}
	h.responder.ok(r.Context(), w, "conversation history", views)
}

func (h *ChatHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	partners, err := h.service.ConversationPartners(r.Context(), userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	views := make([]conversationView, 0, len(partners))
	for _, partner := range partners {
		view := conversationView{UserID: partner, Online: h.online.IsOnline(partner)}
		if h.profiles != nil {
			// Enrichment is best effort; a failed lookup leaves the bare id.
			if profile, err := h.profiles.GetProfile(r.Context(), partner); err == nil {
				view.DisplayName = profile.DisplayName
				view.Expertise = profile.Expertise
			}
		}
		views = append(views, view)
	}
	h.responder.ok(r.Context(), w, "conversations", views)
}

func (h *ChatHandler) OnlineUsers(w http.ResponseWriter, r *http.Request) {
	h.responder.ok(r.Context(), w, "online users", h.online.Online())
}
