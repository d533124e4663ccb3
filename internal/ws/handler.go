package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/interview-sessions/internal/application"
	"github.com/example/interview-sessions/internal/persistence"
	"github.com/example/interview-sessions/internal/presence"
)

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
	// Origin policy is the gateway's concern; this service sits behind it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades requests to WebSocket connections, tracks them per user,
// and relays chat frames through the chat service. It implements
// application.Deliverer so stored messages reach live recipients.
type Handler struct {
	online *presence.Registry
	logger *slog.Logger

	mu    sync.RWMutex
	conns map[string]*conn
	chat  *application.ChatService
}

// NewHandler constructs the WebSocket handler. The chat service is attached
// afterwards via AttachChat because it takes the handler as its deliverer.
func NewHandler(online *presence.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		online: online,
		logger: logger,
		conns:  make(map[string]*conn),
	}
}

// AttachChat binds the chat service used for inbound chat.message frames.
func (h *Handler) AttachChat(chat *application.ChatService) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.chat = chat
}

// Deliver pushes a stored message to the recipient's live connection.
func (h *Handler) Deliver(userID string, message persistence.ChatMessage) error {
	h.mu.RLock()
	c, ok := h.conns[userID]
	h.mu.RUnlock()
	if !ok {
		return ErrConnClosed
	}
	return c.writeJSON(messageFrame(message))
}

// ServeHTTP upgrades the request and runs the connection's read loop until
// the client disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		userID = r.URL.Query().Get("user_id")
	}
	if userID == "" {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	socket, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	c := newConn(userID, socket)
	h.register(c)
	h.logger.Info("websocket connected", "user_id", userID)

	defer func() {
		h.unregister(c)
		c.close()
		h.logger.Info("websocket disconnected", "user_id", userID)
	}()

	h.readLoop(c)
}

// register replaces any previous connection for the user. The newest
// connection wins; presence is set-based so Connect is idempotent.
func (h *Handler) register(c *conn) {
	h.mu.Lock()
	previous := h.conns[c.userID]
	h.conns[c.userID] = c
	h.mu.Unlock()

	if previous != nil {
		previous.close()
	}
	h.online.Connect(c.userID)
}

// unregister drops the connection and marks the user offline. A stale
// connection superseded by a reconnect leaves the newer one registered, but
// presence still transitions offline: the last disconnect wins.
func (h *Handler) unregister(c *conn) {
	h.mu.Lock()
	if h.conns[c.userID] == c {
		delete(h.conns, c.userID)
	}
	h.mu.Unlock()

	h.online.Disconnect(c.userID)
}

func (h *Handler) readLoop(c *conn) {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		h.dispatch(c, data)
	}
}

func (h *Handler) dispatch(c *conn, data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		_ = c.writeJSON(errorFrame("malformed frame"))
		return
	}

	switch frame.Type {
	case frameChatMessage:
		h.handleChatMessage(c, frame)
	case frameOnlineUsers:
		_ = c.writeJSON(onlineFrame(h.online.Online()))
	default:
		_ = c.writeJSON(errorFrame("unknown frame type"))
	}
}

func (h *Handler) handleChatMessage(c *conn, frame inboundFrame) {
	h.mu.RLock()
	chat := h.chat
	h.mu.RUnlock()
	if chat == nil {
		_ = c.writeJSON(errorFrame("chat unavailable"))
		return
	}

	stored, err := chat.Send(c.ctx, application.ChatMessageInput{
		Sender:    c.userID,
		Recipient: frame.Recipient,
		Content:   frame.Content,
		Type:      persistence.ChatMessageType(frame.MessageType),
	})
	if err != nil {
		h.logger.Warn("inbound chat frame rejected", "user_id", c.userID, "error", err)
		_ = c.writeJSON(errorFrame("message rejected"))
		return
	}

	// Echo the stored form back so the sender sees server-assigned id and
	// timestamp.
	_ = c.writeJSON(messageFrame(stored))
}
