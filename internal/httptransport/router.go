package httptransport

import (
	"net/http"
	"strings"
)

const apiPrefix = "/api/v1/session/"

// RouterConfig wires the transport's handlers and middleware.
type RouterConfig struct {
	Sessions *SessionHandler
	Chat     *ChatHandler
	// WS is mounted at /ws outside the identity middleware: browser WebSocket
	// clients cannot set headers, so the handler resolves identity itself.
	WS http.Handler
	// APIMiddleware wraps only the /api/v1/session subtree.
	APIMiddleware []func(http.Handler) http.Handler
	// Middleware wraps every route.
	Middleware []func(http.Handler) http.Handler
}

// NewRouter builds the HTTP routing table.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	api := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		routeAPI(cfg, w, r)
	}))
	api = chain(api, cfg.APIMiddleware)
	mux.Handle(apiPrefix, api)

	if cfg.WS != nil {
		mux.Handle("/ws", cfg.WS)
	}

	return chain(mux, cfg.Middleware)
}

func routeAPI(cfg RouterConfig, w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, apiPrefix)
	segments := strings.Split(strings.Trim(rest, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		http.NotFound(w, r)
		return
	}

	sessions, chat := cfg.Sessions, cfg.Chat

	switch segments[0] {
	case "schedule-interview":
		if sessions == nil || len(segments) != 1 {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		sessions.ScheduleInterview(w, r)

	case "start-session":
		if sessions == nil || len(segments) != 2 {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		sessions.StartSession(w, r, segments[1])

	case "start-ai-session":
		if sessions == nil || len(segments) != 2 {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		sessions.StartAiSession(w, r, segments[1])

	case "join-session":
		if sessions == nil || len(segments) != 3 {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		sessions.JoinSession(w, r, segments[1], segments[2])

	case "end-session":
		if sessions == nil || len(segments) != 2 {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		sessions.EndSession(w, r, segments[1])

	case "cancel-session":
		if sessions == nil || len(segments) != 2 {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		sessions.CancelSession(w, r, segments[1])

	case "get-my-sessions":
		if sessions == nil || len(segments) != 1 {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		sessions.ListSessions(w, r)

	case "get-my-scheduled-interviews":
		if sessions == nil || len(segments) != 1 {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		sessions.ListSchedules(w, r)

	case "chat":
		routeChat(chat, w, r, segments[1:])

	default:
		http.NotFound(w, r)
	}
}

func routeChat(chat *ChatHandler, w http.ResponseWriter, r *http.Request, segments []string) {
	if chat == nil || len(segments) == 0 {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	switch segments[0] {
	case "history":
		if len(segments) != 2 {
			http.NotFound(w, r)
			return
		}
		chat.History(w, r, segments[1])
	case "conversations":
		if len(segments) != 1 {
			http.NotFound(w, r)
			return
		}
		chat.Conversations(w, r)
	case "online-users":
		if len(segments) != 1 {
			http.NotFound(w, r)
			return
		}
		chat.OnlineUsers(w, r)
	default:
		http.NotFound(w, r)
	}
}

func chain(handler http.Handler, middleware []func(http.Handler) http.Handler) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		if middleware[i] != nil {
			handler = middleware[i](handler)
		}
	}
	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
