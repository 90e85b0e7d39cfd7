package web

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chatlinehq/chatline/auth"
	"github.com/chatlinehq/chatline/service"
)

type Handler struct {
	Service *service.Service
	Logger  *slog.Logger

	handler http.Handler
	once    sync.Once
}

func (h *Handler) init() {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("GET /api/me", h.authUser)
	mux.HandleFunc("POST /api/avatar", h.updateAvatar)

	mux.HandleFunc("POST /api/friend-requests", h.createFriendRequest)
	mux.HandleFunc("GET /api/friend-requests", h.friendRequests)
	mux.HandleFunc("PATCH /api/friend-requests/{requestID}", h.resolveFriendRequest)
	mux.HandleFunc("GET /api/friends", h.friends)
	mux.HandleFunc("GET /api/friends/presence", h.friendsPresence)
	mux.HandleFunc("GET /api/presence", h.presences)

	mux.HandleFunc("POST /api/chats", h.createChat)
	mux.HandleFunc("GET /api/chats", h.chats)
	mux.HandleFunc("GET /api/chats/{chatID}", h.chat)
	mux.HandleFunc("PATCH /api/chats/{chatID}/members", h.updateChatMembers)
	mux.HandleFunc("GET /api/chats/{chatID}/messages", h.messages)
	mux.HandleFunc("GET /api/chats/{chatID}/events", h.chatEvents)

	mux.HandleFunc("POST /api/messages", h.createMessage)
	mux.HandleFunc("PATCH /api/messages/{messageID}/status", h.updateMessageStatus)

	mux.HandleFunc("POST /api/media", h.uploadMedia)

	mux.Handle("GET /metrics", promhttp.Handler())

	h.handler = mux
	h.handler = h.withUser(h.handler)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(h.init)
	h.handler.ServeHTTP(w, r)
}

// withUser resolves the bearer token, if any, into the request context
// user. Requests without a token stay anonymous; each operation decides
// whether that is acceptable.
func (h *Handler) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		user, err := h.Service.UserFromToken(ctx, token)
		if err != nil {
			h.respondErr(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(ctx, user)))
	})
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "

	authorization := r.Header.Get("Authorization")
	if strings.HasPrefix(authorization, prefix) {
		return authorization[len(prefix):]
	}

	// EventSource cannot set headers, so streams may pass the token
	// in the query string instead.
	return r.URL.Query().Get("auth_token")
}
