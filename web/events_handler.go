package web

import (
	"net/http"

	"github.com/chatlinehq/chatline/auth"
	"github.com/chatlinehq/chatline/types"
)

// chatEvents streams the chat's events over SSE. While the stream is
// open the subscriber counts as online.
func (h *Handler) chatEvents(w http.ResponseWriter, r *http.Request) {
	f, ok := w.(http.Flusher)
	if !ok {
		h.respondErr(w, errStreamingUnsupported)
		return
	}

	ctx := r.Context()
	in := types.RetrieveChat{ChatID: r.PathValue("chatID")}

	cc, err := h.Service.ChatStream(ctx, in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if user, ok := auth.UserFromContext(ctx); ok {
		h.Service.Presence.StreamOpened(user.ID)
		defer h.Service.Presence.StreamClosed(user.ID)
	}

	header := w.Header()
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("Content-Type", "text/event-stream; charset=utf-8")
	f.Flush()

	for {
		select {
		case ev, open := <-cc:
			if !open {
				return
			}

			h.writeSSE(w, ev)
			f.Flush()
		case <-ctx.Done():
			return
		}
	}
}
