package web

import (
	"net/http"
	"strings"

	"github.com/chatlinehq/chatline/types"
)

func (h *Handler) presences(w http.ResponseWriter, r *http.Request) {
	userIDs := strings.Split(r.URL.Query().Get("user_ids"), ",")

	out, err := h.Service.Presences(r.Context(), userIDs)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) friendsPresence(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.FriendsPresence(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if out == nil {
		out = []types.UserPresence{} // non null array
	}

	h.respond(w, out, http.StatusOK)
}
