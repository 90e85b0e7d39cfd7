package web

import (
	"encoding/json"
	"net/http"

	"github.com/chatlinehq/chatline/types"
)

func (h *Handler) createChat(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var in types.CreateChat
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	out, err := h.Service.CreateChat(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusCreated)
}

func (h *Handler) chats(w http.ResponseWriter, r *http.Request) {
	pageArgs, err := parsePageArgs(r.URL.Query())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	out, err := h.Service.Chats(r.Context(), types.ListChats{PageArgs: pageArgs})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if out.Items == nil {
		out.Items = []types.Chat{} // non null array
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	in := types.RetrieveChat{ChatID: r.PathValue("chatID")}

	out, err := h.Service.Chat(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) updateChatMembers(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var in types.UpdateChatMembers
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	in.ChatID = r.PathValue("chatID")

	out, err := h.Service.UpdateChatMembers(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}
