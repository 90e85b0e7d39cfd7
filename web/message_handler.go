package web

import (
	"encoding/json"
	"net/http"

	"github.com/chatlinehq/chatline/types"
)

func (h *Handler) createMessage(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var in types.CreateMessage
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	out, err := h.Service.CreateMessage(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusCreated)
}

func (h *Handler) messages(w http.ResponseWriter, r *http.Request) {
	pageArgs, err := parsePageArgs(r.URL.Query())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	in := types.ListMessages{
		ChatID:   r.PathValue("chatID"),
		PageArgs: pageArgs,
	}

	out, err := h.Service.Messages(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if out.Items == nil {
		out.Items = []types.Message{} // non null array
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) updateMessageStatus(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var in types.UpdateMessageStatus
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	in.MessageID = r.PathValue("messageID")

	out, err := h.Service.UpdateMessageStatus(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}
