package web

import (
	"encoding/json"
	"net/http"

	"github.com/chatlinehq/chatline/types"
)

func (h *Handler) createFriendRequest(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var in types.CreateFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	out, err := h.Service.CreateFriendRequest(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusCreated)
}

func (h *Handler) friendRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pageArgs, err := parsePageArgs(q)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	in := types.ListFriendRequests{PageArgs: pageArgs}
	if q.Has("status") {
		status := types.FriendRequestStatus(q.Get("status"))
		in.Status = &status
	}

	out, err := h.Service.FriendRequests(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if out.Items == nil {
		out.Items = []types.FriendRequest{} // non null array
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) resolveFriendRequest(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var in types.ResolveFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	in.RequestID = r.PathValue("requestID")

	out, err := h.Service.ResolveFriendRequest(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) friends(w http.ResponseWriter, r *http.Request) {
	pageArgs, err := parsePageArgs(r.URL.Query())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	out, err := h.Service.Friends(r.Context(), types.ListFriends{PageArgs: pageArgs})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if out.Items == nil {
		out.Items = []types.User{} // non null array
	}

	h.respond(w, out, http.StatusOK)
}
