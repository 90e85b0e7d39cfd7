package web

import (
	"net/http"

	"github.com/chatlinehq/chatline/types"
)

func (h *Handler) authUser(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.AuthUser(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) updateAvatar(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		h.respondErr(w, errBadRequest)
		return
	}
	defer file.Close()

	att := types.Attachment{
		Name:     header.Filename,
		FileSize: header.Size,
	}
	att.SetReader(file)

	out, err := h.Service.UpdateAvatar(r.Context(), att)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}
