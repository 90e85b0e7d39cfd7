package web

import (
	"net/http"

	"github.com/chatlinehq/chatline/types"
)

const maxUploadMemory = 32 << 20 // 32MiB

func (h *Handler) uploadMedia(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["media"]) == 0 {
		h.respondErr(w, errBadRequest)
		return
	}

	var attachments []types.Attachment
	for _, header := range r.MultipartForm.File["media"] {
		file, err := header.Open()
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

		attachments = append(attachments, att)
	}

	out, err := h.Service.UploadMedia(r.Context(), attachments)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusCreated)
}
