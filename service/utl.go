package service

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/chatlinehq/chatline/errs"
)

func detectContentType(r io.ReadSeeker) (string, error) {
	// http.DetectContentType uses at most 512 bytes to make its decision.
	h := make([]byte, 512)
	n, err := r.Read(h)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("detect content type: read head: %w", err)
	}

	if n == 0 {
		return "", errs.NewInvalidArgumentError("Attachments", "Attachment must not be empty")
	}

	// Reset the reader so it can be used again.
	_, err = r.Seek(0, io.SeekStart)
	if err != nil {
		return "", fmt.Errorf("detect content type: seek to start: %w", err)
	}

	mt, _, err := mime.ParseMediaType(http.DetectContentType(h[:n]))
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}

	return mt, nil
}
