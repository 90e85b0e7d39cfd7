package types

import (
	"io"
	"net/url"
	"time"

	"github.com/chatlinehq/chatline/validator"
)

type MediaType string

const (
	MediaTypeImage MediaType = "IMAGE"
	MediaTypeVideo MediaType = "VIDEO"
	MediaTypeAudio MediaType = "AUDIO"
	MediaTypeFile  MediaType = "FILE"
)

func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeImage, MediaTypeVideo, MediaTypeAudio, MediaTypeFile:
		return true
	}
	return false
}

func (t MediaType) String() string {
	return string(t)
}

type Media struct {
	ID        string    `json:"id" db:"id"`
	Type      MediaType `json:"type" db:"type"`
	URL       string    `json:"url" db:"url"`
	UserID    *string   `json:"userID" db:"user_id"`
	MessageID *string   `json:"messageID" db:"message_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// MediaInput is a typed external reference attached to a message at send
// time. The binary itself lives in the media store already.
type MediaInput struct {
	Type MediaType `json:"type"`
	URL  string    `json:"url"`
}

func (in MediaInput) validate(v *validator.Validator) error {
	if !in.Type.Valid() {
		v.AddError("Media", "Media type must be one of IMAGE, VIDEO, AUDIO or FILE")
		return v.AsError()
	}

	if u, err := url.Parse(in.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		v.AddError("Media", "Media URL is invalid")
		return v.AsError()
	}

	return nil
}

// Attachment is an in-flight binary upload headed for the media store.
type Attachment struct {
	reader      io.ReadSeeker
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	FileSize    int64  `json:"fileSize"`
}

func (a *Attachment) SetReader(reader io.ReadSeeker) {
	a.reader = reader
}

func (a *Attachment) Reader() io.ReadSeeker {
	return a.reader
}
