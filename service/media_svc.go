package service

import (
	"context"
	"mime"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/chatlinehq/chatline/auth"
	"github.com/chatlinehq/chatline/errs"
	"github.com/chatlinehq/chatline/types"
)

const (
	mediaBucket = "chatline-media"

	maxMediaSize = 50 << 20 // 50MiB
)

// UploadMedia stores the binaries and registers them in the media
// registry. The returned URLs are what a later message references.
func (svc *Service) UploadMedia(ctx context.Context, attachments []types.Attachment) ([]types.Media, error) {
	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return nil, errs.Unauthenticated
	}

	if len(attachments) == 0 {
		return nil, errs.NewInvalidArgumentError("Attachments", "At least one attachment is required")
	}

	for i := range attachments {
		att := &attachments[i]

		if att.FileSize > maxMediaSize {
			return nil, errs.NewInvalidArgumentError("Attachments", "Attachment is too large")
		}

		ct, err := detectContentType(att.Reader())
		if err != nil {
			return nil, err
		}

		att.ContentType = ct
		att.Name = objectName(ct)
	}

	cleanup, err := svc.Minio.UploadMany(ctx, mediaBucket, attachments)
	if err != nil {
		return nil, errs.NewDependencyFailedError("could not store attachments")
	}

	var out []types.Media
	for _, att := range attachments {
		mediaURL := svc.mediaBaseURL.JoinPath(mediaBucket, att.Name).String()

		media, err := svc.Cockroach.CreateMedia(ctx, loggedInUser.ID, mediaTypeOf(att.ContentType), mediaURL)
		if err != nil {
			cleanup()
			return nil, err
		}

		out = append(out, media)
	}

	return out, nil
}

// UpdateAvatar stores the image and points the user's profile at it.
func (svc *Service) UpdateAvatar(ctx context.Context, att types.Attachment) (types.User, error) {
	var out types.User

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	ct, err := detectContentType(att.Reader())
	if err != nil {
		return out, err
	}

	if !strings.HasPrefix(ct, "image/") {
		return out, errs.NewInvalidArgumentError("Avatar", "Avatar must be an image")
	}

	att.ContentType = ct
	att.Name = objectName(ct)

	cleanup, err := svc.Minio.Upload(ctx, mediaBucket, att)
	if err != nil {
		return out, errs.NewDependencyFailedError("could not store avatar")
	}

	avatarURL := svc.mediaBaseURL.JoinPath(mediaBucket, att.Name).String()
	if err := svc.Cockroach.UpdateUserAvatar(ctx, loggedInUser.ID, avatarURL); err != nil {
		cleanup()
		return out, err
	}

	return svc.Cockroach.User(ctx, loggedInUser.ID)
}

func objectName(contentType string) string {
	name := gonanoid.Must()

	exts, _ := mime.ExtensionsByType(contentType)
	if len(exts) != 0 {
		name += exts[0]
	}

	return name
}

func mediaTypeOf(contentType string) types.MediaType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return types.MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return types.MediaTypeVideo
	case strings.HasPrefix(contentType, "audio/"):
		return types.MediaTypeAudio
	default:
		return types.MediaTypeFile
	}
}
