package service

import (
	"context"

	"github.com/chatlinehq/chatline/auth"
	"github.com/chatlinehq/chatline/errs"
	"github.com/chatlinehq/chatline/types"
)

func (svc *Service) CreateMessage(ctx context.Context, in types.CreateMessage) (types.Message, error) {
	var out types.Message

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	out, chatActivated, err := svc.Cockroach.CreateMessage(ctx, in)
	if err != nil {
		return out, err
	}

	if chatActivated {
		retrieve := types.RetrieveChat{ChatID: out.ChatID}
		retrieve.SetLoggedInUserID(loggedInUser.ID)

		chat, err := svc.Cockroach.Chat(ctx, retrieve)
		if err != nil {
			return out, err
		}

		svc.broadcastChatEvent(chat.ID, types.ChatEvent{
			Type: types.ChatEventChatActivated,
			Chat: &chat,
		})
	}

	svc.broadcastChatEvent(out.ChatID, types.ChatEvent{
		Type:    types.ChatEventMessageCreated,
		Message: &out,
	})

	return out, nil
}

func (svc *Service) Messages(ctx context.Context, in types.ListMessages) (types.Page[types.Message], error) {
	var out types.Page[types.Message]

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.Messages(ctx, in)
}

func (svc *Service) UpdateMessageStatus(ctx context.Context, in types.UpdateMessageStatus) (types.Message, error) {
	var out types.Message

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	out, changed, err := svc.Cockroach.UpdateMessageStatus(ctx, in)
	if err != nil {
		return out, err
	}

	if changed {
		svc.broadcastChatEvent(out.ChatID, types.ChatEvent{
			Type:    types.ChatEventMessageStatusChanged,
			Message: &out,
		})
	}

	return out, nil
}
