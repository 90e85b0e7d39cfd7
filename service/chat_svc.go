package service

import (
	"context"
	"slices"

	"github.com/chatlinehq/chatline/auth"
	"github.com/chatlinehq/chatline/errs"
	"github.com/chatlinehq/chatline/event"
	"github.com/chatlinehq/chatline/types"
)

func (svc *Service) CreateChat(ctx context.Context, in types.CreateChat) (types.Chat, error) {
	var out types.Chat

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	memberIDs := slices.Clone(in.ParticipantIDs)
	if !slices.Contains(memberIDs, loggedInUser.ID) {
		memberIDs = append(memberIDs, loggedInUser.ID)
	}
	slices.Sort(memberIDs)
	memberIDs = slices.Compact(memberIDs)

	switch in.Kind {
	case types.ChatKindDual:
		if len(memberIDs) != 2 {
			return out, errs.NewInvalidArgumentError("ParticipantIDs", "a dual chat is between exactly two users")
		}
	case types.ChatKindGroup:
		if len(memberIDs) < 2 {
			return out, errs.NewInvalidArgumentError("ParticipantIDs", "a group chat needs at least two members")
		}
	}

	in.SetMemberIDs(memberIDs)

	return svc.Cockroach.CreateChat(ctx, in)
}

func (svc *Service) Chat(ctx context.Context, in types.RetrieveChat) (types.Chat, error) {
	var out types.Chat

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.Chat(ctx, in)
}

func (svc *Service) Chats(ctx context.Context, in types.ListChats) (types.Page[types.Chat], error) {
	var out types.Page[types.Chat]

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.Chats(ctx, in)
}

func (svc *Service) UpdateChatMembers(ctx context.Context, in types.UpdateChatMembers) (types.Chat, error) {
	var out types.Chat

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.UpdateChatMembers(ctx, in)
}

// onFriendshipAccepted moves every waiting dual chat between the new
// friends to active and notifies their open streams.
func (svc *Service) onFriendshipAccepted(ctx context.Context, ev event.FriendshipAccepted) error {
	chats, err := svc.Cockroach.ActivateDualChats(ctx, ev.FromUserID, ev.ToUserID)
	if err != nil {
		return err
	}

	for _, chat := range chats {
		svc.broadcastChatEvent(chat.ID, types.ChatEvent{
			Type: types.ChatEventChatActivated,
			Chat: &chat,
		})
	}

	return nil
}
