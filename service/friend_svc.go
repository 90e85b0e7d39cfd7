package service

import (
	"context"

	"github.com/chatlinehq/chatline/auth"
	"github.com/chatlinehq/chatline/errs"
	"github.com/chatlinehq/chatline/event"
	"github.com/chatlinehq/chatline/types"
)

func (svc *Service) CreateFriendRequest(ctx context.Context, in types.CreateFriendRequest) (types.FriendRequest, error) {
	var out types.FriendRequest

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	if in.ToUserID == loggedInUser.ID {
		return out, errs.NewInvalidArgumentError("ToUserID", "cannot send a friend request to yourself")
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.CreateFriendRequest(ctx, in)
}

// ResolveFriendRequest accepts or rejects a pending friend request.
// Acceptance also activates every waiting dual chat between the two
// users before returning.
func (svc *Service) ResolveFriendRequest(ctx context.Context, in types.ResolveFriendRequest) (types.FriendRequest, error) {
	var out types.FriendRequest

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	out, err := svc.Cockroach.ResolveFriendRequest(ctx, in)
	if err != nil {
		return out, err
	}

	if out.Status == types.FriendRequestStatusAccepted {
		err := svc.Bus.PublishFriendshipAccepted(ctx, event.FriendshipAccepted{
			RequestID:  out.ID,
			FromUserID: out.FromUserID,
			ToUserID:   out.ToUserID,
		})
		if err != nil {
			return out, err
		}
	}

	return out, nil
}

func (svc *Service) FriendRequests(ctx context.Context, in types.ListFriendRequests) (types.Page[types.FriendRequest], error) {
	var out types.Page[types.FriendRequest]

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.FriendRequests(ctx, in)
}

func (svc *Service) Friends(ctx context.Context, in types.ListFriends) (types.Page[types.User], error) {
	var out types.Page[types.User]

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.Friends(ctx, in)
}
