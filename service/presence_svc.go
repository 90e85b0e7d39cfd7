package service

import (
	"context"

	"github.com/chatlinehq/chatline/auth"
	"github.com/chatlinehq/chatline/errs"
	"github.com/chatlinehq/chatline/types"
)

// Presences reports the current liveness of the given users.
func (svc *Service) Presences(ctx context.Context, userIDs []string) ([]types.UserPresence, error) {
	if _, loggedIn := auth.UserFromContext(ctx); !loggedIn {
		return nil, errs.Unauthenticated
	}

	for _, userID := range userIDs {
		if userID == "" {
			return nil, errs.NewInvalidArgumentError("UserIDs", "User ID is required")
		}
	}

	return svc.Presence.Statuses(userIDs), nil
}

// FriendsPresence reports the liveness of every accepted friend.
func (svc *Service) FriendsPresence(ctx context.Context) ([]types.UserPresence, error) {
	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return nil, errs.Unauthenticated
	}

	friendIDs, err := svc.Cockroach.FriendIDs(ctx, loggedInUser.ID)
	if err != nil {
		return nil, err
	}

	return svc.Presence.Statuses(friendIDs), nil
}

// SetPresence records a liveness report for the logged-in user.
func (svc *Service) SetPresence(ctx context.Context, status types.PresenceStatus) error {
	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return errs.Unauthenticated
	}

	svc.Presence.SetStatus(loggedInUser.ID, status)

	return nil
}
