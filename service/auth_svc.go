package service

import (
	"context"

	"github.com/chatlinehq/chatline/auth"
	"github.com/chatlinehq/chatline/errs"
	"github.com/chatlinehq/chatline/types"
)

// Login upserts the user and hands out a bearer token for them.
// There is no password: identity verification belongs to an external
// provider and this flow exists for development and trusted setups.
func (svc *Service) Login(ctx context.Context, in types.Login) (types.LoginOutput, error) {
	var out types.LoginOutput

	if err := in.Validate(); err != nil {
		return out, err
	}

	user, err := svc.Cockroach.UpsertUser(ctx, in)
	if err != nil {
		return out, err
	}

	token, err := svc.Tokens.Issue(user.ID)
	if err != nil {
		return out, err
	}

	out.Token = token
	out.User = user

	return out, nil
}

// AuthUser resolves the logged-in user from the request context.
func (svc *Service) AuthUser(ctx context.Context) (types.User, error) {
	var out types.User

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	return svc.Cockroach.User(ctx, loggedInUser.ID)
}

// UserFromToken verifies the bearer token and loads its user.
func (svc *Service) UserFromToken(ctx context.Context, token string) (types.User, error) {
	var out types.User

	userID, err := svc.Tokens.Verify(token)
	if err != nil {
		return out, err
	}

	return svc.Cockroach.User(ctx, userID)
}
