package cockroach

import (
	"context"
	"errors"
	"fmt"

	"github.com/chatlinehq/chatline/errs"
	"github.com/chatlinehq/chatline/id"
	"github.com/chatlinehq/chatline/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxutil"
	"github.com/nicolasparada/go-db"
)

func (c *Cockroach) CreateFriendRequest(ctx context.Context, in types.CreateFriendRequest) (types.FriendRequest, error) {
	var out types.FriendRequest
	return out, c.db.RunTx(ctx, func(ctx context.Context) error {
		friends, err := c.FriendsWith(ctx, in.LoggedInUserID(), in.ToUserID)
		if err != nil {
			return err
		}

		if friends {
			return errs.NewAlreadyExistsError("ToUserID", "you are already friends")
		}

		const q = `
			INSERT INTO friend_requests (id, from_user_id, to_user_id)
			VALUES (@request_id, @from_user_id, @to_user_id)
			RETURNING id
		`
		args := pgx.StrictNamedArgs{
			"request_id":   id.Generate(),
			"from_user_id": in.LoggedInUserID(),
			"to_user_id":   in.ToUserID,
		}
		requestID, err := pgxutil.SelectRow(ctx, c.db, q, []any{args}, pgx.RowTo[string])
		if db.IsUniqueViolationError(err) {
			return errs.NewAlreadyExistsError("ToUserID", "friend request already sent")
		}

		if db.IsForeignKeyViolationError(err, "to_user_id") {
			return errs.NewNotFoundError("user not found")
		}

		if err != nil {
			return fmt.Errorf("sql insert friend request: %w", err)
		}

		out, err = c.friendRequest(ctx, requestID)
		return err
	})
}

func (c *Cockroach) ResolveFriendRequest(ctx context.Context, in types.ResolveFriendRequest) (types.FriendRequest, error) {
	var out types.FriendRequest
	return out, c.db.RunTx(ctx, func(ctx context.Context) error {
		current, err := c.friendRequestForUpdate(ctx, in.RequestID)
		if err != nil {
			return err
		}

		if current.ToUserID != in.LoggedInUserID() {
			return errs.NewPermissionDeniedError("only the recipient can resolve a friend request")
		}

		if current.Status != types.FriendRequestStatusPending {
			return errs.NewInvalidStateError(fmt.Sprintf("friend request is already %s", current.Status))
		}

		const q = `
			UPDATE friend_requests
			SET status = @status,
				updated_at = NOW()
			WHERE id = @request_id
		`

		_, err = c.db.Exec(ctx, q, pgx.StrictNamedArgs{
			"request_id": in.RequestID,
			"status":     in.Status,
		})
		if err != nil {
			return fmt.Errorf("sql update friend request: %w", err)
		}

		out, err = c.friendRequest(ctx, in.RequestID)
		return err
	})
}

func (c *Cockroach) friendRequest(ctx context.Context, requestID string) (types.FriendRequest, error) {
	var out types.FriendRequest

	const q = `
		SELECT friend_requests.*,
			(SELECT ` + userJSON + ` FROM users WHERE users.id = friend_requests.from_user_id) AS from_user,
			(SELECT ` + userJSON + ` FROM users WHERE users.id = friend_requests.to_user_id) AS to_user
		FROM friend_requests
		WHERE friend_requests.id = @request_id
	`

	args := pgx.StrictNamedArgs{
		"request_id": requestID,
	}
	out, err := pgxutil.SelectRow(ctx, c.db, q, []any{args}, pgx.RowToStructByNameLax[types.FriendRequest])
	if errors.Is(err, pgx.ErrNoRows) {
		return out, errs.NewNotFoundError("friend request not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql select friend request: %w", err)
	}

	return out, nil
}

func (c *Cockroach) friendRequestForUpdate(ctx context.Context, requestID string) (types.FriendRequest, error) {
	var out types.FriendRequest

	const q = `
		SELECT friend_requests.*
		FROM friend_requests
		WHERE friend_requests.id = @request_id
		FOR UPDATE
	`

	args := pgx.StrictNamedArgs{
		"request_id": requestID,
	}
	out, err := pgxutil.SelectRow(ctx, c.db, q, []any{args}, pgx.RowToStructByNameLax[types.FriendRequest])
	if errors.Is(err, pgx.ErrNoRows) {
		return out, errs.NewNotFoundError("friend request not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql select friend request for update: %w", err)
	}

	return out, nil
}

// FriendsWith reports whether there is an accepted friend request
// between the two users in either direction.
func (c *Cockroach) FriendsWith(ctx context.Context, userID, otherUserID string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM friend_requests
			WHERE status = @accepted
				AND (
					(from_user_id = @user_id AND to_user_id = @other_user_id)
					OR (from_user_id = @other_user_id AND to_user_id = @user_id)
				)
		)
	`

	args := pgx.StrictNamedArgs{
		"accepted":      types.FriendRequestStatusAccepted,
		"user_id":       userID,
		"other_user_id": otherUserID,
	}
	friends, err := pgxutil.SelectRow(ctx, c.db, q, []any{args}, pgx.RowTo[bool])
	if err != nil {
		return false, fmt.Errorf("sql select friends with: %w", err)
	}

	return friends, nil
}

func (c *Cockroach) FriendRequests(ctx context.Context, in types.ListFriendRequests) (types.Page[types.FriendRequest], error) {
	var out types.Page[types.FriendRequest]

	query := `
		SELECT friend_requests.*,
			(SELECT ` + userJSON + ` FROM users WHERE users.id = friend_requests.from_user_id) AS from_user,
			(SELECT ` + userJSON + ` FROM users WHERE users.id = friend_requests.to_user_id) AS to_user
		FROM friend_requests
		WHERE friend_requests.to_user_id = @user_id
	`
	args := pgx.StrictNamedArgs{
		"user_id": in.LoggedInUserID(),
	}

	if in.Status != nil {
		query += " AND friend_requests.status = @status "
		args["status"] = *in.Status
	}

	query, err := addPageFilter(query, "friend_requests", args, in.PageArgs)
	if err != nil {
		return out, err
	}

	query = addPageOrder(query, "friend_requests", in.PageArgs)
	query = addPageLimit(query, args, in.PageArgs)

	rows, err := c.db.Query(ctx, query, args)
	if err != nil {
		return out, fmt.Errorf("sql select friend requests: %w", err)
	}

	out.Items, err = pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.FriendRequest])
	if err != nil {
		return out, fmt.Errorf("sql collect friend requests: %w", err)
	}

	if err := applyPageInfo(&out, in.PageArgs, func(fr types.FriendRequest) string { return fr.ID }); err != nil {
		return out, err
	}

	return out, nil
}

// FriendIDs lists the IDs of every accepted friend of the user.
func (c *Cockroach) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	const q = `
		SELECT CASE
			WHEN friend_requests.from_user_id = @user_id THEN friend_requests.to_user_id
			ELSE friend_requests.from_user_id
		END
		FROM friend_requests
		WHERE friend_requests.status = @accepted
			AND @user_id IN (friend_requests.from_user_id, friend_requests.to_user_id)
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"user_id":  userID,
		"accepted": types.FriendRequestStatusAccepted,
	})
	if err != nil {
		return nil, fmt.Errorf("sql select friend IDs: %w", err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("sql collect friend IDs: %w", err)
	}

	return out, nil
}

func (c *Cockroach) Friends(ctx context.Context, in types.ListFriends) (types.Page[types.User], error) {
	var out types.Page[types.User]

	query := `
		SELECT users.*
		FROM friend_requests
		INNER JOIN users ON users.id = CASE
			WHEN friend_requests.from_user_id = @user_id THEN friend_requests.to_user_id
			ELSE friend_requests.from_user_id
		END
		WHERE friend_requests.status = @accepted
			AND @user_id IN (friend_requests.from_user_id, friend_requests.to_user_id)
	`
	args := pgx.StrictNamedArgs{
		"user_id":  in.LoggedInUserID(),
		"accepted": types.FriendRequestStatusAccepted,
	}

	query, err := addPageFilter(query, "users", args, in.PageArgs)
	if err != nil {
		return out, err
	}

	query = addPageOrder(query, "users", in.PageArgs)
	query = addPageLimit(query, args, in.PageArgs)

	rows, err := c.db.Query(ctx, query, args)
	if err != nil {
		return out, fmt.Errorf("sql select friends: %w", err)
	}

	out.Items, err = pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.User])
	if err != nil {
		return out, fmt.Errorf("sql collect friends: %w", err)
	}

	if err := applyPageInfo(&out, in.PageArgs, func(u types.User) string { return u.ID }); err != nil {
		return out, err
	}

	return out, nil
}
