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
)

const userJSON = `json_build_object(
	'id', users.id,
	'username', users.username,
	'avatarURL', users.avatar,
	'createdAt', users.created_at,
	'updatedAt', users.updated_at
)`

// UpsertUser creates the user on first login and is a no-op
// bump afterwards.
func (c *Cockroach) UpsertUser(ctx context.Context, in types.Login) (types.User, error) {
	var out types.User

	const q = `
		INSERT INTO users (id, username)
		VALUES (@user_id, @username)
		ON CONFLICT (username) DO UPDATE
		SET updated_at = NOW()
		RETURNING users.*
	`

	args := pgx.StrictNamedArgs{
		"user_id":  id.Generate(),
		"username": in.Username,
	}
	out, err := pgxutil.SelectRow(ctx, c.db, q, []any{args}, pgx.RowToStructByNameLax[types.User])
	if err != nil {
		return out, fmt.Errorf("sql upsert user: %w", err)
	}

	return out, nil
}

func (c *Cockroach) User(ctx context.Context, userID string) (types.User, error) {
	var out types.User

	const q = `
		SELECT users.*
		FROM users
		WHERE users.id = @user_id
	`

	args := pgx.StrictNamedArgs{
		"user_id": userID,
	}
	out, err := pgxutil.SelectRow(ctx, c.db, q, []any{args}, pgx.RowToStructByNameLax[types.User])
	if errors.Is(err, pgx.ErrNoRows) {
		return out, errs.NewNotFoundError("user not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql select user: %w", err)
	}

	return out, nil
}

func (c *Cockroach) UpdateUserAvatar(ctx context.Context, userID, avatarURL string) error {
	const q = `
		UPDATE users
		SET avatar = @avatar,
			updated_at = NOW()
		WHERE id = @user_id
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"user_id": userID,
		"avatar":  avatarURL,
	})
	if err != nil {
		return fmt.Errorf("sql update user avatar: %w", err)
	}

	return nil
}
