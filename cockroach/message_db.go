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

const messageMediaJSON = `(
	SELECT COALESCE(json_agg(json_build_object(
		'id', media.id,
		'type', media.type,
		'url', media.url,
		'userID', media.user_id,
		'messageID', media.message_id,
		'createdAt', media.created_at
	)), '[]')
	FROM media
	WHERE media.message_id = messages.id
) AS media`

// CreateMessage stores the message inside a single transaction and
// reports whether sending it activated the chat. A reply from anyone
// but the creator activates a waiting group chat; waiting dual chats
// only activate through friendship. The message starts DELIVERED when
// the chat is active or every other member is a friend of the sender,
// PENDING otherwise.
func (c *Cockroach) CreateMessage(ctx context.Context, in types.CreateMessage) (types.Message, bool, error) {
	var out types.Message
	var activated bool
	return out, activated, c.db.RunTx(ctx, func(ctx context.Context) error {
		chat, err := c.chatForUpdate(ctx, in.ChatID)
		if err != nil {
			return err
		}

		member, err := c.isChatMember(ctx, in.ChatID, in.LoggedInUserID())
		if err != nil {
			return err
		}

		if !member {
			return errs.NewPermissionDeniedError("you are not a member of this chat")
		}

		if chat.Kind == types.ChatKindGroup &&
			chat.Status == types.ChatStatusWaiting &&
			chat.CreatedBy != in.LoggedInUserID() {
			if err := c.activateChat(ctx, chat.ID); err != nil {
				return err
			}

			chat.Status = types.ChatStatusActive
			activated = true
		}

		status := types.MessageStatusPending
		if chat.Status == types.ChatStatusActive {
			status = types.MessageStatusDelivered
		} else {
			allFriends, err := c.friendsWithAllOtherMembers(ctx, chat.ID, in.LoggedInUserID())
			if err != nil {
				return err
			}

			if allFriends {
				status = types.MessageStatusDelivered
			}
		}

		const q = `
			INSERT INTO messages (id, chat_id, user_id, content, status)
			VALUES (@message_id, @chat_id, @user_id, @content, @status)
			RETURNING id
		`

		rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
			"message_id": id.Generate(),
			"chat_id":    in.ChatID,
			"user_id":    in.LoggedInUserID(),
			"content":    in.Content,
			"status":     status,
		})
		if err != nil {
			return fmt.Errorf("sql insert message: %w", err)
		}

		created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Created])
		if err != nil {
			return fmt.Errorf("sql collect inserted message: %w", err)
		}

		for _, m := range in.Media {
			if err := c.createMessageMedia(ctx, created.ID, in.LoggedInUserID(), m); err != nil {
				return err
			}
		}

		const touch = `
			UPDATE chats
			SET updated_at = NOW()
			WHERE id = @chat_id
		`

		if _, err := c.db.Exec(ctx, touch, pgx.StrictNamedArgs{"chat_id": in.ChatID}); err != nil {
			return fmt.Errorf("sql touch chat: %w", err)
		}

		out, err = c.message(ctx, created.ID)
		return err
	})
}

// friendsWithAllOtherMembers reports whether every chat member other
// than the user holds an accepted friendship with them. Messages sent
// into a waiting chat still deliver when the whole audience is friends.
func (c *Cockroach) friendsWithAllOtherMembers(ctx context.Context, chatID, userID string) (bool, error) {
	const q = `
		SELECT NOT EXISTS (
			SELECT 1 FROM chat_users
			WHERE chat_users.chat_id = @chat_id
				AND chat_users.user_id != @user_id
				AND NOT EXISTS (
					SELECT 1 FROM friend_requests
					WHERE friend_requests.status = @accepted
						AND (
							(friend_requests.from_user_id = @user_id AND friend_requests.to_user_id = chat_users.user_id)
							OR (friend_requests.from_user_id = chat_users.user_id AND friend_requests.to_user_id = @user_id)
						)
				)
		)
	`
	args := pgx.StrictNamedArgs{
		"chat_id":  chatID,
		"user_id":  userID,
		"accepted": types.FriendRequestStatusAccepted,
	}
	allFriends, err := pgxutil.SelectRow(ctx, c.db, q, []any{args}, pgx.RowTo[bool])
	if err != nil {
		return false, fmt.Errorf("sql select chat audience friendship: %w", err)
	}

	return allFriends, nil
}

func (c *Cockroach) activateChat(ctx context.Context, chatID string) error {
	const q = `
		UPDATE chats
		SET status = @active,
			updated_at = NOW()
		WHERE id = @chat_id
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"chat_id": chatID,
		"active":  types.ChatStatusActive,
	})
	if err != nil {
		return fmt.Errorf("sql activate chat: %w", err)
	}

	return nil
}

func (c *Cockroach) createMessageMedia(ctx context.Context, messageID, userID string, in types.MediaInput) error {
	const q = `
		INSERT INTO media (id, type, url, user_id, message_id)
		VALUES (@media_id, @type, @url, @user_id, @message_id)
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"media_id":   id.Generate(),
		"type":       in.Type,
		"url":        in.URL,
		"user_id":    userID,
		"message_id": messageID,
	})
	if err != nil {
		return fmt.Errorf("sql insert message media: %w", err)
	}

	return nil
}

func (c *Cockroach) message(ctx context.Context, messageID string) (types.Message, error) {
	var out types.Message

	const q = `
		SELECT messages.*,
			` + userJSON + ` AS user,
			` + messageMediaJSON + `
		FROM messages
		INNER JOIN users ON users.id = messages.user_id
		WHERE messages.id = @message_id
	`

	args := pgx.StrictNamedArgs{
		"message_id": messageID,
	}
	out, err := pgxutil.SelectRow(ctx, c.db, q, []any{args}, pgx.RowToStructByNameLax[types.Message])
	if errors.Is(err, pgx.ErrNoRows) {
		return out, errs.NewNotFoundError("message not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql select message: %w", err)
	}

	return out, nil
}

func (c *Cockroach) Messages(ctx context.Context, in types.ListMessages) (types.Page[types.Message], error) {
	var out types.Page[types.Message]

	if _, err := c.chat(ctx, in.ChatID); err != nil {
		return out, err
	}

	member, err := c.isChatMember(ctx, in.ChatID, in.LoggedInUserID())
	if err != nil {
		return out, err
	}

	if !member {
		return out, errs.NewPermissionDeniedError("you are not a member of this chat")
	}

	query := `
		SELECT messages.*,
			` + userJSON + ` AS user,
			` + messageMediaJSON + `
		FROM messages
		INNER JOIN users ON users.id = messages.user_id
		WHERE messages.chat_id = @chat_id
	`
	args := pgx.StrictNamedArgs{
		"chat_id": in.ChatID,
	}

	query, err = addPageFilter(query, "messages", args, in.PageArgs)
	if err != nil {
		return out, err
	}

	query = addPageOrder(query, "messages", in.PageArgs)
	query = addPageLimit(query, args, in.PageArgs)

	rows, err := c.db.Query(ctx, query, args)
	if err != nil {
		return out, fmt.Errorf("sql select messages: %w", err)
	}

	out.Items, err = pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Message])
	if err != nil {
		return out, fmt.Errorf("sql collect messages: %w", err)
	}

	if err := applyPageInfo(&out, in.PageArgs, func(m types.Message) string { return m.ID }); err != nil {
		return out, err
	}

	return out, nil
}

// UpdateMessageStatus advances a message along
// PENDING → DELIVERED → READ and reports whether anything changed.
// Repeating the current status is an idempotent no-op.
func (c *Cockroach) UpdateMessageStatus(ctx context.Context, in types.UpdateMessageStatus) (types.Message, bool, error) {
	var out types.Message
	var changed bool
	return out, changed, c.db.RunTx(ctx, func(ctx context.Context) error {
		current, err := c.messageForUpdate(ctx, in.MessageID)
		if err != nil {
			return err
		}

		member, err := c.isChatMember(ctx, current.ChatID, in.LoggedInUserID())
		if err != nil {
			return err
		}

		if !member {
			return errs.NewPermissionDeniedError("you are not a member of this chat")
		}

		if current.UserID == in.LoggedInUserID() {
			return errs.NewPermissionDeniedError("cannot update the status of your own message")
		}

		if current.Status == in.Status {
			out, err = c.message(ctx, in.MessageID)
			return err
		}

		if !current.Status.CanAdvanceTo(in.Status) {
			return errs.NewInvalidStateError(fmt.Sprintf("cannot move message from %s to %s", current.Status, in.Status))
		}

		const q = `
			UPDATE messages
			SET status = @status,
				updated_at = NOW()
			WHERE id = @message_id
		`

		_, err = c.db.Exec(ctx, q, pgx.StrictNamedArgs{
			"message_id": in.MessageID,
			"status":     in.Status,
		})
		if err != nil {
			return fmt.Errorf("sql update message status: %w", err)
		}

		changed = true

		out, err = c.message(ctx, in.MessageID)
		return err
	})
}

func (c *Cockroach) messageForUpdate(ctx context.Context, messageID string) (types.Message, error) {
	var out types.Message

	const q = `
		SELECT messages.*
		FROM messages
		WHERE messages.id = @message_id
		FOR UPDATE
	`

	args := pgx.StrictNamedArgs{
		"message_id": messageID,
	}
	out, err := pgxutil.SelectRow(ctx, c.db, q, []any{args}, pgx.RowToStructByNameLax[types.Message])
	if errors.Is(err, pgx.ErrNoRows) {
		return out, errs.NewNotFoundError("message not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql select message for update: %w", err)
	}

	return out, nil
}
