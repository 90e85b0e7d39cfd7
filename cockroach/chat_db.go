package cockroach

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/chatlinehq/chatline/errs"
	"github.com/chatlinehq/chatline/id"
	"github.com/chatlinehq/chatline/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxutil"
	"github.com/nicolasparada/go-db"
)

const chatMembersJSON = `(
	SELECT COALESCE(json_agg(json_build_object(
		'chatID', chat_users.chat_id,
		'userID', chat_users.user_id,
		'role', chat_users.role,
		'createdAt', chat_users.created_at,
		'updatedAt', chat_users.updated_at,
		'user', ` + userJSON + `
	)), '[]')
	FROM chat_users
	INNER JOIN users ON users.id = chat_users.user_id
	WHERE chat_users.chat_id = chats.id
) AS members`

func (c *Cockroach) CreateChat(ctx context.Context, in types.CreateChat) (types.Chat, error) {
	var out types.Chat
	return out, c.db.RunTx(ctx, func(ctx context.Context) error {
		status := types.ChatStatusWaiting
		if in.Kind == types.ChatKindDual {
			memberIDs := in.MemberIDs()
			friends, err := c.FriendsWith(ctx, memberIDs[0], memberIDs[1])
			if err != nil {
				return err
			}

			if friends {
				status = types.ChatStatusActive
			}
		}

		const q = `
			INSERT INTO chats (id, kind, name, status, created_by)
			VALUES (@chat_id, @kind, @name, @status, @created_by)
			RETURNING id
		`

		rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
			"chat_id":    id.Generate(),
			"kind":       in.Kind,
			"name":       in.Name,
			"status":     status,
			"created_by": in.LoggedInUserID(),
		})
		if err != nil {
			return fmt.Errorf("sql insert chat: %w", err)
		}

		created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Created])
		if err != nil {
			return fmt.Errorf("sql collect inserted chat: %w", err)
		}

		for _, userID := range in.MemberIDs() {
			role := types.ChatMemberRoleMember
			if in.Kind == types.ChatKindGroup && userID == in.LoggedInUserID() {
				role = types.ChatMemberRoleAdmin
			}

			if err := c.addChatMember(ctx, created.ID, userID, role); err != nil {
				return err
			}
		}

		out, err = c.chat(ctx, created.ID)
		return err
	})
}

func (c *Cockroach) addChatMember(ctx context.Context, chatID, userID string, role types.ChatMemberRole) error {
	const q = `
		INSERT INTO chat_users (chat_id, user_id, role)
		VALUES (@chat_id, @user_id, @role)
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"chat_id": chatID,
		"user_id": userID,
		"role":    role,
	})
	if db.IsUniqueViolationError(err) {
		return errs.NewAlreadyExistsError("AddUserIDs", "user is already a member")
	}

	if db.IsForeignKeyViolationError(err, "user_id") {
		return errs.NewNotFoundError("user not found")
	}

	if err != nil {
		return fmt.Errorf("sql insert chat member: %w", err)
	}

	return nil
}

func (c *Cockroach) Chat(ctx context.Context, in types.RetrieveChat) (types.Chat, error) {
	chat, err := c.chat(ctx, in.ChatID)
	if err != nil {
		return chat, err
	}

	member := slices.ContainsFunc(chat.Members, func(m types.ChatMember) bool {
		return m.UserID == in.LoggedInUserID()
	})
	if !member {
		return types.Chat{}, errs.NewPermissionDeniedError("you are not a member of this chat")
	}

	return chat, nil
}

func (c *Cockroach) chat(ctx context.Context, chatID string) (types.Chat, error) {
	var out types.Chat

	const q = `
		SELECT chats.*, ` + chatMembersJSON + `
		FROM chats
		WHERE chats.id = @chat_id
	`

	args := pgx.StrictNamedArgs{
		"chat_id": chatID,
	}
	out, err := pgxutil.SelectRow(ctx, c.db, q, []any{args}, pgx.RowToStructByNameLax[types.Chat])
	if errors.Is(err, pgx.ErrNoRows) {
		return out, errs.NewNotFoundError("chat not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql select chat: %w", err)
	}

	return out, nil
}

func (c *Cockroach) Chats(ctx context.Context, in types.ListChats) (types.Page[types.Chat], error) {
	var out types.Page[types.Chat]

	query := `
		SELECT chats.*, ` + chatMembersJSON + `
		FROM chats
		WHERE EXISTS (
			SELECT 1 FROM chat_users
			WHERE chat_users.chat_id = chats.id
				AND chat_users.user_id = @user_id
		)
	`
	args := pgx.StrictNamedArgs{
		"user_id": in.LoggedInUserID(),
	}

	query, err := addPageFilter(query, "chats", args, in.PageArgs)
	if err != nil {
		return out, err
	}

	query = addPageOrder(query, "chats", in.PageArgs)
	query = addPageLimit(query, args, in.PageArgs)

	rows, err := c.db.Query(ctx, query, args)
	if err != nil {
		return out, fmt.Errorf("sql select chats: %w", err)
	}

	out.Items, err = pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Chat])
	if err != nil {
		return out, fmt.Errorf("sql collect chats: %w", err)
	}

	if err := applyPageInfo(&out, in.PageArgs, func(ch types.Chat) string { return ch.ID }); err != nil {
		return out, err
	}

	return out, nil
}

func (c *Cockroach) UpdateChatMembers(ctx context.Context, in types.UpdateChatMembers) (types.Chat, error) {
	var out types.Chat
	return out, c.db.RunTx(ctx, func(ctx context.Context) error {
		chat, err := c.chatForUpdate(ctx, in.ChatID)
		if err != nil {
			return err
		}

		if chat.Kind == types.ChatKindDual {
			return errs.NewInvalidStateError("dual chat members cannot be changed")
		}

		member, err := c.isChatMember(ctx, in.ChatID, in.LoggedInUserID())
		if err != nil {
			return err
		}

		if !member {
			return errs.NewPermissionDeniedError("you are not a member of this chat")
		}

		for _, userID := range in.AddUserIDs {
			if err := c.addChatMember(ctx, in.ChatID, userID, types.ChatMemberRoleMember); err != nil {
				return err
			}
		}

		for _, userID := range in.RemoveUserIDs {
			if err := c.removeChatMember(ctx, in.ChatID, userID); err != nil {
				return err
			}
		}

		count, err := c.chatMemberCount(ctx, in.ChatID)
		if err != nil {
			return err
		}

		if count < 2 {
			return errs.NewInvalidStateError("a group chat needs at least two members")
		}

		const q = `
			UPDATE chats
			SET updated_at = NOW()
			WHERE id = @chat_id
		`

		if _, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{"chat_id": in.ChatID}); err != nil {
			return fmt.Errorf("sql touch chat: %w", err)
		}

		out, err = c.chat(ctx, in.ChatID)
		return err
	})
}

func (c *Cockroach) removeChatMember(ctx context.Context, chatID, userID string) error {
	const q = `
		DELETE FROM chat_users
		WHERE chat_id = @chat_id
			AND user_id = @user_id
	`

	tag, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"chat_id": chatID,
		"user_id": userID,
	})
	if err != nil {
		return fmt.Errorf("sql delete chat member: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return errs.NewNotFoundError("user is not a member of this chat")
	}

	return nil
}

func (c *Cockroach) chatForUpdate(ctx context.Context, chatID string) (types.Chat, error) {
	var out types.Chat

	const q = `
		SELECT chats.*
		FROM chats
		WHERE chats.id = @chat_id
		FOR UPDATE
	`

	args := pgx.StrictNamedArgs{
		"chat_id": chatID,
	}
	out, err := pgxutil.SelectRow(ctx, c.db, q, []any{args}, pgx.RowToStructByNameLax[types.Chat])
	if errors.Is(err, pgx.ErrNoRows) {
		return out, errs.NewNotFoundError("chat not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql select chat for update: %w", err)
	}

	return out, nil
}

func (c *Cockroach) isChatMember(ctx context.Context, chatID, userID string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM chat_users
			WHERE chat_id = @chat_id
				AND user_id = @user_id
		)
	`

	args := pgx.StrictNamedArgs{
		"chat_id": chatID,
		"user_id": userID,
	}
	member, err := pgxutil.SelectRow(ctx, c.db, q, []any{args}, pgx.RowTo[bool])
	if err != nil {
		return false, fmt.Errorf("sql select chat membership: %w", err)
	}

	return member, nil
}

func (c *Cockroach) chatMemberCount(ctx context.Context, chatID string) (int, error) {
	const q = `
		SELECT count(*) FROM chat_users
		WHERE chat_id = @chat_id
	`

	args := pgx.StrictNamedArgs{
		"chat_id": chatID,
	}
	count, err := pgxutil.SelectRow(ctx, c.db, q, []any{args}, pgx.RowTo[int])
	if err != nil {
		return 0, fmt.Errorf("sql count chat members: %w", err)
	}

	return count, nil
}

// ActivateDualChats moves every waiting dual chat shared by the two
// users to active. Dual chats have exactly two members, so a chat
// holding both users is between them.
func (c *Cockroach) ActivateDualChats(ctx context.Context, userID, otherUserID string) ([]types.Chat, error) {
	var out []types.Chat
	return out, c.db.RunTx(ctx, func(ctx context.Context) error {
		const q = `
			UPDATE chats
			SET status = @active,
				updated_at = NOW()
			WHERE kind = @dual
				AND status = @waiting
				AND id IN (
					SELECT chat_id FROM chat_users
					WHERE user_id IN (@user_id, @other_user_id)
					GROUP BY chat_id
					HAVING count(*) = 2
				)
			RETURNING id
		`

		rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
			"active":        types.ChatStatusActive,
			"dual":          types.ChatKindDual,
			"waiting":       types.ChatStatusWaiting,
			"user_id":       userID,
			"other_user_id": otherUserID,
		})
		if err != nil {
			return fmt.Errorf("sql activate dual chats: %w", err)
		}

		chatIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("sql collect activated chat IDs: %w", err)
		}

		for _, chatID := range chatIDs {
			chat, err := c.chat(ctx, chatID)
			if err != nil {
				return err
			}

			out = append(out, chat)
		}

		return nil
	})
}
