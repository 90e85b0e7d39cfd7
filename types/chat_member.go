package types

import "time"

type ChatMemberRole string

const (
	ChatMemberRoleMember ChatMemberRole = "member"
	ChatMemberRoleAdmin  ChatMemberRole = "admin"
)

func (r ChatMemberRole) String() string {
	return string(r)
}

type ChatMember struct {
	ChatID    string         `json:"chatID" db:"chat_id"`
	UserID    string         `json:"userID" db:"user_id"`
	Role      ChatMemberRole `json:"role" db:"role"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`

	User *User `json:"user,omitempty" db:"user,omitempty"`
}
