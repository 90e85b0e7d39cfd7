package types

import (
	"time"
	"unicode/utf8"

	"github.com/chatlinehq/chatline/id"
	"github.com/chatlinehq/chatline/textutil"
	"github.com/chatlinehq/chatline/validator"
)

type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "PENDING"
	MessageStatusDelivered MessageStatus = "DELIVERED"
	MessageStatusRead      MessageStatus = "READ"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessageStatusPending, MessageStatusDelivered, MessageStatusRead:
		return true
	}
	return false
}

func (s MessageStatus) String() string {
	return string(s)
}

// CanAdvanceTo reports whether target is the next step in the
// PENDING → DELIVERED → READ walk. Statuses never move backwards
// and READ cannot be reached without passing through DELIVERED.
func (s MessageStatus) CanAdvanceTo(target MessageStatus) bool {
	switch s {
	case MessageStatusPending:
		return target == MessageStatusDelivered
	case MessageStatusDelivered:
		return target == MessageStatusRead
	}
	return false
}

type Message struct {
	ID        string        `json:"id" db:"id"`
	ChatID    string        `json:"chatID" db:"chat_id"`
	UserID    string        `json:"userID" db:"user_id"`
	Content   string        `json:"content" db:"content"`
	Status    MessageStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`

	User  *User   `json:"user,omitempty" db:"user,omitempty"`
	Media []Media `json:"media,omitempty" db:"media,omitempty"`
}

type CreateMessage struct {
	ChatID  string
	Content string
	Media   []MediaInput

	loggedInUserID string
}

func (in *CreateMessage) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in CreateMessage) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *CreateMessage) Validate() error {
	v := validator.New()

	in.Content = textutil.SmartTrim(in.Content)

	if in.ChatID == "" {
		v.AddError("ChatID", "Chat ID is required")
	}
	if !id.Valid(in.ChatID) {
		v.AddError("ChatID", "Chat ID is invalid")
	}

	if in.Content == "" && len(in.Media) == 0 {
		v.AddError("Content", "Content is required")
	}
	if utf8.RuneCountInString(in.Content) > 1000 {
		v.AddError("Content", "Content must be at most 1000 characters")
	}

	if len(in.Media) > 10 {
		v.AddError("Media", "At most 10 media items per message")
	}
	for _, m := range in.Media {
		if err := m.validate(v); err != nil {
			break
		}
	}

	return v.AsError()
}

type ListMessages struct {
	ChatID   string
	PageArgs PageArgs

	loggedInUserID string
}

func (in *ListMessages) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ListMessages) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *ListMessages) Validate() error {
	v := validator.New()

	if in.ChatID == "" {
		v.AddError("ChatID", "Chat ID is required")
	}
	if !id.Valid(in.ChatID) {
		v.AddError("ChatID", "Chat ID is invalid")
	}

	return v.AsError()
}

type UpdateMessageStatus struct {
	MessageID string
	Status    MessageStatus

	loggedInUserID string
}

func (in *UpdateMessageStatus) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in UpdateMessageStatus) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *UpdateMessageStatus) Validate() error {
	v := validator.New()

	if in.MessageID == "" {
		v.AddError("MessageID", "Message ID is required")
	}
	if !id.Valid(in.MessageID) {
		v.AddError("MessageID", "Message ID is invalid")
	}

	if !in.Status.Valid() {
		v.AddError("Status", "Status must be one of PENDING, DELIVERED or READ")
	}

	return v.AsError()
}
