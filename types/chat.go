package types

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chatlinehq/chatline/id"
	"github.com/chatlinehq/chatline/validator"
)

type ChatKind string

const (
	ChatKindDual  ChatKind = "DUAL"
	ChatKindGroup ChatKind = "GROUP"
)

func (k ChatKind) Valid() bool {
	return k == ChatKindDual || k == ChatKindGroup
}

func (k ChatKind) String() string {
	return string(k)
}

type ChatStatus string

const (
	ChatStatusWaiting ChatStatus = "WAITING"
	ChatStatusActive  ChatStatus = "ACTIVE"
)

func (s ChatStatus) String() string {
	return string(s)
}

type Chat struct {
	ID        string     `json:"id" db:"id"`
	Kind      ChatKind   `json:"kind" db:"kind"`
	Name      *string    `json:"name" db:"name"`
	Status    ChatStatus `json:"status" db:"status"`
	CreatedBy string     `json:"createdBy" db:"created_by"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`

	Members []ChatMember `json:"members,omitempty" db:"members,omitempty"`
}

type CreateChat struct {
	Kind           ChatKind
	Name           *string
	ParticipantIDs []string

	loggedInUserID string
	memberIDs      []string
}

func (in *CreateChat) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in CreateChat) LoggedInUserID() string {
	return in.loggedInUserID
}

// SetMemberIDs records the deduplicated member set, creator included.
func (in *CreateChat) SetMemberIDs(userIDs []string) {
	in.memberIDs = userIDs
}

func (in CreateChat) MemberIDs() []string {
	return in.memberIDs
}

func (in *CreateChat) Validate() error {
	v := validator.New()

	if !in.Kind.Valid() {
		v.AddError("Kind", "Kind must be either DUAL or GROUP")
	}

	if len(in.ParticipantIDs) == 0 {
		v.AddError("ParticipantIDs", "At least one participant is required")
	}
	for _, userID := range in.ParticipantIDs {
		if !id.Valid(userID) {
			v.AddError("ParticipantIDs", "Participant ID is invalid")
			break
		}
	}

	if in.Name != nil {
		*in.Name = strings.TrimSpace(*in.Name)
		if in.Kind == ChatKindDual {
			v.AddError("Name", "Only group chats can be named")
		}
		if *in.Name == "" {
			v.AddError("Name", "Name cannot be empty")
		}
		if utf8.RuneCountInString(*in.Name) > 72 {
			v.AddError("Name", "Name must be at most 72 characters")
		}
	}

	return v.AsError()
}

type RetrieveChat struct {
	ChatID string

	loggedInUserID string
}

func (in *RetrieveChat) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in RetrieveChat) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *RetrieveChat) Validate() error {
	v := validator.New()

	if in.ChatID == "" {
		v.AddError("ChatID", "Chat ID is required")
	}
	if !id.Valid(in.ChatID) {
		v.AddError("ChatID", "Chat ID is invalid")
	}

	return v.AsError()
}

type ListChats struct {
	PageArgs PageArgs

	loggedInUserID string
}

func (in *ListChats) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ListChats) LoggedInUserID() string {
	return in.loggedInUserID
}

type UpdateChatMembers struct {
	ChatID        string
	AddUserIDs    []string
	RemoveUserIDs []string

	loggedInUserID string
}

func (in *UpdateChatMembers) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in UpdateChatMembers) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *UpdateChatMembers) Validate() error {
	v := validator.New()

	if in.ChatID == "" {
		v.AddError("ChatID", "Chat ID is required")
	}
	if !id.Valid(in.ChatID) {
		v.AddError("ChatID", "Chat ID is invalid")
	}

	if len(in.AddUserIDs) == 0 && len(in.RemoveUserIDs) == 0 {
		v.AddError("AddUserIDs", "Nothing to add or remove")
	}

	for _, userID := range append(slices.Clone(in.AddUserIDs), in.RemoveUserIDs...) {
		if !id.Valid(userID) {
			v.AddError("AddUserIDs", "User ID is invalid")
			break
		}
	}

	for _, userID := range in.AddUserIDs {
		if slices.Contains(in.RemoveUserIDs, userID) {
			v.AddError("AddUserIDs", "Cannot both add and remove the same user")
			break
		}
	}

	return v.AsError()
}
