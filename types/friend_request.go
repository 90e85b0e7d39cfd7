package types

import (
	"time"

	"github.com/chatlinehq/chatline/id"
	"github.com/chatlinehq/chatline/validator"
)

type FriendRequestStatus string

const (
	FriendRequestStatusPending  FriendRequestStatus = "PENDING"
	FriendRequestStatusAccepted FriendRequestStatus = "ACCEPTED"
	FriendRequestStatusRejected FriendRequestStatus = "REJECTED"
)

func (s FriendRequestStatus) Valid() bool {
	switch s {
	case FriendRequestStatusPending, FriendRequestStatusAccepted, FriendRequestStatusRejected:
		return true
	}
	return false
}

func (s FriendRequestStatus) String() string {
	return string(s)
}

type FriendRequest struct {
	ID         string              `json:"id" db:"id"`
	FromUserID string              `json:"fromUserID" db:"from_user_id"`
	ToUserID   string              `json:"toUserID" db:"to_user_id"`
	Status     FriendRequestStatus `json:"status" db:"status"`
	CreatedAt  time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time           `json:"updatedAt" db:"updated_at"`

	FromUser *User `json:"fromUser,omitempty" db:"from_user,omitempty"`
	ToUser   *User `json:"toUser,omitempty" db:"to_user,omitempty"`
}

type CreateFriendRequest struct {
	ToUserID string

	loggedInUserID string
}

func (in *CreateFriendRequest) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in CreateFriendRequest) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *CreateFriendRequest) Validate() error {
	v := validator.New()

	if in.ToUserID == "" {
		v.AddError("ToUserID", "To user ID is required")
	}
	if !id.Valid(in.ToUserID) {
		v.AddError("ToUserID", "To user ID is invalid")
	}

	return v.AsError()
}

type ResolveFriendRequest struct {
	RequestID string
	Status    FriendRequestStatus

	loggedInUserID string
}

func (in *ResolveFriendRequest) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ResolveFriendRequest) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *ResolveFriendRequest) Validate() error {
	v := validator.New()

	if in.RequestID == "" {
		v.AddError("RequestID", "Request ID is required")
	}
	if !id.Valid(in.RequestID) {
		v.AddError("RequestID", "Request ID is invalid")
	}

	if !in.Status.Valid() || in.Status == FriendRequestStatusPending {
		v.AddError("Status", "Status must be either ACCEPTED or REJECTED")
	}

	return v.AsError()
}

type ListFriendRequests struct {
	Status   *FriendRequestStatus
	PageArgs PageArgs

	loggedInUserID string
}

func (in *ListFriendRequests) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ListFriendRequests) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *ListFriendRequests) Validate() error {
	v := validator.New()

	if in.Status != nil && !in.Status.Valid() {
		v.AddError("Status", "Status is invalid")
	}

	return v.AsError()
}

type ListFriends struct {
	PageArgs PageArgs

	loggedInUserID string
}

func (in *ListFriends) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ListFriends) LoggedInUserID() string {
	return in.loggedInUserID
}
