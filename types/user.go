package types

import (
	"regexp"
	"strings"
	"time"

	"github.com/chatlinehq/chatline/validator"
)

var reUsername = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{0,17}$`)

type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	AvatarURL *string   `json:"avatarURL" db:"avatar"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type Login struct {
	Username string
}

func (in *Login) Validate() error {
	v := validator.New()

	in.Username = strings.TrimSpace(in.Username)

	if in.Username == "" {
		v.AddError("Username", "Username is required")
	} else if !reUsername.MatchString(in.Username) {
		v.AddError("Username", "Username is invalid")
	}

	return v.AsError()
}

type LoginOutput struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
