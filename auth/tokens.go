package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hako/branca"

	"github.com/chatlinehq/chatline/errs"
	"github.com/chatlinehq/chatline/id"
)

var (
	ErrInvalidToken = errs.NewInvalidArgumentError("Token", "invalid token")
	ErrExpiredToken = errs.NewUnauthenticatedError("expired token")
)

// Tokens is the identity-provider seam: it turns a caller-supplied bearer
// token back into a user ID. Token issuance lives here too so development
// setups work without an external provider.
type Tokens struct {
	codec *branca.Branca
}

func NewTokens(key string, ttl time.Duration) (*Tokens, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("token key must be exactly 32 characters long; got %d", len(key))
	}

	codec := branca.NewBranca(key)
	codec.SetTTL(uint32(ttl.Seconds()))

	return &Tokens{codec: codec}, nil
}

func (t *Tokens) Issue(userID string) (string, error) {
	token, err := t.codec.EncodeToString(userID)
	if err != nil {
		return "", fmt.Errorf("branca encode token: %w", err)
	}
	return token, nil
}

func (t *Tokens) Verify(token string) (string, error) {
	userID, err := t.codec.DecodeToString(token)
	if err != nil {
		if errors.Is(err, branca.ErrInvalidToken) || errors.Is(err, branca.ErrInvalidTokenVersion) {
			return "", ErrInvalidToken
		}

		var expired *branca.ErrExpiredToken
		if errors.As(err, &expired) {
			return "", ErrExpiredToken
		}

		// branca wraps the chacha20poly1305 open failure without a sentinel.
		if strings.HasSuffix(err.Error(), "authentication failed") {
			return "", errs.Unauthenticated
		}

		return "", fmt.Errorf("branca decode token: %w", err)
	}

	if !id.Valid(userID) {
		return "", ErrInvalidToken
	}

	return userID, nil
}
