// Package event is the in-process bus for cross-component side effects.
// Handlers run synchronously, in registration order, so follow-up writes
// (like chat activation after a friendship acceptance) happen before the
// operation returns to the caller.
package event

import (
	"context"
	"sync"
)

type FriendshipAccepted struct {
	RequestID  string
	FromUserID string
	ToUserID   string
}

type Handler[T any] func(ctx context.Context, ev T) error

type Bus struct {
	mu                 sync.RWMutex
	friendshipAccepted []Handler[FriendshipAccepted]
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) OnFriendshipAccepted(h Handler[FriendshipAccepted]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.friendshipAccepted = append(b.friendshipAccepted, h)
}

// PublishFriendshipAccepted runs registered handlers in order and stops
// on the first error.
func (b *Bus) PublishFriendshipAccepted(ctx context.Context, ev FriendshipAccepted) error {
	b.mu.RLock()
	handlers := b.friendshipAccepted
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
