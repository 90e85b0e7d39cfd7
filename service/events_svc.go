package service

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/chatlinehq/chatline/types"
)

func chatTopic(chatID string) string { return "chat_" + chatID }

// ChatStream delivers the chat's events in realtime. Only members may
// subscribe. The stream closes when ctx is done.
func (svc *Service) ChatStream(ctx context.Context, in types.RetrieveChat) (<-chan types.ChatEvent, error) {
	if _, err := svc.Chat(ctx, in); err != nil {
		return nil, err
	}

	// Decoding and sending inline keeps events in the order the broker
	// delivered them.
	cc := make(chan types.ChatEvent)
	unsub, err := svc.PubSub.Sub(chatTopic(in.ChatID), func(data []byte) {
		var ev types.ChatEvent
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&ev); err != nil {
			svc.Logger.Error("gob decode chat event", "err", err)
			return
		}

		select {
		case cc <- ev:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to chat events: %w", err)
	}

	streamSubscribers.Inc()

	// The channel is never closed: a delivery already in flight may
	// still be racing a send against ctx.Done, and receivers stop on
	// ctx anyway.
	go func() {
		<-ctx.Done()
		if err := unsub(); err != nil {
			svc.Logger.Error("unsubscribe from chat events", "err", err)
		}
		streamSubscribers.Dec()
	}()

	return cc, nil
}

// broadcastChatEvent publishes in the background so request latency
// does not ride on the broker.
func (svc *Service) broadcastChatEvent(chatID string, ev types.ChatEvent) {
	svc.background(func(ctx context.Context) error {
		var b bytes.Buffer
		if err := gob.NewEncoder(&b).Encode(ev); err != nil {
			return fmt.Errorf("gob encode chat event: %w", err)
		}

		if err := svc.PubSub.Pub(chatTopic(chatID), b.Bytes()); err != nil {
			return fmt.Errorf("publish chat event: %w", err)
		}

		eventsPublished.WithLabelValues(string(ev.Type)).Inc()

		return nil
	})
}
