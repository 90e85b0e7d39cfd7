package pubsub

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

type Nats struct {
	conn *nats.Conn
}

func NewNats(conn *nats.Conn) *Nats {
	return &Nats{conn: conn}
}

func (n *Nats) Pub(topic string, data []byte) error {
	if err := n.conn.Publish(topic, data); err != nil {
		return fmt.Errorf("nats publish %q: %w", topic, err)
	}
	return nil
}

func (n *Nats) Sub(topic string, cb func(data []byte)) (func() error, error) {
	sub, err := n.conn.Subscribe(topic, func(msg *nats.Msg) {
		cb(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("nats subscribe %q: %w", topic, err)
	}

	return func() error {
		if err := sub.Unsubscribe(); err != nil {
			return fmt.Errorf("nats unsubscribe %q: %w", topic, err)
		}
		return nil
	}, nil
}
