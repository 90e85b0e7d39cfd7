// Package pubsub carries persisted state changes to subscribed
// connections. Delivery is best-effort, at-most-once: a client that
// misses an event re-fetches history instead.
package pubsub

type PubSub interface {
	Pub(topic string, data []byte) error
	// Sub registers cb for topic and returns an unsubscribe func.
	// cb may be invoked concurrently and must not block.
	Sub(topic string, cb func(data []byte)) (func() error, error)
}
