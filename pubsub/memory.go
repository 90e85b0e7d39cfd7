package pubsub

import "sync"

// Memory is an in-process PubSub for tests and single-node setups.
type Memory struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func(data []byte)
}

func NewMemory() *Memory {
	return &Memory{
		subs: map[string]map[int]func(data []byte){},
	}
}

func (m *Memory) Pub(topic string, data []byte) error {
	m.mu.RLock()
	cbs := make([]func([]byte), 0, len(m.subs[topic]))
	for _, cb := range m.subs[topic] {
		cbs = append(cbs, cb)
	}
	m.mu.RUnlock()

	for _, cb := range cbs {
		cb(data)
	}
	return nil
}

func (m *Memory) Sub(topic string, cb func(data []byte)) (func() error, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subs[topic] == nil {
		m.subs[topic] = map[int]func(data []byte){}
	}

	id := m.nextID
	m.nextID++
	m.subs[topic][id] = cb

	return func() error {
		m.mu.Lock()
		defer m.mu.Unlock()

		delete(m.subs[topic], id)
		if len(m.subs[topic]) == 0 {
			delete(m.subs, topic)
		}
		return nil
	}, nil
}
