package pubsub

import (
	"testing"
)

func TestMemory_pubReachesAllSubscribers(t *testing.T) {
	ps := NewMemory()

	var got1, got2 []byte
	unsub1, err := ps.Sub("chat.1", func(data []byte) { got1 = data })
	if err != nil {
		t.Fatalf("Sub() error: %v", err)
	}
	defer unsub1()

	unsub2, err := ps.Sub("chat.1", func(data []byte) { got2 = data })
	if err != nil {
		t.Fatalf("Sub() error: %v", err)
	}
	defer unsub2()

	if err := ps.Pub("chat.1", []byte("hello")); err != nil {
		t.Fatalf("Pub() error: %v", err)
	}

	if string(got1) != "hello" || string(got2) != "hello" {
		t.Errorf("subscribers got %q and %q, want both %q", got1, got2, "hello")
	}
}

func TestMemory_topicsAreIsolated(t *testing.T) {
	ps := NewMemory()

	var called bool
	unsub, err := ps.Sub("chat.1", func([]byte) { called = true })
	if err != nil {
		t.Fatalf("Sub() error: %v", err)
	}
	defer unsub()

	if err := ps.Pub("chat.2", []byte("x")); err != nil {
		t.Fatalf("Pub() error: %v", err)
	}

	if called {
		t.Error("subscriber of chat.1 received an event published to chat.2")
	}
}

func TestMemory_unsubStopsDelivery(t *testing.T) {
	ps := NewMemory()

	var calls int
	unsub, err := ps.Sub("chat.1", func([]byte) { calls++ })
	if err != nil {
		t.Fatalf("Sub() error: %v", err)
	}

	if err := ps.Pub("chat.1", nil); err != nil {
		t.Fatalf("Pub() error: %v", err)
	}

	if err := unsub(); err != nil {
		t.Fatalf("unsub() error: %v", err)
	}

	if err := ps.Pub("chat.1", nil); err != nil {
		t.Fatalf("Pub() error: %v", err)
	}

	if calls != 1 {
		t.Errorf("subscriber called %d times, want 1", calls)
	}
}
