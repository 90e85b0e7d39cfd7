// Package presence tracks best-effort online/offline liveness.
// It is advisory only: nothing here survives a restart and nothing
// in message delivery depends on it.
package presence

import (
	"sync"

	"github.com/chatlinehq/chatline/types"
)

type Tracker struct {
	mu       sync.RWMutex
	statuses map[string]types.PresenceStatus
	streams  map[string]int
}

func NewTracker() *Tracker {
	return &Tracker{
		statuses: map[string]types.PresenceStatus{},
		streams:  map[string]int{},
	}
}

// SetStatus records the last reported status for a user. Last write wins.
func (t *Tracker) SetStatus(userID string, status types.PresenceStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if status == types.PresenceStatusOffline {
		// Map stays small: offline is the default for unknown users anyway.
		delete(t.statuses, userID)
		return
	}

	t.statuses[userID] = status
}

// StreamOpened marks the user online for the lifetime of an event
// stream. Streams are refcounted so closing one of several does not
// flip a user with another stream still open to offline.
func (t *Tracker) StreamOpened(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.streams[userID]++
	t.statuses[userID] = types.PresenceStatusOnline
}

// StreamClosed marks the user offline once their last stream closes.
func (t *Tracker) StreamClosed(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.streams[userID] > 1 {
		t.streams[userID]--
		return
	}

	delete(t.streams, userID)
	delete(t.statuses, userID)
}

// Status returns OFFLINE for users never seen.
func (t *Tracker) Status(userID string) types.PresenceStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if s, ok := t.statuses[userID]; ok {
		return s
	}
	return types.PresenceStatusOffline
}

func (t *Tracker) Statuses(userIDs []string) []types.UserPresence {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]types.UserPresence, len(userIDs))
	for i, userID := range userIDs {
		status, ok := t.statuses[userID]
		if !ok {
			status = types.PresenceStatusOffline
		}
		out[i] = types.UserPresence{UserID: userID, Status: status}
	}
	return out
}
