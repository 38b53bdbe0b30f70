package auth

import (
	"sync"

	"github.com/tradebench/backend/internal/models"
)

type Event string

const (
	EventSignedIn       Event = "signed_in"
	EventSignedOut      Event = "signed_out"
	EventTokenRefreshed Event = "token_refreshed"
)

// Callback receives auth state changes. user is nil for signed_out.
type Callback func(event Event, user *models.Profile)

type notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]Callback
}

// subscribe registers cb and returns its unsubscribe func. Unsubscribing
// twice is harmless.
func (n *notifier) subscribe(cb Callback) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = map[int]Callback{}
	}
	id := n.next
	n.next++
	n.subs[id] = cb
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

func (n *notifier) fire(event Event, user *models.Profile) {
	n.mu.Lock()
	callbacks := make([]Callback, 0, len(n.subs))
	for _, cb := range n.subs {
		callbacks = append(callbacks, cb)
	}
	n.mu.Unlock()

	// Called outside the lock so a callback may subscribe or unsubscribe.
	for _, cb := range callbacks {
		cb(event, user)
	}
}
