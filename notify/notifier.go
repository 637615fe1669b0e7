// Package notify broadcasts message-updated events to observers.
package notify

import (
	"sync"
)

// Handler receives one message-updated event.
type Handler func(messageID, content string)

// Notifier is a per-session publish/subscribe channel. Delivery is
// best-effort and not replayed: a subscriber that joins after an emit
// reads the already-patched store state instead.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]Handler // sessionID -> subscription id -> handler
}

// New creates a notifier.
func New() *Notifier {
	return &Notifier{
		subs: make(map[string]map[int]Handler),
	}
}

// Subscribe registers a handler for one session's updates and returns the
// unsubscribe function.
func (n *Notifier) Subscribe(sessionID string, h Handler) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	if n.subs[sessionID] == nil {
		n.subs[sessionID] = make(map[int]Handler)
	}
	n.subs[sessionID][id] = h

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if handlers, ok := n.subs[sessionID]; ok {
			delete(handlers, id)
			if len(handlers) == 0 {
				delete(n.subs, sessionID)
			}
		}
	}
}

// Emit delivers the event to every current subscriber of the session.
// Handlers run synchronously on the caller's goroutine, outside the
// notifier lock so they may subscribe or unsubscribe freely.
func (n *Notifier) Emit(sessionID, messageID, content string) {
	n.mu.Lock()
	handlers := make([]Handler, 0, len(n.subs[sessionID]))
	for _, h := range n.subs[sessionID] {
		handlers = append(handlers, h)
	}
	n.mu.Unlock()

	for _, h := range handlers {
		h(messageID, content)
	}
}
