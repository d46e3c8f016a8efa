package state

import (
	"sync"
)

// Registry holds the active Manager per user. Activating a different
// conversation replaces the user's Manager, discarding the previous
// in-memory list; any in-flight load for the discarded instance lands on
// that instance and never touches the new one.
type Registry struct {
	mu     sync.Mutex
	window int
	active map[string]*Manager
}

// NewRegistry creates a registry with the given context window size.
func NewRegistry(window int) *Registry {
	return &Registry{
		window: window,
		active: make(map[string]*Manager),
	}
}

// Active returns the user's current Manager, creating an unbound one for
// the new-conversation state if none exists.
func (r *Registry) Active(userID string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.active[userID]; ok {
		return m
	}
	m := NewManager(userID, "", r.window)
	r.active[userID] = m
	return m
}

// Activate switches the user to the given conversation with a fresh
// Manager. An empty conversationID starts a new unbound conversation.
func (r *Registry) Activate(userID, conversationID string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := NewManager(userID, conversationID, r.window)
	r.active[userID] = m
	return m
}
