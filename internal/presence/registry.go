// Package presence tracks which users currently hold a live real-time
// connection. The registry is purely in-memory; it rebuilds from zero on
// process restart.
package presence

import (
	"sort"
	"sync"
)

// Registry is a concurrency-safe set of connected user identifiers. It is
// constructed explicitly and injected into both the connection handlers that
// mutate it and the query handlers that read it.
//
// Presence is a set, not a count: a user holding two simultaneous connections
// collapses to one entry, and the first disconnect-equivalent event removes
// it. Last disconnect wins.
type Registry struct {
	mu     sync.RWMutex
	online map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{online: make(map[string]struct{})}
}

// Connect marks the user as online.
func (r *Registry) Connect(userID string) {
	if userID == "" {
		return
	}
	r.mu.Lock()
	r.online[userID] = struct{}{}
	r.mu.Unlock()
}

// Disconnect marks the user as offline. Disconnecting an unknown user is a
// no-op so connection teardown stays idempotent.
func (r *Registry) Disconnect(userID string) {
	r.mu.Lock()
	delete(r.online, userID)
	r.mu.Unlock()
}

// IsOnline reports whether the user currently holds a live connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.online[userID]
	return ok
}

// Online returns a sorted snapshot of connected user identifiers. The copy
// keeps callers from iterating the live set while connections churn.
func (r *Registry) Online() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.online))
	for id := range r.online {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}
