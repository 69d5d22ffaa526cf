// Package realtime fans a payload-less "new entry" signal out to connected
// dashboard sessions. Delivery is best-effort, at-most-once: publishing never
// blocks and no subscriber means nothing to do.
package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Hub is the registry of connected client sessions.
type Hub struct {
	mu      sync.Mutex
	clients map[string]chan struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]chan struct{})}
}

// Register adds a session and returns its id and signal channel. The channel
// has capacity one: a client that has not consumed the previous signal will
// refresh anyway, so further signals are coalesced.
func (h *Hub) Register() (string, <-chan struct{}) {
	id := uuid.NewString()
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.clients[id] = ch
	h.mu.Unlock()

	return id, ch
}

// Unregister removes a session. Unknown ids are ignored.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
}

// Broadcast signals every connected session without blocking.
func (h *Hub) Broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of connected sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
