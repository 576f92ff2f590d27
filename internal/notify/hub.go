package notify

import (
	"sync"
	"time"
)

type connEntry struct {
	userID       string
	registeredAt time.Time
}

// Hub owns the socket→user association table for the real-time channel. It
// is the only writer of its own state; nothing in the auth path reads it,
// so a stale or missing entry can never grant or deny access.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]connEntry
	now   func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]connEntry),
		now:   time.Now,
	}
}

func (h *Hub) Register(connID, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[connID] = connEntry{userID: userID, registeredAt: h.now()}
}

func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, connID)
}

// UserConnections returns the connection ids currently associated with a
// user.
func (h *Hub) UserConnections(userID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var ids []string
	for connID, entry := range h.conns {
		if entry.userID == userID {
			ids = append(ids, connID)
		}
	}
	return ids
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Sweep drops entries registered longer ago than maxAge and returns how
// many were removed. Connections that outlive this window re-register.
func (h *Hub) Sweep(maxAge time.Duration) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := h.now().Add(-maxAge)
	removed := 0
	for connID, entry := range h.conns {
		if entry.registeredAt.Before(cutoff) {
			delete(h.conns, connID)
			removed++
		}
	}
	return removed
}
