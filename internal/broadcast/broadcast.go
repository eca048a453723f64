// Package broadcast defines the reactor's outbound notification types
// and a simple fan-out channel hub. The menu-bar/stack-line UI actor
// that would normally consume these is out of scope; this package and
// its event types are exercised directly by tests subscribing to a hub.
package broadcast

import (
	"sync"

	"github.com/ryanthedev/reactor/internal/types"
)

// Event is the closed set of outbound broadcast messages.
type Event struct {
	WorkspaceChanged *WorkspaceChanged
	WindowsChanged   *WindowsChanged
}

// WorkspaceChanged reports that the active workspace on a space
// changed.
type WorkspaceChanged struct {
	WorkspaceId types.VirtualWorkspaceId
	Name        string
	Space       types.SpaceId
}

// WindowsChanged reports a workspace's current window membership.
type WindowsChanged struct {
	WorkspaceId types.VirtualWorkspaceId
	Name        string
	Windows     []types.WindowId
}

// Hub fans out Events to any number of subscribers. Each subscriber
// gets its own buffered channel so one slow reader cannot block
// delivery to the others.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan Event]struct{}
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber and returns its channel plus an
// unsubscribe function.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
}

// Publish delivers event to every current subscriber, dropping it for
// any subscriber whose buffer is full rather than blocking the
// publisher.
func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
