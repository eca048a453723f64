// Package raise implements the Raise Manager: a separate cooperative
// goroutine that sequences per-app raise/focus requests, tracking
// completion and timeout so at most one focus change commits per
// request. Grounded in the teacher's internal/client request/response
// correlation (method+params out, one matching reply in, correlated by
// a generated id) generalized here from Unix-socket RPC round trips to
// in-process sequence ids tracked across asynchronous
// RaiseCompleted/RaiseTimeout events.
package raise

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ryanthedev/reactor/internal/logging"
	"github.com/ryanthedev/reactor/internal/types"
)

// Request asks the Raise Manager to raise a set of windows (grouped by
// app by the caller) and optionally commit one focus change.
type Request struct {
	RaiseWindows map[types.AppId][]types.WindowId
	FocusWindow  *types.WindowId
}

// RaiseFunc is the collaborator the manager calls to actually ask an
// app worker to raise one of its windows; returns a sequence id the
// app worker will echo back in RaiseCompleted.
type RaiseFunc func(app types.AppId, window types.WindowId, sequenceId string)

type sequence struct {
	id           string
	pending      map[types.WindowId]bool
	focusWindow  *types.WindowId
	focusApplied bool
}

// Manager sequences raise requests. Safe for the reactor goroutine to
// call Submit and for completion/timeout events (sourced from any
// goroutine) to call Complete/Timeout, guarded by a mutex the same way
// the teacher's RuntimeState guards its maps.
type Manager struct {
	mu       sync.Mutex
	current  *sequence
	raise    RaiseFunc
}

// New returns a Manager that calls raiseFn to perform each individual
// app-level raise.
func New(raiseFn RaiseFunc) *Manager {
	return &Manager{raise: raiseFn}
}

// Submit starts a new raise sequence, abandoning any prior in-flight
// sequence (its completion/timeout events, if they arrive later, will
// be dropped as stale). Returns the new sequence id.
func (m *Manager) Submit(req Request) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	seq := &sequence{id: id, pending: make(map[types.WindowId]bool), focusWindow: req.FocusWindow}
	m.current = seq

	for app, windows := range req.RaiseWindows {
		for _, w := range windows {
			seq.pending[w] = true
			m.raise(app, w, id)
		}
	}
	if len(seq.pending) == 0 && seq.focusWindow != nil {
		logging.Debug().Str("sequenceId", id).Msg("raise sequence has no windows to raise, no completion will commit its focus")
	}
	return id
}

// Complete records that window finished raising for sequenceId. If
// sequenceId is stale (superseded by a later Submit), it is dropped.
// Returns the window that should now receive focus, if this completion
// closed out the sequence's last pending window and a focus window was
// requested, and whether that focus has not already been applied.
func (m *Manager) Complete(sequenceId string, window types.WindowId) (types.WindowId, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seq := m.current
	if seq == nil || seq.id != sequenceId {
		return types.WindowId{}, false
	}
	delete(seq.pending, window)
	if len(seq.pending) > 0 {
		return types.WindowId{}, false
	}
	if seq.focusWindow == nil || seq.focusApplied {
		return types.WindowId{}, false
	}
	seq.focusApplied = true
	return *seq.focusWindow, true
}

// Timeout abandons the sequence identified by sequenceId so the
// reactor is not blocked waiting on app workers that never responded.
// A stale sequenceId (already superseded) is a no-op.
func (m *Manager) Timeout(sequenceId string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil && m.current.id == sequenceId {
		logging.Debug().Str("sequenceId", sequenceId).Msg("raise sequence timed out, abandoning")
		m.current = nil
	}
}

// InFlight reports whether a raise sequence is currently outstanding.
func (m *Manager) InFlight() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}
