// Package txstore tracks the single outstanding transaction per window:
// the transaction id most recently sent to an app worker and the target
// frame it was sent for. Frame-reconciliation events that arrive for a
// stale transaction id are folded away instead of reapplied.
package txstore

import (
	"sync"

	"github.com/ryanthedev/reactor/internal/types"
)

// Entry is the outstanding transaction for one window.
type Entry struct {
	TxId   types.TransactionId
	Target types.Rect
}

// Store is a concurrency-safe map from window to its outstanding
// transaction, grounded in the same sync.RWMutex-guarded map pattern the
// rest of this project's runtime state uses.
type Store struct {
	mu      sync.RWMutex
	entries map[types.WindowId]Entry
	nextTx  types.TransactionId
}

// New returns an empty Store.
func New() *Store {
	return &Store{entries: make(map[types.WindowId]Entry)}
}

// Begin allocates the next transaction id for window, records it as the
// outstanding transaction with the given target frame, and returns it.
func (s *Store) Begin(window types.WindowId, target types.Rect) types.TransactionId {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTx = s.nextTx.Next()
	s.entries[window] = Entry{TxId: s.nextTx, Target: target}
	return s.nextTx
}

// BeginBatch allocates a single transaction id shared by every window in
// targets, recording each one's outstanding entry against that shared
// id. A layout pass that moves several windows belonging to the same
// app in one go uses this so the app worker can correlate every frame
// in the batch against one pass instead of issuing one id per window.
func (s *Store) BeginBatch(targets map[types.WindowId]types.Rect) types.TransactionId {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTx = s.nextTx.Next()
	for window, target := range targets {
		s.entries[window] = Entry{TxId: s.nextTx, Target: target}
	}
	return s.nextTx
}

// Outstanding returns the current outstanding transaction for window, if
// any.
func (s *Store) Outstanding(window types.WindowId) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[window]
	return e, ok
}

// IsCurrent reports whether txid is the transaction most recently begun
// for window. A frame-reconciliation event carrying any other id (older,
// or for a window with no outstanding transaction) is stale and must be
// folded away rather than applied.
func (s *Store) IsCurrent(window types.WindowId, txid types.TransactionId) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[window]
	return ok && e.TxId == txid
}

// Complete clears the outstanding transaction for window once its
// reconciliation has been observed, so a later duplicate of the same
// event cannot be mistaken for a fresh completion.
func (s *Store) Complete(window types.WindowId, txid types.TransactionId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[window]; ok && e.TxId == txid {
		delete(s.entries, window)
	}
}

// Forget drops any outstanding transaction for window, used when the
// window is destroyed or moved out of management entirely.
func (s *Store) Forget(window types.WindowId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, window)
}

// Len returns the number of windows with an outstanding transaction.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
