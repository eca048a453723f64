package txstore

import (
	"testing"

	"github.com/ryanthedev/reactor/internal/types"
)

func TestBeginAllocatesIncreasingIds(t *testing.T) {
	s := New()
	w := types.WindowId{App: 1, Index: 0}

	first := s.Begin(w, types.Rect{Width: 100, Height: 100})
	second := s.Begin(w, types.Rect{Width: 200, Height: 200})

	if second != first.Next() {
		t.Errorf("second tx = %v, want %v", second, first.Next())
	}
}

func TestIsCurrent(t *testing.T) {
	s := New()
	w := types.WindowId{App: 1, Index: 0}

	txid := s.Begin(w, types.Rect{Width: 100, Height: 100})
	if !s.IsCurrent(w, txid) {
		t.Error("expected freshly begun transaction to be current")
	}

	stale := txid
	next := s.Begin(w, types.Rect{Width: 200, Height: 200})
	if s.IsCurrent(w, stale) {
		t.Error("expected superseded transaction to no longer be current")
	}
	if !s.IsCurrent(w, next) {
		t.Error("expected latest transaction to be current")
	}
}

func TestIsCurrentUnknownWindow(t *testing.T) {
	s := New()
	if s.IsCurrent(types.WindowId{App: 9, Index: 0}, types.TransactionId(1)) {
		t.Error("expected unknown window to never be current")
	}
}

func TestComplete(t *testing.T) {
	s := New()
	w := types.WindowId{App: 1, Index: 0}
	txid := s.Begin(w, types.Rect{Width: 100, Height: 100})

	s.Complete(w, txid)
	if s.IsCurrent(w, txid) {
		t.Error("expected completed transaction to no longer be current")
	}
	if _, ok := s.Outstanding(w); ok {
		t.Error("expected no outstanding transaction after Complete")
	}
}

func TestCompleteIgnoresStaleId(t *testing.T) {
	s := New()
	w := types.WindowId{App: 1, Index: 0}
	stale := s.Begin(w, types.Rect{Width: 100, Height: 100})
	current := s.Begin(w, types.Rect{Width: 200, Height: 200})

	s.Complete(w, stale)
	if !s.IsCurrent(w, current) {
		t.Error("Complete with a stale id must not clear the current transaction")
	}
}

func TestBeginBatchSharesOneIdAcrossWindows(t *testing.T) {
	s := New()
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}

	txid := s.BeginBatch(map[types.WindowId]types.Rect{
		a: {Width: 100, Height: 100},
		b: {Width: 200, Height: 200},
	})

	if !s.IsCurrent(a, txid) || !s.IsCurrent(b, txid) {
		t.Fatal("expected both windows to share the batch transaction id")
	}
	entryA, _ := s.Outstanding(a)
	entryB, _ := s.Outstanding(b)
	if entryA.Target.Width != 100 || entryB.Target.Width != 200 {
		t.Errorf("expected distinct per-window targets, got %+v and %+v", entryA, entryB)
	}
}

func TestForget(t *testing.T) {
	s := New()
	w := types.WindowId{App: 1, Index: 0}
	s.Begin(w, types.Rect{})

	s.Forget(w)
	if _, ok := s.Outstanding(w); ok {
		t.Error("expected Forget to clear the outstanding transaction")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}
