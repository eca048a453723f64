package raise

import (
	"testing"

	"github.com/ryanthedev/reactor/internal/types"
)

func TestSubmitRaisesEveryWindow(t *testing.T) {
	var raised []types.WindowId
	m := New(func(app types.AppId, window types.WindowId, sequenceId string) {
		raised = append(raised, window)
	})

	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}
	m.Submit(Request{RaiseWindows: map[types.AppId][]types.WindowId{1: {a, b}}})

	if len(raised) != 2 {
		t.Fatalf("expected 2 raises, got %d", len(raised))
	}
}

func TestCompleteCommitsFocusOnceAllPendingDone(t *testing.T) {
	m := New(func(types.AppId, types.WindowId, string) {})
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}

	seq := m.Submit(Request{
		RaiseWindows: map[types.AppId][]types.WindowId{1: {a, b}},
		FocusWindow:  &b,
	})

	if _, ok := m.Complete(seq, a); ok {
		t.Fatal("expected no focus commit before all windows complete")
	}
	focus, ok := m.Complete(seq, b)
	if !ok || focus != b {
		t.Fatalf("Complete() = %v, %v, want focus commit on %v", focus, ok, b)
	}
}

func TestCompleteAtMostOneFocusCommit(t *testing.T) {
	m := New(func(types.AppId, types.WindowId, string) {})
	a := types.WindowId{App: 1, Index: 0}
	seq := m.Submit(Request{RaiseWindows: map[types.AppId][]types.WindowId{1: {a}}, FocusWindow: &a})

	_, first := m.Complete(seq, a)
	if !first {
		t.Fatal("expected first completion to commit focus")
	}
	_, second := m.Complete(seq, a)
	if second {
		t.Fatal("expected at most one focus commit per request")
	}
}

func TestCompleteDropsStaleSequenceId(t *testing.T) {
	m := New(func(types.AppId, types.WindowId, string) {})
	a := types.WindowId{App: 1, Index: 0}
	staleSeq := m.Submit(Request{RaiseWindows: map[types.AppId][]types.WindowId{1: {a}}, FocusWindow: &a})

	m.Submit(Request{RaiseWindows: map[types.AppId][]types.WindowId{1: {a}}, FocusWindow: &a})

	if _, ok := m.Complete(staleSeq, a); ok {
		t.Error("expected completion for superseded sequence id to be dropped")
	}
}

func TestTimeoutAbandonsSequence(t *testing.T) {
	m := New(func(types.AppId, types.WindowId, string) {})
	seq := m.Submit(Request{RaiseWindows: map[types.AppId][]types.WindowId{}})
	if !m.InFlight() {
		t.Fatal("expected sequence to be in flight")
	}
	m.Timeout(seq)
	if m.InFlight() {
		t.Error("expected timeout to clear in-flight sequence")
	}
}
