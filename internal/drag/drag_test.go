package drag

import (
	"testing"

	"github.com/ryanthedev/reactor/internal/types"
)

func TestMoveDetectsSwapAboveThreshold(t *testing.T) {
	m := New(0.3)
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}

	m.Start(a, types.Rect{X: 0, Y: 0, Width: 960, Height: 1200})
	moved := types.Rect{X: 500, Y: 0, Width: 960, Height: 1200}

	target := m.Move(moved, []Candidate{{Window: b, Frame: types.Rect{X: 960, Y: 0, Width: 960, Height: 1200}}})
	if target == nil || *target != b {
		t.Fatalf("Move() = %v, want %v", target, b)
	}
}

func TestMoveIgnoresBelowThreshold(t *testing.T) {
	m := New(0.5)
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}

	m.Start(a, types.Rect{X: 0, Y: 0, Width: 960, Height: 1200})
	moved := types.Rect{X: 400, Y: 0, Width: 960, Height: 1200}

	target := m.Move(moved, []Candidate{{Window: b, Frame: types.Rect{X: 960, Y: 0, Width: 960, Height: 1200}}})
	if target != nil {
		t.Fatalf("Move() = %v, want nil below threshold", target)
	}
}

func TestMoveExcludesDraggedWindowFromCandidates(t *testing.T) {
	m := New(0.1)
	a := types.WindowId{App: 1, Index: 0}
	m.Start(a, types.Rect{X: 0, Y: 0, Width: 100, Height: 100})

	target := m.Move(types.Rect{X: 0, Y: 0, Width: 100, Height: 100}, []Candidate{{Window: a, Frame: types.Rect{X: 0, Y: 0, Width: 100, Height: 100}}})
	if target != nil {
		t.Fatalf("Move() = %v, want nil (dragged window cannot be its own swap target)", target)
	}
}

func TestEndReturnsLastTargetAndResets(t *testing.T) {
	m := New(0.3)
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}
	m.Start(a, types.Rect{X: 0, Y: 0, Width: 960, Height: 1200})
	m.Move(types.Rect{X: 500, Y: 0, Width: 960, Height: 1200}, []Candidate{{Window: b, Frame: types.Rect{X: 960, Y: 0, Width: 960, Height: 1200}}})

	target := m.End()
	if target == nil || *target != b {
		t.Fatalf("End() = %v, want %v", target, b)
	}
	if m.Dragging() {
		t.Error("expected drag session to end")
	}
}
