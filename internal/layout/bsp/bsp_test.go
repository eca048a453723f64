package bsp

import (
	"testing"

	"github.com/ryanthedev/reactor/internal/layoutengine"
	"github.com/ryanthedev/reactor/internal/types"
)

func placementsByWindow(ps []layoutengine.Placement) map[types.WindowId]types.Rect {
	out := make(map[types.WindowId]types.Rect, len(ps))
	for _, p := range ps {
		out[p.Window] = p.Rect
	}
	return out
}

func TestAddWindowSplitsLongestAxis(t *testing.T) {
	s := New(0.1, 0.05, 0)
	id := s.CreateLayout(types.Rect{Width: 2000, Height: 1000})
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}

	s.AddWindow(id, a)
	s.AddWindow(id, b)

	placements := placementsByWindow(s.CalculateLayout(id))
	if len(placements) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(placements))
	}
	// A 2000x1000 rect is widest along X, so the split should be
	// side-by-side: both placements keep the full height.
	if placements[a].Height != 1000 || placements[b].Height != 1000 {
		t.Errorf("expected full-height placements for horizontal split, got %+v / %+v", placements[a], placements[b])
	}
}

func TestRemoveWindowPromotesSibling(t *testing.T) {
	s := New(0.1, 0.05, 0)
	id := s.CreateLayout(types.Rect{Width: 1000, Height: 1000})
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}
	s.AddWindow(id, a)
	s.AddWindow(id, b)

	if err := s.RemoveWindow(id, b); err != nil {
		t.Fatalf("RemoveWindow: %v", err)
	}

	placements := s.CalculateLayout(id)
	if len(placements) != 1 || placements[0].Window != a {
		t.Fatalf("CalculateLayout after removal = %+v, want single placement for %v", placements, a)
	}
	if placements[0].Rect.Width != 1000 {
		t.Errorf("promoted sibling rect = %+v, want full bounds", placements[0].Rect)
	}
}

func TestSwapExchangesWindows(t *testing.T) {
	s := New(0.1, 0.05, 0)
	id := s.CreateLayout(types.Rect{Width: 1000, Height: 1000})
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}
	s.AddWindow(id, a)
	s.AddWindow(id, b)

	before := placementsByWindow(s.CalculateLayout(id))
	if err := s.Swap(id, a, b); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	after := placementsByWindow(s.CalculateLayout(id))

	if after[a] != before[b] || after[b] != before[a] {
		t.Errorf("expected rects exchanged, before=%+v after=%+v", before, after)
	}
}

func TestResizeClampsToMinimumShare(t *testing.T) {
	s := New(0.1, 0.4, 0)
	id := s.CreateLayout(types.Rect{Width: 1000, Height: 1000})
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}
	s.AddWindow(id, a)
	s.AddWindow(id, b)

	for i := 0; i < 5; i++ {
		s.Resize(id, b, true)
	}

	placements := placementsByWindow(s.CalculateLayout(id))
	minWidth := 1000 * 0.1
	if placements[a].Width < minWidth-1e-6 {
		t.Errorf("a width = %v, want >= %v", placements[a].Width, minWidth)
	}
}

func TestToggleFullscreenRestoresPriorRect(t *testing.T) {
	s := New(0.1, 0.05, 0)
	id := s.CreateLayout(types.Rect{Width: 2000, Height: 1000})
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}
	s.AddWindow(id, a)
	s.AddWindow(id, b)

	// b is the selected leaf (last one added) and the fullscreen target.
	before := placementsByWindow(s.CalculateLayout(id))[b]

	if _, err := s.ToggleFullscreen(id); err != nil {
		t.Fatalf("ToggleFullscreen: %v", err)
	}
	fullscreen := placementsByWindow(s.CalculateLayout(id))[b]
	if fullscreen.Width != 2000 || fullscreen.Height != 1000 {
		t.Fatalf("fullscreen rect = %+v, want full bounds", fullscreen)
	}

	if _, err := s.ToggleFullscreen(id); err != nil {
		t.Fatalf("ToggleFullscreen off: %v", err)
	}
	restored := placementsByWindow(s.CalculateLayout(id))[b]
	if restored != before {
		t.Errorf("restored rect = %+v, want %+v", restored, before)
	}
}

func TestToggleTileOrientationFlipsAxis(t *testing.T) {
	s := New(0.1, 0.05, 0)
	id := s.CreateLayout(types.Rect{Width: 2000, Height: 1000})
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}
	s.AddWindow(id, a)
	s.AddWindow(id, b)

	before := placementsByWindow(s.CalculateLayout(id))
	if before[a].Width == 2000 || before[a].Height != 1000 {
		t.Fatalf("expected initial horizontal split, got %+v", before[a])
	}

	if err := s.ToggleTileOrientation(id); err != nil {
		t.Fatalf("ToggleTileOrientation: %v", err)
	}
	after := placementsByWindow(s.CalculateLayout(id))
	if after[a].Width != 2000 {
		t.Errorf("after toggling orientation a.Width = %v, want full width 2000 (vertical split)", after[a].Width)
	}
}

func TestAscendDescendAndMoveSelection(t *testing.T) {
	s := New(0.1, 0.05, 0)
	id := s.CreateLayout(types.Rect{Width: 1000, Height: 1000})
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}
	s.AddWindow(id, a)
	s.AddWindow(id, b)

	if !s.AscendSelection(id) {
		t.Fatal("AscendSelection = false, want true from a leaf under the split root")
	}
	if s.AscendSelection(id) {
		t.Error("AscendSelection from the root split should fail")
	}
	if !s.DescendSelection(id) {
		t.Fatal("DescendSelection = false, want true back to a leaf")
	}

	if !s.MoveSelection(id, types.DirRight) {
		t.Fatal("MoveSelection = false, want true swapping with the sibling split")
	}
	w, ok := s.SelectedWindow(id)
	if !ok || w != a {
		t.Errorf("SelectedWindow after MoveSelection = %v, %v, want %v unchanged", w, ok, a)
	}
}

func TestJoinStackUnjoinUnstackAreNoOps(t *testing.T) {
	s := New(0.1, 0.05, 0)
	id := s.CreateLayout(types.Rect{Width: 1000, Height: 1000})
	a := types.WindowId{App: 1, Index: 0}
	s.AddWindow(id, a)

	if windows, err := s.JoinSelection(id, types.DirLeft); err != nil || windows != nil {
		t.Errorf("JoinSelection = %v, %v, want nil, nil", windows, err)
	}
	if err := s.UnjoinSelection(id); err != nil {
		t.Errorf("UnjoinSelection = %v, want nil", err)
	}
	if windows, err := s.StackSelection(id); err != nil || windows != nil {
		t.Errorf("StackSelection = %v, %v, want nil, nil", windows, err)
	}
	if windows, err := s.UnstackSelection(id); err != nil || windows != nil {
		t.Errorf("UnstackSelection = %v, %v, want nil, nil", windows, err)
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	s := New(0.1, 0.05, 0)
	id := s.CreateLayout(types.Rect{Width: 1000, Height: 1000})
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}
	s.AddWindow(id, a)
	s.AddWindow(id, b)

	blob, err := s.Serialize(id)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	id2 := s.CreateLayout(types.Rect{Width: 1000, Height: 1000})
	if err := s.Deserialize(id2, blob); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	original := placementsByWindow(s.CalculateLayout(id))
	restored := placementsByWindow(s.CalculateLayout(id2))
	for w, rect := range original {
		if restored[w] != rect {
			t.Errorf("restored rect for %v = %+v, want %+v", w, restored[w], rect)
		}
	}
}
