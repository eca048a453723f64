package scroll

import (
	"testing"

	"github.com/ryanthedev/reactor/internal/types"
)

func newTestSystem() *System {
	return New(1.0, 0.5, 0, false, 0, 0)
}

func TestAddWindowSelectsNewWindow(t *testing.T) {
	s := newTestSystem()
	id := s.CreateLayout(types.Rect{Width: 3000, Height: 1000})
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}
	c := types.WindowId{App: 1, Index: 2}

	s.AddWindow(id, a)
	s.AddWindow(id, b)
	s.AddWindow(id, c)

	placements := s.CalculateLayout(id)
	if len(placements) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(placements))
	}
}

func TestScrollSnapAtThreshold(t *testing.T) {
	s := newTestSystem()
	id := s.CreateLayout(types.Rect{Width: 3000, Height: 1000})
	s.AddWindow(id, types.WindowId{App: 1, Index: 0})
	s.AddWindow(id, types.WindowId{App: 1, Index: 1})
	s.AddWindow(id, types.WindowId{App: 1, Index: 2})

	st, _ := s.get(id)
	st.selected = 0
	st.scrollOffset = 0

	s.ScrollBy(id, 0.49)
	if st.selected != 0 {
		t.Fatalf("selected = %d after sub-threshold scroll, want 0", st.selected)
	}

	s.ScrollBy(id, 0.02)
	s.Finalize(id)
	if st.selected != 1 {
		t.Fatalf("selected = %d after crossing snap threshold, want 1", st.selected)
	}
}

func TestScrollOffsetClampedToRange(t *testing.T) {
	s := newTestSystem()
	id := s.CreateLayout(types.Rect{Width: 1000, Height: 1000})
	s.AddWindow(id, types.WindowId{App: 1, Index: 0})
	s.AddWindow(id, types.WindowId{App: 1, Index: 1})

	s.ScrollBy(id, -10)
	st, _ := s.get(id)
	if st.scrollOffset != 0 {
		t.Errorf("scrollOffset = %v, want clamped to 0", st.scrollOffset)
	}

	s.ScrollBy(id, 10)
	if st.scrollOffset != 1 {
		t.Errorf("scrollOffset = %v, want clamped to 1 (|windows|-1)", st.scrollOffset)
	}
}

func TestScrollRoundTripReturnsToStart(t *testing.T) {
	s := newTestSystem()
	id := s.CreateLayout(types.Rect{Width: 3000, Height: 1000})
	s.AddWindow(id, types.WindowId{App: 1, Index: 0})
	s.AddWindow(id, types.WindowId{App: 1, Index: 1})
	s.AddWindow(id, types.WindowId{App: 1, Index: 2})

	st, _ := s.get(id)
	st.selected = 0
	st.scrollOffset = 0
	startSelected := st.selected

	s.ScrollBy(id, 1)
	s.Finalize(id)
	s.ScrollBy(id, -1)
	s.Finalize(id)

	if st.selected != startSelected {
		t.Errorf("selected = %d after round trip, want %d", st.selected, startSelected)
	}
}

func TestRemoveWindowClampsSelection(t *testing.T) {
	s := newTestSystem()
	id := s.CreateLayout(types.Rect{Width: 1000, Height: 1000})
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}
	s.AddWindow(id, a)
	s.AddWindow(id, b)

	if err := s.RemoveWindow(id, b); err != nil {
		t.Fatalf("RemoveWindow: %v", err)
	}
	st, _ := s.get(id)
	if st.selected != 0 {
		t.Errorf("selected = %d after removing last window, want 0", st.selected)
	}
}

func TestResizeClampsToMinWidthUnits(t *testing.T) {
	s := newTestSystem()
	id := s.CreateLayout(types.Rect{Width: 1000, Height: 1000})
	w := types.WindowId{App: 1, Index: 0}
	s.AddWindow(id, w)

	for i := 0; i < 50; i++ {
		s.Resize(id, w, false)
	}
	st, _ := s.get(id)
	if st.widths[0] < MinWidthUnits-1e-9 {
		t.Errorf("width = %v, want >= %v", st.widths[0], MinWidthUnits)
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	s := newTestSystem()
	id := s.CreateLayout(types.Rect{Width: 1000, Height: 1000})
	s.AddWindow(id, types.WindowId{App: 1, Index: 0})
	s.AddWindow(id, types.WindowId{App: 1, Index: 1})

	blob, err := s.Serialize(id)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	id2 := s.CreateLayout(types.Rect{Width: 1000, Height: 1000})
	if err := s.Deserialize(id2, blob); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	st1, _ := s.get(id)
	st2, _ := s.get(id2)
	if len(st1.windows) != len(st2.windows) || st1.selected != st2.selected {
		t.Errorf("restored strip = %+v, want match to %+v", st2, st1)
	}
}
