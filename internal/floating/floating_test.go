package floating

import (
	"testing"

	"github.com/ryanthedev/reactor/internal/types"
)

func TestToggle(t *testing.T) {
	m := New()
	space := types.SpaceId(1)
	w := types.WindowId{App: 1, Index: 0}

	if got := m.Toggle(space, w); !got {
		t.Fatal("expected first toggle to float the window")
	}
	if !m.IsFloating(space, w) {
		t.Fatal("expected window to be floating")
	}
	if got := m.Toggle(space, w); got {
		t.Fatal("expected second toggle to un-float the window")
	}
	if m.IsFloating(space, w) {
		t.Fatal("expected window to no longer be floating")
	}
}

func TestFloatingWindows(t *testing.T) {
	m := New()
	space := types.SpaceId(1)
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}

	m.SetFloating(space, a, true)
	m.SetFloating(space, b, true)
	m.SetFloating(space, b, false)

	got := m.FloatingWindows(space)
	if len(got) != 1 || got[0] != a {
		t.Fatalf("FloatingWindows = %v, want [%v]", got, a)
	}
}

func TestLastFocusedSetOnToggleFloat(t *testing.T) {
	m := New()
	space := types.SpaceId(1)
	w := types.WindowId{App: 1, Index: 0}

	m.Toggle(space, w)
	got, ok := m.LastFocused(space)
	if !ok || got != w {
		t.Fatalf("LastFocused = %v, %v, want %v", got, ok, w)
	}
}

func TestRemoveWindowClearsAllSpaces(t *testing.T) {
	m := New()
	w := types.WindowId{App: 1, Index: 0}
	m.SetFloating(types.SpaceId(1), w, true)
	m.SetFloating(types.SpaceId(2), w, true)

	m.RemoveWindow(w)

	if m.IsFloating(types.SpaceId(1), w) || m.IsFloating(types.SpaceId(2), w) {
		t.Error("expected window floating state cleared from all spaces")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	m := New()
	space := types.SpaceId(1)
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}
	m.SetFloating(space, a, true)
	m.Toggle(space, b) // floats b and records it as last-focused

	snap := m.Snapshot()

	restored := New()
	restored.Restore(snap)

	if !restored.IsFloating(space, a) {
		t.Error("expected a to still be floating after restore")
	}
	if !restored.IsFloating(space, b) {
		t.Error("expected b to still be floating after restore")
	}
	got, ok := restored.LastFocused(space)
	if !ok || got != b {
		t.Errorf("LastFocused after restore = %v, %v, want %v", got, ok, b)
	}
}
