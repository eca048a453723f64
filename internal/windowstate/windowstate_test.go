package windowstate

import (
	"testing"

	"github.com/ryanthedev/reactor/internal/events"
	"github.com/ryanthedev/reactor/internal/types"
)

func TestManageable(t *testing.T) {
	tests := []struct {
		name string
		w    Window
		want bool
	}{
		{"fully standard window", Window{Standard: true, Root: true, LayerIsNormal: true, LevelIsNormal: true}, true},
		{"minimized", Window{Standard: true, Root: true, Minimized: true, LayerIsNormal: true, LevelIsNormal: true}, false},
		{"not root", Window{Standard: true, Root: false, LayerIsNormal: true, LevelIsNormal: true}, false},
		{"sticky", Window{Standard: true, Root: true, Sticky: true, LayerIsNormal: true, LevelIsNormal: true}, false},
		{"non-normal layer", Window{Standard: true, Root: true, LayerIsNormal: false, LevelIsNormal: true}, false},
		{"non-normal level", Window{Standard: true, Root: true, LayerIsNormal: true, LevelIsNormal: false}, false},
		{"not standard", Window{Standard: false, Root: true, LayerIsNormal: true, LevelIsNormal: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.Manageable(); got != tt.want {
				t.Errorf("Manageable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStorePutAndRemoveWindow(t *testing.T) {
	s := New()
	id := types.WindowId{App: 1, Index: 0}
	w := FromInfo(id, events.WindowInfo{ServerId: 42, Standard: true, Root: true, LayerIsNormal: true, LevelIsNormal: true})
	s.PutWindow(w)

	got, ok := s.Window(id)
	if !ok || got.ServerId != 42 {
		t.Fatalf("Window(%v) = %+v, %v", id, got, ok)
	}

	byServer, ok := s.WindowByServerId(42)
	if !ok || byServer != id {
		t.Fatalf("WindowByServerId(42) = %v, %v, want %v", byServer, ok, id)
	}

	s.RemoveWindow(id)
	if _, ok := s.Window(id); ok {
		t.Error("expected window to be removed")
	}
	if _, ok := s.WindowByServerId(42); ok {
		t.Error("expected server-id index to be cleared on removal")
	}
}

func TestWindowsForApp(t *testing.T) {
	s := New()
	s.PutWindow(&Window{Id: types.WindowId{App: 1, Index: 0}})
	s.PutWindow(&Window{Id: types.WindowId{App: 1, Index: 1}})
	s.PutWindow(&Window{Id: types.WindowId{App: 2, Index: 0}})

	got := s.WindowsForApp(1)
	if len(got) != 2 {
		t.Fatalf("WindowsForApp(1) returned %d windows, want 2", len(got))
	}
}

func TestAllWindowsReturnsEveryTrackedWindow(t *testing.T) {
	s := New()
	s.PutWindow(&Window{Id: types.WindowId{App: 1, Index: 0}})
	s.PutWindow(&Window{Id: types.WindowId{App: 2, Index: 0}})

	got := s.AllWindows()
	if len(got) != 2 {
		t.Fatalf("AllWindows() returned %d windows, want 2", len(got))
	}
}

func TestAppLifecycle(t *testing.T) {
	s := New()
	s.PutApp(&App{Id: 1, BundleID: "com.example.app"})

	a, ok := s.App(1)
	if !ok || a.BundleID != "com.example.app" {
		t.Fatalf("App(1) = %+v, %v", a, ok)
	}

	s.RemoveApp(1)
	if _, ok := s.App(1); ok {
		t.Error("expected app to be removed")
	}
}
