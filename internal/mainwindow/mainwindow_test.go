package mainwindow

import (
	"testing"

	"github.com/ryanthedev/reactor/internal/types"
)

func TestMainWindowChangedOnlyEmitsForActiveApp(t *testing.T) {
	tr := New()
	w := types.WindowId{App: 1, Index: 0}

	if _, ok := tr.MainWindowChanged(1, w); ok {
		t.Error("expected no signal before app 1 is active")
	}

	tr.ApplicationActivated(1)
	w2 := types.WindowId{App: 1, Index: 1}
	got, ok := tr.MainWindowChanged(1, w2)
	if !ok || got != w2 {
		t.Fatalf("MainWindowChanged = %v, %v, want %v", got, ok, w2)
	}
}

func TestMainWindowChangedNoOpOnSameWindow(t *testing.T) {
	tr := New()
	w := types.WindowId{App: 1, Index: 0}
	tr.ApplicationActivated(1)
	tr.MainWindowChanged(1, w)

	if _, ok := tr.MainWindowChanged(1, w); ok {
		t.Error("expected no repeated signal for an unchanged main window")
	}
}

func TestApplicationActivatedReturnsKnownMainWindow(t *testing.T) {
	tr := New()
	w := types.WindowId{App: 1, Index: 0}
	tr.MainWindowChanged(1, w)

	got, ok := tr.ApplicationActivated(1)
	if !ok || got != w {
		t.Fatalf("ApplicationActivated = %v, %v, want %v", got, ok, w)
	}
}

func TestDeactivationStopsEmittingSignals(t *testing.T) {
	tr := New()
	w := types.WindowId{App: 1, Index: 0}
	tr.ApplicationActivated(1)
	tr.ApplicationDeactivated(1)

	if _, ok := tr.MainWindowChanged(1, w); ok {
		t.Error("expected no signal after deactivation")
	}
}

func TestRemoveAppClearsState(t *testing.T) {
	tr := New()
	tr.ApplicationActivated(1)
	tr.RemoveApp(1)

	if _, ok := tr.MainWindowChanged(1, types.WindowId{App: 1, Index: 0}); ok {
		t.Error("expected no signal after app removed")
	}
}
