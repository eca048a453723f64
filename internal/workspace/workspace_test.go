package workspace

import (
	"testing"

	"github.com/ryanthedev/reactor/internal/config"
	"github.com/ryanthedev/reactor/internal/types"
)

func TestCreateAndAssign(t *testing.T) {
	m := New()
	ws1, err := m.CreateWorkspace(0, "main")
	if err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}
	if _, err := m.CreateWorkspace(0, "side"); err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}

	w := types.WindowId{App: 1, Index: 0}
	if err := m.AssignWindow(0, w, ws1); err != nil {
		t.Fatalf("AssignWindow: %v", err)
	}

	got, ok := m.WindowWorkspace(0, w)
	if !ok || got != ws1 {
		t.Fatalf("WindowWorkspace = %v, %v, want %v", got, ok, ws1)
	}
}

func TestAssignWindowMovesBetweenWorkspaces(t *testing.T) {
	m := New()
	ws1, _ := m.CreateWorkspace(0, "a")
	ws2, _ := m.CreateWorkspace(0, "b")
	w := types.WindowId{App: 1, Index: 0}

	m.AssignWindow(0, w, ws1)
	m.AssignWindow(0, w, ws2)

	if _, ok := m.WindowWorkspace(0, w); !ok {
		t.Fatal("expected window to remain assigned")
	}
	ws1Val, _ := m.Workspace(ws1)
	if ws1Val.Members[w] {
		t.Error("expected window removed from first workspace after reassignment")
	}
}

func TestMaxWorkspacesPerDisplay(t *testing.T) {
	m := New()
	for i := 0; i < MaxWorkspacesPerDisplay; i++ {
		if _, err := m.CreateWorkspace(0, "ws"); err != nil {
			t.Fatalf("unexpected error at workspace %d: %v", i, err)
		}
	}
	if _, err := m.CreateWorkspace(0, "overflow"); err == nil {
		t.Error("expected error exceeding MaxWorkspacesPerDisplay")
	}
}

func TestNextPrevWorkspaceWraps(t *testing.T) {
	m := New()
	ws1, _ := m.CreateWorkspace(0, "a")
	ws2, _ := m.CreateWorkspace(0, "b")

	got, err := m.NextWorkspace(0, false)
	if err != nil || got != ws2 {
		t.Fatalf("NextWorkspace = %v, %v, want %v", got, err, ws2)
	}
	got, err = m.NextWorkspace(0, false)
	if err != nil || got != ws1 {
		t.Fatalf("NextWorkspace wraparound = %v, %v, want %v", got, err, ws1)
	}
	got, err = m.PrevWorkspace(0, false)
	if err != nil || got != ws2 {
		t.Fatalf("PrevWorkspace = %v, %v, want %v", got, err, ws2)
	}
}

func TestSwitchToIsNoOpWhenAlreadyActive(t *testing.T) {
	m := New()
	ws1, _ := m.CreateWorkspace(0, "a")
	m.CreateWorkspace(0, "b")

	got, err := m.SwitchTo(0, 0)
	if err != nil || got != ws1 {
		t.Fatalf("SwitchTo(0) = %v, %v, want %v", got, err, ws1)
	}
	got, err = m.SwitchTo(0, 0)
	if err != nil || got != ws1 {
		t.Fatalf("repeat SwitchTo(0) = %v, %v, want %v", got, err, ws1)
	}
}

func TestSwitchToLast(t *testing.T) {
	m := New()
	ws1, _ := m.CreateWorkspace(0, "a")
	ws2, _ := m.CreateWorkspace(0, "b")

	m.SwitchTo(0, 1)
	got, err := m.SwitchToLast(0)
	if err != nil || got != ws1 {
		t.Fatalf("SwitchToLast = %v, %v, want %v", got, err, ws1)
	}
	got, err = m.SwitchToLast(0)
	if err != nil || got != ws2 {
		t.Fatalf("second SwitchToLast = %v, %v, want %v", got, err, ws2)
	}
}

func TestAssignByRulesFirstMatchWins(t *testing.T) {
	m := New()
	m.CreateWorkspace(0, "main")
	side, _ := m.CreateWorkspace(0, "side")

	rules := []config.AppRule{
		{AppName: "Finder", PreferredWorkspace: "side", Float: true},
	}
	w := types.WindowId{App: 1, Index: 0}
	got, floating, err := m.AssignByRules(0, w, "", "Finder", "Desktop", "", "", rules)
	if err != nil {
		t.Fatalf("AssignByRules: %v", err)
	}
	if got != side {
		t.Errorf("AssignByRules workspace = %v, want %v", got, side)
	}
	if !floating {
		t.Error("expected matched rule to mark window floating")
	}
}

func TestAssignByRulesFallsBackToActive(t *testing.T) {
	m := New()
	main, _ := m.CreateWorkspace(0, "main")

	w := types.WindowId{App: 1, Index: 0}
	got, floating, err := m.AssignByRules(0, w, "", "Unmatched", "", "", "", nil)
	if err != nil {
		t.Fatalf("AssignByRules: %v", err)
	}
	if got != main {
		t.Errorf("AssignByRules workspace = %v, want active %v", got, main)
	}
	if floating {
		t.Error("expected no-match window to not be floating")
	}
}

func TestFloatingPositionRoundTrip(t *testing.T) {
	m := New()
	ws, _ := m.CreateWorkspace(0, "main")
	w := types.WindowId{App: 1, Index: 0}
	rect := types.Rect{X: 10, Y: 20, Width: 300, Height: 200}

	m.SetFloatingPosition(ws, w, rect)
	got, ok := m.FloatingPosition(ws, w)
	if !ok || got != rect {
		t.Fatalf("FloatingPosition = %v, %v, want %v", got, ok, rect)
	}
}

func TestIndexOfFindsWorkspacePosition(t *testing.T) {
	m := New()
	first, _ := m.CreateWorkspace(0, "first")
	second, _ := m.CreateWorkspace(0, "second")

	if idx, ok := m.IndexOf(0, first); !ok || idx != 0 {
		t.Errorf("IndexOf(first) = %v, %v, want 0, true", idx, ok)
	}
	if idx, ok := m.IndexOf(0, second); !ok || idx != 1 {
		t.Errorf("IndexOf(second) = %v, %v, want 1, true", idx, ok)
	}
	if _, ok := m.IndexOf(1, first); ok {
		t.Error("expected IndexOf on an unrelated display to fail")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	m := New()
	main, _ := m.CreateWorkspace(0, "main")
	other, _ := m.CreateWorkspace(0, "other")
	w1 := types.WindowId{App: 1, Index: 0}
	w2 := types.WindowId{App: 2, Index: 0}
	m.AssignWindow(0, w1, main)
	m.AssignWindow(0, w2, other)
	m.SwitchTo(0, 1)

	snap := m.Snapshot()

	restored := New()
	if err := restored.Restore(snap); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	active, ok := restored.ActiveWorkspace(0)
	if !ok {
		t.Fatal("expected an active workspace after restore")
	}
	ws, ok := restored.Workspace(active)
	if !ok || ws.Name != "other" {
		t.Errorf("restored active workspace = %+v, want name other", ws)
	}

	restoredWs, ok := restored.WindowWorkspace(0, w1)
	if !ok {
		t.Fatal("expected w1 to be restored into some workspace")
	}
	restoredWsState, _ := restored.Workspace(restoredWs)
	if restoredWsState.Name != "main" || !restoredWsState.Members[w1] {
		t.Errorf("w1 restored into %+v, want main holding w1", restoredWsState)
	}
}
