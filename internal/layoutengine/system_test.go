package layoutengine

import (
	"testing"

	"github.com/ryanthedev/reactor/internal/config"
	"github.com/ryanthedev/reactor/internal/events"
	"github.com/ryanthedev/reactor/internal/layout/bsp"
	"github.com/ryanthedev/reactor/internal/layout/scroll"
	"github.com/ryanthedev/reactor/internal/layout/traditional"
	"github.com/ryanthedev/reactor/internal/types"
)

func newTestEngine(mode config.LayoutMode) (*Engine, types.SpaceId, types.VirtualWorkspaceId) {
	cfg := &config.Config{LayoutMode: mode}
	e := NewEngine(cfg, traditional.New(0.1, 0.1, 0, 0), bsp.New(0.1, 0.1, 0), scroll.New(1.0, 0.5, 0, false, 0, 0))
	space := types.SpaceId(1)
	ws := types.VirtualWorkspaceId{Index: 1, Gen: 1}
	e.SpaceExposed(space, ws, types.Rect{Width: 1000, Height: 1000})
	return e, space, ws
}

func TestDispatchRoutesStackWindows(t *testing.T) {
	e, space, ws := newTestEngine(config.LayoutTraditional)
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}
	if err := e.AddWindow(space, ws, a); err != nil {
		t.Fatalf("AddWindow: %v", err)
	}
	if err := e.AddWindow(space, ws, b); err != nil {
		t.Fatalf("AddWindow: %v", err)
	}

	resp, err := e.Dispatch(space, ws, events.Command{Kind: events.CmdStackWindows, Space: space})
	if err != nil {
		t.Fatalf("Dispatch(CmdStackWindows): %v", err)
	}
	if len(resp.RaiseWindows) != 2 {
		t.Fatalf("RaiseWindows = %v, want 2 windows", resp.RaiseWindows)
	}

	placements, err := e.CalculateLayout(space, ws)
	if err != nil {
		t.Fatalf("CalculateLayout: %v", err)
	}
	rects := map[types.WindowId]types.Rect{}
	for _, p := range placements {
		rects[p.Window] = p.Rect
	}
	if rects[a] != rects[b] {
		t.Errorf("stacked placements = %+v, %+v, want equal", rects[a], rects[b])
	}
}

func TestDispatchRoutesToggleFullscreen(t *testing.T) {
	e, space, ws := newTestEngine(config.LayoutTraditional)
	a := types.WindowId{App: 1, Index: 0}
	if err := e.AddWindow(space, ws, a); err != nil {
		t.Fatalf("AddWindow: %v", err)
	}

	resp, err := e.Dispatch(space, ws, events.Command{Kind: events.CmdToggleFullscreen, Space: space})
	if err != nil {
		t.Fatalf("Dispatch(CmdToggleFullscreen): %v", err)
	}
	if len(resp.RaiseWindows) != 1 || resp.RaiseWindows[0] != a {
		t.Fatalf("RaiseWindows = %v, want [%v]", resp.RaiseWindows, a)
	}
}

func TestDispatchRoutesScrollWorkspaceOnScrollSystem(t *testing.T) {
	e, space, ws := newTestEngine(config.LayoutScroll)
	a := types.WindowId{App: 1, Index: 0}
	b := types.WindowId{App: 1, Index: 1}
	if err := e.AddWindow(space, ws, a); err != nil {
		t.Fatalf("AddWindow: %v", err)
	}
	if err := e.AddWindow(space, ws, b); err != nil {
		t.Fatalf("AddWindow: %v", err)
	}

	// After adding a, b the strip is already parked on b (the last
	// window added); scroll back to a before testing a forward crossing.
	if _, err := e.Dispatch(space, ws, events.Command{
		Kind: events.CmdScrollWorkspace, Space: space,
		ScrollDelta: -1, ScrollFinalize: true,
	}); err != nil {
		t.Fatalf("Dispatch(CmdScrollWorkspace reset): %v", err)
	}

	resp, err := e.Dispatch(space, ws, events.Command{
		Kind: events.CmdScrollWorkspace, Space: space,
		ScrollDelta: 0.6, ScrollFinalize: false,
	})
	if err != nil {
		t.Fatalf("Dispatch(CmdScrollWorkspace): %v", err)
	}
	if resp.FocusWindow == nil || *resp.FocusWindow != b {
		t.Fatalf("FocusWindow after crossing threshold mid-scroll = %v, want %v", resp.FocusWindow, b)
	}

	resp, err = e.Dispatch(space, ws, events.Command{
		Kind: events.CmdScrollWorkspace, Space: space,
		ScrollDelta: 0, ScrollFinalize: true,
	})
	if err != nil {
		t.Fatalf("Dispatch(CmdScrollWorkspace finalize): %v", err)
	}
	if resp.FocusWindow == nil || *resp.FocusWindow != b {
		t.Fatalf("FocusWindow after finalize = %v, want %v", resp.FocusWindow, b)
	}
}

func TestDispatchScrollWorkspaceIgnoredOutsideScrollSystem(t *testing.T) {
	e, space, ws := newTestEngine(config.LayoutTraditional)
	a := types.WindowId{App: 1, Index: 0}
	if err := e.AddWindow(space, ws, a); err != nil {
		t.Fatalf("AddWindow: %v", err)
	}

	resp, err := e.Dispatch(space, ws, events.Command{
		Kind: events.CmdScrollWorkspace, Space: space,
		ScrollDelta: 1, ScrollFinalize: true,
	})
	if err != nil {
		t.Fatalf("Dispatch(CmdScrollWorkspace): %v", err)
	}
	if resp.FocusWindow != nil || len(resp.RaiseWindows) != 0 {
		t.Errorf("resp = %+v, want empty response for a non-scroll system", resp)
	}
}
