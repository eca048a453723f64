package reactor

import (
	"github.com/ryanthedev/reactor/internal/drag"
	"github.com/ryanthedev/reactor/internal/events"
	"github.com/ryanthedev/reactor/internal/raise"
	"github.com/ryanthedev/reactor/internal/types"
	"github.com/ryanthedev/reactor/internal/windowstate"
)

// handleDragMove feeds one moved frame into the Drag Manager during an
// active drag session. A change in swap target is only recorded in
// pendingDragSwap; the actual tree mutation waits for MouseUp so a
// fast drag doesn't thrash the layout on every intermediate frame.
func (r *Reactor) handleDragMove(ev events.Event, w *windowstate.Window) {
	if _, dragging := r.Drag.DraggedWindow(); !dragging {
		r.Drag.Start(ev.Window, w.Frame)
	}
	w.Frame = ev.NewFrame

	space := r.spaceForWorkspace(w.Workspace)
	candidates := r.dragCandidates(space, w.Workspace, ev.Window)
	target := r.Drag.Move(ev.NewFrame, candidates)
	r.pendingDragSwap = target
}

func (r *Reactor) dragCandidates(space types.SpaceId, ws types.VirtualWorkspaceId, dragged types.WindowId) []drag.Candidate {
	workspaceState, ok := r.Workspaces.Workspace(ws)
	if !ok {
		return nil
	}
	var out []drag.Candidate
	for window := range workspaceState.Members {
		if window == dragged || r.Floating.IsFloating(space, window) {
			continue
		}
		w, ok := r.Windows.Window(window)
		if !ok {
			continue
		}
		out = append(out, drag.Candidate{Window: window, Frame: w.Frame})
	}
	return out
}

// handleMouseUp finalizes any active drag: a recorded swap candidate
// is committed to the layout, and crossing a screen boundary mid-drag
// reassigns the window to the settled display's active workspace.
func (r *Reactor) handleMouseUp(ev events.Event) {
	dragged, wasDragging := r.Drag.DraggedWindow()
	r.Drag.End()
	if !wasDragging {
		return
	}

	w, ok := r.Windows.Window(dragged)
	if !ok {
		r.pendingDragSwap = nil
		return
	}

	if r.pendingDragSwap != nil {
		target := *r.pendingDragSwap
		if _, ok := r.Windows.Window(target); ok {
			space := r.spaceForWorkspace(w.Workspace)
			r.Layouts.Dispatch(space, w.Workspace, events.Command{Kind: events.CmdSwapWindows, Window: dragged, Target: target})
		}
		r.pendingDragSwap = nil
	}

	if ev.Space != 0 {
		if newSpace := ev.Space; newSpace != r.spaceForWorkspace(w.Workspace) {
			r.migrateWorkspace(dragged, w, newSpace)
			return
		}
	}
	r.runLayoutPass(r.spaceForWorkspace(w.Workspace), w.Workspace, false)
}

// handleMouseMovedOverWindow implements focus-follows-mouse: the
// hovered window is raised unless it is fully occluded by another
// window above it, or a menu/mission-control surface is currently
// open.
func (r *Reactor) handleMouseMovedOverWindow(ev events.Event) {
	if r.missionControl {
		return
	}
	window, ok := r.Windows.WindowByServerId(ev.HoverServerId)
	if !ok {
		return
	}
	w, ok := r.Windows.Window(window)
	if !ok || !w.Manageable() {
		return
	}
	space := r.spaceForWorkspace(w.Workspace)
	if r.occluded != nil && r.occluded(space, window) {
		return
	}
	target := window
	r.Raise.Submit(raise.Request{
		RaiseWindows: map[types.AppId][]types.WindowId{window.App: {window}},
		FocusWindow:  &target,
	})
}

// raiseRequestFromResponse groups a layout command's raise hints by
// application, the shape the Raise Manager expects.
func raiseRequestFromResponse(resp events.LayoutResponse) raise.Request {
	req := raise.Request{RaiseWindows: make(map[types.AppId][]types.WindowId), FocusWindow: resp.FocusWindow}
	for _, w := range resp.RaiseWindows {
		req.RaiseWindows[w.App] = append(req.RaiseWindows[w.App], w)
	}
	return req
}
