package reactor

import (
	"github.com/ryanthedev/reactor/internal/broadcast"
	"github.com/ryanthedev/reactor/internal/events"
	"github.com/ryanthedev/reactor/internal/logging"
	"github.com/ryanthedev/reactor/internal/types"
)

// handleCommand routes a layout-engine command to the engine for the
// command's workspace, or handles workspace-management commands
// directly against the Virtual Workspace Manager. Every command
// response is merged back into a raise request the same way the
// design's LayoutResponse is documented to be merged with other focus
// hints.
func (r *Reactor) handleCommand(ev events.Event) {
	cmd := ev.Command
	display := r.displayFor(cmd.Space)

	switch cmd.Kind {
	case events.CmdNextWorkspace, events.CmdPrevWorkspace:
		r.switchWorkspace(display, cmd, ev.Response)
		return
	case events.CmdSwitchToWorkspace:
		r.commitWorkspaceSwitch(display, cmd.Space, func() (types.VirtualWorkspaceId, error) {
			return r.Workspaces.SwitchTo(display, cmd.WorkspaceIndex)
		}, ev.Response)
		return
	case events.CmdSwitchToLastWorkspace:
		r.commitWorkspaceSwitch(display, cmd.Space, func() (types.VirtualWorkspaceId, error) {
			return r.Workspaces.SwitchToLast(display)
		}, ev.Response)
		return
	case events.CmdMoveWindowToWorkspace:
		if _, err := r.Workspaces.MoveWindowTo(display, cmd.Window, cmd.WorkspaceIndex); err != nil {
			logging.Debug().Msg("move window to workspace failed")
		}
		respond(ev.Response, events.LayoutResponse{})
		return
	case events.CmdCreateWorkspace:
		id, err := r.Workspaces.CreateWorkspace(display, "")
		if err == nil {
			r.wsDisplay[id] = display
		}
		respond(ev.Response, events.LayoutResponse{})
		return
	case events.CmdToggleFocusFloating:
		r.toggleFocusFloating(cmd, ev.Response)
		return
	case events.CmdToggleWindowFloating:
		space := cmd.Space
		newState := r.Floating.Toggle(space, cmd.Window)
		if !newState {
			if ws, ok := r.Workspaces.WindowWorkspace(display, cmd.Window); ok {
				r.Layouts.AddWindow(space, ws, cmd.Window)
			}
		} else if ws, ok := r.Workspaces.WindowWorkspace(display, cmd.Window); ok {
			r.Layouts.RemoveWindow(space, ws, cmd.Window)
		}
		r.runLayoutPass(space, r.activeWorkspaceOf(display), false)
		respond(ev.Response, events.LayoutResponse{})
		return
	}

	ws, ok := r.Workspaces.ActiveWorkspace(display)
	if !ok {
		respond(ev.Response, events.LayoutResponse{})
		return
	}
	resp, err := r.Layouts.Dispatch(cmd.Space, ws, cmd)
	if err != nil {
		logging.Debug().Msg("command dispatch produced no layout response")
	}
	if len(resp.RaiseWindows) > 0 {
		r.Raise.Submit(raiseRequestFromResponse(resp))
	}
	r.runLayoutPass(cmd.Space, ws, false)
	respond(ev.Response, resp)
}

func (r *Reactor) activeWorkspaceOf(display int) types.VirtualWorkspaceId {
	ws, _ := r.Workspaces.ActiveWorkspace(display)
	return ws
}

func (r *Reactor) switchWorkspace(display int, cmd events.Command, response chan events.LayoutResponse) {
	r.commitWorkspaceSwitch(display, cmd.Space, func() (types.VirtualWorkspaceId, error) {
		if cmd.Kind == events.CmdNextWorkspace {
			return r.Workspaces.NextWorkspace(display, cmd.SkipEmpty)
		}
		return r.Workspaces.PrevWorkspace(display, cmd.SkipEmpty)
	}, response)
}

func (r *Reactor) commitWorkspaceSwitch(display int, space types.SpaceId, step func() (types.VirtualWorkspaceId, error), response chan events.LayoutResponse) {
	ws, err := step()
	if err != nil {
		respond(response, events.LayoutResponse{})
		return
	}
	r.wsDisplay[ws] = display
	r.Broadcast.Publish(broadcast.Event{WorkspaceChanged: &broadcast.WorkspaceChanged{WorkspaceId: ws, Space: space}})
	r.runLayoutPass(space, ws, true)
	if wsState, ok := r.Workspaces.Workspace(ws); ok {
		r.focusWindow(wsState.LastFocused)
	}
	respond(response, events.LayoutResponse{})
}

// toggleFocusFloating swaps input focus between the floating layer and
// the tiled layer for a space, without changing any window's floating
// membership. Which layer currently holds focus is read off the
// workspace's last-focused window.
func (r *Reactor) toggleFocusFloating(cmd events.Command, response chan events.LayoutResponse) {
	display := r.displayFor(cmd.Space)
	ws, ok := r.Workspaces.ActiveWorkspace(display)
	if !ok {
		respond(response, events.LayoutResponse{})
		return
	}

	focused := types.WindowId{}
	if wsState, ok := r.Workspaces.Workspace(ws); ok {
		focused = wsState.LastFocused
	}
	isFloating := r.Floating.IsFloating(cmd.Space, focused)

	var resp events.LayoutResponse
	if isFloating {
		selection, hasSelection := r.Layouts.SelectedWindow(cmd.Space, ws)
		placements, _ := r.Layouts.CalculateLayout(cmd.Space, ws)
		raise := make([]types.WindowId, 0, len(placements))
		for _, p := range placements {
			raise = append(raise, p.Window)
		}
		focus := selection
		if !hasSelection {
			if n := len(raise); n > 0 {
				focus = raise[n-1]
				raise = raise[:n-1]
			}
		}
		resp = events.LayoutResponse{RaiseWindows: raise}
		if hasSelection || len(placements) > 0 {
			resp.FocusWindow = &focus
		}
	} else {
		lastFocus, hasLastFocus := r.Floating.LastFocused(cmd.Space)
		all := r.Floating.FloatingWindows(cmd.Space)
		raise := make([]types.WindowId, 0, len(all))
		for _, w := range all {
			if hasLastFocus && w == lastFocus {
				continue
			}
			raise = append(raise, w)
		}
		focus := lastFocus
		if !hasLastFocus {
			if n := len(raise); n > 0 {
				focus = raise[n-1]
				raise = raise[:n-1]
				hasLastFocus = true
			}
		}
		resp = events.LayoutResponse{RaiseWindows: raise}
		if hasLastFocus {
			resp.FocusWindow = &focus
		}
	}

	if len(resp.RaiseWindows) > 0 {
		r.Raise.Submit(raiseRequestFromResponse(resp))
	}
	if resp.FocusWindow != nil {
		r.focusWindow(*resp.FocusWindow)
	}
	respond(response, resp)
}

func respond(ch chan events.LayoutResponse, resp events.LayoutResponse) {
	if ch == nil {
		return
	}
	ch <- resp
}
