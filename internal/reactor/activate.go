package reactor

import (
	"time"

	"github.com/ryanthedev/reactor/internal/events"
	"github.com/ryanthedev/reactor/internal/types"
)

// handleApplicationActivated implements the workspace auto-switch
// folding rule: when an application is brought to the front and none
// of its windows are visible on the active workspace, the reactor
// jumps to whichever workspace holds one, unless that switch would
// immediately reverse the most recent auto-switch on the same space
// within the debounce window (thrash guard for apps that ping-pong
// activation requests).
func (r *Reactor) handleApplicationActivated(ev events.Event) {
	if w, ok := r.MainWindow.ApplicationActivated(ev.AppId); ok {
		r.focusWindow(w)
	}

	for _, blocked := range r.cfg.AutoFocusBlacklist {
		if blocked == ev.BundleID {
			return
		}
	}

	windows := r.Windows.WindowsForApp(ev.AppId)
	var candidate *types.WindowId
	var candidateWorkspace types.VirtualWorkspaceId
	var space types.SpaceId

	for _, w := range windows {
		if !w.Manageable() {
			continue
		}
		s := r.spaceForWorkspace(w.Workspace)
		display := r.displayFor(s)
		active, ok := r.Workspaces.ActiveWorkspace(display)
		if ok && active == w.Workspace {
			// Already visible on its space's active workspace: nothing to do.
			return
		}
		if candidate == nil {
			id := w.Id
			candidate = &id
			candidateWorkspace = w.Workspace
			space = s
		}
	}
	if candidate == nil {
		return
	}

	display := r.displayFor(space)
	current, ok := r.Workspaces.ActiveWorkspace(display)
	if !ok || current == candidateWorkspace {
		return
	}

	if r.isDebounced(space, current, candidateWorkspace) {
		return
	}

	index, ok := r.Workspaces.IndexOf(display, candidateWorkspace)
	if !ok {
		return
	}
	if _, err := r.Workspaces.SwitchTo(display, index); err != nil {
		return
	}
	r.wsDisplay[candidateWorkspace] = display
	r.autoSwitchHistory[space] = autoSwitchRecord{from: current, to: candidateWorkspace, at: time.Now()}
	r.runLayoutPass(space, candidateWorkspace, true)
	r.focusWindow(*candidate)
}

// isDebounced reports whether switching from -> to on space would
// exactly reverse the most recent auto-switch within autoSwitchDebounce.
func (r *Reactor) isDebounced(space types.SpaceId, from, to types.VirtualWorkspaceId) bool {
	prev, ok := r.autoSwitchHistory[space]
	if !ok {
		return false
	}
	if time.Since(prev.at) >= autoSwitchDebounce {
		return false
	}
	return prev.to == from && prev.from == to
}

