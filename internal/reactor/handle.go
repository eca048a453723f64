package reactor

import (
	"github.com/ryanthedev/reactor/internal/broadcast"
	"github.com/ryanthedev/reactor/internal/drag"
	"github.com/ryanthedev/reactor/internal/events"
	"github.com/ryanthedev/reactor/internal/logging"
	"github.com/ryanthedev/reactor/internal/persistence"
	"github.com/ryanthedev/reactor/internal/types"
	"github.com/ryanthedev/reactor/internal/windowstate"
)

// Handle folds one event into reactor state, following the closed set
// of folding rules. Query-style events answer synchronously over
// ev.Event.Response and never mutate state beyond what answering
// requires.
func (r *Reactor) Handle(env Envelope) {
	ev := env.Event
	logging.Debug().Str("traceSpan", env.TraceSpan).Int("kind", int(ev.Kind)).Msg("reactor event")

	switch ev.Kind {
	case events.KindScreenParametersChanged:
		r.handleScreenParametersChanged(ev)
	case events.KindSpaceChanged:
		r.handleSpaceChanged(ev)
	case events.KindApplicationLaunched:
		r.Windows.PutApp(&windowstate.App{Id: ev.AppId, BundleID: ev.BundleID})
	case events.KindApplicationTerminated:
		r.Windows.RemoveApp(ev.AppId)
		r.MainWindow.RemoveApp(ev.AppId)
	case events.KindApplicationThreadTerminated:
		if a, ok := r.Windows.App(ev.AppId); ok {
			a.Handle = nil
		}
	case events.KindApplicationGloballyActivated:
		r.handleApplicationActivated(ev)
	case events.KindWindowCreated:
		r.handleWindowCreated(ev)
	case events.KindWindowDestroyed:
		r.handleWindowDestroyed(ev.Window)
	case events.KindWindowMinimized:
		r.handleManageabilityChange(ev.Window, func(w *windowstate.Window) { w.Minimized = true })
	case events.KindWindowDeminiaturized:
		r.handleManageabilityChange(ev.Window, func(w *windowstate.Window) { w.Minimized = false })
	case events.KindWindowFrameChanged:
		r.handleWindowFrameChanged(ev)
	case events.KindMouseUp:
		r.handleMouseUp(ev)
	case events.KindMouseMovedOverWindow:
		r.handleMouseMovedOverWindow(ev)
	case events.KindRaiseCompleted:
		if w, ok := r.Raise.Complete(ev.SequenceId, ev.Window); ok {
			r.focusWindow(w)
		}
	case events.KindRaiseTimeout:
		r.Raise.Timeout(ev.SequenceId)
	case events.KindCommand:
		r.handleCommand(ev)
	case events.KindConfigUpdated:
		r.handleConfigUpdated(ev)
	case events.KindApplyAppRulesToExistingWindows:
		r.handleApplyAppRules(ev.AppId)
	case events.KindSaveAndExit:
		r.handleSaveAndExit()
	case events.KindMissionControlNativeEntered:
		r.missionControl = true
	case events.KindMissionControlNativeExited:
		r.handleMissionControlExited()
	}
}

func (r *Reactor) handleScreenParametersChanged(ev events.Event) {
	if len(ev.Screens) == 0 {
		logging.Warn().Msg("screen parameters changed with no screens, ignoring")
		return
	}
	for display, screen := range ev.Screens {
		if !screen.HasSpace {
			continue
		}
		r.spaceDisplay[screen.Space] = display
		r.displaySpace[display] = screen.Space

		ws, ok := r.Workspaces.ActiveWorkspace(display)
		if !ok {
			id, err := r.Workspaces.CreateWorkspace(display, "default")
			if err != nil {
				logging.Error(err).Int("display", display).Msg("failed to create default workspace")
				continue
			}
			ws = id
		}
		r.wsDisplay[ws] = display
		r.Layouts.SpaceExposed(screen.Space, ws, screen.Frame)
	}
}

func (r *Reactor) handleSpaceChanged(ev events.Event) {
	if r.missionControl {
		return
	}
	if len(r.spaceDisplay) != 0 && len(ev.Screens) != len(r.spaceDisplay) {
		logging.Debug().Msg("space changed with mismatched screen count, deferring")
		return
	}
	for display, screen := range ev.Screens {
		if !screen.HasSpace {
			continue
		}
		r.spaceDisplay[screen.Space] = display
		r.displaySpace[display] = screen.Space

		ws, ok := r.Workspaces.ActiveWorkspace(display)
		if !ok {
			continue
		}
		r.wsDisplay[ws] = display
		r.Layouts.SpaceExposed(screen.Space, ws, screen.Frame)
		if w, ok := r.Workspaces.Workspace(ws); ok && w.HasFocus {
			r.focusWindow(w.LastFocused)
		}
		r.Broadcast.Publish(broadcast.Event{WorkspaceChanged: &broadcast.WorkspaceChanged{
			WorkspaceId: ws, Space: screen.Space,
		}})
	}
}

func (r *Reactor) handleMissionControlExited() {
	r.missionControl = false
	seen := make(map[types.AppId]bool)
	for _, w := range r.Windows.AllWindows() {
		if seen[w.Id.App] {
			continue
		}
		seen[w.Id.App] = true
		if a, ok := r.Windows.App(w.Id.App); ok && a.Handle != nil {
			a.Handle.Send(windowstate.Request{Kind: windowstate.ReqGetVisibleWindows, ForceRefresh: true})
		}
	}
}

func (r *Reactor) handleWindowCreated(ev events.Event) {
	w := windowstate.FromInfo(ev.Window, ev.WindowInfo)
	r.Windows.PutWindow(w)

	if !w.Manageable() {
		return
	}

	space := ev.Space
	display := r.displayFor(space)
	active, ok := r.Workspaces.ActiveWorkspace(display)
	if !ok {
		return
	}

	ws, floatRule, err := r.Workspaces.AssignByRules(display, ev.Window, w.BundleID, w.BundleID, w.Title, w.AXRole, w.AXSubrole, r.cfg.AppRules)
	if err != nil {
		logging.Error(err).Msg("failed to assign new window to a workspace")
		ws = active
	}
	r.wsDisplay[ws] = display
	w.Workspace = ws

	if floatRule {
		r.Floating.SetFloating(space, ev.Window, true)
	} else if err := r.Layouts.AddWindow(space, ws, ev.Window); err != nil {
		logging.Error(err).Msg("failed to add window to layout")
	}

	if ev.Mouse.Down {
		r.Drag.Start(ev.Window, w.Frame)
	}
	r.runLayoutPass(space, ws, false)
}

func (r *Reactor) handleWindowDestroyed(window types.WindowId) {
	w, ok := r.Windows.Window(window)
	if !ok {
		return
	}
	ws := w.Workspace
	space := r.spaceForWorkspace(ws)
	display, hasDisplay := r.wsDisplay[ws]

	if hasDisplay {
		r.Workspaces.RemoveWindow(display, window)
	}
	r.Floating.RemoveWindow(window)
	r.Tx.Forget(window)
	delete(r.changingScreens, window)
	delete(r.skipLayoutFor, window)

	if dragged, ok := r.Drag.DraggedWindow(); ok && dragged == window {
		r.Drag.End()
		r.pendingDragSwap = nil
	}
	if r.pendingDragSwap != nil && *r.pendingDragSwap == window {
		r.pendingDragSwap = nil
	}

	if err := r.Layouts.RemoveWindow(space, ws, window); err == nil {
		r.runLayoutPass(space, ws, false)
	}
	r.Windows.RemoveWindow(window)
}

func (r *Reactor) handleManageabilityChange(window types.WindowId, mutate func(*windowstate.Window)) {
	w, ok := r.Windows.Window(window)
	if !ok {
		return
	}
	wasManageable := w.Manageable()
	mutate(w)
	isManageable := w.Manageable()
	if wasManageable == isManageable {
		return
	}

	ws := w.Workspace
	space := r.spaceForWorkspace(ws)
	if isManageable {
		r.Layouts.AddWindow(space, ws, window)
	} else {
		r.Layouts.RemoveWindow(space, ws, window)
	}
	r.runLayoutPass(space, ws, true)
}

func (r *Reactor) handleApplyAppRules(app types.AppId) {
	for _, w := range r.Windows.WindowsForApp(app) {
		space := r.spaceForWorkspace(w.Workspace)
		display, ok := r.wsDisplay[w.Workspace]
		if !ok {
			continue
		}
		ws, floatRule, err := r.Workspaces.AssignByRules(display, w.Id, w.BundleID, w.BundleID, w.Title, w.AXRole, w.AXSubrole, r.cfg.AppRules)
		if err != nil {
			continue
		}
		r.wsDisplay[ws] = display
		w.Workspace = ws
		r.Floating.SetFloating(space, w.Id, floatRule)
	}
}

func (r *Reactor) handleConfigUpdated(ev events.Event) {
	if ev.Config == nil {
		return
	}
	r.cfg = ev.Config
	r.Layouts.UpdateConfig(ev.Config)
	r.Drag = drag.New(ev.Config.DragSwapFraction)
}

func (r *Reactor) handleSaveAndExit() {
	snap := &persistence.Snapshot{
		Workspaces: r.Workspaces.Snapshot(),
		Floating:   r.Floating.Snapshot(),
	}
	if err := persistence.Save(r.statePath, snap); err != nil {
		logging.Error(err).Msg("failed to persist state on exit")
	}
	close(r.done)
}

func (r *Reactor) focusWindow(window types.WindowId) {
	if window == (types.WindowId{}) {
		return
	}
	a, ok := r.Windows.App(window.App)
	if !ok || a.Handle == nil {
		return
	}
	a.Handle.Send(windowstate.Request{Kind: windowstate.ReqGetVisibleWindows, Window: window, ForceRefresh: true})
}
