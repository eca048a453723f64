package reactor

import (
	"github.com/ryanthedev/reactor/internal/events"
	"github.com/ryanthedev/reactor/internal/types"
	"github.com/ryanthedev/reactor/internal/windowstate"
)

// handleWindowFrameChanged implements the transaction protocol for
// frame reconciliation. TransactionId comparisons are equality-only by
// the type's own contract (wraparound makes ordering meaningless), so
// this folds the "last_seen < last_sent_txid" staleness check from the
// design notes into a single equality test: anything that isn't
// exactly the window's last-sent id is treated as a user-initiated
// change rather than ordered as older/newer.
func (r *Reactor) handleWindowFrameChanged(ev events.Event) {
	if r.missionControl || r.changingScreens[ev.Window] {
		return
	}
	if ev.Requested {
		return
	}

	w, ok := r.Windows.Window(ev.Window)
	if !ok {
		return
	}

	if ev.LastSeenTxId == w.LastTxId && w.LastTxId != 0 {
		entry, has := r.Tx.Outstanding(ev.Window)
		if !has {
			w.Frame = ev.NewFrame
			return
		}
		if entry.Target == ev.NewFrame {
			r.Tx.Complete(ev.Window, entry.TxId)
			w.Frame = ev.NewFrame
			return
		}
		// Intermediate frame mid-animation: ignore without updating the
		// model so frame_monotonic never regresses behind the target.
		return
	}

	r.handleUserInitiatedFrameChange(ev, w)
}

func (r *Reactor) handleUserInitiatedFrameChange(ev events.Event, w *windowstate.Window) {
	if ev.Mouse.Down || r.Drag.Dragging() {
		r.handleDragMove(ev, w)
		return
	}

	oldSpace := r.spaceForWorkspace(w.Workspace)
	oldFrame := w.Frame
	w.Frame = ev.NewFrame

	// ev.Space, when the compositor supplies it, is the space the window
	// now actually sits on; a frame change alone can't tell us that.
	if ev.Space != 0 && ev.Space != oldSpace {
		r.migrateWorkspace(ev.Window, w, ev.Space)
		return
	}
	if ev.NewFrame.Width != oldFrame.Width || ev.NewFrame.Height != oldFrame.Height {
		r.runLayoutPass(oldSpace, w.Workspace, true)
	}
}

func (r *Reactor) migrateWorkspace(window types.WindowId, w *windowstate.Window, newSpace types.SpaceId) {
	oldWs := w.Workspace
	newDisplay := r.displayFor(newSpace)
	newWs, ok := r.Workspaces.ActiveWorkspace(newDisplay)
	if !ok {
		return
	}
	oldSpace := r.spaceForWorkspace(oldWs)
	r.Layouts.RemoveWindow(oldSpace, oldWs, window)
	r.Workspaces.RemoveWindow(r.wsDisplay[oldWs], window)

	w.Workspace = newWs
	r.wsDisplay[newWs] = newDisplay
	r.Workspaces.AssignWindow(newDisplay, window, newWs)
	r.Layouts.AddWindow(newSpace, newWs, window)
	r.runLayoutPass(newSpace, newWs, false)
}
