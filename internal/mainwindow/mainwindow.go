// Package mainwindow implements the Main-Window Tracker: a pure fold
// over application-activation/deactivation and main-window-changed
// events into a single "focused window changed" signal. Grounded in
// the teacher's logContextChange pattern (internal/layout/reconcile.go,
// internal/reconcile/reconcile.go), which already diffs a previous
// context against the current one and logs only when something
// actually changed; generalized here from a logging side-effect into
// the signal itself.
package mainwindow

import "github.com/ryanthedev/reactor/internal/types"

// Tracker folds per-app main-window and activation events into the
// reactor's current notion of "the focused window."
type Tracker struct {
	activeApp   types.AppId
	hasActive   bool
	mainWindow  map[types.AppId]types.WindowId
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{mainWindow: make(map[types.AppId]types.WindowId)}
}

// MainWindowChanged records app's current main window. Returns the new
// focused-window signal (and true) only if app is the active app, so a
// background app's main-window change does not emit a spurious focus
// hint.
func (t *Tracker) MainWindowChanged(app types.AppId, window types.WindowId) (types.WindowId, bool) {
	prev, hadPrev := t.mainWindow[app]
	t.mainWindow[app] = window
	if !t.hasActive || t.activeApp != app {
		return types.WindowId{}, false
	}
	if hadPrev && prev == window {
		return types.WindowId{}, false
	}
	return window, true
}

// ApplicationActivated records app as the globally active application
// and returns its known main window as the new focus signal, if any.
func (t *Tracker) ApplicationActivated(app types.AppId) (types.WindowId, bool) {
	t.activeApp = app
	t.hasActive = true
	w, ok := t.mainWindow[app]
	return w, ok
}

// ApplicationDeactivated clears the active-app marker if app was it.
func (t *Tracker) ApplicationDeactivated(app types.AppId) {
	if t.hasActive && t.activeApp == app {
		t.hasActive = false
	}
}

// RemoveApp drops all tracked state for a terminated application.
func (t *Tracker) RemoveApp(app types.AppId) {
	delete(t.mainWindow, app)
	if t.hasActive && t.activeApp == app {
		t.hasActive = false
	}
}
