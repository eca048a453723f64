// Package reactor implements the central single-writer event loop: a
// bounded multi-producer queue of (trace-span, Event) pairs folded one
// at a time into window, workspace, floating, and layout state, then
// reconciled out to app workers. Grounded in the teacher's
// single-shot command-then-exit process model (cmd/grid/main.go:
// connect, fetch snapshot, mutate, apply, save, exit), generalized
// here into a long-lived loop performing the same
// fetch/reconcile/mutate/apply/save sequence per folded event instead
// of once per invocation.
package reactor

import (
	"time"

	"github.com/ryanthedev/reactor/internal/broadcast"
	"github.com/ryanthedev/reactor/internal/config"
	"github.com/ryanthedev/reactor/internal/drag"
	"github.com/ryanthedev/reactor/internal/events"
	"github.com/ryanthedev/reactor/internal/floating"
	"github.com/ryanthedev/reactor/internal/layoutengine"
	"github.com/ryanthedev/reactor/internal/mainwindow"
	"github.com/ryanthedev/reactor/internal/persistence"
	"github.com/ryanthedev/reactor/internal/raise"
	"github.com/ryanthedev/reactor/internal/txstore"
	"github.com/ryanthedev/reactor/internal/types"
	"github.com/ryanthedev/reactor/internal/windowstate"
	"github.com/ryanthedev/reactor/internal/workspace"
)

// Envelope pairs an Event with the trace span it was produced under,
// the unit the bounded input channel carries.
type Envelope struct {
	TraceSpan string
	Event     events.Event
}

// OcclusionCheck reports whether candidate is fully covered on space by
// some other window above it in window-server order, used to suppress
// a focus-follows-mouse raise of a fully occluded window. A nil check
// (the default) never occludes, since probing live window-server order
// is an out-of-scope compositor collaborator.
type OcclusionCheck func(space types.SpaceId, candidate types.WindowId) bool

type autoSwitchRecord struct {
	from types.VirtualWorkspaceId
	to   types.VirtualWorkspaceId
	at   time.Time
}

// autoSwitchDebounce is the window within which a reversal of the most
// recent auto-switch on the same space is suppressed, per the
// workspace auto-switch-on-activation folding rule.
const autoSwitchDebounce = 300 * time.Millisecond

// Reactor is the sole writer of window, workspace, floating, and
// layout state. All of its exported methods assume single-goroutine
// use: callers push work onto Events and the owning goroutine drains
// it with Run.
type Reactor struct {
	cfg *config.Config

	Windows    *windowstate.Store
	Workspaces *workspace.Manager
	Floating   *floating.Manager
	Layouts    *layoutengine.Engine
	Drag       *drag.Manager
	Raise      *raise.Manager
	MainWindow *mainwindow.Tracker
	Broadcast  *broadcast.Hub
	Tx         *txstore.Store

	Events chan Envelope

	occluded OcclusionCheck

	// spaceDisplay/displaySpace track the current (SpaceId, display)
	// pairing advertised by the compositor; wsDisplay remembers which
	// display owns a workspace id for its whole lifetime, since a
	// workspace persists across the space shown on its display changing.
	spaceDisplay map[types.SpaceId]int
	displaySpace map[int]types.SpaceId
	wsDisplay    map[types.VirtualWorkspaceId]int

	changingScreens   map[types.WindowId]bool
	skipLayoutFor     map[types.WindowId]bool
	pendingDragSwap   *types.WindowId
	missionControl    bool
	autoSwitchHistory map[types.SpaceId]autoSwitchRecord
	statePath         string

	done chan struct{}
}

// Option configures optional collaborators at construction.
type Option func(*Reactor)

// WithOcclusionCheck installs a live occlusion collaborator.
func WithOcclusionCheck(fn OcclusionCheck) Option {
	return func(r *Reactor) { r.occluded = fn }
}

// WithStatePath overrides the default persistence path used by
// SaveAndExit.
func WithStatePath(path string) Option {
	return func(r *Reactor) { r.statePath = path }
}

// New constructs a Reactor wired to the given collaborators. queueSize
// bounds the input channel the way the concurrency model requires a
// bounded multi-producer queue rather than an unbounded one.
func New(cfg *config.Config, engine *layoutengine.Engine, queueSize int, opts ...Option) *Reactor {
	r := &Reactor{
		cfg:               cfg,
		Windows:           windowstate.New(),
		Workspaces:        workspace.New(),
		Floating:          floating.New(),
		Layouts:           engine,
		MainWindow:        mainwindow.New(),
		Broadcast:         broadcast.NewHub(),
		Tx:                txstore.New(),
		Events:            make(chan Envelope, queueSize),
		spaceDisplay:      make(map[types.SpaceId]int),
		displaySpace:      make(map[int]types.SpaceId),
		wsDisplay:         make(map[types.VirtualWorkspaceId]int),
		changingScreens:   make(map[types.WindowId]bool),
		skipLayoutFor:     make(map[types.WindowId]bool),
		autoSwitchHistory: make(map[types.SpaceId]autoSwitchRecord),
		statePath:         persistence.GetStatePath(),
		done:              make(chan struct{}),
	}
	r.Drag = drag.New(cfg.DragSwapFraction)
	r.Raise = raise.New(r.raiseWindow)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Done is closed once a SaveAndExit event has been fully processed.
func (r *Reactor) Done() <-chan struct{} { return r.done }

// Run drains Events until the channel is closed or a SaveAndExit event
// closes Done, whichever comes first.
func (r *Reactor) Run() {
	for {
		select {
		case env, ok := <-r.Events:
			if !ok {
				return
			}
			r.Handle(env)
		case <-r.done:
			return
		}
	}
}

// raiseWindow is the Raise Manager's RaiseFunc collaborator: it asks
// the owning app worker to raise one window. The request does not
// carry sequenceId; windowstate.Request has no field for it, so the
// worker is not told which sequence the raise belongs to.
func (r *Reactor) raiseWindow(app types.AppId, window types.WindowId, sequenceId string) {
	a, ok := r.Windows.App(app)
	if !ok || a.Handle == nil {
		return
	}
	a.Handle.Send(windowstate.Request{Kind: windowstate.ReqGetVisibleWindows, Window: window})
}

func (r *Reactor) displayFor(space types.SpaceId) int {
	d, ok := r.spaceDisplay[space]
	if !ok {
		d = len(r.spaceDisplay)
		r.spaceDisplay[space] = d
	}
	r.displaySpace[d] = space
	return d
}

// spaceForWindow returns the SpaceId currently showing window's
// workspace, or the zero SpaceId if the window's workspace is not yet
// associated with any display.
func (r *Reactor) spaceForWindow(window types.WindowId) types.SpaceId {
	w, ok := r.Windows.Window(window)
	if !ok {
		return types.SpaceId(0)
	}
	return r.spaceForWorkspace(w.Workspace)
}

func (r *Reactor) spaceForWorkspace(ws types.VirtualWorkspaceId) types.SpaceId {
	display, ok := r.wsDisplay[ws]
	if !ok {
		return types.SpaceId(0)
	}
	return r.displaySpace[display]
}
