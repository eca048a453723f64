// Package windowstate tracks everything the reactor knows about a
// window and an application: last-known frame, accessibility flags,
// computed manageability, and the send handle used to reach the
// owning app worker. This generalizes the teacher's heuristic
// ClassifyWindow (internal/layout/assignment.go), which inferred these
// booleans from a live accessibility tree, into a direct-field
// predicate since AX probing is the out-of-scope app-worker
// collaborator's job.
package windowstate

import (
	"sync"

	"github.com/ryanthedev/reactor/internal/events"
	"github.com/ryanthedev/reactor/internal/types"
)

// Window is everything known about one window.
type Window struct {
	Id             types.WindowId
	ServerId       types.WindowServerId
	Title          string
	Frame          types.Rect
	Standard       bool
	Root           bool
	Minimized      bool
	Sticky         bool
	LayerIsNormal  bool
	LevelIsNormal  bool
	BundleID       string
	AXRole         string
	AXSubrole      string
	LastTxId       types.TransactionId
	Workspace      types.VirtualWorkspaceId
}

// Manageable reports whether w is eligible to participate in a layout:
// standard AND root AND not minimized AND on the normal compositor
// layer AND not sticky AND at the normal window level.
func (w *Window) Manageable() bool {
	return w.Standard && w.Root && !w.Minimized && !w.Sticky && w.LayerIsNormal && w.LevelIsNormal
}

// FromInfo builds a Window from app-worker-supplied info, the manageability
// inputs this system takes as given rather than deriving via AX heuristics.
func FromInfo(id types.WindowId, info events.WindowInfo) *Window {
	return &Window{
		Id:            id,
		ServerId:      info.ServerId,
		Title:         info.Title,
		Frame:         info.Frame,
		Standard:      info.Standard,
		Root:          info.Root,
		Minimized:     info.Minimized,
		Sticky:        info.Sticky,
		LayerIsNormal: info.LayerIsNormal,
		LevelIsNormal: info.LevelIsNormal,
		BundleID:      info.BundleID,
		AXRole:        info.AXRole,
		AXSubrole:     info.AXSubrole,
	}
}

// SendHandle is the reactor's handle to an application's worker
// goroutine, generalizing the teacher's internal/client.Client
// request/response shape (method+params in, result+error out) from a
// Unix-socket RPC client to an in-process channel.
type SendHandle interface {
	Send(req Request) Response
}

// Request is one outbound message to an app worker, matching the
// closed set in the app worker request protocol.
type Request struct {
	Kind                 RequestKind
	ForceRefresh         bool
	Window               types.WindowId
	Frame                types.Rect
	TxId                 types.TransactionId
	AnimationSuppressed  bool
	BatchFrames          map[types.WindowId]types.Rect
	NeedInfo             []types.WindowId
}

// RequestKind is the closed set of messages the reactor sends to an
// app worker.
type RequestKind int

const (
	ReqGetVisibleWindows RequestKind = iota
	ReqSetWindowFrame
	ReqSetBatchWindowFrame
	ReqMarkWindowsNeedingInfo
	ReqTerminate
)

// Response is an app worker's reply to a Request.
type Response struct {
	Windows []events.WindowInfo
	Err     error
}

// App is the reactor's record of one running application.
type App struct {
	Id       types.AppId
	BundleID string
	Handle   SendHandle
}

// Store holds all known windows and applications, guarded by a single
// RWMutex the way the teacher's RuntimeState guards its maps
// (internal/state/state.go).
type Store struct {
	mu      sync.RWMutex
	windows map[types.WindowId]*Window
	apps    map[types.AppId]*App
	byServerId map[types.WindowServerId]types.WindowId
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		windows:    make(map[types.WindowId]*Window),
		apps:       make(map[types.AppId]*App),
		byServerId: make(map[types.WindowServerId]types.WindowId),
	}
}

// PutWindow records or replaces a window's state.
func (s *Store) PutWindow(w *Window) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[w.Id] = w
	if w.ServerId != 0 {
		s.byServerId[w.ServerId] = w.Id
	}
}

// Window returns the tracked state for id.
func (s *Store) Window(id types.WindowId) (*Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[id]
	return w, ok
}

// WindowByServerId resolves a compositor-assigned id back to a WindowId.
func (s *Store) WindowByServerId(sid types.WindowServerId) (types.WindowId, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byServerId[sid]
	return id, ok
}

// RemoveWindow drops a window's tracked state entirely.
func (s *Store) RemoveWindow(id types.WindowId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.windows[id]; ok {
		delete(s.byServerId, w.ServerId)
	}
	delete(s.windows, id)
}

// PutApp records or replaces an application's state. Called on
// ApplicationLaunched.
func (s *Store) PutApp(a *App) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[a.Id] = a
}

// App returns the tracked state for id.
func (s *Store) App(id types.AppId) (*App, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.apps[id]
	return a, ok
}

// RemoveApp drops an application's tracked state. Called on
// ApplicationTerminated (process gone), never on
// ApplicationThreadTerminated (handle-only removal is the caller's
// responsibility, since that case must not remove the app's windows
// from the layout).
func (s *Store) RemoveApp(id types.AppId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.apps, id)
}

// AllWindows returns every tracked window, in no particular order.
func (s *Store) AllWindows() []*Window {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Window, 0, len(s.windows))
	for _, w := range s.windows {
		out = append(out, w)
	}
	return out
}

// WindowsForApp returns every tracked window belonging to app id.
func (s *Store) WindowsForApp(app types.AppId) []*Window {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Window
	for id, w := range s.windows {
		if id.App == app {
			out = append(out, w)
		}
	}
	return out
}
