// Package events defines the reactor's closed event and command sets.
// An Event is anything an external collaborator (app worker, window
// server, input tap, CLI, config watcher) pushes onto the reactor's
// queue; a Command is the layout engine's closed vocabulary of
// mutations routed to whichever layout system currently owns a
// workspace.
package events

import (
	"time"

	"github.com/ryanthedev/reactor/internal/config"
	"github.com/ryanthedev/reactor/internal/types"
)

// MouseState reports whether the mouse button is currently held down
// over a window, carried on every event that can originate mid-drag.
type MouseState struct {
	Down bool
}

// WindowInfo is the app-worker-supplied description of a window, used
// in place of live accessibility-tree probing (out of scope; the
// per-application worker is an opaque collaborator behind an
// interface).
type WindowInfo struct {
	Title      string
	Frame      types.Rect
	Standard   bool
	Root       bool
	Minimized  bool
	Sticky     bool
	LayerIsNormal bool
	LevelIsNormal bool
	BundleID   string
	AXRole     string
	AXSubrole  string
	ServerId   types.WindowServerId
}

// Kind identifies which Event variant a value carries.
type Kind int

const (
	KindScreenParametersChanged Kind = iota
	KindSpaceChanged
	KindApplicationLaunched
	KindApplicationTerminated
	KindApplicationThreadTerminated
	KindApplicationGloballyActivated
	KindWindowCreated
	KindWindowDestroyed
	KindWindowServerDestroyed
	KindWindowServerAppeared
	KindWindowMinimized
	KindWindowDeminiaturized
	KindWindowFrameChanged
	KindMouseUp
	KindMouseMovedOverWindow
	KindMissionControlNativeEntered
	KindMissionControlNativeExited
	KindRaiseCompleted
	KindRaiseTimeout
	KindCommand
	KindConfigUpdated
	KindApplyAppRulesToExistingWindows
	KindSaveAndExit
)

// ScreenInfo pairs a screen's frame with the space currently shown on
// it; Space is the zero value when the screen has no space assigned.
type ScreenInfo struct {
	Frame types.Rect
	Space types.SpaceId
	HasSpace bool
}

// Event is the closed set of inputs the reactor's event loop accepts.
// Exactly one of the typed fields is meaningful, selected by Kind; this
// mirrors a tagged union using a Go struct instead of an interface so
// the reactor's dispatch switch stays exhaustive and cheap to
// construct from any collaborator goroutine.
type Event struct {
	Kind Kind

	// ScreenParametersChanged / SpaceChanged
	Screens []ScreenInfo

	// ApplicationLaunched / Terminated / ThreadTerminated / GloballyActivated
	AppId types.AppId
	BundleID string

	// WindowCreated / Destroyed / FrameChanged / Minimized / Deminiaturized
	Window     types.WindowId
	WindowInfo WindowInfo
	Mouse      MouseState

	// WindowServerDestroyed / Appeared / WindowCreated (the space the
	// window was created on)
	ServerId types.WindowServerId
	Space    types.SpaceId

	// WindowFrameChanged
	NewFrame      types.Rect
	LastSeenTxId  types.TransactionId
	Requested     bool

	// MouseMovedOverWindow
	HoverServerId types.WindowServerId

	// RaiseCompleted / RaiseTimeout
	SequenceId string

	// Command
	Command Command

	// ConfigUpdated
	Config *config.Config

	// Response is set for query-style commands that expect a synchronous
	// reply; nil for fire-and-forget events.
	Response chan LayoutResponse

	TraceSpan string
	Time      time.Time
}

// CommandKind is the closed set of layout-engine mutations.
type CommandKind int

const (
	CmdMoveFocus CommandKind = iota
	CmdNextWindow
	CmdPrevWindow
	CmdAscend
	CmdDescend
	CmdMoveNode
	CmdJoinWindow
	CmdStackWindows
	CmdUnstackWindows
	CmdUnjoinWindows
	CmdToggleTileOrientation
	CmdSwapWindows
	CmdToggleFocusFloating
	CmdToggleWindowFloating
	CmdToggleFullscreen
	CmdToggleFullscreenWithinGaps
	CmdResizeWindowGrow
	CmdResizeWindowShrink
	CmdScrollWorkspace
	CmdNextWorkspace
	CmdPrevWorkspace
	CmdSwitchToWorkspace
	CmdMoveWindowToWorkspace
	CmdCreateWorkspace
	CmdSwitchToLastWorkspace
)

// Command carries a CommandKind plus whichever of the following fields
// that kind requires.
type Command struct {
	Kind CommandKind

	Space     types.SpaceId
	Direction types.Direction

	Window types.WindowId
	Target types.WindowId

	WorkspaceIndex int
	SkipEmpty      bool

	ScrollDelta    float64
	ScrollFinalize bool
}

// LayoutResponse is returned by the layout engine for every command:
// windows that should be raised (grouped implicitly by the reactor per
// app) and an optional window that should receive input focus.
type LayoutResponse struct {
	RaiseWindows []types.WindowId
	FocusWindow  *types.WindowId
}
