// Package layoutengine owns the three layout systems (traditional, BSP,
// scroll) behind a common interface, routes commands to whichever one
// currently owns a workspace, and tracks the per-(space, workspace)
// active LayoutId via a WorkspaceLayouts table. Generalizes the
// teacher's tagged-type-switch over types.StackMode/TrackType into a
// proper interface boundary, since this spec has three full layout
// algorithms rather than one grid formula.
package layoutengine

import (
	"math"

	"github.com/ryanthedev/reactor/internal/config"
	"github.com/ryanthedev/reactor/internal/events"
	"github.com/ryanthedev/reactor/internal/types"
)

// Placement is one window's computed on-screen rect for a layout pass.
type Placement struct {
	Window types.WindowId
	Rect   types.Rect
}

// System is the capability set every layout algorithm implements.
// Adding a new layout mode is a new implementation of this interface;
// the Engine routes to the current one by configuration. Methods named
// "of selection" act on the layout's own notion of a currently-selected
// node rather than an explicit window argument, mirroring the
// original's tree.*_of_selection calls.
type System interface {
	CreateLayout(bounds types.Rect) types.LayoutId
	RemoveLayout(id types.LayoutId)
	CalculateLayout(id types.LayoutId) []Placement
	MoveFocus(id types.LayoutId, dir types.Direction) (types.WindowId, bool)
	SelectedWindow(id types.LayoutId) (types.WindowId, bool)
	AddWindow(id types.LayoutId, window types.WindowId) error
	RemoveWindow(id types.LayoutId, window types.WindowId) error
	Swap(id types.LayoutId, a, b types.WindowId) error
	Resize(id types.LayoutId, window types.WindowId, grow bool) error
	SetBounds(id types.LayoutId, bounds types.Rect)
	Serialize(id types.LayoutId) (interface{}, error)
	Deserialize(id types.LayoutId, blob interface{}) error

	// AscendSelection/DescendSelection walk the selection up toward the
	// root or back down toward a leaf, since selection is a path from
	// root rather than always a leaf.
	AscendSelection(id types.LayoutId) bool
	DescendSelection(id types.LayoutId) bool
	// MoveSelection relocates the selected node within the nearest
	// enclosing container oriented along dir's axis.
	MoveSelection(id types.LayoutId, dir types.Direction) bool
	// JoinSelection nests the selection and its dir-neighbor inside a
	// new tabbed container; UnjoinSelection splices a tabbed container
	// back into its parent.
	JoinSelection(id types.LayoutId, dir types.Direction) ([]types.WindowId, error)
	UnjoinSelection(id types.LayoutId) error
	// StackSelection/UnstackSelection flip the selection's parent
	// container in place between stacked and horizontal.
	StackSelection(id types.LayoutId) ([]types.WindowId, error)
	UnstackSelection(id types.LayoutId) ([]types.WindowId, error)
	ToggleTileOrientation(id types.LayoutId) error
	ToggleFullscreen(id types.LayoutId) ([]types.WindowId, error)
	ToggleFullscreenWithinGaps(id types.LayoutId) ([]types.WindowId, error)
}

// scrollSystem is the Scroll-only command surface, analogous to the
// original's `if let LayoutSystemKind::Scroll(system) = &mut self.tree`
// match arm: ScrollWorkspace only does anything when the active system
// implements it.
type scrollSystem interface {
	ScrollBy(id types.LayoutId, delta float64) (types.WindowId, bool, error)
	Finalize(id types.LayoutId) error
}

// scrollEpsilon mirrors f64::EPSILON's role in the original: a scroll
// delta this small or smaller is treated as "finalize only".
const scrollEpsilon = 1e-9

// workspaceKey identifies a layout slot by space and workspace.
type workspaceKey struct {
	Space     types.SpaceId
	Workspace types.VirtualWorkspaceId
}

// Engine owns all three layout systems and routes commands to whichever
// one the active config.LayoutMode selects.
type Engine struct {
	cfg    *config.Config
	active System

	traditional System
	bsp         System
	scroll      System

	layouts map[workspaceKey]types.LayoutId
}

// NewEngine constructs an Engine with all three systems wired in,
// selecting the active one from cfg.LayoutMode.
func NewEngine(cfg *config.Config, traditional, bsp, scroll System) *Engine {
	e := &Engine{
		cfg:         cfg,
		traditional: traditional,
		bsp:         bsp,
		scroll:      scroll,
		layouts:     make(map[workspaceKey]types.LayoutId),
	}
	e.selectActive()
	return e
}

func (e *Engine) selectActive() {
	switch e.cfg.LayoutMode {
	case config.LayoutBSP:
		e.active = e.bsp
	case config.LayoutScroll:
		e.active = e.scroll
	default:
		e.active = e.traditional
	}
}

// UpdateConfig swaps in a freshly reloaded configuration, re-selecting
// the active layout system if the mode changed.
func (e *Engine) UpdateConfig(cfg *config.Config) {
	e.cfg = cfg
	e.selectActive()
}

// SpaceExposed ensures a layout exists for (space, workspace), creating
// one with bounds if it does not.
func (e *Engine) SpaceExposed(space types.SpaceId, ws types.VirtualWorkspaceId, bounds types.Rect) types.LayoutId {
	key := workspaceKey{space, ws}
	if id, ok := e.layouts[key]; ok {
		e.active.SetBounds(id, bounds)
		return id
	}
	id := e.active.CreateLayout(bounds)
	e.layouts[key] = id
	return id
}

func (e *Engine) layoutFor(space types.SpaceId, ws types.VirtualWorkspaceId) (types.LayoutId, bool) {
	id, ok := e.layouts[workspaceKey{space, ws}]
	return id, ok
}

// AddWindow adds window to the layout for (space, workspace).
func (e *Engine) AddWindow(space types.SpaceId, ws types.VirtualWorkspaceId, window types.WindowId) error {
	id, ok := e.layoutFor(space, ws)
	if !ok {
		return errNoLayout(space, ws)
	}
	return e.active.AddWindow(id, window)
}

// RemoveWindow removes window from the layout for (space, workspace).
func (e *Engine) RemoveWindow(space types.SpaceId, ws types.VirtualWorkspaceId, window types.WindowId) error {
	id, ok := e.layoutFor(space, ws)
	if !ok {
		return errNoLayout(space, ws)
	}
	return e.active.RemoveWindow(id, window)
}

// CalculateLayout computes placements for the layout at (space,
// workspace).
func (e *Engine) CalculateLayout(space types.SpaceId, ws types.VirtualWorkspaceId) ([]Placement, error) {
	id, ok := e.layoutFor(space, ws)
	if !ok {
		return nil, errNoLayout(space, ws)
	}
	return e.active.CalculateLayout(id), nil
}

// SelectedWindow returns the active system's current selection for
// (space, workspace), used by callers (e.g. ToggleFocusFloating) that
// live above the layout engine but still need to know the tiled focus.
func (e *Engine) SelectedWindow(space types.SpaceId, ws types.VirtualWorkspaceId) (types.WindowId, bool) {
	id, ok := e.layoutFor(space, ws)
	if !ok {
		return types.WindowId{}, false
	}
	return e.active.SelectedWindow(id)
}

// Dispatch routes a single command to the active layout system for
// (space, workspace) and returns the resulting response. Every
// CommandKind the layout engine owns (everything but the
// workspace-management and floating-state kinds the reactor intercepts
// before calling in) is routed here to a System method.
func (e *Engine) Dispatch(space types.SpaceId, ws types.VirtualWorkspaceId, cmd events.Command) (events.LayoutResponse, error) {
	id, ok := e.layoutFor(space, ws)
	if !ok {
		return events.LayoutResponse{}, errNoLayout(space, ws)
	}

	switch cmd.Kind {
	case events.CmdMoveFocus:
		return e.moveFocusResponse(id, cmd.Direction), nil
	case events.CmdNextWindow:
		return e.moveFocusResponse(id, types.DirLeft), nil
	case events.CmdPrevWindow:
		return e.moveFocusResponse(id, types.DirRight), nil
	case events.CmdAscend:
		e.active.AscendSelection(id)
		return events.LayoutResponse{}, nil
	case events.CmdDescend:
		e.active.DescendSelection(id)
		return events.LayoutResponse{}, nil
	case events.CmdMoveNode:
		e.active.MoveSelection(id, cmd.Direction)
		return events.LayoutResponse{}, nil
	case events.CmdJoinWindow:
		if _, err := e.active.JoinSelection(id, cmd.Direction); err != nil {
			return events.LayoutResponse{}, err
		}
		return events.LayoutResponse{}, nil
	case events.CmdStackWindows:
		windows, err := e.active.StackSelection(id)
		if err != nil {
			return events.LayoutResponse{}, err
		}
		return events.LayoutResponse{RaiseWindows: windows}, nil
	case events.CmdUnstackWindows:
		windows, err := e.active.UnstackSelection(id)
		if err != nil {
			return events.LayoutResponse{}, err
		}
		return events.LayoutResponse{RaiseWindows: windows}, nil
	case events.CmdUnjoinWindows:
		if err := e.active.UnjoinSelection(id); err != nil {
			return events.LayoutResponse{}, err
		}
		return events.LayoutResponse{}, nil
	case events.CmdToggleTileOrientation:
		if err := e.active.ToggleTileOrientation(id); err != nil {
			return events.LayoutResponse{}, err
		}
		return events.LayoutResponse{}, nil
	case events.CmdSwapWindows:
		if err := e.active.Swap(id, cmd.Window, cmd.Target); err != nil {
			return events.LayoutResponse{}, err
		}
		return events.LayoutResponse{}, nil
	case events.CmdToggleFullscreen:
		windows, err := e.active.ToggleFullscreen(id)
		if err != nil {
			return events.LayoutResponse{}, err
		}
		return events.LayoutResponse{RaiseWindows: windows}, nil
	case events.CmdToggleFullscreenWithinGaps:
		windows, err := e.active.ToggleFullscreenWithinGaps(id)
		if err != nil {
			return events.LayoutResponse{}, err
		}
		return events.LayoutResponse{RaiseWindows: windows}, nil
	case events.CmdResizeWindowGrow:
		return events.LayoutResponse{}, e.active.Resize(id, cmd.Window, true)
	case events.CmdResizeWindowShrink:
		return events.LayoutResponse{}, e.active.Resize(id, cmd.Window, false)
	case events.CmdScrollWorkspace:
		return e.dispatchScroll(id, cmd)
	default:
		return events.LayoutResponse{}, nil
	}
}

func (e *Engine) moveFocusResponse(id types.LayoutId, dir types.Direction) events.LayoutResponse {
	w, ok := e.active.MoveFocus(id, dir)
	if !ok {
		return events.LayoutResponse{}
	}
	return events.LayoutResponse{FocusWindow: &w, RaiseWindows: []types.WindowId{w}}
}

// dispatchScroll is the only command that only one layout system (Scroll)
// answers; other systems leave e.active.(scrollSystem) failing the
// assertion and the command becomes a no-op, same as the original's
// enum match that only fires for LayoutSystemKind::Scroll.
func (e *Engine) dispatchScroll(id types.LayoutId, cmd events.Command) (events.LayoutResponse, error) {
	sc, ok := e.active.(scrollSystem)
	if !ok {
		return events.LayoutResponse{}, nil
	}

	var focus *types.WindowId
	if math.Abs(cmd.ScrollDelta) > scrollEpsilon {
		w, changed, err := sc.ScrollBy(id, cmd.ScrollDelta)
		if err != nil {
			return events.LayoutResponse{}, err
		}
		if changed {
			focus = &w
		}
	}
	if cmd.ScrollFinalize {
		if err := sc.Finalize(id); err != nil {
			return events.LayoutResponse{}, err
		}
		if focus == nil {
			if w, ok := e.active.SelectedWindow(id); ok {
				focus = &w
			}
		}
	}
	if focus == nil {
		return events.LayoutResponse{}, nil
	}
	return events.LayoutResponse{FocusWindow: focus, RaiseWindows: []types.WindowId{*focus}}, nil
}

func errNoLayout(space types.SpaceId, ws types.VirtualWorkspaceId) error {
	return &NoLayoutError{Space: space, Workspace: ws}
}

// NoLayoutError reports that no layout has been exposed yet for a
// (space, workspace) pair.
type NoLayoutError struct {
	Space     types.SpaceId
	Workspace types.VirtualWorkspaceId
}

func (e *NoLayoutError) Error() string {
	return "no layout exposed for this space/workspace pair"
}
