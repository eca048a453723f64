// Package workspace implements the Virtual Workspace Manager: per
// display, an ordered set of named workspaces partitioning windows,
// assigned via app-rules with first-match-wins semantics. Generalizes
// the teacher's SpaceState/CellState/AssignWindow/RemoveWindow
// (internal/state/state.go), replacing its string-keyed maps with
// slotarena-backed generational ids and its per-cell window lists with
// per-workspace membership sets.
package workspace

import (
	"fmt"

	"github.com/ryanthedev/reactor/internal/config"
	"github.com/ryanthedev/reactor/internal/slotarena"
	"github.com/ryanthedev/reactor/internal/types"
)

// MaxWorkspacesPerDisplay bounds how many workspaces one display may
// hold.
const MaxWorkspacesPerDisplay = 32

// Workspace is one named partition of windows within a display's space.
type Workspace struct {
	Id            types.VirtualWorkspaceId
	Name          string
	Members       map[types.WindowId]bool
	LastFocused   types.WindowId
	HasFocus      bool
	FloatingPos   map[types.WindowId]types.Rect
}

// Display tracks the ordered workspace list for one physical display.
type Display struct {
	order  []types.VirtualWorkspaceId
	active int // index into order
	last   int // index of the previously active workspace, for SwitchToLastWorkspace
}

// Manager owns all displays' workspaces in one slot arena, so a stale
// VirtualWorkspaceId from a destroyed workspace can never alias a
// later allocation at the same slot.
type Manager struct {
	arena    *slotarena.Arena[*Workspace]
	displays map[int]*Display
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{
		arena:    slotarena.New[*Workspace](),
		displays: make(map[int]*Display),
	}
}

// CreateWorkspace adds a new workspace to display and returns its id.
// Returns an error if the display already holds MaxWorkspacesPerDisplay
// workspaces.
func (m *Manager) CreateWorkspace(display int, name string) (types.VirtualWorkspaceId, error) {
	d := m.displayFor(display)
	if len(d.order) >= MaxWorkspacesPerDisplay {
		return types.VirtualWorkspaceId{}, fmt.Errorf("display %d already has %d workspaces", display, MaxWorkspacesPerDisplay)
	}

	ws := &Workspace{
		Name:        name,
		Members:     make(map[types.WindowId]bool),
		FloatingPos: make(map[types.WindowId]types.Rect),
	}
	key := m.arena.Insert(ws)
	id := types.VirtualWorkspaceId(key)
	ws.Id = id
	d.order = append(d.order, id)
	if len(d.order) == 1 {
		d.active = 0
	}
	return id, nil
}

func (m *Manager) displayFor(display int) *Display {
	d, ok := m.displays[display]
	if !ok {
		d = &Display{}
		m.displays[display] = d
	}
	return d
}

// Workspace returns the workspace for id.
func (m *Manager) Workspace(id types.VirtualWorkspaceId) (*Workspace, bool) {
	return m.arena.Get(slotarena.Key(id))
}

// WorkspacesFor returns every workspace on display in order, for
// read-only presentation (dump/status output); callers must not mutate
// the returned Workspace values.
func (m *Manager) WorkspacesFor(display int) []*Workspace {
	d, ok := m.displays[display]
	if !ok {
		return nil
	}
	out := make([]*Workspace, 0, len(d.order))
	for _, id := range d.order {
		if ws, ok := m.Workspace(id); ok {
			out = append(out, ws)
		}
	}
	return out
}

// ActiveWorkspace returns the id of the active workspace on display.
func (m *Manager) ActiveWorkspace(display int) (types.VirtualWorkspaceId, bool) {
	d, ok := m.displays[display]
	if !ok || len(d.order) == 0 {
		return types.VirtualWorkspaceId{}, false
	}
	return d.order[d.active], true
}

// AssignWindow moves window into the named workspace on display,
// removing it from any other workspace on the same display first, and
// marks it as the workspace's newly-focused member.
func (m *Manager) AssignWindow(display int, window types.WindowId, ws types.VirtualWorkspaceId) error {
	workspace, ok := m.Workspace(ws)
	if !ok {
		return fmt.Errorf("unknown workspace %v", ws)
	}
	m.RemoveWindow(display, window)
	workspace.Members[window] = true
	workspace.LastFocused = window
	workspace.HasFocus = true
	return nil
}

// RemoveWindow removes window from whichever workspace on display
// currently holds it, if any.
func (m *Manager) RemoveWindow(display int, window types.WindowId) {
	d, ok := m.displays[display]
	if !ok {
		return
	}
	for _, id := range d.order {
		ws, ok := m.Workspace(id)
		if !ok {
			continue
		}
		if ws.Members[window] {
			delete(ws.Members, window)
			if ws.LastFocused == window {
				ws.HasFocus = false
			}
			return
		}
	}
}

// WindowWorkspace returns the workspace id on display currently holding
// window, if any.
func (m *Manager) WindowWorkspace(display int, window types.WindowId) (types.VirtualWorkspaceId, bool) {
	d, ok := m.displays[display]
	if !ok {
		return types.VirtualWorkspaceId{}, false
	}
	for _, id := range d.order {
		ws, ok := m.Workspace(id)
		if ok && ws.Members[window] {
			return id, true
		}
	}
	return types.VirtualWorkspaceId{}, false
}

// AssignByRules picks the workspace for a newly-seen window using the
// config's app-rules, falling back to the active workspace when no
// rule matches. Returns the chosen workspace id and whether the rule
// that matched (if any) marked the window floating.
func (m *Manager) AssignByRules(display int, window types.WindowId, appId, appName, title, axRole, axSubrole string, rules []config.AppRule) (types.VirtualWorkspaceId, bool, error) {
	rule, matched := config.MatchAppRule(rules, appId, appName, title, axRole, axSubrole)
	if matched && rule.PreferredWorkspace != "" {
		if id, ok := m.findByName(display, rule.PreferredWorkspace); ok {
			return id, rule.Float, m.AssignWindow(display, window, id)
		}
	}

	active, ok := m.ActiveWorkspace(display)
	if !ok {
		return types.VirtualWorkspaceId{}, false, fmt.Errorf("display %d has no active workspace", display)
	}
	floating := matched && rule.Float
	return active, floating, m.AssignWindow(display, window, active)
}

func (m *Manager) findByName(display int, name string) (types.VirtualWorkspaceId, bool) {
	d, ok := m.displays[display]
	if !ok {
		return types.VirtualWorkspaceId{}, false
	}
	for _, id := range d.order {
		ws, ok := m.Workspace(id)
		if ok && ws.Name == name {
			return id, true
		}
	}
	return types.VirtualWorkspaceId{}, false
}

// NextWorkspace activates the workspace after the current one on
// display, wrapping around. If skipEmpty is set, workspaces with no
// members are skipped unless all are empty.
func (m *Manager) NextWorkspace(display int, skipEmpty bool) (types.VirtualWorkspaceId, error) {
	return m.step(display, 1, skipEmpty)
}

// PrevWorkspace activates the workspace before the current one on
// display, wrapping around.
func (m *Manager) PrevWorkspace(display int, skipEmpty bool) (types.VirtualWorkspaceId, error) {
	return m.step(display, -1, skipEmpty)
}

func (m *Manager) step(display, delta int, skipEmpty bool) (types.VirtualWorkspaceId, error) {
	d, ok := m.displays[display]
	if !ok || len(d.order) == 0 {
		return types.VirtualWorkspaceId{}, fmt.Errorf("display %d has no workspaces", display)
	}
	n := len(d.order)
	idx := d.active
	for i := 0; i < n; i++ {
		idx = ((idx+delta)%n + n) % n
		if !skipEmpty {
			break
		}
		ws, ok := m.Workspace(d.order[idx])
		if ok && len(ws.Members) > 0 {
			break
		}
		if i == n-1 {
			idx = d.active
		}
	}
	d.last = d.active
	d.active = idx
	return d.order[d.active], nil
}

// SwitchTo activates the workspace at index on display. Switching to
// the already-active workspace is a no-op that still returns its id.
func (m *Manager) SwitchTo(display, index int) (types.VirtualWorkspaceId, error) {
	d, ok := m.displays[display]
	if !ok || index < 0 || index >= len(d.order) {
		return types.VirtualWorkspaceId{}, fmt.Errorf("display %d has no workspace at index %d", display, index)
	}
	if index != d.active {
		d.last = d.active
		d.active = index
	}
	return d.order[d.active], nil
}

// SwitchToLast activates whichever workspace was active immediately
// before the current one.
func (m *Manager) SwitchToLast(display int) (types.VirtualWorkspaceId, error) {
	d, ok := m.displays[display]
	if !ok || len(d.order) == 0 {
		return types.VirtualWorkspaceId{}, fmt.Errorf("display %d has no workspaces", display)
	}
	d.active, d.last = d.last, d.active
	return d.order[d.active], nil
}

// IndexOf returns ws's position in display's ordered workspace list, if
// it belongs to display at all.
func (m *Manager) IndexOf(display int, ws types.VirtualWorkspaceId) (int, bool) {
	d, ok := m.displays[display]
	if !ok {
		return 0, false
	}
	for i, id := range d.order {
		if id == ws {
			return i, true
		}
	}
	return 0, false
}

// MoveWindowTo reassigns window to the workspace at index on display.
func (m *Manager) MoveWindowTo(display int, window types.WindowId, index int) (types.VirtualWorkspaceId, error) {
	d, ok := m.displays[display]
	if !ok || index < 0 || index >= len(d.order) {
		return types.VirtualWorkspaceId{}, fmt.Errorf("display %d has no workspace at index %d", display, index)
	}
	id := d.order[index]
	return id, m.AssignWindow(display, window, id)
}

// SetFloatingPosition remembers the last on-screen rect a floating
// window occupied within a workspace, restored the next time it is
// unhidden.
func (m *Manager) SetFloatingPosition(ws types.VirtualWorkspaceId, window types.WindowId, rect types.Rect) {
	w, ok := m.Workspace(ws)
	if !ok {
		return
	}
	w.FloatingPos[window] = rect
}

// FloatingPosition returns the remembered rect for a floating window in
// a workspace, if any.
func (m *Manager) FloatingPosition(ws types.VirtualWorkspaceId, window types.WindowId) (types.Rect, bool) {
	w, ok := m.Workspace(ws)
	if !ok {
		return types.Rect{}, false
	}
	r, ok := w.FloatingPos[window]
	return r, ok
}

// WorkspaceSnapshot is the persisted form of one workspace, independent
// of the live slotarena id it currently occupies.
type WorkspaceSnapshot struct {
	Name        string                          `yaml:"name"`
	Members     []types.WindowId                `yaml:"members,omitempty"`
	FloatingPos map[types.WindowId]types.Rect    `yaml:"floating_pos,omitempty"`
}

// DisplaySnapshot is the persisted ordered workspace list for one
// display.
type DisplaySnapshot struct {
	Display    int                 `yaml:"display"`
	Workspaces []WorkspaceSnapshot `yaml:"workspaces"`
	Active     int                 `yaml:"active"`
}

// Snapshot captures every display's workspaces for persistence. Window
// membership survives a restart by WindowId, which is stable across
// process lifetimes, rather than by the slotarena id, which is not.
func (m *Manager) Snapshot() []DisplaySnapshot {
	var out []DisplaySnapshot
	for display, d := range m.displays {
		snap := DisplaySnapshot{Display: display, Active: d.active}
		for _, id := range d.order {
			ws, ok := m.Workspace(id)
			if !ok {
				continue
			}
			wsnap := WorkspaceSnapshot{Name: ws.Name, FloatingPos: ws.FloatingPos}
			for w := range ws.Members {
				wsnap.Members = append(wsnap.Members, w)
			}
			snap.Workspaces = append(snap.Workspaces, wsnap)
		}
		out = append(out, snap)
	}
	return out
}

// Restore rebuilds the manager's displays and workspaces from a
// previously captured Snapshot, replacing any existing state.
func (m *Manager) Restore(snaps []DisplaySnapshot) error {
	m.arena = slotarena.New[*Workspace]()
	m.displays = make(map[int]*Display)

	for _, snap := range snaps {
		d := m.displayFor(snap.Display)
		for _, wsnap := range snap.Workspaces {
			id, err := m.CreateWorkspace(snap.Display, wsnap.Name)
			if err != nil {
				return err
			}
			ws, _ := m.Workspace(id)
			for _, w := range wsnap.Members {
				ws.Members[w] = true
			}
			if wsnap.FloatingPos != nil {
				ws.FloatingPos = wsnap.FloatingPos
			}
		}
		if snap.Active >= 0 && snap.Active < len(d.order) {
			d.active = snap.Active
		}
	}
	return nil
}
