// Package floating implements the Floating Manager: which windows are
// floating rather than tiled, per space, plus the last floating window
// that held input focus so ToggleFocusFloating can restore it.
package floating

import (
	"sync"

	"github.com/ryanthedev/reactor/internal/types"
)

// Manager tracks floating membership per space.
type Manager struct {
	mu         sync.RWMutex
	floating   map[types.SpaceId]map[types.WindowId]bool
	lastFocus  map[types.SpaceId]types.WindowId
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{
		floating:  make(map[types.SpaceId]map[types.WindowId]bool),
		lastFocus: make(map[types.SpaceId]types.WindowId),
	}
}

// SetFloating marks window as floating (or tiled, if floating is
// false) on space.
func (m *Manager) SetFloating(space types.SpaceId, window types.WindowId, floating bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.floating[space]
	if !ok {
		set = make(map[types.WindowId]bool)
		m.floating[space] = set
	}
	if floating {
		set[window] = true
	} else {
		delete(set, window)
	}
}

// Toggle flips window's floating state on space and returns the new
// state.
func (m *Manager) Toggle(space types.SpaceId, window types.WindowId) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.floating[space]
	if !ok {
		set = make(map[types.WindowId]bool)
		m.floating[space] = set
	}
	if set[window] {
		delete(set, window)
		return false
	}
	set[window] = true
	m.lastFocus[space] = window
	return true
}

// IsFloating reports whether window is floating on space.
func (m *Manager) IsFloating(space types.SpaceId, window types.WindowId) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.floating[space][window]
}

// FloatingWindows returns every floating window on space.
func (m *Manager) FloatingWindows(space types.SpaceId) []types.WindowId {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []types.WindowId
	for w := range m.floating[space] {
		out = append(out, w)
	}
	return out
}

// LastFocused returns the most recently focused floating window on
// space, if any, used by ToggleFocusFloating to pick a target.
func (m *Manager) LastFocused(space types.SpaceId) (types.WindowId, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.lastFocus[space]
	return w, ok
}

// RemoveWindow drops all floating state for window across every space,
// called on WindowDestroyed.
func (m *Manager) RemoveWindow(window types.WindowId) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for space, set := range m.floating {
		delete(set, window)
		if m.lastFocus[space] == window {
			delete(m.lastFocus, space)
		}
	}
}

// SpaceSnapshot is the persisted floating membership for one space.
type SpaceSnapshot struct {
	Space     types.SpaceId     `yaml:"space"`
	Windows   []types.WindowId  `yaml:"windows,omitempty"`
	LastFocus *types.WindowId   `yaml:"last_focus,omitempty"`
}

// Snapshot captures every space's floating membership for persistence.
func (m *Manager) Snapshot() []SpaceSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []SpaceSnapshot
	for space, set := range m.floating {
		snap := SpaceSnapshot{Space: space}
		for w := range set {
			snap.Windows = append(snap.Windows, w)
		}
		if w, ok := m.lastFocus[space]; ok {
			snap.LastFocus = &w
		}
		out = append(out, snap)
	}
	return out
}

// Restore rebuilds floating membership from a previously captured
// Snapshot, replacing any existing state.
func (m *Manager) Restore(snaps []SpaceSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.floating = make(map[types.SpaceId]map[types.WindowId]bool)
	m.lastFocus = make(map[types.SpaceId]types.WindowId)
	for _, snap := range snaps {
		set := make(map[types.WindowId]bool, len(snap.Windows))
		for _, w := range snap.Windows {
			set[w] = true
		}
		m.floating[snap.Space] = set
		if snap.LastFocus != nil {
			m.lastFocus[snap.Space] = *snap.LastFocus
		}
	}
}
