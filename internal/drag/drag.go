// Package drag implements the Drag Manager: swap-candidate detection
// during a mouse drag by overlap fraction. Grounded directly in the
// teacher's types.Rect.Overlap (internal/types/layout_types.go), which
// already computes area-of-intersection divided by the candidate
// rect's area; generalized here (internal/types/geometry.go's
// OverlapFraction) into the swap-candidate primitive this component
// needs.
package drag

import "github.com/ryanthedev/reactor/internal/types"

// Candidate is a window eligible to be a swap target: it is on the
// same space, same active workspace, and not floating.
type Candidate struct {
	Window types.WindowId
	Frame  types.Rect
}

// Manager tracks the window currently being dragged and its last
// computed swap target, stateless between drags otherwise.
type Manager struct {
	dragging     bool
	dragged      types.WindowId
	originFrame  types.Rect
	lastTarget   *types.WindowId
	swapFraction float64
}

// New returns a Manager using swapFraction (drag_swap_fraction, §6)
// as the minimum overlap required to propose a swap.
func New(swapFraction float64) *Manager {
	return &Manager{swapFraction: swapFraction}
}

// Start begins a drag session for window at its origin frame.
func (m *Manager) Start(window types.WindowId, origin types.Rect) {
	m.dragging = true
	m.dragged = window
	m.originFrame = origin
	m.lastTarget = nil
}

// Dragging reports whether a drag session is in progress.
func (m *Manager) Dragging() bool { return m.dragging }

// DraggedWindow returns the window currently being dragged, if any.
func (m *Manager) DraggedWindow() (types.WindowId, bool) {
	return m.dragged, m.dragging
}

// Move updates the dragged window's current frame and searches
// candidates for a swap target: the candidate whose intersection with
// the dragged rect's frame is at least swapFraction of the candidate's
// own area. Returns the new target, or nil if none qualifies (a change
// from the previous target either way is the caller's cue to update
// pending_drag_swap).
func (m *Manager) Move(currentFrame types.Rect, candidates []Candidate) *types.WindowId {
	if !m.dragging {
		return nil
	}

	var best *Candidate
	bestFraction := 0.0
	for i, c := range candidates {
		if c.Window == m.dragged {
			continue
		}
		fraction := currentFrame.OverlapFraction(c.Frame)
		if fraction >= m.swapFraction && fraction > bestFraction {
			bestFraction = fraction
			best = &candidates[i]
		}
	}

	if best == nil {
		m.lastTarget = nil
		return nil
	}
	w := best.Window
	m.lastTarget = &w
	return &w
}

// End finishes the drag session and returns the final swap target (if
// any) for the caller to apply on mouse-up.
func (m *Manager) End() *types.WindowId {
	target := m.lastTarget
	m.dragging = false
	m.dragged = types.WindowId{}
	m.lastTarget = nil
	return target
}
