// Package bsp implements the BSP (binary space partition) layout
// system: a binary tree where adding a window splits the selected
// rect's node along its longest axis, resize moves a split's ratio,
// and removal promotes the removed leaf's sibling into the parent's
// slot. Shares the ratio-adjustment primitives with the Traditional
// system (internal/layout/splitratio), both grounded in the teacher's
// internal/layout/splits.go.
package bsp

import (
	"fmt"

	"github.com/ryanthedev/reactor/internal/layout/splitratio"
	"github.com/ryanthedev/reactor/internal/layoutengine"
	"github.com/ryanthedev/reactor/internal/slotarena"
	"github.com/ryanthedev/reactor/internal/types"
)

type node struct {
	isLeaf bool
	window types.WindowId

	axis     types.Axis
	ratio    float64 // first child's share
	children [2]*node
	parent   *node

	fullscreen     bool
	fullscreenRect types.Rect
	preFullscreen  types.Rect
}

type layout struct {
	root         *node
	bounds       types.Rect
	minShare     float64
	resizeAmount float64
	selected     *node
	innerGaps    float64
}

// System implements layoutengine.System for the BSP algorithm.
type System struct {
	arena        *slotarena.Arena[*layout]
	minShare     float64
	resizeAmount float64
	innerGaps    float64
}

// New returns a BSP layout System.
func New(minShare, resizeAmount, innerGaps float64) *System {
	return &System{arena: slotarena.New[*layout](), minShare: minShare, resizeAmount: resizeAmount, innerGaps: innerGaps}
}

var _ layoutengine.System = (*System)(nil)

func (s *System) CreateLayout(bounds types.Rect) types.LayoutId {
	l := &layout{bounds: bounds, minShare: s.minShare, resizeAmount: s.resizeAmount, innerGaps: s.innerGaps}
	return types.LayoutId(s.arena.Insert(l))
}

func (s *System) RemoveLayout(id types.LayoutId) { s.arena.Remove(slotarena.Key(id)) }

func (s *System) SetBounds(id types.LayoutId, bounds types.Rect) {
	if l, ok := s.arena.Get(slotarena.Key(id)); ok {
		l.bounds = bounds
	}
}

func (s *System) get(id types.LayoutId) (*layout, error) {
	l, ok := s.arena.Get(slotarena.Key(id))
	if !ok {
		return nil, fmt.Errorf("unknown bsp layout id %v", id)
	}
	return l, nil
}

// AddWindow splits the selected leaf's rect along its longest axis,
// placing the new window as the second child.
func (s *System) AddWindow(id types.LayoutId, window types.WindowId) error {
	l, err := s.get(id)
	if err != nil {
		return err
	}
	leaf := &node{isLeaf: true, window: window}

	if l.root == nil {
		l.root = leaf
		l.selected = leaf
		return nil
	}

	target := l.selected
	if target == nil {
		target = firstLeaf(l.root)
	}
	rect := rectFor(l.root, l.bounds, target, l.innerGaps)

	split := &node{
		axis:     rect.LongestAxis(),
		ratio:    0.5,
		children: [2]*node{{isLeaf: true, window: target.window}, leaf},
		parent:   target.parent,
	}
	split.children[0].parent = split
	split.children[1].parent = split

	if target.parent == nil {
		l.root = split
	} else {
		if target.parent.children[0] == target {
			target.parent.children[0] = split
		} else {
			target.parent.children[1] = split
		}
	}
	l.selected = leaf
	return nil
}

func firstLeaf(n *node) *node {
	if n == nil {
		return nil
	}
	if n.isLeaf {
		return n
	}
	return firstLeaf(n.children[0])
}

func findLeaf(n *node, window types.WindowId) *node {
	if n == nil {
		return nil
	}
	if n.isLeaf {
		if n.window == window {
			return n
		}
		return nil
	}
	if l := findLeaf(n.children[0], window); l != nil {
		return l
	}
	return findLeaf(n.children[1], window)
}

// RemoveWindow deletes window's leaf and promotes its sibling into the
// parent's slot in the tree.
func (s *System) RemoveWindow(id types.LayoutId, window types.WindowId) error {
	l, err := s.get(id)
	if err != nil {
		return err
	}
	target := findLeaf(l.root, window)
	if target == nil {
		return nil
	}
	if target.parent == nil {
		l.root = nil
		l.selected = nil
		return nil
	}

	parent := target.parent
	var sibling *node
	if parent.children[0] == target {
		sibling = parent.children[1]
	} else {
		sibling = parent.children[0]
	}
	sibling.parent = parent.parent
	if parent.parent == nil {
		l.root = sibling
	} else if parent.parent.children[0] == parent {
		parent.parent.children[0] = sibling
	} else {
		parent.parent.children[1] = sibling
	}
	l.selected = firstLeaf(l.root)
	return nil
}

// CalculateLayout computes every leaf's rect by walking the tree and
// splitting each interior node's rect along its stored axis and ratio.
func (s *System) CalculateLayout(id types.LayoutId) []layoutengine.Placement {
	l, err := s.get(id)
	if err != nil || l.root == nil {
		return nil
	}
	var out []layoutengine.Placement
	walk(l.root, l.bounds, l.innerGaps, &out)
	return out
}

func walk(n *node, bounds types.Rect, gap float64, out *[]layoutengine.Placement) {
	if n == nil {
		return
	}
	if n.isLeaf {
		rect := bounds
		if n.fullscreen {
			rect = n.fullscreenRect
		}
		*out = append(*out, layoutengine.Placement{Window: n.window, Rect: rect})
		return
	}

	if n.axis == types.AxisHorizontal {
		firstWidth := (bounds.Width - gap) * n.ratio
		walk(n.children[0], types.Rect{X: bounds.X, Y: bounds.Y, Width: firstWidth, Height: bounds.Height}, gap, out)
		walk(n.children[1], types.Rect{X: bounds.X + firstWidth + gap, Y: bounds.Y, Width: bounds.Width - firstWidth - gap, Height: bounds.Height}, gap, out)
	} else {
		firstHeight := (bounds.Height - gap) * n.ratio
		walk(n.children[0], types.Rect{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: firstHeight}, gap, out)
		walk(n.children[1], types.Rect{X: bounds.X, Y: bounds.Y + firstHeight + gap, Width: bounds.Width, Height: bounds.Height - firstHeight - gap}, gap, out)
	}
}

// rectFor computes the rect a specific leaf would occupy, without
// collecting every placement, for use when deciding a new split's
// orientation.
func rectFor(n *node, bounds types.Rect, target *node, gap float64) types.Rect {
	if n == target {
		return bounds
	}
	if n.isLeaf {
		return types.Rect{}
	}
	if n.axis == types.AxisHorizontal {
		firstWidth := (bounds.Width - gap) * n.ratio
		if r := rectFor(n.children[0], types.Rect{X: bounds.X, Y: bounds.Y, Width: firstWidth, Height: bounds.Height}, target, gap); r != (types.Rect{}) {
			return r
		}
		return rectFor(n.children[1], types.Rect{X: bounds.X + firstWidth + gap, Y: bounds.Y, Width: bounds.Width - firstWidth - gap, Height: bounds.Height}, target, gap)
	}
	firstHeight := (bounds.Height - gap) * n.ratio
	if r := rectFor(n.children[0], types.Rect{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: firstHeight}, target, gap); r != (types.Rect{}) {
		return r
	}
	return rectFor(n.children[1], types.Rect{X: bounds.X, Y: bounds.Y + firstHeight + gap, Width: bounds.Width, Height: bounds.Height - firstHeight - gap}, target, gap)
}

// MoveFocus picks the sibling subtree in dir from the selected leaf's
// nearest ancestor split oriented on that axis.
func (s *System) MoveFocus(id types.LayoutId, dir types.Direction) (types.WindowId, bool) {
	l, err := s.get(id)
	if err != nil || l.selected == nil {
		return types.WindowId{}, false
	}
	wantHorizontal := dir == types.DirLeft || dir == types.DirRight
	forward := dir == types.DirRight || dir == types.DirDown

	n := l.selected
	for n.parent != nil {
		p := n.parent
		isHorizontal := p.axis == types.AxisHorizontal
		if isHorizontal == wantHorizontal {
			isFirstChild := p.children[0] == n
			if (isFirstChild && forward) || (!isFirstChild && !forward) {
				var target *node
				if isFirstChild {
					target = firstLeaf(p.children[1])
				} else {
					target = firstLeaf(p.children[0])
				}
				l.selected = target
				return target.window, true
			}
		}
		n = p
	}
	return types.WindowId{}, false
}

// Swap exchanges window identities between two leaves.
func (s *System) Swap(id types.LayoutId, a, b types.WindowId) error {
	l, err := s.get(id)
	if err != nil {
		return err
	}
	na := findLeaf(l.root, a)
	nb := findLeaf(l.root, b)
	if na == nil || nb == nil {
		return fmt.Errorf("swap target not found in layout")
	}
	na.window, nb.window = nb.window, na.window
	return nil
}

// Resize moves the ratio of window's parent split, clamped to
// [minShare, 1-minShare].
func (s *System) Resize(id types.LayoutId, window types.WindowId, grow bool) error {
	l, err := s.get(id)
	if err != nil {
		return err
	}
	leaf := findLeaf(l.root, window)
	if leaf == nil || leaf.parent == nil {
		return nil
	}
	parent := leaf.parent
	delta := l.resizeAmount
	if parent.children[1] == leaf {
		delta = -delta
	}
	if !grow {
		delta = -delta
	}

	ratios, err := splitratio.Adjust([]float64{parent.ratio, 1 - parent.ratio}, 0, delta, l.minShare)
	if err != nil {
		return err
	}
	parent.ratio = ratios[0]
	return nil
}

// SelectedWindow returns the window at the selected leaf, if any; an
// ascended interior selection stands in for its first leaf.
func (s *System) SelectedWindow(id types.LayoutId) (types.WindowId, bool) {
	l, err := s.get(id)
	if err != nil || l.selected == nil {
		return types.WindowId{}, false
	}
	leaf := l.selected
	if !leaf.isLeaf {
		leaf = firstLeaf(leaf)
	}
	if leaf == nil {
		return types.WindowId{}, false
	}
	return leaf.window, true
}

// AscendSelection moves the selection to its parent split, widening
// the scope later per-selection commands apply to.
func (s *System) AscendSelection(id types.LayoutId) bool {
	l, err := s.get(id)
	if err != nil || l.selected == nil || l.selected.parent == nil {
		return false
	}
	l.selected = l.selected.parent
	return true
}

// DescendSelection moves the selection from a split to its first
// child, narrowing the scope back down toward a leaf.
func (s *System) DescendSelection(id types.LayoutId) bool {
	l, err := s.get(id)
	if err != nil || l.selected == nil || l.selected.isLeaf {
		return false
	}
	l.selected = l.selected.children[0]
	return true
}

// MoveSelection swaps the selected node with its sibling under the
// nearest ancestor split oriented along dir's axis.
func (s *System) MoveSelection(id types.LayoutId, dir types.Direction) bool {
	l, err := s.get(id)
	if err != nil || l.selected == nil {
		return false
	}
	wantHorizontal := dir == types.DirLeft || dir == types.DirRight
	forward := dir == types.DirRight || dir == types.DirDown

	n := l.selected
	for n.parent != nil {
		p := n.parent
		if (p.axis == types.AxisHorizontal) == wantHorizontal {
			isFirstChild := p.children[0] == n
			if (isFirstChild && forward) || (!isFirstChild && !forward) {
				p.children[0], p.children[1] = p.children[1], p.children[0]
				return true
			}
		}
		n = p
	}
	return false
}

// JoinSelection, UnjoinSelection, StackSelection, and UnstackSelection
// have no equivalent in a binary split tree: there is no tabbed or
// stacked container kind to nest into or flatten, so every one of
// these is a no-op, the same simplification the Scroll system applies
// for concepts it has no structure for.
func (s *System) JoinSelection(types.LayoutId, types.Direction) ([]types.WindowId, error) {
	return nil, nil
}
func (s *System) UnjoinSelection(types.LayoutId) error { return nil }

func (s *System) StackSelection(types.LayoutId) ([]types.WindowId, error)   { return nil, nil }
func (s *System) UnstackSelection(types.LayoutId) ([]types.WindowId, error) { return nil, nil }

// ToggleTileOrientation flips the selected node's parent split's axis.
func (s *System) ToggleTileOrientation(id types.LayoutId) error {
	l, err := s.get(id)
	if err != nil {
		return err
	}
	if l.selected == nil || l.selected.parent == nil {
		return nil
	}
	p := l.selected.parent
	if p.axis == types.AxisHorizontal {
		p.axis = types.AxisVertical
	} else {
		p.axis = types.AxisHorizontal
	}
	return nil
}

// ToggleFullscreen replaces the selected leaf's rect with the layout's
// full bounds, remembering its prior tiled rect so a second toggle
// restores it exactly.
func (s *System) ToggleFullscreen(id types.LayoutId) ([]types.WindowId, error) {
	return s.toggleFullscreen(id, false)
}

// ToggleFullscreenWithinGaps is ToggleFullscreen but insets the
// fullscreen target rect by the layout's inner gap.
func (s *System) ToggleFullscreenWithinGaps(id types.LayoutId) ([]types.WindowId, error) {
	return s.toggleFullscreen(id, true)
}

func (s *System) toggleFullscreen(id types.LayoutId, withinGaps bool) ([]types.WindowId, error) {
	l, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if l.selected == nil {
		return nil, nil
	}
	leaf := l.selected
	if !leaf.isLeaf {
		leaf = firstLeaf(leaf)
	}
	if leaf == nil {
		return nil, fmt.Errorf("fullscreen target not found in layout")
	}

	if leaf.fullscreen {
		leaf.fullscreen = false
		return []types.WindowId{leaf.window}, nil
	}

	leaf.preFullscreen = rectFor(l.root, l.bounds, leaf, l.innerGaps)
	target := l.bounds
	if withinGaps {
		target = types.Rect{
			X: target.X + l.innerGaps, Y: target.Y + l.innerGaps,
			Width: target.Width - 2*l.innerGaps, Height: target.Height - 2*l.innerGaps,
		}
	}
	leaf.fullscreenRect = target
	leaf.fullscreen = true
	return []types.WindowId{leaf.window}, nil
}

type serialForm struct {
	Root *serialNode `yaml:"root,omitempty"`
}

type serialNode struct {
	Window         *types.WindowId `yaml:"window,omitempty"`
	Axis           types.Axis      `yaml:"axis,omitempty"`
	Ratio          float64         `yaml:"ratio,omitempty"`
	Children       []*serialNode   `yaml:"children,omitempty"`
	Fullscreen     bool            `yaml:"fullscreen,omitempty"`
	FullscreenRect types.Rect      `yaml:"fullscreenRect,omitempty"`
	PreFullscreen  types.Rect      `yaml:"preFullscreen,omitempty"`
}

func toSerial(n *node) *serialNode {
	if n == nil {
		return nil
	}
	if n.isLeaf {
		w := n.window
		return &serialNode{
			Window:         &w,
			Fullscreen:     n.fullscreen,
			FullscreenRect: n.fullscreenRect,
			PreFullscreen:  n.preFullscreen,
		}
	}
	return &serialNode{
		Axis:     n.axis,
		Ratio:    n.ratio,
		Children: []*serialNode{toSerial(n.children[0]), toSerial(n.children[1])},
	}
}

func fromSerial(sn *serialNode, parent *node) *node {
	if sn == nil {
		return nil
	}
	if sn.Window != nil {
		return &node{
			isLeaf:         true,
			window:         *sn.Window,
			parent:         parent,
			fullscreen:     sn.Fullscreen,
			fullscreenRect: sn.FullscreenRect,
			preFullscreen:  sn.PreFullscreen,
		}
	}
	n := &node{axis: sn.Axis, ratio: sn.Ratio, parent: parent}
	n.children[0] = fromSerial(sn.Children[0], n)
	n.children[1] = fromSerial(sn.Children[1], n)
	return n
}

// Serialize returns the tree's persisted form.
func (s *System) Serialize(id types.LayoutId) (interface{}, error) {
	l, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return serialForm{Root: toSerial(l.root)}, nil
}

// Deserialize restores a tree previously returned by Serialize.
func (s *System) Deserialize(id types.LayoutId, blob interface{}) error {
	l, err := s.get(id)
	if err != nil {
		return err
	}
	sf, ok := blob.(serialForm)
	if !ok {
		return fmt.Errorf("bsp.Deserialize: unexpected blob type %T", blob)
	}
	l.root = fromSerial(sf.Root, nil)
	l.selected = firstLeaf(l.root)
	return nil
}
