// Package traditional implements the Traditional layout system: a tree
// per layout id whose interior nodes are containers (horizontal,
// vertical, tabbed, or stacked) and whose leaves are windows. Grounded
// in the teacher's internal/layout/{grid.go,windows.go,splits.go}
// track/ratio math (CalculateTracks, CalculateWindowBounds,
// AdjustSplitRatio, NormalizeRatios), generalized from a static grid
// track definition to a dynamically mutable container tree.
package traditional

import (
	"fmt"

	"github.com/ryanthedev/reactor/internal/layout/splitratio"
	"github.com/ryanthedev/reactor/internal/layoutengine"
	"github.com/ryanthedev/reactor/internal/slotarena"
	"github.com/ryanthedev/reactor/internal/types"
)

// node is either an interior container or a leaf window.
type node struct {
	isLeaf bool
	window types.WindowId

	kind     types.ContainerKind
	children []*node
	ratios   []float64

	fullscreen     bool
	fullscreenRect types.Rect // target rect while fullscreen, screen bounds (optionally gap-inset)
	preFullscreen  types.Rect // tiled rect the node held before going fullscreen
}

type layout struct {
	root          *node
	bounds        types.Rect
	minShare      float64
	resizeAmount  float64
	selected      *node // last-selected leaf, for MoveFocus/Resize targeting
	outerGaps     float64
	innerGaps     float64
}

// System implements layoutengine.System for the Traditional algorithm.
type System struct {
	arena        *slotarena.Arena[*layout]
	minShare     float64
	resizeAmount float64
	outerGaps    float64
	innerGaps    float64
}

// New returns a Traditional layout System. minShare and resizeAmount
// are grounded in the teacher's MinimumRatio=0.1/DefaultResizeAmount=0.1
// (internal/layout/splits.go), here configurable per §6.
func New(minShare, resizeAmount, outerGaps, innerGaps float64) *System {
	return &System{
		arena:        slotarena.New[*layout](),
		minShare:     minShare,
		resizeAmount: resizeAmount,
		outerGaps:    outerGaps,
		innerGaps:    innerGaps,
	}
}

var _ layoutengine.System = (*System)(nil)

func (s *System) CreateLayout(bounds types.Rect) types.LayoutId {
	l := &layout{
		bounds:       bounds,
		minShare:     s.minShare,
		resizeAmount: s.resizeAmount,
		outerGaps:    s.outerGaps,
		innerGaps:    s.innerGaps,
	}
	return types.LayoutId(s.arena.Insert(l))
}

func (s *System) RemoveLayout(id types.LayoutId) {
	s.arena.Remove(slotarena.Key(id))
}

func (s *System) SetBounds(id types.LayoutId, bounds types.Rect) {
	l, ok := s.arena.Get(slotarena.Key(id))
	if !ok {
		return
	}
	l.bounds = bounds
}

func (s *System) get(id types.LayoutId) (*layout, error) {
	l, ok := s.arena.Get(slotarena.Key(id))
	if !ok {
		return nil, fmt.Errorf("unknown traditional layout id %v", id)
	}
	return l, nil
}

// AddWindow inserts a new leaf after the selected leaf in its parent
// container. The first window becomes the root leaf; the second wraps
// the root and the new leaf in a horizontal container.
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

	if l.root.isLeaf {
		parent := &node{kind: types.ContainerHorizontal, children: []*node{l.root, leaf}}
		parent.ratios = splitratio.Equal(2)
		l.root = parent
		l.selected = leaf
		return nil
	}

	parent := findParent(l.root, l.selected)
	if parent == nil {
		parent = lastContainer(l.root)
	}
	insertAt := len(parent.children)
	for i, c := range parent.children {
		if c == l.selected {
			insertAt = i + 1
			break
		}
	}
	parent.children = insert(parent.children, insertAt, leaf)
	parent.ratios = splitratio.AfterInsertion(parent.ratios, insertAt)
	l.selected = leaf
	return nil
}

func insert(children []*node, at int, n *node) []*node {
	out := make([]*node, 0, len(children)+1)
	out = append(out, children[:at]...)
	out = append(out, n)
	out = append(out, children[at:]...)
	return out
}

// RemoveWindow removes window's leaf from the tree, collapsing its
// parent if only one sibling remains.
func (s *System) RemoveWindow(id types.LayoutId, window types.WindowId) error {
	l, err := s.get(id)
	if err != nil {
		return err
	}
	if l.root == nil {
		return nil
	}
	if l.root.isLeaf && l.root.window == window {
		l.root = nil
		l.selected = nil
		return nil
	}

	removeFrom(l.root, window)
	collapse(&l.root)
	l.selected = firstLeaf(l.root)
	return nil
}

func removeFrom(n *node, window types.WindowId) bool {
	if n == nil || n.isLeaf {
		return false
	}
	for i, c := range n.children {
		if c.isLeaf && c.window == window {
			n.children = append(n.children[:i], n.children[i+1:]...)
			ratiosCopy := append([]float64{}, n.ratios...)
			n.ratios = splitratio.AfterRemoval(ratiosCopy, i)
			return true
		}
		if removeFrom(c, window) {
			return true
		}
	}
	return false
}

// collapse replaces any container with exactly one child by that
// child, recursively, so the tree never holds orphaned interior nodes.
func collapse(n **node) {
	if *n == nil || (*n).isLeaf {
		return
	}
	for i := range (*n).children {
		collapse(&(*n).children[i])
	}
	if len((*n).children) == 1 {
		*n = (*n).children[0]
	}
}

func findParent(n, target *node) *node {
	if n == nil || n.isLeaf {
		return nil
	}
	for _, c := range n.children {
		if c == target {
			return n
		}
		if p := findParent(c, target); p != nil {
			return p
		}
	}
	return nil
}

func lastContainer(n *node) *node {
	if n.isLeaf {
		return nil
	}
	if len(n.children) > 0 && n.children[len(n.children)-1].isLeaf {
		return n
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if p := lastContainer(n.children[i]); p != nil {
			return p
		}
	}
	return n
}

func firstLeaf(n *node) *node {
	if n == nil {
		return nil
	}
	if n.isLeaf {
		return n
	}
	for _, c := range n.children {
		if l := firstLeaf(c); l != nil {
			return l
		}
	}
	return nil
}

// CalculateLayout walks the tree top-down, dividing each container's
// rect among its children by ratio along its axis.
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

	// Tabbed and stacked containers overlay every child on the same
	// rect; only one is visible at a time, a raise-order concern
	// outside this engine's placement math.
	if n.kind == types.ContainerTabbed || n.kind == types.ContainerStacked {
		for _, c := range n.children {
			walk(c, bounds, gap, out)
		}
		return
	}

	horizontal := n.kind == types.ContainerHorizontal
	total := bounds.Width
	if !horizontal {
		total = bounds.Height
	}
	available := total - gap*float64(len(n.children)-1)
	if available < 0 {
		available = 0
	}

	offset := 0.0
	for i, c := range n.children {
		share := available * n.ratios[i]
		var childRect types.Rect
		if horizontal {
			childRect = types.Rect{X: bounds.X + offset, Y: bounds.Y, Width: share, Height: bounds.Height}
		} else {
			childRect = types.Rect{X: bounds.X, Y: bounds.Y + offset, Width: bounds.Width, Height: share}
		}
		walk(c, childRect, gap, out)
		offset += share + gap
	}
}

// leafRect computes the rect a specific leaf currently occupies
// without collecting every placement, used to capture a window's
// tiled rect before it goes fullscreen.
func leafRect(n *node, bounds types.Rect, gap float64, target *node) (types.Rect, bool) {
	if n == nil {
		return types.Rect{}, false
	}
	if n == target {
		return bounds, true
	}
	if n.isLeaf {
		return types.Rect{}, false
	}
	if n.kind == types.ContainerTabbed || n.kind == types.ContainerStacked {
		for _, c := range n.children {
			if r, ok := leafRect(c, bounds, gap, target); ok {
				return r, true
			}
		}
		return types.Rect{}, false
	}

	horizontal := n.kind == types.ContainerHorizontal
	total := bounds.Width
	if !horizontal {
		total = bounds.Height
	}
	available := total - gap*float64(len(n.children)-1)
	if available < 0 {
		available = 0
	}
	offset := 0.0
	for i, c := range n.children {
		share := available * n.ratios[i]
		var childRect types.Rect
		if horizontal {
			childRect = types.Rect{X: bounds.X + offset, Y: bounds.Y, Width: share, Height: bounds.Height}
		} else {
			childRect = types.Rect{X: bounds.X, Y: bounds.Y + offset, Width: bounds.Width, Height: share}
		}
		if r, ok := leafRect(c, childRect, gap, target); ok {
			return r, true
		}
		offset += share + gap
	}
	return types.Rect{}, false
}

// collectWindows gathers every leaf window under n, in tree order.
func collectWindows(n *node) []types.WindowId {
	if n == nil {
		return nil
	}
	if n.isLeaf {
		return []types.WindowId{n.window}
	}
	var out []types.WindowId
	for _, c := range n.children {
		out = append(out, collectWindows(c)...)
	}
	return out
}

// MoveFocus moves selection to the sibling in dir within the nearest
// container oriented along that axis.
func (s *System) MoveFocus(id types.LayoutId, dir types.Direction) (types.WindowId, bool) {
	l, err := s.get(id)
	if err != nil || l.selected == nil || l.root == nil {
		return types.WindowId{}, false
	}
	parent := findParent(l.root, l.selected)
	if parent == nil {
		return types.WindowId{}, false
	}

	wantHorizontal := dir == types.DirLeft || dir == types.DirRight
	if (parent.kind == types.ContainerHorizontal) != wantHorizontal {
		return types.WindowId{}, false
	}

	idx := indexOf(parent.children, l.selected)
	if idx < 0 {
		return types.WindowId{}, false
	}
	delta := 1
	if dir == types.DirLeft || dir == types.DirUp {
		delta = -1
	}
	next := idx + delta
	if next < 0 || next >= len(parent.children) {
		return types.WindowId{}, false
	}

	target := firstLeaf(parent.children[next])
	if target == nil {
		return types.WindowId{}, false
	}
	l.selected = target
	return target.window, true
}

func indexOf(children []*node, target *node) int {
	for i, c := range children {
		if c == target {
			return i
		}
	}
	return -1
}

// Swap exchanges the positions of the leaves for a and b in the tree
// without touching ratios.
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
	for _, c := range n.children {
		if l := findLeaf(c, window); l != nil {
			return l
		}
	}
	return nil
}

// Resize grows or shrinks window's share against its next sibling (its
// previous sibling when it is the last child), clamped to the
// configured minimum share.
func (s *System) Resize(id types.LayoutId, window types.WindowId, grow bool) error {
	l, err := s.get(id)
	if err != nil {
		return err
	}
	leaf := findLeaf(l.root, window)
	if leaf == nil {
		return fmt.Errorf("resize target not found in layout")
	}
	parent := findParent(l.root, leaf)
	if parent == nil || len(parent.children) < 2 {
		return nil
	}
	idx := indexOf(parent.children, leaf)
	delta := l.resizeAmount
	if !grow {
		delta = -delta
	}
	adjustIdx := idx
	if idx == len(parent.children)-1 {
		adjustIdx = idx - 1
		delta = -delta
	}
	ratios, err := splitratio.Adjust(parent.ratios, adjustIdx, delta, l.minShare)
	if err != nil {
		return err
	}
	parent.ratios = ratios
	return nil
}

// serialForm is the persisted-state shape for one traditional layout.
type serialForm struct {
	Root *serialNode `yaml:"root,omitempty"`
}

type serialNode struct {
	Window         *types.WindowId     `yaml:"window,omitempty"`
	Kind           types.ContainerKind `yaml:"kind,omitempty"`
	Ratios         []float64           `yaml:"ratios,omitempty"`
	Children       []*serialNode       `yaml:"children,omitempty"`
	Fullscreen     bool                `yaml:"fullscreen,omitempty"`
	FullscreenRect types.Rect          `yaml:"fullscreenRect,omitempty"`
	PreFullscreen  types.Rect          `yaml:"preFullscreen,omitempty"`
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
	sn := &serialNode{Kind: n.kind, Ratios: n.ratios}
	for _, c := range n.children {
		sn.Children = append(sn.Children, toSerial(c))
	}
	return sn
}

func fromSerial(sn *serialNode) *node {
	if sn == nil {
		return nil
	}
	if sn.Window != nil {
		return &node{
			isLeaf:         true,
			window:         *sn.Window,
			fullscreen:     sn.Fullscreen,
			fullscreenRect: sn.FullscreenRect,
			preFullscreen:  sn.PreFullscreen,
		}
	}
	n := &node{kind: sn.Kind, ratios: sn.Ratios}
	for _, c := range sn.Children {
		n.children = append(n.children, fromSerial(c))
	}
	return n
}

// Serialize returns the layout's tree in a form suitable for YAML
// persistence (§6), round-tripped by Deserialize.
func (s *System) Serialize(id types.LayoutId) (interface{}, error) {
	l, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return serialForm{Root: toSerial(l.root)}, nil
}

// Deserialize restores a layout's tree from a value previously returned
// by Serialize.
func (s *System) Deserialize(id types.LayoutId, blob interface{}) error {
	l, err := s.get(id)
	if err != nil {
		return err
	}
	sf, ok := blob.(serialForm)
	if !ok {
		return fmt.Errorf("traditional.Deserialize: unexpected blob type %T", blob)
	}
	l.root = fromSerial(sf.Root)
	l.selected = firstLeaf(l.root)
	return nil
}

// SelectedWindow returns the window at the selected leaf, if any; if
// the selection has ascended to an interior container, its first leaf
// stands in for it.
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

// AscendSelection moves the selection from a node to its parent
// container, widening the scope later per-selection commands apply to,
// since selection is a path from root rather than always a leaf.
func (s *System) AscendSelection(id types.LayoutId) bool {
	l, err := s.get(id)
	if err != nil || l.selected == nil || l.root == nil {
		return false
	}
	parent := findParent(l.root, l.selected)
	if parent == nil {
		return false
	}
	l.selected = parent
	return true
}

// DescendSelection moves the selection from a container to its first
// child, narrowing the scope back down toward a leaf.
func (s *System) DescendSelection(id types.LayoutId) bool {
	l, err := s.get(id)
	if err != nil || l.selected == nil || l.selected.isLeaf || len(l.selected.children) == 0 {
		return false
	}
	l.selected = l.selected.children[0]
	return true
}

// MoveSelection relocates the selected node one slot toward dir within
// the nearest enclosing container oriented along dir's axis, rotating
// children in place without changing what's selected.
func (s *System) MoveSelection(id types.LayoutId, dir types.Direction) bool {
	l, err := s.get(id)
	if err != nil || l.selected == nil || l.root == nil {
		return false
	}
	wantHorizontal := dir == types.DirLeft || dir == types.DirRight
	delta := 1
	if dir == types.DirLeft || dir == types.DirUp {
		delta = -1
	}

	child := l.selected
	parent := findParent(l.root, child)
	for parent != nil {
		if (parent.kind == types.ContainerHorizontal) == wantHorizontal {
			idx := indexOf(parent.children, child)
			next := idx + delta
			if idx >= 0 && next >= 0 && next < len(parent.children) {
				parent.children[idx], parent.children[next] = parent.children[next], parent.children[idx]
				parent.ratios[idx], parent.ratios[next] = parent.ratios[next], parent.ratios[idx]
				return true
			}
		}
		child = parent
		parent = findParent(l.root, child)
	}
	return false
}

// JoinSelection nests the selected node and its dir-neighbor inside a
// new tabbed container, replacing both their slots in the shared
// parent.
func (s *System) JoinSelection(id types.LayoutId, dir types.Direction) ([]types.WindowId, error) {
	l, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if l.selected == nil || l.root == nil {
		return nil, nil
	}
	parent := findParent(l.root, l.selected)
	if parent == nil {
		return nil, nil
	}
	wantHorizontal := dir == types.DirLeft || dir == types.DirRight
	if (parent.kind == types.ContainerHorizontal) != wantHorizontal {
		return nil, nil
	}
	idx := indexOf(parent.children, l.selected)
	delta := 1
	if dir == types.DirLeft || dir == types.DirUp {
		delta = -1
	}
	other := idx + delta
	if idx < 0 || other < 0 || other >= len(parent.children) {
		return nil, nil
	}

	lo, hi := idx, other
	if lo > hi {
		lo, hi = hi, lo
	}
	joined := &node{
		kind:     types.ContainerTabbed,
		children: []*node{parent.children[idx], parent.children[other]},
		ratios:   splitratio.Equal(2),
	}

	newChildren := make([]*node, 0, len(parent.children)-1)
	newChildren = append(newChildren, parent.children[:lo]...)
	newChildren = append(newChildren, joined)
	newChildren = append(newChildren, parent.children[hi+1:]...)
	parent.children = newChildren
	parent.ratios = splitratio.Equal(len(newChildren))
	l.selected = joined.children[0]
	return collectWindows(joined), nil
}

// UnjoinSelection splices the nearest enclosing tabbed container back
// into its own parent's children, undoing JoinSelection.
func (s *System) UnjoinSelection(id types.LayoutId) error {
	l, err := s.get(id)
	if err != nil {
		return err
	}
	if l.selected == nil || l.root == nil {
		return nil
	}
	container := findParent(l.root, l.selected)
	if container == nil || container.kind != types.ContainerTabbed {
		return nil
	}
	grandparent := findParent(l.root, container)
	if grandparent == nil {
		container.kind = types.ContainerHorizontal
		container.ratios = splitratio.Equal(len(container.children))
		return nil
	}
	idx := indexOf(grandparent.children, container)
	newChildren := make([]*node, 0, len(grandparent.children)-1+len(container.children))
	newChildren = append(newChildren, grandparent.children[:idx]...)
	newChildren = append(newChildren, container.children...)
	newChildren = append(newChildren, grandparent.children[idx+1:]...)
	grandparent.children = newChildren
	grandparent.ratios = splitratio.Equal(len(newChildren))
	return nil
}

// StackSelection turns the selected node's parent container into a
// stacked container in place, returning every window it now holds so
// the caller can raise them.
func (s *System) StackSelection(id types.LayoutId) ([]types.WindowId, error) {
	l, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if l.selected == nil || l.root == nil {
		return nil, nil
	}
	parent := findParent(l.root, l.selected)
	if parent == nil || parent.kind == types.ContainerStacked {
		return nil, nil
	}
	parent.kind = types.ContainerStacked
	return collectWindows(parent), nil
}

// UnstackSelection turns the selected node's stacked parent container
// back into a horizontal split, returning every window it holds.
func (s *System) UnstackSelection(id types.LayoutId) ([]types.WindowId, error) {
	l, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if l.selected == nil || l.root == nil {
		return nil, nil
	}
	parent := findParent(l.root, l.selected)
	if parent == nil || parent.kind != types.ContainerStacked {
		return nil, nil
	}
	parent.kind = types.ContainerHorizontal
	parent.ratios = splitratio.Equal(len(parent.children))
	return collectWindows(parent), nil
}

// ToggleTileOrientation flips the selected node's parent container
// between horizontal and vertical; tabbed and stacked containers have
// no split axis to flip and are left alone.
func (s *System) ToggleTileOrientation(id types.LayoutId) error {
	l, err := s.get(id)
	if err != nil {
		return err
	}
	if l.selected == nil || l.root == nil {
		return nil
	}
	parent := findParent(l.root, l.selected)
	if parent == nil {
		return nil
	}
	switch parent.kind {
	case types.ContainerHorizontal:
		parent.kind = types.ContainerVertical
	case types.ContainerVertical:
		parent.kind = types.ContainerHorizontal
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
// fullscreen target rect by the layout's outer gap.
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

	if rect, ok := leafRect(l.root, l.bounds, l.innerGaps, leaf); ok {
		leaf.preFullscreen = rect
	} else {
		leaf.preFullscreen = l.bounds
	}
	target := l.bounds
	if withinGaps {
		target = types.Rect{
			X: target.X + l.outerGaps, Y: target.Y + l.outerGaps,
			Width: target.Width - 2*l.outerGaps, Height: target.Height - 2*l.outerGaps,
		}
	}
	leaf.fullscreenRect = target
	leaf.fullscreen = true
	return []types.WindowId{leaf.window}, nil
}
