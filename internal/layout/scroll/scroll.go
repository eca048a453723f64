// Package scroll implements the Scroll layout system: a per-layout
// linear strip of windows with per-window width units, a continuous
// scroll offset, and a selected window. Grounded in the same
// splitratio-adjacent clamping idiom the teacher applies to ratios in
// internal/layout/splits.go, generalized here to width-unit multipliers
// rather than normalized shares since scroll widths are independent,
// not constrained to sum to 1.
package scroll

import (
	"fmt"
	"math"

	"github.com/ryanthedev/reactor/internal/layoutengine"
	"github.com/ryanthedev/reactor/internal/slotarena"
	"github.com/ryanthedev/reactor/internal/types"
)

// MinWidthUnits is the floor on any window's width unit.
const MinWidthUnits = 0.2

type strip struct {
	windows      []types.WindowId
	widths       []float64
	bounds       types.Rect
	scrollOffset float64
	selected     int // index into windows, -1 if empty

	defaultWidth float64
	snapThreshold float64
	centerBias   float64
	reverse      bool
	innerGap     float64
	outerGap     float64
}

// System implements layoutengine.System for the Scroll algorithm.
type System struct {
	arena         *slotarena.Arena[*strip]
	defaultWidth  float64
	snapThreshold float64
	centerBias    float64
	reverse       bool
	innerGap      float64
	outerGap      float64
}

// New returns a Scroll layout System. snapThreshold is clamped to
// [0.05, 0.95] and centerBias to [-0.49, 0.49] per §4.2.3.
func New(defaultWidth, snapThreshold, centerBias float64, reverse bool, innerGap, outerGap float64) *System {
	if snapThreshold < 0.05 {
		snapThreshold = 0.05
	}
	if snapThreshold > 0.95 {
		snapThreshold = 0.95
	}
	if centerBias < -0.49 {
		centerBias = -0.49
	}
	if centerBias > 0.49 {
		centerBias = 0.49
	}
	return &System{
		defaultWidth: defaultWidth, snapThreshold: snapThreshold,
		centerBias: centerBias, reverse: reverse,
		innerGap: innerGap, outerGap: outerGap,
		arena: slotarena.New[*strip](),
	}
}

var _ layoutengine.System = (*System)(nil)

func (s *System) CreateLayout(bounds types.Rect) types.LayoutId {
	st := &strip{
		bounds: bounds, selected: -1,
		defaultWidth: s.defaultWidth, snapThreshold: s.snapThreshold,
		centerBias: s.centerBias, reverse: s.reverse,
		innerGap: s.innerGap, outerGap: s.outerGap,
	}
	return types.LayoutId(s.arena.Insert(st))
}

func (s *System) RemoveLayout(id types.LayoutId) { s.arena.Remove(slotarena.Key(id)) }

func (s *System) SetBounds(id types.LayoutId, bounds types.Rect) {
	if st, ok := s.arena.Get(slotarena.Key(id)); ok {
		st.bounds = bounds
	}
}

func (s *System) get(id types.LayoutId) (*strip, error) {
	st, ok := s.arena.Get(slotarena.Key(id))
	if !ok {
		return nil, fmt.Errorf("unknown scroll layout id %v", id)
	}
	return st, nil
}

// AddWindow appends window after the selected index, with the default
// width unit, and selects it.
func (s *System) AddWindow(id types.LayoutId, window types.WindowId) error {
	st, err := s.get(id)
	if err != nil {
		return err
	}
	insertAt := len(st.windows)
	if st.selected >= 0 {
		insertAt = st.selected + 1
	}
	st.windows = insertSlice(st.windows, insertAt, window)
	st.widths = insertFloat(st.widths, insertAt, st.defaultWidth)
	st.selected = insertAt
	st.scrollOffset = float64(insertAt)
	return nil
}

func insertSlice(s []types.WindowId, at int, v types.WindowId) []types.WindowId {
	out := make([]types.WindowId, 0, len(s)+1)
	out = append(out, s[:at]...)
	out = append(out, v)
	return append(out, s[at:]...)
}

func insertFloat(s []float64, at int, v float64) []float64 {
	out := make([]float64, 0, len(s)+1)
	out = append(out, s[:at]...)
	out = append(out, v)
	return append(out, s[at:]...)
}

// RemoveWindow deletes window from the strip, re-clamping selection
// and scroll offset onto a valid index.
func (s *System) RemoveWindow(id types.LayoutId, window types.WindowId) error {
	st, err := s.get(id)
	if err != nil {
		return err
	}
	idx := indexOf(st.windows, window)
	if idx < 0 {
		return nil
	}
	st.windows = append(st.windows[:idx], st.windows[idx+1:]...)
	st.widths = append(st.widths[:idx], st.widths[idx+1:]...)

	if len(st.windows) == 0 {
		st.selected = -1
		st.scrollOffset = 0
		return nil
	}
	if st.selected >= len(st.windows) {
		st.selected = len(st.windows) - 1
	}
	st.scrollOffset = float64(st.selected)
	return nil
}

func indexOf(windows []types.WindowId, w types.WindowId) int {
	for i, x := range windows {
		if x == w {
			return i
		}
	}
	return -1
}

// ScrollBy adds delta to the scroll offset, advancing the selected
// window itself once the fractional part crosses snapThreshold (the
// same crossing rule Finalize applies), returning the newly selected
// window when selection changes.
func (s *System) ScrollBy(id types.LayoutId, delta float64) (types.WindowId, bool, error) {
	st, err := s.get(id)
	if err != nil {
		return types.WindowId{}, false, err
	}
	if len(st.windows) == 0 {
		return types.WindowId{}, false, nil
	}
	st.scrollOffset = clampOffset(st.scrollOffset+delta, len(st.windows))

	prev := st.selected
	target := snapTarget(st)
	if target == prev {
		return types.WindowId{}, false, nil
	}
	st.selected = target
	return st.windows[target], true, nil
}

// Finalize snaps the scroll offset to the nearest index, crossing to
// an adjacent window only once the fractional part exceeds
// snapThreshold, and commits that index as the selection.
func (s *System) Finalize(id types.LayoutId) error {
	st, err := s.get(id)
	if err != nil {
		return err
	}
	if len(st.windows) == 0 {
		return nil
	}
	target := snapTarget(st)
	st.selected = target
	st.scrollOffset = float64(target)
	return nil
}

// snapTarget computes the window index the current scroll offset
// resolves to: the whole part of the offset, advanced by one once the
// fractional part crosses snapThreshold.
func snapTarget(st *strip) int {
	base := clampIndex(int(math.Floor(st.scrollOffset)), len(st.windows))
	frac := st.scrollOffset - float64(base)
	target := base
	if frac >= st.snapThreshold && target+1 < len(st.windows) {
		target++
	}
	return target
}

// SelectedWindow returns the currently selected window, if any.
func (s *System) SelectedWindow(id types.LayoutId) (types.WindowId, bool) {
	st, err := s.get(id)
	if err != nil || st.selected < 0 || st.selected >= len(st.windows) {
		return types.WindowId{}, false
	}
	return st.windows[st.selected], true
}

func clampOffset(offset float64, n int) float64 {
	if n == 0 {
		return 0
	}
	max := float64(n - 1)
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}

func clampIndex(idx, n int) int {
	if n == 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// CalculateLayout lays out the strip left-to-right by width unit,
// scaled to available width, shifted so the selected window sits at
// centerBias within the viewport; reverse mirrors x about the
// viewport's midline.
func (s *System) CalculateLayout(id types.LayoutId) []layoutengine.Placement {
	st, err := s.get(id)
	if err != nil || len(st.windows) == 0 {
		return nil
	}

	available := st.bounds.Width - 2*st.outerGap - st.innerGap*float64(len(st.windows)-1)
	if available < 0 {
		available = 0
	}
	totalUnits := 0.0
	for _, w := range st.widths {
		totalUnits += w
	}
	scale := available
	if totalUnits > 0 {
		scale = available / totalUnits
	}

	selectedIdx := st.selected
	if selectedIdx < 0 {
		selectedIdx = 0
	}

	// Position of the selected window's left edge if the strip started
	// at x=0, used to compute the anchor shift.
	offsetBeforeSelected := 0.0
	for i := 0; i < selectedIdx; i++ {
		offsetBeforeSelected += st.widths[i]*scale + st.innerGap
	}
	selectedWidth := st.widths[selectedIdx] * scale
	anchorX := st.bounds.Width*(0.5+st.centerBias) - selectedWidth/2
	shift := anchorX - offsetBeforeSelected

	var out []layoutengine.Placement
	x := 0.0
	for i, w := range st.windows {
		width := st.widths[i] * scale
		rect := types.Rect{
			X:      st.bounds.X + st.outerGap + x + shift,
			Y:      st.bounds.Y + st.outerGap,
			Width:  width,
			Height: st.bounds.Height - 2*st.outerGap,
		}
		if st.reverse {
			mid := st.bounds.Width / 2
			rect.X = st.bounds.X + 2*mid - (rect.X - st.bounds.X) - rect.Width
		}
		out = append(out, layoutengine.Placement{Window: w, Rect: rect})
		x += width + st.innerGap
	}
	return out
}

// MoveFocus moves selection one step forward or backward along the
// strip; only DirLeft/DirRight are meaningful.
func (s *System) MoveFocus(id types.LayoutId, dir types.Direction) (types.WindowId, bool) {
	st, err := s.get(id)
	if err != nil || len(st.windows) == 0 {
		return types.WindowId{}, false
	}
	delta := 1
	if dir == types.DirLeft {
		delta = -1
	} else if dir != types.DirRight {
		return types.WindowId{}, false
	}
	next := st.selected + delta
	if next < 0 || next >= len(st.windows) {
		return types.WindowId{}, false
	}
	st.selected = next
	st.scrollOffset = float64(next)
	return st.windows[next], true
}

// Swap exchanges two windows' strip positions (and their width units
// travel with the window identity, not the position).
func (s *System) Swap(id types.LayoutId, a, b types.WindowId) error {
	st, err := s.get(id)
	if err != nil {
		return err
	}
	ia := indexOf(st.windows, a)
	ib := indexOf(st.windows, b)
	if ia < 0 || ib < 0 {
		return fmt.Errorf("swap target not found in layout")
	}
	st.windows[ia], st.windows[ib] = st.windows[ib], st.windows[ia]
	st.widths[ia], st.widths[ib] = st.widths[ib], st.widths[ia]
	return nil
}

// Resize multiplies window's width unit by a fixed step of 1.1 (grow)
// or 1/1.1 (shrink), clamped to [0.05, 20.0] on the multiplier and to
// MinWidthUnits on the resulting unit. It takes no pixel-width change
// as input, so every call resizes by the same ratio.
func (s *System) Resize(id types.LayoutId, window types.WindowId, grow bool) error {
	st, err := s.get(id)
	if err != nil {
		return err
	}
	idx := indexOf(st.windows, window)
	if idx < 0 {
		return fmt.Errorf("resize target not found in layout")
	}
	multiplier := 1.1
	if !grow {
		multiplier = 1 / 1.1
	}
	if multiplier < 0.05 {
		multiplier = 0.05
	}
	if multiplier > 20.0 {
		multiplier = 20.0
	}
	newWidth := st.widths[idx] * multiplier
	if newWidth < MinWidthUnits {
		newWidth = MinWidthUnits
	}
	st.widths[idx] = newWidth
	return nil
}

// ToggleTileOrientation flips the strip's scroll direction and re-pins
// the scroll offset onto the selected window (or clamps it, if
// nothing is selected).
func (s *System) ToggleTileOrientation(id types.LayoutId) error {
	st, err := s.get(id)
	if err != nil {
		return err
	}
	st.reverse = !st.reverse
	if st.selected >= 0 {
		st.scrollOffset = float64(st.selected)
	} else {
		st.scrollOffset = clampOffset(st.scrollOffset, len(st.windows))
	}
	return nil
}

// AscendSelection/DescendSelection, JoinSelection/UnjoinSelection,
// StackSelection/UnstackSelection, and ToggleFullscreen/WithinGaps
// have no equivalent in a flat scroll strip: there is no container
// nesting to ascend or stack, so every one of these is a no-op,
// mirroring the original's own no-op trait methods for this system.
func (s *System) AscendSelection(types.LayoutId) bool  { return false }
func (s *System) DescendSelection(types.LayoutId) bool { return false }

func (s *System) JoinSelection(types.LayoutId, types.Direction) ([]types.WindowId, error) {
	return nil, nil
}
func (s *System) UnjoinSelection(types.LayoutId) error { return nil }

func (s *System) StackSelection(types.LayoutId) ([]types.WindowId, error)   { return nil, nil }
func (s *System) UnstackSelection(types.LayoutId) ([]types.WindowId, error) { return nil, nil }

func (s *System) ToggleFullscreen(types.LayoutId) ([]types.WindowId, error) { return nil, nil }
func (s *System) ToggleFullscreenWithinGaps(types.LayoutId) ([]types.WindowId, error) {
	return nil, nil
}

// MoveSelection reorders the selected window one slot toward dir
// within the strip, keeping it selected at its new index.
func (s *System) MoveSelection(id types.LayoutId, dir types.Direction) bool {
	st, err := s.get(id)
	if err != nil || st.selected < 0 {
		return false
	}
	delta := 1
	if dir == types.DirLeft || dir == types.DirUp {
		delta = -1
	} else if dir != types.DirRight && dir != types.DirDown {
		return false
	}
	next := st.selected + delta
	if next < 0 || next >= len(st.windows) {
		return false
	}
	st.windows[st.selected], st.windows[next] = st.windows[next], st.windows[st.selected]
	st.widths[st.selected], st.widths[next] = st.widths[next], st.widths[st.selected]
	st.selected = next
	st.scrollOffset = float64(next)
	return true
}

type serialForm struct {
	Windows      []types.WindowId `yaml:"windows"`
	Widths       []float64        `yaml:"widths"`
	Selected     int              `yaml:"selected"`
	ScrollOffset float64          `yaml:"scrollOffset"`
}

// Serialize returns the strip's persisted form: window order, per-window
// width units, and current selection/offset.
func (s *System) Serialize(id types.LayoutId) (interface{}, error) {
	st, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return serialForm{
		Windows:      append([]types.WindowId{}, st.windows...),
		Widths:       append([]float64{}, st.widths...),
		Selected:     st.selected,
		ScrollOffset: st.scrollOffset,
	}, nil
}

// Deserialize restores a strip previously returned by Serialize.
func (s *System) Deserialize(id types.LayoutId, blob interface{}) error {
	st, err := s.get(id)
	if err != nil {
		return err
	}
	sf, ok := blob.(serialForm)
	if !ok {
		return fmt.Errorf("scroll.Deserialize: unexpected blob type %T", blob)
	}
	st.windows = sf.Windows
	st.widths = sf.Widths
	st.selected = sf.Selected
	st.scrollOffset = sf.ScrollOffset
	return nil
}
