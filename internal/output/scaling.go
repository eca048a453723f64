package output

import (
	"math"

	"github.com/ryanthedev/reactor/internal/types"
	"github.com/ryanthedev/reactor/internal/windowstate"
)

// ScalingContext handles coordinate transformation from pixel space to terminal character space
type ScalingContext struct {
	// Display bounds in pixels
	MinX, MinY float64
	MaxX, MaxY float64

	// Display dimensions in pixels
	PixelWidth  float64
	PixelHeight float64

	// Terminal dimensions in characters
	TermWidth  int
	TermHeight int

	// Scale factors
	ScaleX float64
	ScaleY float64

	// Aspect ratio correction (terminal characters are typically 2:1 height:width)
	AspectRatio float64
}

// NewScalingContextFromBounds creates a scaling context from a screen's
// pixel bounds, the frame the reactor tracks per (space, display) pair.
func NewScalingContextFromBounds(bounds types.Rect, termWidth, termHeight int) *ScalingContext {
	pixelWidth := bounds.Width
	pixelHeight := bounds.Height
	if pixelWidth <= 0 {
		pixelWidth = 1920
	}
	if pixelHeight <= 0 {
		pixelHeight = 1080
	}

	availWidth := termWidth - 4
	availHeight := termHeight - 4
	if availWidth < 10 {
		availWidth = 10
	}
	if availHeight < 5 {
		availHeight = 5
	}

	return &ScalingContext{
		MinX:        bounds.X,
		MinY:        bounds.Y,
		MaxX:        bounds.X + pixelWidth,
		MaxY:        bounds.Y + pixelHeight,
		PixelWidth:  pixelWidth,
		PixelHeight: pixelHeight,
		TermWidth:   termWidth,
		TermHeight:  termHeight,
		ScaleX:      float64(availWidth) / pixelWidth,
		ScaleY:      float64(availHeight) / pixelHeight,
		AspectRatio: 2.0,
	}
}

// NewScalingContext creates a scaling context from a window set's bounding
// box and terminal size, used when no screen frame is known.
func NewScalingContext(windows []*windowstate.Window, termWidth, termHeight int) *ScalingContext {
	if len(windows) == 0 {
		return &ScalingContext{
			MinX:        0,
			MinY:        0,
			MaxX:        1920,
			MaxY:        1080,
			PixelWidth:  1920,
			PixelHeight: 1080,
			TermWidth:   termWidth,
			TermHeight:  termHeight,
			ScaleX:      float64(termWidth) / 1920.0,
			ScaleY:      float64(termHeight) / 1080.0,
			AspectRatio: 2.0,
		}
	}

	minX := math.MaxFloat64
	minY := math.MaxFloat64
	maxX := -math.MaxFloat64
	maxY := -math.MaxFloat64

	for _, win := range windows {
		if win.Minimized {
			continue
		}

		x, y := win.Frame.X, win.Frame.Y
		w, h := win.Frame.Width, win.Frame.Height

		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x+w > maxX {
			maxX = x + w
		}
		if y+h > maxY {
			maxY = y + h
		}
	}

	paddingX := (maxX - minX) * 0.05
	paddingY := (maxY - minY) * 0.05
	minX -= paddingX
	minY -= paddingY
	maxX += paddingX
	maxY += paddingY

	if maxX-minX < 800 {
		center := (minX + maxX) / 2
		minX = center - 400
		maxX = center + 400
	}
	if maxY-minY < 600 {
		center := (minY + maxY) / 2
		minY = center - 300
		maxY = center + 300
	}

	pixelWidth := maxX - minX
	pixelHeight := maxY - minY

	availWidth := termWidth - 4
	availHeight := termHeight - 4
	if availWidth < 10 {
		availWidth = 10
	}
	if availHeight < 5 {
		availHeight = 5
	}

	return &ScalingContext{
		MinX:        minX,
		MinY:        minY,
		MaxX:        maxX,
		MaxY:        maxY,
		PixelWidth:  pixelWidth,
		PixelHeight: pixelHeight,
		TermWidth:   termWidth,
		TermHeight:  termHeight,
		ScaleX:      float64(availWidth) / pixelWidth,
		ScaleY:      float64(availHeight) / pixelHeight,
		AspectRatio: 2.0, // Terminal characters are roughly 2:1
	}
}

// PixelToTerminal converts pixel coordinates to terminal coordinates
func (sc *ScalingContext) PixelToTerminal(x, y float64) (int, int) {
	relX := x - sc.MinX
	relY := y - sc.MinY

	termX := int(relX * sc.ScaleX)
	termY := int(relY * sc.ScaleY / sc.AspectRatio)

	termX += 2
	termY += 2

	return termX, termY
}

// ScaleSize converts pixel dimensions to terminal character dimensions
func (sc *ScalingContext) ScaleSize(w, h float64) (int, int) {
	termW := int(w * sc.ScaleX)
	termH := int(h * sc.ScaleY / sc.AspectRatio)

	if termW < 3 {
		termW = 3
	}
	if termH < 2 {
		termH = 2
	}

	return termW, termH
}

// ClampToCanvas ensures coordinates are within canvas bounds
func (sc *ScalingContext) ClampToCanvas(x, y, w, h int) (int, int, int, int) {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}

	if x+w >= sc.TermWidth {
		w = sc.TermWidth - x - 1
	}
	if y+h >= sc.TermHeight {
		h = sc.TermHeight - y - 1
	}

	if w < 3 {
		w = 3
	}
	if h < 2 {
		h = 2
	}

	return x, y, w, h
}
