package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/sys/unix"

	"github.com/ryanthedev/reactor/internal/types"
	"github.com/ryanthedev/reactor/internal/windowstate"
)

// VisualizationOptions controls the appearance of the visualization
type VisualizationOptions struct {
	UseUnicode bool
	ShowIDs    bool
	MaxWidth   int
	MaxHeight  int
}

// DefaultVisualizationOptions returns sensible defaults
func DefaultVisualizationOptions() VisualizationOptions {
	width, height := getTerminalSize()
	return VisualizationOptions{
		UseUnicode: supportsUnicode(),
		ShowIDs:    true,
		MaxWidth:   width,
		MaxHeight:  height,
	}
}

// VisualizeSpace renders an ASCII map of every non-minimized window in
// windows on one screen, drawn in their current on-screen frames.
func VisualizeSpace(windows []*windowstate.Window, bounds types.Rect, opts VisualizationOptions) string {
	if len(windows) == 0 {
		return "(no windows)\n"
	}

	sorted := make([]*windowstate.Window, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Id.String() < sorted[j].Id.String()
	})

	sc := NewScalingContextFromBounds(bounds, opts.MaxWidth, opts.MaxHeight)
	canvas := NewCanvas(opts.MaxWidth, opts.MaxHeight, opts.UseUnicode)

	return renderWindowsOnCanvas(sorted, sc, canvas, opts.ShowIDs)
}

// renderWindowsOnCanvas draws windows onto a canvas
func renderWindowsOnCanvas(sortedWindows []*windowstate.Window, sc *ScalingContext, canvas *Canvas, showIDs bool) string {
	canvas.DrawBox(0, 0, sc.TermWidth, sc.TermHeight)

	for _, win := range sortedWindows {
		if win.Minimized {
			continue
		}

		x, y := sc.PixelToTerminal(win.Frame.X, win.Frame.Y)
		w, h := sc.ScaleSize(win.Frame.Width, win.Frame.Height)
		x, y, w, h = sc.ClampToCanvas(x, y, w, h)

		if w < 3 || h < 2 {
			continue
		}

		canvas.DrawBox(x, y, w, h)

		label := createWindowLabel(win, showIDs)
		if len(label) <= w-2 && h >= 2 {
			canvas.DrawText(x+1, y+1, truncate(label, w-2))
		}
	}

	return canvas.String()
}

// createWindowLabel creates a label for a window
func createWindowLabel(win *windowstate.Window, showID bool) string {
	title := win.Title
	if title == "" {
		title = win.BundleID
	}
	if title == "" {
		title = "window"
	}

	size := fmt.Sprintf("%.0fx%.0f", win.Frame.Width, win.Frame.Height)

	if showID {
		return fmt.Sprintf("[%s] %s (%s)", win.Id.String(), title, size)
	}
	return fmt.Sprintf("%s (%s)", title, size)
}

// getTerminalSize returns the current terminal dimensions
func getTerminalSize() (width, height int) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

// supportsUnicode checks if the terminal supports Unicode
func supportsUnicode() bool {
	lang := os.Getenv("LANG")
	lcAll := os.Getenv("LC_ALL")
	return strings.Contains(lang, "UTF-8") || strings.Contains(lcAll, "UTF-8")
}

// PrintVisualization prints a colored visualization of one screen's
// windows to stdout.
func PrintVisualization(windows []*windowstate.Window, bounds types.Rect, opts VisualizationOptions) {
	result := VisualizeSpace(windows, bounds, opts)

	if color.NoColor {
		fmt.Print(result)
	} else {
		cyan := color.New(color.FgCyan)
		cyan.Print(result)
	}
}
