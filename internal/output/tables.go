package output

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/ryanthedev/reactor/internal/types"
	"github.com/ryanthedev/reactor/internal/windowstate"
	"github.com/ryanthedev/reactor/internal/workspace"
)

// PrintWindowsTable prints every tracked window in a table, sorted by id
// for stable output across runs.
func PrintWindowsTable(windows []*windowstate.Window) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Title", "App", "Workspace", "Size", "Manageable")

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Id.String() < windows[j].Id.String()
	})

	for _, w := range windows {
		manageable := ""
		if w.Manageable() {
			manageable = "yes"
		}
		title := truncate(w.Title, 30)
		size := fmt.Sprintf("%.0fx%.0f", w.Frame.Width, w.Frame.Height)

		table.Append(
			w.Id.String(),
			title,
			fmt.Sprintf("%d", w.Id.App),
			w.Workspace.String(),
			size,
			manageable,
		)
	}

	table.Render()
}

// PrintWorkspacesTable prints one display's workspaces, marking the
// active one.
func PrintWorkspacesTable(display int, workspaces []*workspace.Workspace, active types.VirtualWorkspaceId) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Active", "Windows")

	for _, ws := range workspaces {
		activeMark := ""
		if ws.Id == active {
			activeMark = "yes"
		}
		table.Append(
			ws.Id.String(),
			ws.Name,
			activeMark,
			fmt.Sprintf("%d", len(ws.Members)),
		)
	}

	table.Render()
}

// PrintWindowDetail prints detailed information about a single window.
func PrintWindowDetail(w *windowstate.Window) {
	fmt.Printf("Window ID: %s\n", w.Id.String())
	fmt.Printf("Title: %s\n", w.Title)
	fmt.Printf("Bundle ID: %s\n", w.BundleID)
	fmt.Printf("Frame: x=%.0f y=%.0f %.0fx%.0f\n", w.Frame.X, w.Frame.Y, w.Frame.Width, w.Frame.Height)
	fmt.Printf("Workspace: %s\n", w.Workspace.String())
	fmt.Printf("Manageable: %v\n", w.Manageable())
	fmt.Printf("Minimized: %v\n", w.Minimized)
	fmt.Printf("Sticky: %v\n", w.Sticky)
	fmt.Printf("Last transaction: %v\n", w.LastTxId)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
