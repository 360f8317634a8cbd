package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewDashboard ViewID = iota
	ViewProjects
	ViewTasks
	ViewMaterials
	ViewLabour
	ViewIssues
	ViewReports
	ViewPettyCash
	ViewForm
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment for this view
}

// screen is a sidebar destination. Close is called when the shell leaves
// the screen; it must cancel in-flight requests.
type screen interface {
	View
	Close()
}

// inputCapturer is implemented by views that temporarily take all keys,
// such as a search box being edited.
type inputCapturer interface {
	CapturesInput() bool
}

func capturesInput(v View) bool {
	c, ok := v.(inputCapturer)
	return ok && c.CapturesInput()
}
