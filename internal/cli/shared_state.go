package cli

import (
	"context"

	"github.com/alexanderramin/buildtrack/internal/domain"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Ctx is the lifetime of the TUI; screen loaders derive from it.
	Ctx context.Context

	// Project chosen on the Projects screen, shown by Tasks.
	ProjectID   string
	ProjectName string

	// Terminal dimensions
	Width  int
	Height int
}

// SelectProject sets the project the Tasks screen shows.
func (s *SharedState) SelectProject(p domain.Project) {
	s.ProjectID = p.ID.String()
	s.ProjectName = p.Name
}

// sidebarWidth is the fixed width of the navigation column.
const sidebarWidth = 24

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}

// ContentWidth returns the width right of the sidebar.
func (s *SharedState) ContentWidth() int {
	w := s.Width - sidebarWidth - 1
	if w < 40 {
		return 40
	}
	return w
}
