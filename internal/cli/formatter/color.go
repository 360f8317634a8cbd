package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/buildtrack/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Site palette: green accents on a dark sidebar.
var (
	ColorGreen  = lipgloss.Color("#66bb6a")
	ColorYellow = lipgloss.Color("#ffb74d")
	ColorRed    = lipgloss.Color("#ef5350")
	ColorBlue   = lipgloss.Color("#64b5f6")
	ColorPurple = lipgloss.Color("#ba68c8")
	ColorDim    = lipgloss.Color("#8a8a8a")
	ColorFg     = lipgloss.Color("#e0e0e0")
	ColorHeader = lipgloss.Color("#81c784")
	ColorPanel  = lipgloss.Color("#1a1a2e")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// TaskStatusColor returns the accent used for a task status.
func TaskStatusColor(status domain.TaskStatus) lipgloss.Style {
	switch status {
	case domain.TaskInProgress:
		return StyleYellow
	case domain.TaskCompleted:
		return StyleGreen
	default:
		return StyleDim
	}
}

// TaskStatusBadge renders a task status as a colored badge such as "● In Progress".
func TaskStatusBadge(status domain.TaskStatus) string {
	switch status {
	case domain.TaskInProgress:
		return StyleYellow.Render("● In Progress")
	case domain.TaskCompleted:
		return StyleGreen.Render("✔ Completed")
	case domain.TaskNotStarted:
		return StyleDim.Render("○ Not Started")
	case "":
		return StyleDim.Render("--")
	default:
		return StyleDim.Render(string(status))
	}
}

// Header renders a section header with the header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
