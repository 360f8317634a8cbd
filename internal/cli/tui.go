package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// program is the part of tea.Program the launcher needs.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the bubbletea program; tests replace it.
var programFactory = func(ctx context.Context, m tea.Model) program {
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
}

// runProgram runs the interactive shell until the user quits. The active
// screen is closed on the way out so no request outlives the program.
func runProgram(ctx context.Context, app *App) error {
	final, err := programFactory(ctx, newAppModel(ctx, app)).Run()
	if m, ok := final.(appModel); ok && m.screen != nil {
		m.screen.Close()
	}
	if err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
