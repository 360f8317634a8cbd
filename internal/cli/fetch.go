package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexanderramin/buildtrack/internal/api"
	"github.com/alexanderramin/buildtrack/internal/cli/formatter"
	"github.com/alexanderramin/buildtrack/internal/loader"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loadedMsg carries the outcome of a screen fetch back to the screen that
// issued it. The ticket lets the screen's loader discard stale results.
type loadedMsg[T any] struct {
	ticket loader.Ticket
	data   T
	err    error
}

// fetch begins a request on l and returns the Cmd that performs it.
func fetch[T any](l *loader.Loader[T], fn func(ctx context.Context) (T, error)) tea.Cmd {
	ctx, ticket := l.Begin()
	return func() tea.Msg {
		data, err := fn(ctx)
		return loadedMsg[T]{ticket: ticket, data: data, err: err}
	}
}

// mutatedMsg reports a write made from a screen. owner is the loader id of
// that screen so a remounted screen ignores it.
type mutatedMsg struct {
	owner uint64
	what  string
	err   error
}

// mutate runs fn under the loader's lifetime and reports the outcome.
func mutate[T any](l *loader.Loader[T], what string, fn func(ctx context.Context) error) tea.Cmd {
	ctx, owner := l.Context(), l.ID()
	return func() tea.Msg {
		return mutatedMsg{owner: owner, what: what, err: fn(ctx)}
	}
}

// ── load-state rendering ─────────────────────────────────────────────────────

// describeErr turns a client error into a line a user can act on.
func describeErr(err error) string {
	var httpErr *api.HTTPError
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return "Not authorized. Run `buildtrack auth login` and try again."
	case errors.Is(err, api.ErrTimeout):
		return "The server did not respond in time."
	case errors.Is(err, api.ErrUnavailable):
		return "Cannot reach the server."
	case errors.Is(err, api.ErrBodyTooLarge):
		return "The server response was too large to read."
	case api.StatusCode(err) == http.StatusNotFound:
		return "Not found (404). The record or route does not exist on the server."
	case errors.As(err, &httpErr):
		if d := httpErr.Detail(); d != "" {
			return fmt.Sprintf("Server error %d: %s", httpErr.StatusCode, d)
		}
		return fmt.Sprintf("Server error %d.", httpErr.StatusCode)
	default:
		return err.Error()
	}
}

// errorPanel is shown in place of content when a screen has nothing
// loaded and its request failed.
func errorPanel(title string, err error) string {
	body := formatter.StyleRed.Render(describeErr(err)) + "\n\n" + formatter.Dim("Press r to retry.")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(formatter.ColorRed).
		Padding(1, 2).
		Render(formatter.StyleRed.Bold(true).Render(title) + "\n\n" + body)
}

// staleNote is shown above data that a failed refresh could not replace.
func staleNote(err error) string {
	return formatter.StyleYellow.Render("⚠ Showing last loaded data. Refresh failed: "+describeErr(err)) + "\n"
}

// loadingLine renders the status shown while a request is in flight.
func loadingLine[T any](snap loader.Snapshot[T], what string) string {
	switch {
	case snap.Loading:
		return formatter.Dim("Loading " + what + "...")
	case snap.Refreshing:
		return formatter.Dim("Refreshing...")
	case !snap.UpdatedAt.IsZero():
		return formatter.Dim("Updated " + snap.UpdatedAt.Format("15:04:05"))
	}
	return ""
}
