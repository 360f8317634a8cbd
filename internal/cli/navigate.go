package cli

import tea "github.com/charmbracelet/bubbletea"

// Navigation messages used by views to request transitions.
// The appModel handles these in its Update method.

// intent asks a freshly mounted screen to do something beyond loading.
type intent int

const (
	intentNone intent = iota
	intentCreate
)

// navigateMsg switches the shell to another sidebar screen.
type navigateMsg struct {
	to     ViewID
	intent intent
}

// openModalMsg shows a form over the current screen.
type openModalMsg struct {
	view View
}

// modalDoneMsg is sent when a modal form completes or is cancelled.
// The appModel closes the modal, then runs next.
type modalDoneMsg struct {
	next tea.Cmd
}

// flashMsg shows a transient line in the status bar.
type flashMsg struct {
	text  string
	isErr bool
}

func navigate(to ViewID, in intent) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to, intent: in} }
}

func openModal(v View) tea.Cmd {
	return func() tea.Msg { return openModalMsg{view: v} }
}

func flash(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return flashMsg{text: text, isErr: isErr} }
}
