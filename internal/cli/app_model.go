package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/buildtrack/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// menuItem is one sidebar destination.
type menuItem struct {
	id    ViewID
	label string
}

var menuItems = []menuItem{
	{ViewDashboard, "Dashboard"},
	{ViewProjects, "Projects"},
	{ViewTasks, "Tasks"},
	{ViewMaterials, "Materials"},
	{ViewLabour, "Labour"},
	{ViewIssues, "Issues"},
	{ViewReports, "Reports"},
	{ViewPettyCash, "Petty Cash"},
}

func menuIndex(id ViewID) int {
	for i, it := range menuItems {
		if it.id == id {
			return i
		}
	}
	return -1
}

// appModel is the root bubbletea Model for the TUI.
// It owns the sidebar selection, the mounted screen and an optional modal.
type appModel struct {
	state    *SharedState
	screen   screen
	active   int
	modal    View
	quitting bool

	// Transient status line set by flashMsg, cleared on the next key.
	status    string
	statusErr bool

	// Clips tall screens; pgup/pgdown scroll it.
	contentVP viewport.Model
}

func newAppModel(ctx context.Context, app *App) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	state := &SharedState{App: app, Ctx: ctx}

	vp := viewport.New(0, 0)
	vp.KeyMap = contentViewportKeyMap()

	m := appModel{
		state:     state,
		contentVP: vp,
	}
	m.screen = newScreen(state, ViewDashboard, intentNone)
	return m
}

// newScreen builds a fresh instance of the screen for id.
func newScreen(state *SharedState, id ViewID, in intent) screen {
	switch id {
	case ViewProjects:
		return newProjectsView(state, in)
	case ViewTasks:
		return newTasksView(state)
	case ViewMaterials:
		return newResourceView(state, materialsScreen, in)
	case ViewLabour:
		return newResourceView(state, labourScreen, in)
	case ViewIssues:
		return newResourceView(state, issuesScreen, in)
	case ViewPettyCash:
		return newResourceView(state, pettyCashScreen, in)
	case ViewReports:
		return newReportsView(state)
	default:
		return newDashboardView(state)
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	return m.screen.Init()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.contentVP.Width = m.state.ContentWidth()
		m.contentVP.Height = m.state.ContentHeight()
		return m.forward(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case navigateMsg:
		return m.switchTo(msg.to, msg.intent)

	case openModalMsg:
		m.modal = msg.view
		return m, msg.view.Init()

	case modalDoneMsg:
		m.modal = nil
		return m, msg.next

	case flashMsg:
		m.status = msg.text
		m.statusErr = msg.isErr
		return m, nil
	}

	return m.forward(msg)
}

// forward passes a non-key message to the modal and the screen. Both may
// be waiting on results: a modal on its own form, the screen on fetches.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.modal != nil {
		updated, cmd := m.modal.Update(msg)
		m.modal = updated.(View)
		cmds = append(cmds, cmd)
	}
	updated, cmd := m.screen.Update(msg)
	m.screen = updated.(screen)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// switchTo closes the current screen and mounts a fresh one. The old
// screen's loader is closed first, so its in-flight requests are canceled
// and any result still on its way is discarded.
func (m appModel) switchTo(id ViewID, in intent) (tea.Model, tea.Cmd) {
	if m.screen != nil && m.screen.ID() == id && in == intentNone {
		return m, nil
	}
	if m.screen != nil {
		m.screen.Close()
	}
	m.modal = nil
	if i := menuIndex(id); i >= 0 {
		m.active = i
	}
	m.screen = newScreen(m.state, id, in)
	m.contentVP.GotoTop()
	return m, m.screen.Init()
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	// A modal takes every key until it finishes.
	if m.modal != nil {
		updated, cmd := m.modal.Update(msg)
		m.modal = updated.(View)
		return m, cmd
	}

	m.status = ""

	if capturesInput(m.screen) {
		updated, cmd := m.screen.Update(msg)
		m.screen = updated.(screen)
		return m, cmd
	}

	switch s := msg.String(); s {
	case "q":
		return m.quit()
	case "tab", "]":
		return m.switchTo(menuItems[(m.active+1)%len(menuItems)].id, intentNone)
	case "shift+tab", "[":
		return m.switchTo(menuItems[(m.active+len(menuItems)-1)%len(menuItems)].id, intentNone)
	case "1", "2", "3", "4", "5", "6", "7", "8":
		return m.switchTo(menuItems[int(s[0]-'1')].id, intentNone)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.contentVP, cmd = m.contentVP.Update(msg)
		return m, cmd
	}

	updated, cmd := m.screen.Update(msg)
	m.screen = updated.(screen)
	return m, cmd
}

func (m appModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.screen.Close()
	return m, tea.Quit
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	content := m.screen.View()
	if m.modal != nil {
		content = m.renderModal()
	}
	if m.state.Height > 0 {
		vp := m.contentVP
		vp.SetContent(content)
		content = vp.View()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), " ", content)
	result := strings.Join([]string{m.renderHeader(), body, m.renderStatusBar()}, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	header := formatter.StyleHeader.Render("buildtrack") + " " + formatter.Dim("›") + " " + formatter.Dim(m.screen.Title())
	if m.modal != nil {
		header += " " + formatter.Dim("› "+m.modal.Title())
	}
	if m.state.ProjectName != "" {
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(m.state.ProjectName) + formatter.Dim("]")
	}
	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderSidebar() string {
	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("Construction Manager") + "\n\n")
	for i, it := range menuItems {
		label := fmt.Sprintf("%d %s", i+1, it.label)
		if i == m.active {
			b.WriteString(formatter.StyleGreen.Bold(true).Render("▸ "+label) + "\n")
			continue
		}
		b.WriteString("  " + formatter.StyleFg.Render(label) + "\n")
	}
	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(m.state.ContentHeight()).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(formatter.ColorDim).
		Render(b.String())
}

func (m *appModel) renderModal() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(formatter.ColorHeader).
		Padding(1, 2)
	return box.Render(formatter.StyleHeader.Render(m.modal.Title()) + "\n\n" + m.modal.View())
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	switch {
	case m.status != "" && m.statusErr:
		hints = append(hints, formatter.StyleRed.Render(m.status))
	case m.status != "":
		hints = append(hints, formatter.StyleGreen.Render(m.status))
	}

	var bindings []key.Binding
	if m.modal != nil {
		bindings = m.modal.ShortHelp()
	} else {
		bindings = m.screen.ShortHelp()
	}
	for _, b := range bindings {
		hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
	}
	if m.modal == nil && !capturesInput(m.screen) {
		hints = append(hints, formatter.Dim("tab/1-8: switch"), formatter.Dim("q: quit"))
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}

// contentViewportKeyMap leaves letter and arrow keys to the screens; only
// page keys scroll the content pane.
func contentViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}
}
