package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/buildtrack/internal/cli/formatter"
	"github.com/alexanderramin/buildtrack/internal/domain"
	"github.com/alexanderramin/buildtrack/internal/loader"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// reportsView shows the per-project health report.
type reportsView struct {
	state *SharedState
	data  *loader.Loader[[]domain.ProjectHealth]
}

func newReportsView(state *SharedState) *reportsView {
	return &reportsView{
		state: state,
		data:  loader.New[[]domain.ProjectHealth](state.Ctx),
	}
}

func (v *reportsView) ID() ViewID    { return ViewReports }
func (v *reportsView) Title() string { return "Reports" }
func (v *reportsView) Close()        { v.data.Close() }

func (v *reportsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *reportsView) Init() tea.Cmd {
	return v.load()
}

func (v *reportsView) load() tea.Cmd {
	client := v.state.App.Client
	return fetch(v.data, func(ctx context.Context) ([]domain.ProjectHealth, error) {
		resp, err := client.Dashboard.ProjectHealth(ctx)
		if err != nil {
			return nil, err
		}
		return decodeList[domain.ProjectHealth](resp)
	})
}

func (v *reportsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[[]domain.ProjectHealth]:
		v.data.Apply(msg.ticket, msg.data, msg.err)
	case tea.KeyMsg:
		if msg.String() == "r" {
			return v, v.load()
		}
	}
	return v, nil
}

func (v *reportsView) View() string {
	snap := v.data.State()

	if snap.Loading {
		return "\n  " + loadingLine(snap, "reports")
	}
	if !snap.HasData {
		if snap.Err != nil {
			return "\n" + errorPanel("Could not load project health", snap.Err)
		}
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("Project Health") + "  " + loadingLine(snap, "reports") + "\n")
	if snap.Err != nil {
		b.WriteString(staleNote(snap.Err))
	}
	b.WriteString("\n" + formatter.FormatHealthTable(snap.Data))
	return b.String()
}
