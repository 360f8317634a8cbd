package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/buildtrack/internal/cli/formatter"
	"github.com/alexanderramin/buildtrack/internal/domain"
	"github.com/alexanderramin/buildtrack/internal/loader"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// projectsView shows the project cards and hosts the project forms.
type projectsView struct {
	state  *SharedState
	data   *loader.Loader[[]domain.Project]
	cursor int
	intent intent
}

func newProjectsView(state *SharedState, in intent) *projectsView {
	return &projectsView{
		state:  state,
		data:   loader.New[[]domain.Project](state.Ctx),
		intent: in,
	}
}

func (v *projectsView) ID() ViewID    { return ViewProjects }
func (v *projectsView) Title() string { return "Projects" }
func (v *projectsView) Close()        { v.data.Close() }

func (v *projectsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "tasks")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "progress")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *projectsView) Init() tea.Cmd {
	load := v.load()
	if v.intent == intentCreate {
		return tea.Batch(load, v.createForm())
	}
	return load
}

func (v *projectsView) load() tea.Cmd {
	client := v.state.App.Client
	return fetch(v.data, func(ctx context.Context) ([]domain.Project, error) {
		resp, err := client.Projects.List(ctx, nil)
		if err != nil {
			return nil, err
		}
		return decodeList[domain.Project](resp)
	})
}

func (v *projectsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[[]domain.Project]:
		if v.data.Apply(msg.ticket, msg.data, msg.err) {
			v.clampCursor()
		}
		return v, nil

	case mutatedMsg:
		if msg.owner != v.data.ID() {
			return v, nil
		}
		if msg.err != nil {
			return v, flash(fmt.Sprintf("%s failed: %s", msg.what, describeErr(msg.err)), true)
		}
		return v, tea.Batch(flash(msg.what+" done.", false), v.load())

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *projectsView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	projects := v.data.State().Data

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(projects)-1 {
			v.cursor++
		}
	case "r":
		return v, v.load()
	case "n":
		return v, v.createForm()
	case "enter":
		if p, ok := v.selected(); ok {
			v.state.SelectProject(p)
			return v, navigate(ViewTasks, intentNone)
		}
	case "p":
		if p, ok := v.selected(); ok {
			return v, v.progressForm(p)
		}
	case "x":
		if p, ok := v.selected(); ok {
			return v, v.deleteForm(p)
		}
	}
	return v, nil
}

func (v *projectsView) selected() (domain.Project, bool) {
	projects := v.data.State().Data
	if v.cursor < 0 || v.cursor >= len(projects) {
		return domain.Project{}, false
	}
	return projects[v.cursor], true
}

func (v *projectsView) clampCursor() {
	n := len(v.data.State().Data)
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// ── forms ────────────────────────────────────────────────────────────────────

func (v *projectsView) createForm() tea.Cmd {
	values := &projectFormValues{}
	return startWizardCmd("New Project", projectForm(values), func() tea.Cmd {
		return v.create(values.input())
	})
}

func (v *projectsView) create(in domain.ProjectInput) tea.Cmd {
	client := v.state.App.Client
	return mutate(v.data, "Create project", func(ctx context.Context) error {
		_, err := client.Projects.Create(ctx, in)
		return err
	})
}

func (v *projectsView) progressForm(p domain.Project) tea.Cmd {
	value := strconv.FormatFloat(p.Progress, 'f', -1, 64)
	return startWizardCmd("Update Progress", progressForm(p.Name, &value), func() tea.Cmd {
		pct, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return flash("Progress must be a number.", true)
		}
		return v.updateProgress(p.ID.String(), pct)
	})
}

func (v *projectsView) updateProgress(id string, pct float64) tea.Cmd {
	client := v.state.App.Client
	return mutate(v.data, "Update progress", func(ctx context.Context) error {
		_, err := client.Projects.UpdateProgress(ctx, id, pct)
		return err
	})
}

func (v *projectsView) deleteForm(p domain.Project) tea.Cmd {
	var confirmed bool
	return startWizardCmd("Delete Project", wizardConfirm(fmt.Sprintf("Delete %q?", p.Name), &confirmed), func() tea.Cmd {
		if !confirmed {
			return flash("Kept "+p.Name+".", false)
		}
		return v.remove(p.ID.String())
	})
}

func (v *projectsView) remove(id string) tea.Cmd {
	client := v.state.App.Client
	return mutate(v.data, "Delete project", func(ctx context.Context) error {
		_, err := client.Projects.Delete(ctx, id)
		return err
	})
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *projectsView) View() string {
	snap := v.data.State()

	if snap.Loading {
		return "\n  " + loadingLine(snap, "projects")
	}
	if !snap.HasData {
		if snap.Err != nil {
			return "\n" + errorPanel("Could not load projects", snap.Err)
		}
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("Projects") + "  " + loadingLine(snap, "projects") + "\n")
	if snap.Err != nil {
		b.WriteString(staleNote(snap.Err))
	}
	b.WriteString("\n")

	if len(snap.Data) == 0 {
		b.WriteString(formatter.Dim("No projects yet. Press n to create one.") + "\n")
		return b.String()
	}

	width := min(v.state.ContentWidth()-2, 80)
	for i := range snap.Data {
		b.WriteString(formatter.FormatProjectCard(&snap.Data[i], width, i == v.cursor) + "\n")
	}
	return b.String()
}
