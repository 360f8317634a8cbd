package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/buildtrack/internal/cli/formatter"
	"github.com/alexanderramin/buildtrack/internal/domain"
	"github.com/alexanderramin/buildtrack/internal/loader"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// taskTab selects how the task list is drawn.
type taskTab int

const (
	tabPlan taskTab = iota
	tabList
	tabGantt
)

var taskTabNames = []string{"Plan", "List", "Gantt"}

const ganttNameWidth = 24

// tasksView shows the plan of the project chosen on the Projects screen.
type tasksView struct {
	state *SharedState
	data  *loader.Loader[domain.Project]

	tab         taskTab
	delayedOnly bool

	// Search
	searching bool
	query     string
}

func newTasksView(state *SharedState) *tasksView {
	return &tasksView{
		state: state,
		data:  loader.New[domain.Project](state.Ctx),
	}
}

func (v *tasksView) ID() ViewID    { return ViewTasks }
func (v *tasksView) Title() string { return "Tasks" }
func (v *tasksView) Close()        { v.data.Close() }

// CapturesInput is true while the search box is being edited.
func (v *tasksView) CapturesInput() bool { return v.searching }

func (v *tasksView) ShortHelp() []key.Binding {
	if v.searching {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "keep")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delayed")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *tasksView) Init() tea.Cmd {
	return v.load()
}

func (v *tasksView) load() tea.Cmd {
	id := v.state.ProjectID
	if id == "" {
		return nil
	}
	client := v.state.App.Client
	return fetch(v.data, func(ctx context.Context) (domain.Project, error) {
		resp, err := client.Projects.Get(ctx, id)
		if err != nil {
			return domain.Project{}, err
		}
		return decodeOne[domain.Project](resp)
	})
}

func (v *tasksView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[domain.Project]:
		if v.data.Apply(msg.ticket, msg.data, msg.err) && msg.data.Name != "" {
			v.state.ProjectName = msg.data.Name
		}
		return v, nil

	case tea.KeyMsg:
		if v.searching {
			return v.updateSearch(msg)
		}
		switch msg.String() {
		case "/":
			v.searching = true
		case "v":
			v.tab = (v.tab + 1) % taskTab(len(taskTabNames))
		case "d":
			v.delayedOnly = !v.delayedOnly
		case "r":
			return v, v.load()
		case "esc":
			v.query = ""
		}
	}
	return v, nil
}

func (v *tasksView) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.searching = false
		v.query = ""
	case tea.KeyEnter:
		v.searching = false
	case tea.KeyBackspace:
		if r := []rune(v.query); len(r) > 0 {
			v.query = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		v.query += " "
	case tea.KeyRunes:
		v.query += string(msg.Runes)
	}
	return v, nil
}

// visibleTasks applies the search and, in the Plan view, the delayed filter.
func (v *tasksView) visibleTasks(tasks []domain.Task) []domain.Task {
	out := domain.FilterTasks(tasks, v.query)
	if v.tab == tabPlan && v.delayedOnly {
		out = domain.DelayedTasks(out)
	}
	return out
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *tasksView) View() string {
	if v.state.ProjectID == "" {
		return "\n  " + formatter.Dim("No project selected. Open Projects and press enter on a project.")
	}

	snap := v.data.State()
	if snap.Loading {
		return "\n  " + loadingLine(snap, "tasks")
	}
	if !snap.HasData {
		if snap.Err != nil {
			return "\n" + errorPanel("Could not load tasks", snap.Err)
		}
		return ""
	}

	p := snap.Data
	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render(p.Name) + "  " + formatter.StatusPill(p.Status) + "  " + loadingLine(snap, "tasks") + "\n")
	if snap.Err != nil {
		b.WriteString(staleNote(snap.Err))
	}
	b.WriteString(v.renderTabs() + "\n")
	b.WriteString(v.renderSearch() + "\n\n")

	tasks := v.visibleTasks(p.Tasks)
	switch {
	case len(p.Tasks) == 0:
		b.WriteString(formatter.Dim("This project has no tasks.") + "\n")
	case len(tasks) == 0:
		b.WriteString(formatter.Dim("No tasks match.") + "\n")
	case v.tab == tabGantt:
		start, end, ok := p.Span()
		if !ok {
			start, end, ok = domain.TaskSpan(tasks)
		}
		if !ok {
			b.WriteString(formatter.Dim("No dated tasks to chart.") + "\n")
			break
		}
		b.WriteString(renderGantt(tasks, start, end, v.state.ContentWidth()-ganttNameWidth-4))
	default:
		b.WriteString(renderTaskTable(tasks, v.tab == tabPlan))
	}
	if len(p.Tasks) > 0 {
		b.WriteString("\n" + formatter.Dim(taskCount(len(tasks), len(p.Tasks))) + "\n")
	}
	return b.String()
}

// taskCount is the footer under the task list.
func taskCount(shown, total int) string {
	if shown == total {
		return fmt.Sprintf("Count %d", total)
	}
	return fmt.Sprintf("Count %d of %d", shown, total)
}

func (v *tasksView) renderTabs() string {
	var parts []string
	for i, name := range taskTabNames {
		if taskTab(i) == v.tab {
			parts = append(parts, formatter.StyleGreen.Bold(true).Render("["+name+"]"))
			continue
		}
		parts = append(parts, formatter.Dim(" "+name+" "))
	}
	line := strings.Join(parts, " ")
	if v.tab == tabPlan {
		check := "[ ]"
		if v.delayedOnly {
			check = "[x]"
		}
		line += "   " + formatter.Dim(check+" Delayed")
	}
	return line
}

func (v *tasksView) renderSearch() string {
	switch {
	case v.searching:
		return formatter.StyleHeader.Render("/ ") + v.query + formatter.StyleGreen.Render("█")
	case v.query != "":
		return formatter.Dim("search: ") + v.query
	default:
		return formatter.Dim("/ search by name or task id")
	}
}

// renderTaskTable draws the task grid. In the plan layout names are
// indented by level.
func renderTaskTable(tasks []domain.Task, indent bool) string {
	headers := []string{"#", "TASK", "START", "END", "CATEGORY", "STATUS", "DURATION", "PROGRESS"}
	rows := make([][]string, 0, len(tasks))
	for i, t := range tasks {
		num := t.TaskID
		if num == "" {
			num = fmt.Sprint(i + 1)
		}
		name := t.Name
		if indent {
			name = strings.Repeat("  ", t.Indent()) + name
		}
		duration := t.Duration
		if d := formatter.DelayText(t.Delay); d != "" {
			duration = strings.TrimSpace(duration + " " + formatter.StyleRed.Render(d))
		}
		rows = append(rows, []string{
			num,
			name,
			formatter.DisplayDate(t.StartDate),
			formatter.DisplayDate(t.EndDate),
			t.WorkCategory,
			formatter.TaskStatusBadge(t.Status),
			duration,
			formatter.RenderPercent(domain.ClampProgress(t.Progress), 10),
		})
	}
	return formatter.RenderTableMax(headers, rows, 40)
}

// renderGantt draws one bar per dated task across [start, end], width
// columns wide. Undated tasks are listed without a bar.
func renderGantt(tasks []domain.Task, start, end time.Time, width int) string {
	if width < 10 {
		width = 10
	}
	totalDays := end.Sub(start).Hours()/24 + 1
	if totalDays < 1 {
		totalDays = 1
	}

	var b strings.Builder
	b.WriteString(formatter.PadRight("", ganttNameWidth) + " " +
		formatter.Dim(formatter.PadRight(start.Format("Jan 2"), width-6)+end.Format("Jan 2")) + "\n")

	for _, t := range tasks {
		name := formatter.PadRight(formatter.Truncate(t.Name, ganttNameWidth), ganttNameWidth)
		s, okS := domain.ParseDate(t.StartDate)
		e, okE := domain.ParseDate(t.EndDate)
		if !okS || !okE {
			b.WriteString(name + " " + formatter.Dim("no dates") + "\n")
			continue
		}
		offset := int(s.Sub(start).Hours() / 24 / totalDays * float64(width))
		length := int((e.Sub(s).Hours()/24 + 1) / totalDays * float64(width))
		offset = max(0, min(offset, width-1))
		length = max(1, min(length, width-offset))

		bar := formatter.TaskStatusColor(t.Status).Render(strings.Repeat("█", length))
		line := name + " " + strings.Repeat(" ", offset) + bar
		if t.IsDelayed() {
			line += " " + formatter.StyleRed.Render("+"+fmt.Sprint(t.Delay)+"d")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
