package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/buildtrack/internal/cli/formatter"
	"github.com/alexanderramin/buildtrack/internal/domain"
	"github.com/alexanderramin/buildtrack/internal/loader"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── data types ───────────────────────────────────────────────────────────────

// dashboardData holds the loaded data for the dashboard view. The activity
// feed is secondary: its failure is shown in its own section instead of
// failing the whole screen.
type dashboardData struct {
	stats       domain.DashboardStats
	activity    []domain.Activity
	activityErr error
}

// quickAction jumps to a screen and opens its create form.
type quickAction struct {
	key   string
	label string
	to    ViewID
}

var quickActions = []quickAction{
	{"p", "Add Project", ViewProjects},
	{"m", "Add Material", ViewMaterials},
	{"l", "Add Labour", ViewLabour},
	{"i", "Report Issue", ViewIssues},
}

// statLinks maps the key shown on each stat card to the screen it opens.
var statLinks = map[string]ViewID{
	"P": ViewProjects,
	"A": ViewProjects,
	"M": ViewMaterials,
	"L": ViewLabour,
	"I": ViewIssues,
	"E": ViewPettyCash,
}

const maxActivity = 8

// ── view ─────────────────────────────────────────────────────────────────────

// dashboardView is the home screen: headline stats, quick actions and the
// recent activity feed.
type dashboardView struct {
	state *SharedState
	data  *loader.Loader[dashboardData]
}

func newDashboardView(state *SharedState) *dashboardView {
	return &dashboardView{
		state: state,
		data:  loader.New[dashboardData](state.Ctx),
	}
}

func (v *dashboardView) ID() ViewID    { return ViewDashboard }
func (v *dashboardView) Title() string { return "Dashboard" }
func (v *dashboardView) Close()        { v.data.Close() }

func (v *dashboardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("p", "m", "l", "i"), key.WithHelp("p/m/l/i", "quick add")),
		key.NewBinding(key.WithKeys("P", "A", "M", "L", "I", "E"), key.WithHelp("P/M/L/I/E", "open card")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *dashboardView) Init() tea.Cmd {
	return v.load()
}

func (v *dashboardView) load() tea.Cmd {
	client := v.state.App.Client
	return fetch(v.data, func(ctx context.Context) (dashboardData, error) {
		resp, err := client.Dashboard.Stats(ctx)
		if err != nil {
			return dashboardData{}, err
		}
		stats, err := decodeOne[domain.DashboardStats](resp)
		if err != nil {
			return dashboardData{}, err
		}
		data := dashboardData{stats: stats}

		resp, err = client.Dashboard.RecentActivity(ctx)
		if err == nil {
			data.activity, err = decodeList[domain.Activity](resp)
		}
		data.activityErr = err
		return data, nil
	})
}

func (v *dashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[dashboardData]:
		v.data.Apply(msg.ticket, msg.data, msg.err)
		return v, nil

	case tea.KeyMsg:
		switch s := msg.String(); s {
		case "r":
			return v, v.load()
		default:
			if to, ok := statLinks[s]; ok {
				return v, navigate(to, intentNone)
			}
			for _, qa := range quickActions {
				if qa.key == s {
					return v, navigate(qa.to, intentCreate)
				}
			}
		}
	}
	return v, nil
}

func (v *dashboardView) View() string {
	snap := v.data.State()

	if snap.Loading {
		return "\n  " + formatter.StyleHeader.Render("Loading Construction Manager...") +
			"\n  " + formatter.Dim("Setting up your dashboard")
	}
	if !snap.HasData {
		if snap.Err != nil {
			return "\n" + errorPanel("Could not load the dashboard", snap.Err)
		}
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("Welcome to Construction Manager") + "  " + loadingLine(snap, "dashboard") + "\n")
	if snap.Err != nil {
		b.WriteString(staleNote(snap.Err))
	}
	b.WriteString("\n")

	b.WriteString(formatter.Header("Overview") + "\n")
	b.WriteString(v.renderStats(snap.Data.stats) + "\n\n")

	b.WriteString(formatter.Header("Quick Actions") + "\n")
	var actions []string
	for _, qa := range quickActions {
		actions = append(actions, formatter.StyleGreen.Render("["+qa.key+"]")+" "+qa.label)
	}
	b.WriteString(strings.Join(actions, "   ") + "\n\n")

	b.WriteString(formatter.Header("Recent Activity") + "\n")
	b.WriteString(renderActivity(snap.Data))

	return b.String()
}

func (v *dashboardView) renderStats(s domain.DashboardStats) string {
	width := (v.state.ContentWidth()-8)/3 - 1
	cards := []string{
		formatter.StatCard("Total Projects [P]", fmt.Sprint(s.TotalProjects), formatter.ColorBlue, width),
		formatter.StatCard("Active Projects [A]", fmt.Sprint(s.ActiveProjects), formatter.ColorGreen, width),
		formatter.StatCard("Materials [M]", fmt.Sprint(s.TotalMaterials), formatter.ColorPurple, width),
		formatter.StatCard("Labour [L]", fmt.Sprint(s.TotalLabour), formatter.ColorYellow, width),
		formatter.StatCard("Open Issues [I]", fmt.Sprint(s.OpenIssues), formatter.ColorRed, width),
		formatter.StatCard("Total Expenses [E]", formatter.Rupees(s.TotalExpenses), formatter.ColorHeader, width),
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], "  ", cards[1], "  ", cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], "  ", cards[4], "  ", cards[5])
	return row1 + "\n\n" + row2
}

func renderActivity(d dashboardData) string {
	if d.activityErr != nil {
		return formatter.StyleRed.Render("Could not load activity: "+describeErr(d.activityErr)) + "\n"
	}
	if len(d.activity) == 0 {
		return formatter.Dim("No recent activity.") + "\n"
	}
	var b strings.Builder
	for i, a := range d.activity {
		if i == maxActivity {
			break
		}
		when := a.CreatedAt
		if t, ok := domain.ParseDate(a.CreatedAt); ok {
			when = formatter.HumanTimestamp(t)
		}
		kind := ""
		if a.Type != "" {
			kind = formatter.StyleBlue.Render(a.Type) + " "
		}
		b.WriteString(fmt.Sprintf("%s %s%s  %s\n", formatter.StyleGreen.Render("•"), kind, a.Message, formatter.Dim(when)))
	}
	return b.String()
}
