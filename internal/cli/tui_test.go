package cli

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/buildtrack/internal/domain"
	"github.com/alexanderramin/buildtrack/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	statsFixture = map[string]any{
		"totalProjects":  3,
		"activeProjects": 2,
		"totalMaterials": 14,
		"totalLabour":    27,
		"openIssues":     5,
		"totalExpenses":  45000,
	}
	activityFixture = []map[string]any{
		{"id": 1, "type": "material", "message": "Cement stock updated", "createdAt": "2025-06-01T10:00:00Z"},
	}
	projectsFixture = []map[string]any{
		{"id": 7, "name": "Tower A", "progress": 45, "status": "In Progress",
			"financials": map[string]any{"priceValue": 1250000, "earnedValue": 562500}},
		{"id": 8, "name": "Riverside Mall", "progress": 0, "status": "Planning"},
	}
	projectDetailFixture = map[string]any{
		"id": 7, "name": "Tower A", "status": "In Progress",
		"startDate": "01/06/2025", "endDate": "30/06/2025",
		"tasks": []map[string]any{
			{"id": 1, "taskId": "T-1", "name": "Foundation", "startDate": "01/06/2025", "endDate": "10/06/2025",
				"workCategory": "Civil", "status": "Completed", "duration": "10 days", "progress": 100},
			{"id": 2, "taskId": "T-2", "name": "Column casting", "startDate": "11/06/2025", "endDate": "20/06/2025",
				"workCategory": "Civil", "status": "In Progress", "duration": "10 days", "delay": 3, "progress": 40, "level": 1},
			{"id": 3, "taskId": "T-3", "name": "Plumbing", "workCategory": "MEP", "status": "Not Started"},
		},
	}
)

func handleDashboard(fake *testutil.FakeAPI) {
	fake.Handle(http.MethodGet, "/dashboard/stats", http.StatusOK, statsFixture)
	fake.Handle(http.MethodGet, "/dashboard/recent-activity", http.StatusOK, activityFixture)
}

// ── dashboard ────────────────────────────────────────────────────────────────

func TestDashboard_RendersStatsAndActivity(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)

	d := NewTestDriver(t, app)

	view := d.View()
	assert.Equal(t, ViewDashboard, d.ActiveViewID())
	assert.Contains(t, view, "Welcome to Construction Manager")
	assert.Contains(t, view, "Total Projects")
	assert.Contains(t, view, "₹45,000")
	assert.Contains(t, view, "27")
	assert.Contains(t, view, "Cement stock updated")
	assert.Contains(t, view, "Add Project")
}

func TestDashboard_FailureShowsErrorNotPlaceholderData(t *testing.T) {
	app, fake, _ := testApp(t)
	fake.Handle(http.MethodGet, "/dashboard/stats", http.StatusInternalServerError, map[string]string{"error": "database offline"})

	d := NewTestDriver(t, app)

	view := d.View()
	assert.Contains(t, view, "Could not load the dashboard")
	assert.Contains(t, view, "database offline")
	assert.Contains(t, view, "Press r to retry")
	assert.NotContains(t, view, "Welcome to Construction Manager")
	assert.NotContains(t, view, "Total Projects")
	assert.Zero(t, countRequests(fake, http.MethodGet, "/dashboard/recent-activity"))
}

func TestDashboard_RetryAfterFailure(t *testing.T) {
	app, fake, _ := testApp(t)
	var fail atomic.Bool
	fail.Store(true)
	fake.HandleFunc(http.MethodGet, "/dashboard/stats", func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			testutil.WriteJSON(w, http.StatusServiceUnavailable, nil)
			return
		}
		testutil.WriteJSON(w, http.StatusOK, statsFixture)
	})
	fake.Handle(http.MethodGet, "/dashboard/recent-activity", http.StatusOK, activityFixture)

	d := NewTestDriver(t, app)
	require.Contains(t, d.View(), "Could not load the dashboard")

	fail.Store(false)
	d.PressKey('r')

	assert.Contains(t, d.View(), "Welcome to Construction Manager")
	assert.NotContains(t, d.View(), "Could not load")
}

func TestDashboard_RefreshFailureKeepsData(t *testing.T) {
	app, fake, _ := testApp(t)
	var fail atomic.Bool
	fake.HandleFunc(http.MethodGet, "/dashboard/stats", func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			testutil.WriteJSON(w, http.StatusInternalServerError, nil)
			return
		}
		testutil.WriteJSON(w, http.StatusOK, statsFixture)
	})
	fake.Handle(http.MethodGet, "/dashboard/recent-activity", http.StatusOK, activityFixture)

	d := NewTestDriver(t, app)
	fail.Store(true)
	d.PressKey('r')

	view := d.View()
	assert.Contains(t, view, "₹45,000", "previous data stays visible")
	assert.Contains(t, view, "Showing last loaded data")
}

func TestDashboard_ActivityFailureIsLocal(t *testing.T) {
	app, fake, _ := testApp(t)
	fake.Handle(http.MethodGet, "/dashboard/stats", http.StatusOK, statsFixture)
	fake.Handle(http.MethodGet, "/dashboard/recent-activity", http.StatusBadGateway, nil)

	d := NewTestDriver(t, app)

	view := d.View()
	assert.Contains(t, view, "₹45,000")
	assert.Contains(t, view, "Could not load activity")
}

func TestDashboard_SlowServerTimesOut(t *testing.T) {
	app, fake, _ := testApp(t)
	fake.HandleFunc(http.MethodGet, "/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(1500 * time.Millisecond):
			testutil.WriteJSON(w, http.StatusOK, statsFixture)
		case <-r.Context().Done():
		}
	})
	fake.Handle(http.MethodGet, "/dashboard/recent-activity", http.StatusOK, activityFixture)

	d := NewTestDriver(t, app)

	view := d.View()
	assert.Contains(t, view, "Could not load the dashboard")
	assert.Contains(t, view, "did not respond in time")
	assert.NotContains(t, view, "Total Projects")
	assert.NotContains(t, view, "₹45,000")
}

func TestDashboard_OutOfOrderResponsesLatestWins(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	d := NewTestDriver(t, app)

	dash := d.Screen().(*dashboardView)
	older := dash.load()
	newer := dash.load()

	// Starting the newer request canceled the older one.
	olderMsg := older()
	newerMsg := newer()
	d.Send(newerMsg)
	d.Send(olderMsg)

	snap := dash.data.State()
	assert.NoError(t, snap.Err, "stale failure must not be applied")
	assert.Equal(t, 3, snap.Data.stats.TotalProjects)
}

func TestDashboard_QuickActionOpensCreateForm(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	fake.Handle(http.MethodGet, "/materials", http.StatusOK, []any{})
	fake.Handle(http.MethodGet, "/materials/categories/list", http.StatusOK, []string{"Cement"})

	d := NewTestDriver(t, app)
	d.PressKey('m')

	assert.Equal(t, ViewMaterials, d.ActiveViewID())
	assert.Equal(t, "New material", d.ModalTitle())
}

func TestDashboard_StatCardKeysOpenScreens(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	fake.Handle(http.MethodGet, "/projects", http.StatusOK, []any{})
	fake.Handle(http.MethodGet, "/materials", http.StatusOK, []any{})
	fake.Handle(http.MethodGet, "/expenses", http.StatusOK, []any{})

	d := NewTestDriver(t, app)
	assert.Contains(t, d.View(), "Total Expenses [E]")

	for _, tc := range []struct {
		key  rune
		want ViewID
	}{
		{'P', ViewProjects},
		{'M', ViewMaterials},
		{'E', ViewPettyCash},
	} {
		d.PressKey('1')
		require.Equal(t, ViewDashboard, d.ActiveViewID())
		d.PressKey(tc.key)
		assert.Equal(t, tc.want, d.ActiveViewID(), "key %c", tc.key)
		assert.Empty(t, d.ModalTitle(), "card keys do not open a form")
	}
}

// ── shell ────────────────────────────────────────────────────────────────────

func TestShell_Navigation(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	d := NewTestDriver(t, app)

	d.PressKey('2')
	assert.Equal(t, ViewProjects, d.ActiveViewID())

	d.SendKey(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewTasks, d.ActiveViewID())

	d.PressKey('[')
	assert.Equal(t, ViewProjects, d.ActiveViewID())

	d.PressKey('8')
	assert.Equal(t, ViewPettyCash, d.ActiveViewID())

	d.PressKey(']')
	assert.Equal(t, ViewDashboard, d.ActiveViewID(), "wraps around")

	d.SendKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, ViewPettyCash, d.ActiveViewID())
}

func TestShell_SwitchClosesPreviousScreen(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	d := NewTestDriver(t, app)

	dash := d.Screen().(*dashboardView)
	pending := dash.load()

	d.PressKey('2')
	require.True(t, dash.data.Closed())
	assert.Error(t, dash.data.Context().Err(), "in-flight requests are canceled")

	before := dash.data.State()
	d.Exec(pending)
	after := dash.data.State()
	assert.NoError(t, after.Err, "canceled result is discarded")
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	assert.Equal(t, ViewProjects, d.ActiveViewID())
}

func TestShell_ReturningRemountsWithFreshLoad(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	d := NewTestDriver(t, app)
	first := d.Screen()

	d.PressKey('2')
	d.PressKey('1')

	assert.NotSame(t, first, d.Screen())
	assert.Equal(t, 2, countRequests(fake, http.MethodGet, "/dashboard/stats"))
}

func TestShell_QuitKeys(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)

	d := NewTestDriver(t, app)
	d.PressKey('q')
	assert.True(t, d.IsQuitting())

	d2 := NewTestDriver(t, app)
	d2.PressCtrlC()
	assert.True(t, d2.IsQuitting())
}

func TestShell_SidebarListsScreens(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	d := NewTestDriver(t, app)

	view := d.View()
	assert.Contains(t, view, "Construction Manager")
	for _, it := range menuItems {
		assert.Contains(t, view, it.label)
	}
}

// ── projects ─────────────────────────────────────────────────────────────────

func projectsDriver(t *testing.T) (*TestDriver, *testutil.FakeAPI) {
	t.Helper()
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	fake.Handle(http.MethodGet, "/projects", http.StatusOK, projectsFixture)
	fake.Handle(http.MethodGet, "/projects/7", http.StatusOK, projectDetailFixture)

	d := NewTestDriver(t, app)
	d.PressKey('2')
	return d, fake
}

func TestProjects_RendersCards(t *testing.T) {
	d, _ := projectsDriver(t)

	view := d.View()
	assert.Contains(t, view, "Tower A")
	assert.Contains(t, view, "Riverside Mall")
	assert.Contains(t, view, "45%")
	assert.Contains(t, view, "₹1,250,000")
}

func TestProjects_EnterOpensTasks(t *testing.T) {
	d, fake := projectsDriver(t)

	d.PressEnter()

	assert.Equal(t, ViewTasks, d.ActiveViewID())
	assert.Equal(t, "7", d.State().ProjectID)
	assert.Equal(t, 1, countRequests(fake, http.MethodGet, "/projects/7"))
	assert.Contains(t, d.View(), "Foundation")
}

func TestProjects_CreateFormOpensAndCancels(t *testing.T) {
	d, fake := projectsDriver(t)

	d.PressKey('n')
	require.Equal(t, "New Project", d.ModalTitle())

	// Keys go to the modal, not the shell.
	d.PressKey('q')
	assert.False(t, d.IsQuitting())

	d.PressEsc()
	assert.Empty(t, d.ModalTitle())
	text, _ := d.Status()
	assert.Equal(t, "Cancelled.", text)
	assert.Zero(t, countRequests(fake, http.MethodPost, "/projects"))
}

func TestProjects_CreateSendsInputAndRefetches(t *testing.T) {
	d, fake := projectsDriver(t)
	fake.Handle(http.MethodPost, "/projects", http.StatusCreated, map[string]any{"id": 9})

	v := d.Screen().(*projectsView)
	d.Exec(v.create(domain.ProjectInput{Name: "Block C", StartDate: "2025-07-01", Status: domain.ProjectPlanning}))

	body := fake.Last(t)
	assert.Equal(t, http.MethodGet, body.Method, "list refetched after create")
	var post testutil.RecordedRequest
	for _, r := range fake.Requests() {
		if r.Method == http.MethodPost {
			post = r
		}
	}
	assert.Equal(t, map[string]any{"name": "Block C", "startDate": "2025-07-01", "status": "Planning"}, post.JSON(t))
	assert.Equal(t, 2, countRequests(fake, http.MethodGet, "/projects"))
	text, isErr := d.Status()
	assert.Equal(t, "Create project done.", text)
	assert.False(t, isErr)
}

func TestProjects_UpdateProgress(t *testing.T) {
	d, fake := projectsDriver(t)
	fake.Handle(http.MethodPut, "/projects/7/progress", http.StatusOK, map[string]any{"id": 7, "progress": 60})

	v := d.Screen().(*projectsView)
	d.Exec(v.updateProgress("7", 60))

	var put testutil.RecordedRequest
	for _, r := range fake.Requests() {
		if r.Method == http.MethodPut {
			put = r
		}
	}
	assert.Equal(t, "/projects/7/progress", put.Path)
	assert.Equal(t, map[string]any{"progress": float64(60)}, put.JSON(t))
}

func TestProjects_MutationFailureIsFlashed(t *testing.T) {
	d, fake := projectsDriver(t)
	fake.Handle(http.MethodDelete, "/projects/8", http.StatusConflict, map[string]string{"message": "project has tasks"})

	v := d.Screen().(*projectsView)
	d.Exec(v.remove("8"))

	text, isErr := d.Status()
	assert.True(t, isErr)
	assert.Contains(t, text, "Delete project failed")
	assert.Contains(t, text, "project has tasks")
	assert.Equal(t, 1, countRequests(fake, http.MethodGet, "/projects"), "no refetch after failure")
}

func TestProjects_ProgressAndDeleteOpenModals(t *testing.T) {
	d, _ := projectsDriver(t)

	d.PressKey('p')
	assert.Equal(t, "Update Progress", d.ModalTitle())
	d.PressEsc()

	d.PressDown()
	d.PressKey('x')
	assert.Equal(t, "Delete Project", d.ModalTitle())
}

// ── tasks ────────────────────────────────────────────────────────────────────

func tasksDriver(t *testing.T) *TestDriver {
	t.Helper()
	d, _ := projectsDriver(t)
	d.PressEnter()
	require.Equal(t, ViewTasks, d.ActiveViewID())
	return d
}

func TestTasks_NoProjectSelected(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	d := NewTestDriver(t, app)

	d.PressKey('3')

	assert.Contains(t, d.View(), "No project selected")
	assert.Len(t, fake.Requests(), 2, "only the dashboard calls")
}

func TestTasks_TableShowsStatusAndDelay(t *testing.T) {
	d := tasksDriver(t)

	view := d.View()
	assert.Contains(t, view, "T-2")
	assert.Contains(t, view, "In Progress")
	assert.Contains(t, view, "3 days delay")
	assert.Contains(t, view, "Not Started")
	assert.Contains(t, view, "Count 3")
}

func TestTasks_SearchCapturesKeys(t *testing.T) {
	d := tasksDriver(t)

	d.PressKey('/')
	d.Type("plumb")
	assert.False(t, d.IsQuitting())

	v := d.Screen().(*tasksView)
	visible := v.visibleTasks(v.data.State().Data.Tasks)
	require.Len(t, visible, 1)
	assert.Equal(t, "Plumbing", visible[0].Name)

	// q is typed into the search box, not treated as quit.
	d.PressKey('q')
	assert.False(t, d.IsQuitting())
	assert.Equal(t, "plumbq", v.query)

	d.PressEsc()
	assert.Empty(t, v.query)
	assert.False(t, v.CapturesInput())
}

func TestTasks_SearchByTaskID(t *testing.T) {
	d := tasksDriver(t)

	d.PressKey('/')
	d.Type("t-1")
	d.PressEnter()

	v := d.Screen().(*tasksView)
	visible := v.visibleTasks(v.data.State().Data.Tasks)
	require.Len(t, visible, 1)
	assert.Equal(t, "Foundation", visible[0].Name)
	assert.False(t, v.CapturesInput(), "enter keeps the query and leaves the box")
}

func TestTasks_DelayedFilterAndTabs(t *testing.T) {
	d := tasksDriver(t)
	v := d.Screen().(*tasksView)

	d.PressKey('d')
	visible := v.visibleTasks(v.data.State().Data.Tasks)
	require.Len(t, visible, 1)
	assert.Equal(t, "Column casting", visible[0].Name)
	assert.Contains(t, d.View(), "Count 1 of 3")

	d.PressKey('v')
	assert.Equal(t, tabList, v.tab)
	assert.Len(t, v.visibleTasks(v.data.State().Data.Tasks), 3, "delayed filter only applies to the plan view")

	d.PressKey('v')
	assert.Equal(t, tabGantt, v.tab)
	assert.Contains(t, d.View(), "no dates", "undated task listed without a bar")

	d.PressKey('v')
	assert.Equal(t, tabPlan, v.tab)
}

// ── resource screens ─────────────────────────────────────────────────────────

func TestMaterials_QuantityKeys(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	fake.Handle(http.MethodGet, "/materials", http.StatusOK, []map[string]any{
		{"id": "m1", "name": "Cement", "quantity": 40, "unit": "bags"},
	})
	fake.Handle(http.MethodGet, "/materials/categories/list", http.StatusOK, []string{"Binding", "Steel"})
	fake.Handle(http.MethodPut, "/materials/m1/quantity", http.StatusOK, map[string]any{"id": "m1", "quantity": 41})

	d := NewTestDriver(t, app)
	d.PressKey('4')

	view := d.View()
	assert.Contains(t, view, "Cement")
	assert.Contains(t, view, "Binding, Steel")

	d.PressKey('+')
	put := fake.Requests()
	var body map[string]any
	for _, r := range put {
		if r.Method == http.MethodPut {
			body = r.JSON(t)
		}
	}
	assert.Equal(t, map[string]any{"quantity": float64(1), "operation": "add"}, body)
	assert.Equal(t, 2, countRequests(fake, http.MethodGet, "/materials"))

	d.PressKey('-')
	assert.Equal(t, map[string]any{"quantity": float64(1), "operation": "subtract"}, fake.Requests()[len(fake.Requests())-3].JSON(t))

	d.PressKey('=')
	assert.Equal(t, "Set Quantity", d.ModalTitle())
}

func TestMaterials_LargeIDKeepsEveryDigit(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	fake.Handle(http.MethodGet, "/materials", http.StatusOK,
		`[{"id": 9007199254740993, "name": "Cement", "quantity": 10, "unit": "bags"}]`)
	fake.Handle(http.MethodGet, "/materials/categories/list", http.StatusOK, []string{})
	fake.Handle(http.MethodPut, "/materials/9007199254740993/quantity", http.StatusOK, map[string]any{"quantity": 11})

	d := NewTestDriver(t, app)
	d.PressKey('4')
	require.Contains(t, d.View(), "Cement")

	d.PressKey('+')

	assert.Equal(t, 1, countRequests(fake, http.MethodPut, "/materials/9007199254740993/quantity"))
	assert.Zero(t, countRequests(fake, http.MethodPut, "/materials/9007199254740992/quantity"))
}

func TestIssues_StatusCycles(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	fake.Handle(http.MethodGet, "/issues", http.StatusOK, map[string]any{"data": []map[string]any{
		{"id": 11, "title": "Leak in B block", "status": "open"},
	}})
	fake.Handle(http.MethodGet, "/issues/stats/summary", http.StatusOK, map[string]any{"open": 1, "resolved": 4})
	fake.Handle(http.MethodPut, "/issues/11/status", http.StatusOK, map[string]any{"id": 11, "status": "in_progress"})

	d := NewTestDriver(t, app)
	d.PressKey('6')

	view := d.View()
	assert.Contains(t, view, "Leak in B block")
	assert.Contains(t, view, "resolved")

	d.PressKey('s')

	var put testutil.RecordedRequest
	for _, r := range fake.Requests() {
		if r.Method == http.MethodPut {
			put = r
		}
	}
	assert.Equal(t, "/issues/11/status", put.Path)
	assert.Equal(t, map[string]any{"status": "in_progress"}, put.JSON(t))
}

func TestPettyCash_SummaryInRupees(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	fake.Handle(http.MethodGet, "/expenses", http.StatusOK, []map[string]any{
		{"id": 1, "description": "Site tea", "amount": 250},
	})
	fake.Handle(http.MethodGet, "/expenses/stats/summary", http.StatusOK, map[string]any{"totalAmount": 12500, "count": 3})

	d := NewTestDriver(t, app)
	d.PressKey('8')

	view := d.View()
	assert.Contains(t, view, "Site tea")
	assert.Contains(t, view, "₹12,500")
}

func TestResource_ExtrasFailureIsLocal(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	fake.Handle(http.MethodGet, "/labour", http.StatusOK, []map[string]any{{"id": 1, "name": "Ravi", "role": "Mason"}})
	fake.Handle(http.MethodGet, "/labour/roles/list", http.StatusInternalServerError, nil)

	d := NewTestDriver(t, app)
	d.PressKey('5')

	view := d.View()
	assert.Contains(t, view, "Ravi")
	assert.Contains(t, view, "Could not load:")
}

func TestResource_ListFailureShowsErrorPanel(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)

	d := NewTestDriver(t, app)
	d.PressKey('4')

	view := d.View()
	assert.Contains(t, view, "Could not load materials")
	assert.Contains(t, view, "Not found (404)")
}

func TestResource_CreateSendsNumbers(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	fake.Handle(http.MethodGet, "/expenses", http.StatusOK, []any{})
	fake.Handle(http.MethodPost, "/expenses", http.StatusCreated, map[string]any{"id": 2})

	d := NewTestDriver(t, app)
	d.PressKey('8')

	v := d.Screen().(*resourceView)
	d.Exec(v.create(map[string]any{"description": "Tea", "amount": float64(120)}))

	var post testutil.RecordedRequest
	for _, r := range fake.Requests() {
		if r.Method == http.MethodPost {
			post = r
		}
	}
	assert.Equal(t, map[string]any{"description": "Tea", "amount": float64(120)}, post.JSON(t))
}

// ── reports ──────────────────────────────────────────────────────────────────

func TestReports_ProjectHealth(t *testing.T) {
	app, fake, _ := testApp(t)
	handleDashboard(fake)
	fake.Handle(http.MethodGet, "/dashboard/project-health", http.StatusOK, []map[string]any{
		{"projectId": 7, "name": "Tower A", "progress": 45, "status": "In Progress", "delay": 2, "health": "warning"},
	})

	d := NewTestDriver(t, app)
	d.PressKey('7')

	view := d.View()
	assert.Contains(t, view, "Project Health")
	assert.Contains(t, view, "Tower A")
	assert.Contains(t, view, "2 days delay")
}

// ── auth ─────────────────────────────────────────────────────────────────────

func TestTUI_UnauthorizedClearsTokenAndExplains(t *testing.T) {
	app, fake, tokens := testApp(t)
	require.NoError(t, tokens.SetToken(context.Background(), "expired"))
	fake.Handle(http.MethodGet, "/dashboard/stats", http.StatusUnauthorized, map[string]string{"error": "jwt expired"})

	d := NewTestDriver(t, app)

	assert.Contains(t, d.View(), "Not authorized")
	tok, err := tokens.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)
	assert.Equal(t, "Bearer expired", fake.Last(t).Header.Get("Authorization"))
}
