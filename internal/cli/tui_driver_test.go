package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/buildtrack/internal/api"
	"github.com/alexanderramin/buildtrack/internal/repository"
	"github.com/alexanderramin/buildtrack/internal/teatest"
	"github.com/alexanderramin/buildtrack/internal/testutil"
	"github.com/stretchr/testify/require"
)

// tuiCmdTimeout covers a round trip to the local fake API.
const tuiCmdTimeout = 2 * time.Second

// testApp wires an App to a FakeAPI with an in-memory token store.
func testApp(t *testing.T) (*App, *testutil.FakeAPI, *repository.MemoryTokenStore) {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	tokens := repository.NewMemoryTokenStore("")

	cfg := api.DefaultConfig()
	cfg.BaseURL = fake.BaseURL()
	cfg.Timeout = time.Second
	client, err := api.NewClient(cfg, api.WithTokenStore(tokens))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return &App{Client: client, Tokens: tokens}, fake, tokens
}

// TestDriver wraps teatest.Driver with buildtrack-specific inspection methods.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel, sets the terminal size and drains
// Init(), which loads the dashboard from the fake API.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m := newAppModel(ctx, app)
	d := teatest.New(t, m, teatest.WithSize(160, 50), teatest.WithCmdTimeout(tuiCmdTimeout))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

// ── inspection ───────────────────────────────────────────────────────────────

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the mounted screen.
func (d *TestDriver) ActiveViewID() ViewID {
	return d.appModel().screen.ID()
}

// Screen returns the mounted screen.
func (d *TestDriver) Screen() screen {
	return d.appModel().screen
}

// ModalTitle returns the open modal's title, or "" when none is open.
func (d *TestDriver) ModalTitle() string {
	if m := d.appModel().modal; m != nil {
		return m.Title()
	}
	return ""
}

// Status returns the status bar flash text.
func (d *TestDriver) Status() (text string, isErr bool) {
	m := d.appModel()
	return m.status, m.statusErr
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting returns whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// countRequests returns how many requests the fake API saw for method and path.
func countRequests(fake *testutil.FakeAPI, method, path string) int {
	n := 0
	for _, r := range fake.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}
