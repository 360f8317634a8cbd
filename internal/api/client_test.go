package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/buildtrack/internal/repository"
	"github.com/alexanderramin/buildtrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	c, err := NewClient(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

type captureObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *captureObserver) OnCallComplete(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *captureObserver) last() CallEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

func TestNewClient_RejectsInvalidConfig(t *testing.T) {
	cases := []Config{
		{BaseURL: "localhost:3001/api", Timeout: time.Second},
		{BaseURL: "ftp://example.com", Timeout: time.Second},
		{BaseURL: "http://", Timeout: time.Second},
		{BaseURL: DefaultBaseURL, Timeout: 0},
	}
	for _, cfg := range cases {
		_, err := NewClient(cfg)
		assert.Error(t, err, "config %+v", cfg)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:3001/api", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestClient_SendsJSONHeaders(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle(http.MethodGet, "/health", http.StatusOK, `{"status":"ok"}`)

	c := testClient(t, api.BaseURL(), WithRequestIDs(func() string { return "req-1" }))
	resp, err := c.Health.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(resp.Body))

	req := api.Last(t)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Equal(t, "req-1", req.Header.Get("X-Request-ID"))
}

func TestClient_BaseURLTrailingSlash(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle(http.MethodGet, "/health", http.StatusOK, `{}`)

	c := testClient(t, api.BaseURL()+"/")
	_, err := c.Health.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/health", api.Last(t).Path)
}

func TestClient_AttachesBearerTokenWhenStored(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle(http.MethodGet, "/projects", http.StatusOK, `[]`)

	store := repository.NewMemoryTokenStore("T0K3N")
	c := testClient(t, api.BaseURL(), WithTokenStore(store))

	_, err := c.Projects.List(context.Background(), nil)
	require.NoError(t, err)
	_, err = c.Projects.Get(context.Background(), "9")
	require.Error(t, err) // 404, but the header must still be sent

	for _, req := range api.Requests() {
		assert.Equal(t, "Bearer T0K3N", req.Header.Get("Authorization"), "%s %s", req.Method, req.Path)
	}
}

func TestClient_NoAuthorizationHeaderWithoutToken(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle(http.MethodGet, "/projects", http.StatusOK, `[]`)

	for name, opts := range map[string][]Option{
		"empty store": {WithTokenStore(repository.NewMemoryTokenStore(""))},
		"no store":    nil,
	} {
		t.Run(name, func(t *testing.T) {
			c := testClient(t, api.BaseURL(), opts...)
			_, err := c.Projects.List(context.Background(), nil)
			require.NoError(t, err)
			_, present := api.Last(t).Header["Authorization"]
			assert.False(t, present)
		})
	}
}

func TestClient_TokenReadFromStoreOnEveryRequest(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle(http.MethodGet, "/health", http.StatusOK, `{}`)

	store := repository.NewMemoryTokenStore("")
	c := testClient(t, api.BaseURL(), WithTokenStore(store))
	ctx := context.Background()

	_, err := c.Health.Check(ctx)
	require.NoError(t, err)
	assert.Empty(t, api.Last(t).Header.Get("Authorization"))

	require.NoError(t, store.SetToken(ctx, "fresh"))
	_, err = c.Health.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer fresh", api.Last(t).Header.Get("Authorization"))
}

type failingStore struct{}

func (failingStore) Token(context.Context) (string, error) { return "", errors.New("disk on fire") }
func (failingStore) ClearToken(context.Context) error      { return errors.New("disk on fire") }

func TestClient_TokenStoreErrorAbortsRequest(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := testClient(t, api.BaseURL(), WithTokenStore(failingStore{}))

	_, err := c.Health.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading auth token")
	assert.Empty(t, api.Requests(), "request must not be sent")
}

func TestClient_401ClearsTokenOnceAndPropagates(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle(http.MethodGet, "/dashboard/stats", http.StatusUnauthorized, `{"error":"token expired"}`)

	store := repository.NewMemoryTokenStore("stale")
	obs := &captureObserver{}
	c := testClient(t, api.BaseURL(), WithTokenStore(store), WithObserver(obs))

	resp, err := c.Dashboard.Stats(context.Background())
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Contains(t, err.Error(), "token expired")

	assert.Equal(t, 1, store.Clears())
	tok, _ := store.Token(context.Background())
	assert.Empty(t, tok)
	assert.True(t, obs.last().TokenCleared)

	// A second failing response clears again: once per response.
	_, err = c.Dashboard.Stats(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, store.Clears())
}

func TestClient_NonAuthErrorsKeepToken(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle(http.MethodGet, "/dashboard/stats", http.StatusForbidden, `{"message":"nope"}`)
	api.Handle(http.MethodGet, "/health", http.StatusInternalServerError, "boom")

	store := repository.NewMemoryTokenStore("keep")
	c := testClient(t, api.BaseURL(), WithTokenStore(store))

	_, err := c.Dashboard.Stats(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, http.StatusForbidden, StatusCode(err))

	_, err = c.Health.Check(context.Background())
	require.Error(t, err)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "boom", httpErr.Detail())

	assert.Zero(t, store.Clears())
}

func TestClient_401WithFailingClearStillReturnsOriginalError(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle(http.MethodGet, "/health", http.StatusUnauthorized, nil)

	obs := &captureObserver{}
	store := &clearFailStore{}
	c := testClient(t, api.BaseURL(), WithTokenStore(store), WithObserver(obs))

	_, err := c.Health.Check(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Error(t, obs.last().ClearErr)
	assert.False(t, obs.last().TokenCleared)
}

type clearFailStore struct{}

func (*clearFailStore) Token(context.Context) (string, error) { return "t", nil }
func (*clearFailStore) ClearToken(context.Context) error      { return errors.New("read-only") }

func TestClient_Timeout(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.HandleFunc(http.MethodGet, "/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	cfg := DefaultConfig()
	cfg.BaseURL = api.BaseURL()
	cfg.Timeout = 50 * time.Millisecond
	obs := &captureObserver{}
	c, err := NewClient(cfg, WithObserver(obs))
	require.NoError(t, err)

	_, err = c.Dashboard.Stats(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "TIMEOUT", obs.last().ErrorCode)
	assert.False(t, obs.last().Success)
}

func TestClient_Unavailable(t *testing.T) {
	c := testClient(t, "http://127.0.0.1:1/api")

	_, err := c.Health.Check(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_BodyOverLimit(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.HandleFunc(http.MethodGet, "/materials", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(make([]byte, maxBodyBytes+1))
	})

	obs := &captureObserver{}
	c := testClient(t, api.BaseURL(), WithObserver(obs))

	_, err := c.Materials.List(context.Background(), nil)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
	assert.Equal(t, "BODY_TOO_LARGE", obs.last().ErrorCode)
}

func TestClient_BodyAtLimit(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.HandleFunc(http.MethodGet, "/materials", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(strings.Repeat(" ", maxBodyBytes)))
	})

	c := testClient(t, api.BaseURL())

	_, err := c.Materials.List(context.Background(), nil)
	assert.NoError(t, err)
}

func TestClient_CallerCancellation(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	started := make(chan struct{})
	api.HandleFunc(http.MethodGet, "/projects", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	})

	c := testClient(t, api.BaseURL())
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.Projects.List(ctx, nil)
	assert.ErrorIs(t, err, ErrCanceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestClient_CustomInterceptorsRunAfterBuiltins(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle(http.MethodGet, "/health", http.StatusUnauthorized, nil)

	var sawAuth string
	var sawCleared bool
	store := repository.NewMemoryTokenStore("abc")
	c := testClient(t, api.BaseURL(),
		WithTokenStore(store),
		WithRequestInterceptor(func(_ context.Context, req *http.Request) error {
			sawAuth = req.Header.Get("Authorization")
			req.Header.Set("X-Client", "buildtrack")
			return nil
		}),
		WithResponseInterceptor(func(_ context.Context, call *Call) {
			sawCleared = call.TokenCleared
		}),
	)

	_, err := c.Health.Check(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Bearer abc", sawAuth)
	assert.True(t, sawCleared)
	assert.Equal(t, "buildtrack", api.Last(t).Header.Get("X-Client"))
}

func TestResponse_Decode(t *testing.T) {
	var out struct {
		Total int `json:"totalProjects"`
	}
	r := &Response{Body: []byte(`{"totalProjects": 5}`)}
	require.NoError(t, r.Decode(&out))
	assert.Equal(t, 5, out.Total)

	empty := &Response{}
	assert.NoError(t, empty.Decode(&out))
	assert.Equal(t, 5, out.Total)

	bad := &Response{Body: []byte(`{`)}
	assert.Error(t, bad.Decode(&out))
}

func TestHTTPError_Detail(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"error":"bad id"}`, "bad id"},
		{`{"message":"missing name"}`, "missing name"},
		{`{"other":1}`, `{"other":1}`},
		{"  plain text \n", "plain text"},
		{"", ""},
	}
	for _, tc := range cases {
		e := &HTTPError{StatusCode: 400, Body: []byte(tc.body)}
		assert.Equal(t, tc.want, e.Detail(), "body=%q", tc.body)
	}
}

func TestHTTPError_DetailTruncatesByRune(t *testing.T) {
	e := &HTTPError{StatusCode: 500, Body: []byte(strings.Repeat("₹", 300))}

	got := e.Detail()
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, maxDetailRunes+1, utf8.RuneCountInString(got))
}
