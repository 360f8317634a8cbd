package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// maxBodyBytes bounds how much of a response body is read into memory.
const maxBodyBytes = 16 << 20

// TokenStore is the subset of persistent token storage the client needs.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// Params are query parameters forwarded verbatim on list calls.
type Params map[string]string

// Response is a successful (2xx) API response. Body is the raw payload,
// nil when the server sent none.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       json.RawMessage
}

// Decode unmarshals the response body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Body) == 0 {
		return nil
	}
	if err := decodeJSON(r.Body, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Call is the state of one request as seen by response interceptors.
// Response is set whenever the server answered, including non-2xx
// statuses; Err is the error that will be returned to the caller.
type Call struct {
	Method       string
	Path         string
	RequestID    string
	Response     *Response
	Err          error
	TokenCleared bool
	ClearErr     error
}

// RequestInterceptor may modify an outgoing request. A non-nil error aborts the request.
type RequestInterceptor func(ctx context.Context, req *http.Request) error

// ResponseInterceptor runs after every request, successful or not, and may
// inspect or replace call.Err.
type ResponseInterceptor func(ctx context.Context, call *Call)

// Client issues requests against the construction API. Construct one per
// process with NewClient and share it; Close releases pooled connections.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
	tokens   TokenStore
	newID    func() string

	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor

	Projects  *ProjectsAPI
	Materials *MaterialsAPI
	Labour    *LabourAPI
	Issues    *IssuesAPI
	Expenses  *ExpensesAPI
	Dashboard *DashboardAPI
	Health    *HealthAPI
}

// Option configures a Client during construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithObserver sets the Observer notified after each call.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithTokenStore enables bearer authentication from the given store.
func WithTokenStore(s TokenStore) Option {
	return func(c *Client) { c.tokens = s }
}

// WithRequestIDs overrides the X-Request-ID generator.
func WithRequestIDs(fn func() string) Option {
	return func(c *Client) { c.newID = fn }
}

// WithRequestInterceptor appends an interceptor run after the built-in ones.
func WithRequestInterceptor(ic RequestInterceptor) Option {
	return func(c *Client) { c.requestInterceptors = append(c.requestInterceptors, ic) }
}

// WithResponseInterceptor appends an interceptor run after the built-in ones.
func WithResponseInterceptor(ic ResponseInterceptor) Option {
	return func(c *Client) { c.responseInterceptors = append(c.responseInterceptors, ic) }
}

// NewClient validates cfg and builds a Client with the auth and
// request-id interceptors installed.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		observer: NoopObserver{},
		newID:    uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Built-in interceptors run before any supplied through options.
	c.requestInterceptors = append([]RequestInterceptor{
		c.requestIDInterceptor,
		c.authInterceptor,
	}, c.requestInterceptors...)
	c.responseInterceptors = append([]ResponseInterceptor{
		c.unauthorizedInterceptor,
	}, c.responseInterceptors...)

	c.Projects = &ProjectsAPI{resource{c: c, base: "/projects"}}
	c.Materials = &MaterialsAPI{resource{c: c, base: "/materials"}}
	c.Labour = &LabourAPI{resource{c: c, base: "/labour"}}
	c.Issues = &IssuesAPI{resource{c: c, base: "/issues"}}
	c.Expenses = &ExpensesAPI{resource{c: c, base: "/expenses"}}
	c.Dashboard = &DashboardAPI{c: c}
	c.Health = &HealthAPI{c: c}

	return c, nil
}

// Config returns the client's connection settings.
func (c *Client) Config() Config { return c.cfg }

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// Do issues one request. path is relative to the base URL; query may be
// nil; a non-nil body is sent as JSON. The response is returned unchanged.
func (c *Client) Do(ctx context.Context, method, path string, query Params, body any) (*Response, error) {
	start := time.Now()
	call := &Call{Method: method, Path: path}

	resp, err := c.send(ctx, call, query, body)
	call.Response = resp
	call.Err = err
	for _, ic := range c.responseInterceptors {
		ic(ctx, call)
	}

	status := 0
	if call.Response != nil {
		status = call.Response.StatusCode
	}
	c.observer.OnCallComplete(CallEvent{
		Method:       method,
		Path:         path,
		RequestID:    call.RequestID,
		StatusCode:   status,
		LatencyMs:    time.Since(start).Milliseconds(),
		Success:      call.Err == nil,
		ErrorCode:    errorCode(call.Err),
		TokenCleared: call.TokenCleared,
		ClearErr:     call.ClearErr,
	})

	if call.Err != nil {
		return nil, call.Err
	}
	return call.Response, nil
}

func (c *Client) send(ctx context.Context, call *Call, query Params, body any) (*Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: marshaling body: %w", call.Method, call.Path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(reqCtx, call.Method, c.url(call.Path, query), reader)
	if err != nil {
		return nil, fmt.Errorf("%s %s: creating request: %w", call.Method, call.Path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	for _, ic := range c.requestInterceptors {
		if err := ic(reqCtx, req); err != nil {
			call.RequestID = req.Header.Get("X-Request-ID")
			return nil, fmt.Errorf("%s %s: %w", call.Method, call.Path, err)
		}
	}
	call.RequestID = req.Header.Get("X-Request-ID")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, classify(ctx, call, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, classify(ctx, call, err)
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("%s %s: %w (limit %d bytes)", call.Method, call.Path, ErrBodyTooLarge, maxBodyBytes)
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header}
	if len(bytes.TrimSpace(data)) > 0 {
		resp.Body = json.RawMessage(data)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return resp, &HTTPError{
			Method:     call.Method,
			Path:       call.Path,
			StatusCode: httpResp.StatusCode,
			Body:       data,
		}
	}
	return resp, nil
}

func (c *Client) url(path string, query Params) string {
	u := c.cfg.baseURL() + path
	if len(query) == 0 {
		return u
	}
	values := make(url.Values, len(query))
	for k, v := range query {
		values.Set(k, v)
	}
	return u + "?" + values.Encode()
}

// classify maps transport failures onto the package's sentinel errors.
// parent is the caller's context, which tells cancellation apart from
// the per-request timeout.
func classify(parent context.Context, call *Call, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return fmt.Errorf("%s %s: %w", call.Method, call.Path, ErrCanceled)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w", call.Method, call.Path, ErrTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s %s: %w", call.Method, call.Path, ErrTimeout)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%s %s: %w: %v", call.Method, call.Path, ErrUnavailable, opErr)
	}
	return fmt.Errorf("%s %s: %w", call.Method, call.Path, err)
}

func decodeJSON(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
