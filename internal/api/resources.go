package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/alexanderramin/buildtrack/internal/domain"
)

// resource is the CRUD surface shared by every id-addressed group.
type resource struct {
	c    *Client
	base string
}

// path joins the group base with escaped id and sub-path segments.
func (r resource) path(segments ...string) string {
	var b strings.Builder
	b.WriteString(r.base)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// List fetches the collection, forwarding params as the query string.
func (r resource) List(ctx context.Context, params Params) (*Response, error) {
	return r.c.Do(ctx, http.MethodGet, r.base, params, nil)
}

func (r resource) Get(ctx context.Context, id string) (*Response, error) {
	return r.c.Do(ctx, http.MethodGet, r.path(id), nil, nil)
}

func (r resource) Create(ctx context.Context, body any) (*Response, error) {
	return r.c.Do(ctx, http.MethodPost, r.base, nil, body)
}

func (r resource) Update(ctx context.Context, id string, body any) (*Response, error) {
	return r.c.Do(ctx, http.MethodPut, r.path(id), nil, body)
}

func (r resource) Delete(ctx context.Context, id string) (*Response, error) {
	return r.c.Do(ctx, http.MethodDelete, r.path(id), nil, nil)
}

// Base returns the group's path relative to the API base URL.
func (r resource) Base() string { return r.base }

type ProjectsAPI struct{ resource }

// UpdateProgress sets only the progress field: PUT /projects/:id/progress.
func (a *ProjectsAPI) UpdateProgress(ctx context.Context, id string, progress float64) (*Response, error) {
	body := struct {
		Progress float64 `json:"progress"`
	}{progress}
	return a.c.Do(ctx, http.MethodPut, a.path(id, "progress"), nil, body)
}

type MaterialsAPI struct{ resource }

func (a *MaterialsAPI) Categories(ctx context.Context) (*Response, error) {
	return a.c.Do(ctx, http.MethodGet, a.path("categories", "list"), nil, nil)
}

// UpdateQuantity adjusts stock: PUT /materials/:id/quantity. The operation
// is passed through; the server decides what it accepts.
func (a *MaterialsAPI) UpdateQuantity(ctx context.Context, id string, quantity float64, op domain.QuantityOperation) (*Response, error) {
	body := struct {
		Quantity  float64                  `json:"quantity"`
		Operation domain.QuantityOperation `json:"operation"`
	}{quantity, op}
	return a.c.Do(ctx, http.MethodPut, a.path(id, "quantity"), nil, body)
}

type LabourAPI struct{ resource }

func (a *LabourAPI) Roles(ctx context.Context) (*Response, error) {
	return a.c.Do(ctx, http.MethodGet, a.path("roles", "list"), nil, nil)
}

type IssuesAPI struct{ resource }

// UpdateStatus sets only the status field: PUT /issues/:id/status.
func (a *IssuesAPI) UpdateStatus(ctx context.Context, id, status string) (*Response, error) {
	body := struct {
		Status string `json:"status"`
	}{status}
	return a.c.Do(ctx, http.MethodPut, a.path(id, "status"), nil, body)
}

func (a *IssuesAPI) Stats(ctx context.Context) (*Response, error) {
	return a.c.Do(ctx, http.MethodGet, a.path("stats", "summary"), nil, nil)
}

type ExpensesAPI struct{ resource }

func (a *ExpensesAPI) Categories(ctx context.Context) (*Response, error) {
	return a.c.Do(ctx, http.MethodGet, a.path("categories", "list"), nil, nil)
}

func (a *ExpensesAPI) Stats(ctx context.Context, params Params) (*Response, error) {
	return a.c.Do(ctx, http.MethodGet, a.path("stats", "summary"), params, nil)
}

type DashboardAPI struct{ c *Client }

func (a *DashboardAPI) Stats(ctx context.Context) (*Response, error) {
	return a.c.Do(ctx, http.MethodGet, "/dashboard/stats", nil, nil)
}

func (a *DashboardAPI) RecentActivity(ctx context.Context) (*Response, error) {
	return a.c.Do(ctx, http.MethodGet, "/dashboard/recent-activity", nil, nil)
}

func (a *DashboardAPI) ProjectHealth(ctx context.Context) (*Response, error) {
	return a.c.Do(ctx, http.MethodGet, "/dashboard/project-health", nil, nil)
}

type HealthAPI struct{ c *Client }

func (a *HealthAPI) Check(ctx context.Context) (*Response, error) {
	return a.c.Do(ctx, http.MethodGet, "/health", nil, nil)
}

// CRUD is the uniform surface of the id-addressed groups
// (projects, materials, labour, issues, expenses).
type CRUD interface {
	List(ctx context.Context, params Params) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Create(ctx context.Context, body any) (*Response, error)
	Update(ctx context.Context, id string, body any) (*Response, error)
	Delete(ctx context.Context, id string) (*Response, error)
	Base() string
}

var (
	_ CRUD = (*ProjectsAPI)(nil)
	_ CRUD = (*MaterialsAPI)(nil)
	_ CRUD = (*LabourAPI)(nil)
	_ CRUD = (*IssuesAPI)(nil)
	_ CRUD = (*ExpensesAPI)(nil)
)
