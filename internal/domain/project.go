package domain

import "time"

type Financials struct {
	PriceValue  float64 `json:"priceValue"`
	EarnedValue float64 `json:"earnedValue"`
}

// TaskCounts is the per-status task breakdown reported with a project.
type TaskCounts struct {
	Total      int `json:"total"`
	NotStarted int `json:"notStarted"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

type Project struct {
	ID         ID            `json:"id"`
	Name       string        `json:"name"`
	StartDate  string        `json:"startDate,omitempty"`
	EndDate    string        `json:"endDate,omitempty"`
	Progress   float64       `json:"progress"`
	Status     ProjectStatus `json:"status"`
	Financials Financials    `json:"financials"`
	TaskCounts TaskCounts    `json:"taskCounts"`
	Tasks      []Task        `json:"tasks,omitempty"`
}

// ProjectInput is the body sent when creating a project from the TUI form.
type ProjectInput struct {
	Name      string        `json:"name"`
	StartDate string        `json:"startDate,omitempty"`
	EndDate   string        `json:"endDate,omitempty"`
	Status    ProjectStatus `json:"status"`
}

// Breakdown returns the project's task counts, deriving them from Tasks
// when the server did not report a breakdown.
func (p *Project) Breakdown() TaskCounts {
	if p.TaskCounts.Total > 0 || len(p.Tasks) == 0 {
		return p.TaskCounts
	}
	return CountByStatus(p.Tasks)
}

// EarnedRatio is earned value over price value, 0 when no price is set.
func (p *Project) EarnedRatio() float64 {
	if p.Financials.PriceValue <= 0 {
		return 0
	}
	return p.Financials.EarnedValue / p.Financials.PriceValue
}

// Span returns the parsed start and end dates. ok is false if either is missing.
func (p *Project) Span() (start, end time.Time, ok bool) {
	start, okStart := ParseDate(p.StartDate)
	end, okEnd := ParseDate(p.EndDate)
	return start, end, okStart && okEnd
}

// ClampProgress limits a progress percentage to [0, 100].
func ClampProgress(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}
