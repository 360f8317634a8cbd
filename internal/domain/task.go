package domain

import (
	"strings"
	"time"
)

// Task is one row of a project plan. Level only controls indentation;
// there is no parent relation.
type Task struct {
	ID           ID         `json:"id"`
	TaskID       string     `json:"taskId"`
	Name         string     `json:"name"`
	StartDate    string     `json:"startDate"`
	EndDate      string     `json:"endDate"`
	WorkCategory string     `json:"workCategory"`
	Status       TaskStatus `json:"status"`
	Duration     string     `json:"duration"`
	Delay        int        `json:"delay"`
	Progress     float64    `json:"progress"`
	Level        int        `json:"level,omitempty"`
}

// IsDelayed reports whether the task is behind schedule.
func (t Task) IsDelayed() bool { return t.Delay > 0 }

// Indent returns the visual nesting depth, never negative.
func (t Task) Indent() int {
	if t.Level < 0 {
		return 0
	}
	return t.Level
}

// FilterTasks returns the tasks whose name or task id contains query,
// case-insensitively. An empty query returns tasks unchanged.
func FilterTasks(tasks []Task, query string) []Task {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tasks
	}
	var out []Task
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.TaskID), q) {
			out = append(out, t)
		}
	}
	return out
}

// DelayedTasks returns only tasks with a positive delay.
func DelayedTasks(tasks []Task) []Task {
	var out []Task
	for _, t := range tasks {
		if t.IsDelayed() {
			out = append(out, t)
		}
	}
	return out
}

// CountByStatus tallies tasks per status. Unknown statuses count toward Total only.
func CountByStatus(tasks []Task) TaskCounts {
	c := TaskCounts{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case TaskNotStarted:
			c.NotStarted++
		case TaskInProgress:
			c.InProgress++
		case TaskCompleted:
			c.Completed++
		}
	}
	return c
}

// TaskSpan returns the earliest start and latest end over all dated tasks.
func TaskSpan(tasks []Task) (start, end time.Time, ok bool) {
	for _, t := range tasks {
		s, okS := ParseDate(t.StartDate)
		e, okE := ParseDate(t.EndDate)
		if !okS || !okE {
			continue
		}
		if !ok || s.Before(start) {
			start = s
		}
		if !ok || e.After(end) {
			end = e
		}
		ok = true
	}
	return start, end, ok
}

var dateLayouts = []string{"02/01/2006", "2006-01-02", time.RFC3339}

// ParseDate accepts the day-first dates the API emits as well as ISO dates.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
