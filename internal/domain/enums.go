package domain

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "Planning"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectCompleted  ProjectStatus = "Completed"
)

// ProjectStatuses lists the statuses offered by the project forms, in display order.
var ProjectStatuses = []ProjectStatus{ProjectPlanning, ProjectInProgress, ProjectCompleted}

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "Not Started"
	TaskInProgress TaskStatus = "In Progress"
	TaskCompleted  TaskStatus = "Completed"
)

// QuantityOperation selects how a material quantity update is applied server-side.
type QuantityOperation string

const (
	QuantityAdd      QuantityOperation = "add"
	QuantitySubtract QuantityOperation = "subtract"
	QuantitySet      QuantityOperation = "set"
)

// IssueStatuses is the cycle used when stepping an issue's status from the TUI.
var IssueStatuses = []string{"open", "in_progress", "resolved", "closed"}

// NextIssueStatus returns the status after current in IssueStatuses,
// wrapping around. Unknown statuses restart the cycle.
func NextIssueStatus(current string) string {
	for i, s := range IssueStatuses {
		if s == current {
			return IssueStatuses[(i+1)%len(IssueStatuses)]
		}
	}
	return IssueStatuses[0]
}
