package domain

type DashboardStats struct {
	TotalProjects  int     `json:"totalProjects"`
	ActiveProjects int     `json:"activeProjects"`
	TotalMaterials int     `json:"totalMaterials"`
	TotalLabour    int     `json:"totalLabour"`
	OpenIssues     int     `json:"openIssues"`
	TotalExpenses  float64 `json:"totalExpenses"`
}

// Activity is one entry of the recent-activity feed. CreatedAt is kept as
// sent by the server.
type Activity struct {
	ID        ID     `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

type ProjectHealth struct {
	ProjectID ID            `json:"projectId"`
	Name      string        `json:"name"`
	Progress  float64       `json:"progress"`
	Status    ProjectStatus `json:"status"`
	Delay     int           `json:"delay"`
	Health    string        `json:"health"`
}
