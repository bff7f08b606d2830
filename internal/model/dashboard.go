package model

// DashboardOverview is the aggregate payload of GET /dashboard/overview.
// The backend assembles it server-side so the client renders it as-is.
type DashboardOverview struct {
	Summary        DashboardSummary `json:"summary"`
	RecentProjects []RecentProject  `json:"recentProjects"`
	RecentActivity RecentActivity   `json:"recentActivity"`
}

// DashboardSummary holds the headline numbers shown at the top of the
// dashboard.
type DashboardSummary struct {
	TotalProjects     int     `json:"totalProjects"`
	ProcessedProjects int     `json:"processedProjects"`
	PendingProjects   int     `json:"pendingProjects"`
	TotalCommits      int     `json:"totalCommits"`
	SuccessRate       float64 `json:"successRate"`
}

// RecentProject is the compact project row embedded in the overview — a
// subset of Project plus the latest commit, denormalised by the backend.
type RecentProject struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"`
	CommitCount    int    `json:"commitCount"`
	LastCommit     string `json:"lastCommit"`
	LastCommitDate string `json:"lastCommitDate"`
}

// RecentActivity bundles the latest commits and notifications.
type RecentActivity struct {
	Commits       []Commit       `json:"commits"`
	Notifications []Notification `json:"notifications"`
}

// ProjectStats is the payload of GET /dashboard/stats.
//
// StatusCount mirrors the backend's Prisma groupBy output, which nests the
// count under `_count.id` — we keep the wire shape rather than flattening
// it, so the JSON tags tell the whole story.
type ProjectStats struct {
	ProjectStatus []StatusCount `json:"projectStatus"`
	CommitStats   CommitStats   `json:"commitStats"`
	PopularRepos  []PopularRepo `json:"popularRepos"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  struct {
		ID int `json:"id"`
	} `json:"_count"`
}

type CommitStats struct {
	AIGenerated int `json:"aiGenerated"`
	Manual      int `json:"manual"`
}

type PopularRepo struct {
	RepoFullName string `json:"repoFullName"`
	CommitCount  int    `json:"commitCount"`
}
