package model

import "time"

// Project statuses as reported by the backend. The client treats them as
// opaque strings everywhere except display; these constants exist so the
// status colouring and "can retry" checks don't sprinkle literals around.
const (
	ProjectStatusPending    = "pending"
	ProjectStatusProcessing = "processing"
	ProjectStatusCompleted  = "completed"
	ProjectStatusFailed     = "failed"
)

// Project is one uploaded codebase and the GitHub repository generated
// from it. Returned by /projects and /projects/:id.
type Project struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	RepoFullName string    `json:"repoFullName"` // e.g. "alice/my-project"
	RepoURL      string    `json:"repoUrl"`
	Status       string    `json:"status"`
	CommitCount  int       `json:"commitCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Commit is one AI-generated (or manual) commit on a project's timeline.
// Returned by /projects/:id/commits.
type Commit struct {
	ID          string    `json:"id"`
	Message     string    `json:"message"`
	SHA         string    `json:"sha"`
	AIGenerated bool      `json:"aiGenerated"`
	CommittedAt time.Time `json:"committedAt"`
}

// CreateProjectRequest is step 1 of the two-step creation wizard:
// POST /projects creates the repository shell and returns the project ID
// that step 2 (the file upload) targets.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UploadOptions is step 2 of the wizard: the zip file plus the commit
// timeline configuration, sent as multipart form fields. Dates go over the
// wire in RFC 3339 (the backend parses them with `new Date(...)`).
type UploadOptions struct {
	StartDate          time.Time
	EndDate            time.Time
	DesiredCommitCount int
}
