package api

import (
	"context"

	"github.com/gitify-app/gitify-cli/internal/model"
)

// ListProjects returns all of the user's projects.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.get(ctx, "/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject returns one project by ID.
func (c *Client) GetProject(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	if err := c.get(ctx, "/projects/"+id, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject is step 1 of the creation wizard: it creates the project
// shell and returns it — the returned ID is what the step-2 upload
// targets. A plan-limit rejection comes back as an envelope error with
// code "PLAN_LIMIT_EXCEEDED"; callers surface the backend's message as-is.
func (c *Client) CreateProject(ctx context.Context, req model.CreateProjectRequest) (*model.Project, error) {
	var project model.Project
	if err := c.post(ctx, "/projects", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.delete(ctx, "/projects/"+id)
}

// RetryProject re-queues a failed project for processing.
func (c *Client) RetryProject(ctx context.Context, id string) error {
	return c.post(ctx, "/projects/"+id+"/retry", nil, nil)
}

// ListCommits returns a project's generated commit timeline.
func (c *Client) ListCommits(ctx context.Context, projectID string) ([]model.Commit, error) {
	var commits []model.Commit
	if err := c.get(ctx, "/projects/"+projectID+"/commits", &commits); err != nil {
		return nil, err
	}
	return commits, nil
}
