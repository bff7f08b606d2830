package api

import (
	"context"

	"github.com/gitify-app/gitify-cli/internal/model"
)

// DashboardOverview returns the aggregate dashboard payload.
func (c *Client) DashboardOverview(ctx context.Context) (*model.DashboardOverview, error) {
	var overview model.DashboardOverview
	if err := c.get(ctx, "/dashboard/overview", &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// DashboardStats returns the project/commit statistics.
func (c *Client) DashboardStats(ctx context.Context) (*model.ProjectStats, error) {
	var stats model.ProjectStats
	if err := c.get(ctx, "/dashboard/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
