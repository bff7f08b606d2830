package api

import (
	"context"

	"github.com/gitify-app/gitify-cli/internal/model"
)

// Profile returns the authenticated user's server-side profile. This is
// the one place the client can reconcile its cached session against the
// server's view of the account (plan changes, subscription status).
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, "/user/profile", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Notifications returns the user's notification feed.
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := c.get(ctx, "/user/notifications", &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}
