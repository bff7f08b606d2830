package model

import "time"

// Notification is one entry from GET /user/notifications.
// Type is one of "info", "success", "warning", "error" — used only for
// display styling, so unknown values are fine.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
