// Package model defines the data structures exchanged with the Gitify backend.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User is the identity record the backend hands out.
//
// It arrives in two shapes that must stay in sync:
//   - as the `user` query parameter appended to the OAuth success redirect
//     (URL-encoded JSON, produced by the backend's GitHub callback)
//   - as the `data` payload of GET /user/profile
//
// WHY GitHubID string?
// The backend serialises the GitHub account ID as a string (its own IDs are
// string cuids too), so we keep it a string rather than parsing a number we
// never do arithmetic on.
//
// The OAuth redirect payload may omit fields (older backends sent only
// id/username), so everything here must be safe at its zero value.
type User struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	GitHubID           string    `json:"githubId"`
	AvatarURL          string    `json:"avatarUrl"`
	Plan               string    `json:"plan"`               // "free", "pro", "enterprise"
	SubscriptionStatus string    `json:"subscriptionStatus"` // e.g. "active", "expired"
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
