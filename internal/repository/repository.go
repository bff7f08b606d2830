// Package repository declares the storage interfaces for the client's
// durable state.
//
// The web client kept this state in the browser: the user record in
// localStorage (twice, under two different keys) and the backend session
// cookie in the cookie store. The native client keeps both in one SQLite
// file — a single user record (the duplicate-key bug class is gone when
// there is only one record to disagree with) and the cookie jar, so the
// backend session survives process restarts the way `credentials:
// "include"` survived page reloads.
//
// Consumers depend on these interfaces, not on the sqlite package — the
// session store is tested against a ten-line fake.
package repository

import (
	"context"
	"time"

	"github.com/gitify-app/gitify-cli/internal/model"
)

// SessionRepository persists the single durable user record.
type SessionRepository interface {
	// SaveUser overwrites the stored record.
	SaveUser(ctx context.Context, user *model.User) error

	// LoadUser returns the stored record, or (nil, nil) when no record
	// exists. "No session" is a normal state, not an error.
	LoadUser(ctx context.Context) (*model.User, error)

	// Clear removes the stored record. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}

// Cookie is the persisted subset of http.Cookie — enough to reconstruct
// the backend session cookie in a fresh jar.
type Cookie struct {
	Host     string
	Name     string
	Value    string
	Path     string
	Expires  time.Time
	Secure   bool
	HTTPOnly bool
}

// CookieRepository persists the HTTP cookie jar.
type CookieRepository interface {
	// SaveCookies replaces all stored cookies for host.
	SaveCookies(ctx context.Context, host string, cookies []Cookie) error

	// LoadCookies returns every stored cookie grouped by host.
	LoadCookies(ctx context.Context) (map[string][]Cookie, error)

	// ClearCookies removes every stored cookie.
	ClearCookies(ctx context.Context) error
}
