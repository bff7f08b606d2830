// Package auth runs the GitHub OAuth login flow for the CLI.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. `gitify login` starts a loopback HTTP server on 127.0.0.1
//  2. The browser is sent to <api>/auth/github?state=<pending redirect>
//  3. GitHub → backend callback → backend redirects the browser to our
//     loopback /success route with `?user=<url-encoded JSON>`
//  4. The bootstrap sequencer consumes the payload, persists the session,
//     and the command returns
//
// The backend also sets its session cookie during step 3; the persistent
// cookie jar captures it, which is what authenticates every later API call.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSessionToken reports that the cookie jar holds no backend session
// cookie for the API host.
var ErrNoSessionToken = errors.New("auth: no session token cookie")

// SessionExpiry reports when the backend session cookie's JWT expires.
//
// UNVERIFIED ON PURPOSE:
// The token is signed with the backend's secret, which the client does not
// and must not have. We only want the `exp` claim to warn "your session
// looks stale, `gitify login` again" before a command fails with 401 —
// the backend remains the sole authority on whether the token is valid.
func SessionExpiry(jar http.CookieJar, apiURL string) (time.Time, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return time.Time{}, fmt.Errorf("auth: parsing API URL: %w", err)
	}

	var raw string
	for _, c := range jar.Cookies(u) {
		if c.Name == "token" {
			raw = c.Value
			break
		}
	}
	if raw == "" {
		return time.Time{}, ErrNoSessionToken
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, fmt.Errorf("auth: parsing session token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("auth: session token has no expiry claim")
	}
	return claims.ExpiresAt.Time, nil
}
