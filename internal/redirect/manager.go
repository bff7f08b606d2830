// Package redirect carries the "where to go after login" target across the
// OAuth round-trip (client → GitHub → backend callback → client).
//
// The web client kept this in sessionStorage — scoped to one tab, gone
// when the tab closes. The native equivalent is plain process memory:
// scoped to one run of the client, gone on exit. At most one target exists
// at a time; setting a new one overwrites the old (last write wins).
package redirect

import (
	"encoding/json"
	"net/url"
	"strings"
	"sync"
)

// DefaultPath is where a completed login lands when nothing asked for a
// specific destination.
const DefaultPath = "/dashboard"

// Manager holds the single pending redirect target.
//
// All methods are safe on a nil *Manager and degrade to defaults/no-ops —
// the same way the web version degraded when sessionStorage didn't exist
// (server-side rendering). Callers that run before wiring is complete just
// get DefaultPath.
type Manager struct {
	mu   sync.Mutex
	path string
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetRedirectPath remembers path as the post-login destination,
// overwriting any prior value.
func (m *Manager) SetRedirectPath(path string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.path = path
	m.mu.Unlock()
}

// RedirectPath returns the pending target, or DefaultPath if none is set.
// It never fails and always returns a usable path.
func (m *Manager) RedirectPath() string {
	if m == nil {
		return DefaultPath
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.path == "" {
		return DefaultPath
	}
	return m.path
}

// ClearRedirectPath removes the pending target. The bootstrap sequencer
// calls this after consuming the target so a stale redirect cannot fire on
// an unrelated future login.
func (m *Manager) ClearRedirectPath() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.path = ""
	m.mu.Unlock()
}

// OAuthState serialises {"redirectTo": <current target>} URL-encoded, for
// the `state` parameter of the OAuth initiation URL. The backend callback
// carries it through; the encoding matches the web client's
// encodeURIComponent(JSON.stringify(...)) byte for byte.
func (m *Manager) OAuthState() string {
	state, err := json.Marshal(struct {
		RedirectTo string `json:"redirectTo"`
	}{RedirectTo: m.RedirectPath()})
	if err != nil {
		// Marshalling a struct of one string cannot fail; keep the flow
		// alive regardless.
		return escapeURIComponent(`{"redirectTo":"` + DefaultPath + `"}`)
	}
	return escapeURIComponent(string(state))
}

// escapeURIComponent escapes like JavaScript's encodeURIComponent:
// QueryEscape, except a space becomes %20 rather than +. The backend
// decodes the state with decodeURIComponent, which does not turn + back
// into a space.
func escapeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
