package redirect

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"
)

func TestRedirectPath_DefaultWhenUnset(t *testing.T) {
	m := NewManager()
	if got := m.RedirectPath(); got != DefaultPath {
		t.Errorf("RedirectPath() = %q, want %q", got, DefaultPath)
	}
}

func TestSetRedirectPath_LastWriteWins(t *testing.T) {
	m := NewManager()
	m.SetRedirectPath("/projects")
	m.SetRedirectPath("/pricing")
	if got := m.RedirectPath(); got != "/pricing" {
		t.Errorf("RedirectPath() = %q, want %q", got, "/pricing")
	}
}

func TestClearRedirectPath(t *testing.T) {
	m := NewManager()
	m.SetRedirectPath("/projects")
	m.ClearRedirectPath()
	if got := m.RedirectPath(); got != DefaultPath {
		t.Errorf("RedirectPath() after clear = %q, want %q", got, DefaultPath)
	}
}

// Reading does not consume — consumption is explicit (ClearRedirectPath),
// done once by the bootstrap sequencer.
func TestRedirectPath_ReadDoesNotConsume(t *testing.T) {
	m := NewManager()
	m.SetRedirectPath("/projects")
	_ = m.RedirectPath()
	if got := m.RedirectPath(); got != "/projects" {
		t.Errorf("second RedirectPath() = %q, want %q", got, "/projects")
	}
}

func TestOAuthState_Encoding(t *testing.T) {
	m := NewManager()
	m.SetRedirectPath("/projects")

	state := m.OAuthState()

	// Must round-trip: unescape → JSON → {"redirectTo": "/projects"}
	raw, err := url.QueryUnescape(state)
	if err != nil {
		t.Fatalf("QueryUnescape(%q): %v", state, err)
	}
	var decoded struct {
		RedirectTo string `json:"redirectTo"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("Unmarshal(%q): %v", raw, err)
	}
	if decoded.RedirectTo != "/projects" {
		t.Errorf("redirectTo = %q, want %q", decoded.RedirectTo, "/projects")
	}
}

// A space encodes as %20, as encodeURIComponent produces — the peer
// decodes with decodeURIComponent, which leaves + alone.
func TestOAuthState_SpaceEncodesAsPercent20(t *testing.T) {
	m := NewManager()
	m.SetRedirectPath("/projects/my project")

	state := m.OAuthState()
	if strings.Contains(state, "+") {
		t.Errorf("OAuthState() = %q, must not contain +", state)
	}
	if !strings.Contains(state, "%20") {
		t.Errorf("OAuthState() = %q, space should encode as %%20", state)
	}

	raw, err := url.QueryUnescape(state)
	if err != nil {
		t.Fatalf("QueryUnescape(%q): %v", state, err)
	}
	var decoded struct {
		RedirectTo string `json:"redirectTo"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("Unmarshal(%q): %v", raw, err)
	}
	if decoded.RedirectTo != "/projects/my project" {
		t.Errorf("redirectTo = %q", decoded.RedirectTo)
	}
}

func TestOAuthState_DefaultTarget(t *testing.T) {
	m := NewManager()
	want := url.QueryEscape(`{"redirectTo":"/dashboard"}`)
	if got := m.OAuthState(); got != want {
		t.Errorf("OAuthState() = %q, want %q", got, want)
	}
}

// =========================================================================
// NIL-MANAGER TESTS
// =========================================================================
//
// A nil Manager must behave like "storage unavailable": reads return the
// default, writes are dropped, nothing panics.

func TestNilManager_Degrades(t *testing.T) {
	var m *Manager

	m.SetRedirectPath("/projects") // must not panic
	if got := m.RedirectPath(); got != DefaultPath {
		t.Errorf("nil RedirectPath() = %q, want %q", got, DefaultPath)
	}
	m.ClearRedirectPath() // must not panic

	state := m.OAuthState()
	want := url.QueryEscape(`{"redirectTo":"/dashboard"}`)
	if state != want {
		t.Errorf("nil OAuthState() = %q, want %q", state, want)
	}
}
