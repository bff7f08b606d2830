package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/gitify-app/gitify-cli/internal/apperror"
	"github.com/gitify-app/gitify-cli/internal/model"
	"github.com/gitify-app/gitify-cli/internal/redirect"
	"github.com/gitify-app/gitify-cli/internal/session"
)

type mockSessionRepo struct {
	user *model.User
}

func (m *mockSessionRepo) SaveUser(_ context.Context, user *model.User) error {
	m.user = user
	return nil
}

func (m *mockSessionRepo) LoadUser(_ context.Context) (*model.User, error) {
	return m.user, nil
}

func (m *mockSessionRepo) Clear(_ context.Context) error {
	m.user = nil
	return nil
}

type fixture struct {
	repo      *mockSessionRepo
	sessions  *session.Store
	redirects *redirect.Manager
	seq       *Sequencer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &mockSessionRepo{}
	sessions := session.New(repo, logger)
	redirects := redirect.NewManager()
	return &fixture{
		repo:      repo,
		sessions:  sessions,
		redirects: redirects,
		seq:       New(sessions, redirects, logger),
	}
}

// payloadURL builds a URL carrying `?user=<url-encoded JSON>`, the way the
// backend's OAuth callback builds its redirect.
func payloadURL(t *testing.T, path string, user *model.User) *url.URL {
	t.Helper()
	raw, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	u, err := url.Parse(path + "?user=" + url.QueryEscape(string(raw)))
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	return u
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

// =========================================================================
// SIGNAL PRECEDENCE
// =========================================================================

// A fresh OAuth payload must replace whatever session is cached —
// otherwise switching accounts would be impossible.
func TestResolve_PayloadWinsOverPersisted(t *testing.T) {
	f := newFixture(t)
	f.repo.user = &model.User{ID: "u-old", Username: "bob"}

	res, err := f.seq.Resolve(context.Background(), payloadURL(t, "/dashboard", &model.User{ID: "u-new", Username: "alice"}))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if !res.FromPayload {
		t.Error("payload branch should have resolved")
	}
	if res.User == nil || res.User.Username != "alice" {
		t.Fatalf("resolved user = %+v, want alice", res.User)
	}
	if f.repo.user == nil || f.repo.user.Username != "alice" {
		t.Errorf("persisted user = %+v, want alice (payload must be stored before anything else)", f.repo.user)
	}
}

func TestResolve_PersistedSessionWithoutPayload(t *testing.T) {
	f := newFixture(t)
	f.repo.user = &model.User{ID: "u1", Username: "bob"}

	res, err := f.seq.Resolve(context.Background(), mustParse(t, "/projects"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if res.FromPayload {
		t.Error("no payload — storage should have resolved")
	}
	if res.User == nil || res.User.Username != "bob" {
		t.Fatalf("resolved user = %+v, want bob", res.User)
	}
	if res.NavigateTo != "" {
		t.Errorf("NavigateTo = %q, want none", res.NavigateTo)
	}
}

func TestResolve_NothingMeansLoggedOut(t *testing.T) {
	f := newFixture(t)

	res, err := f.seq.Resolve(context.Background(), mustParse(t, "/dashboard"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if res.User != nil {
		t.Error("no payload, no storage — should be logged out")
	}
	snap := f.sessions.Snapshot()
	if snap.IsLoading {
		t.Error("resolution must always end loading")
	}
}

// =========================================================================
// URL CLEANUP AND IDEMPOTENCE
// =========================================================================

// When no navigation happens the payload is stripped in place, and
// re-running the sequencer on the cleaned URL must agree with the first
// run: same user, now from storage.
func TestResolve_CleanURLIsIdempotent(t *testing.T) {
	f := newFixture(t)
	alice := &model.User{ID: "u1", Username: "alice"}

	// Pending target defaults to /dashboard; mounting on /dashboard means
	// no navigation, so the URL gets cleaned instead.
	first, err := f.seq.Resolve(context.Background(), payloadURL(t, "/dashboard", alice))
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	if first.NavigateTo != "" {
		t.Fatalf("NavigateTo = %q, want in-place cleanup", first.NavigateTo)
	}
	if first.CleanURL == nil {
		t.Fatal("CleanURL not set")
	}
	if first.CleanURL.Query().Get("user") != "" {
		t.Errorf("payload survived cleanup: %q", first.CleanURL.String())
	}

	second, err := f.seq.Resolve(context.Background(), first.CleanURL)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if second.FromPayload {
		t.Error("second run must resolve from storage, not a payload")
	}
	if second.User == nil || second.User.Username != "alice" {
		t.Fatalf("second run user = %+v, want alice", second.User)
	}
}

// =========================================================================
// REDIRECT TARGET CONSUMPTION
// =========================================================================

// The pending target is honored exactly once, then gone.
func TestResolve_RedirectTargetSingleUse(t *testing.T) {
	f := newFixture(t)
	f.redirects.SetRedirectPath("/projects")
	alice := &model.User{ID: "u1", Username: "alice"}

	res, err := f.seq.Resolve(context.Background(), payloadURL(t, "/success", alice))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if res.NavigateTo != "/projects" {
		t.Errorf("NavigateTo = %q, want /projects", res.NavigateTo)
	}
	if got := f.redirects.RedirectPath(); got != redirect.DefaultPath {
		t.Errorf("target survived consumption: %q", got)
	}
}

func TestResolve_DefaultTargetWhenNonePending(t *testing.T) {
	f := newFixture(t)
	alice := &model.User{ID: "u1", Username: "alice"}

	res, err := f.seq.Resolve(context.Background(), payloadURL(t, "/success", alice))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.NavigateTo != redirect.DefaultPath {
		t.Errorf("NavigateTo = %q, want %q", res.NavigateTo, redirect.DefaultPath)
	}
}

// =========================================================================
// MALFORMED PAYLOAD
// =========================================================================

func TestResolve_MalformedPayload(t *testing.T) {
	f := newFixture(t)
	u := mustParse(t, "/success?user=not-json")

	res, err := f.seq.Resolve(context.Background(), u)
	if !errors.Is(err, apperror.ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}

	// The flow still resolves: no crash, loading ended, default landing.
	if res.NavigateTo != redirect.DefaultPath {
		t.Errorf("NavigateTo = %q, want %q", res.NavigateTo, redirect.DefaultPath)
	}
	snap := f.sessions.Snapshot()
	if snap.IsLoading {
		t.Error("malformed payload must still end loading")
	}
	if snap.IsAuthenticated {
		t.Error("garbage must not authenticate anyone")
	}
}

// A malformed payload must not wipe an existing session.
func TestResolve_MalformedPayloadKeepsPersistedSession(t *testing.T) {
	f := newFixture(t)
	f.repo.user = &model.User{ID: "u1", Username: "bob"}

	res, err := f.seq.Resolve(context.Background(), mustParse(t, "/success?user=%7Bgarbage"))
	if !errors.Is(err, apperror.ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
	if res.User == nil || res.User.Username != "bob" {
		t.Errorf("user = %+v, want bob restored from storage", res.User)
	}
}

// Some backend versions double-encode the payload; one extra unescape
// round must be tolerated.
func TestResolve_DoubleEncodedPayload(t *testing.T) {
	f := newFixture(t)
	raw, _ := json.Marshal(&model.User{ID: "u1", Username: "alice"})
	double := url.QueryEscape(url.QueryEscape(string(raw)))
	u := mustParse(t, "/dashboard?user="+double)

	res, err := f.seq.Resolve(context.Background(), u)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.User == nil || res.User.Username != "alice" {
		t.Fatalf("user = %+v, want alice", res.User)
	}
}
