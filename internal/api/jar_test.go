package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitify-app/gitify-cli/internal/repository"
)

type mockCookieRepo struct {
	byHost map[string][]repository.Cookie
}

func newMockCookieRepo() *mockCookieRepo {
	return &mockCookieRepo{byHost: map[string][]repository.Cookie{}}
}

func (m *mockCookieRepo) SaveCookies(_ context.Context, host string, cookies []repository.Cookie) error {
	m.byHost[host] = cookies
	return nil
}

func (m *mockCookieRepo) LoadCookies(_ context.Context) (map[string][]repository.Cookie, error) {
	return m.byHost, nil
}

func (m *mockCookieRepo) ClearCookies(_ context.Context) error {
	m.byHost = map[string][]repository.Cookie{}
	return nil
}

func newTestJar(t *testing.T, repo repository.CookieRepository) *Jar {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jar, err := NewJar(context.Background(), repo, logger)
	require.NoError(t, err)
	return jar
}

func TestJar_PersistsExpiringCookies(t *testing.T) {
	repo := newMockCookieRepo()
	jar := newTestJar(t, repo)

	u, _ := url.Parse("http://localhost:3001/api")
	jar.SetCookies(u, []*http.Cookie{
		{Name: "token", Value: "jwt-value", Path: "/", Expires: time.Now().Add(time.Hour), HttpOnly: true},
	})

	stored := repo.byHost["localhost:3001"]
	require.Len(t, stored, 1)
	assert.Equal(t, "token", stored[0].Name)
	assert.Equal(t, "jwt-value", stored[0].Value)
	assert.True(t, stored[0].HTTPOnly)
}

// Session-scoped cookies (no expiry) die with the process, like they
// would with the browser — only cookies with a server-given lifetime are
// written to disk.
func TestJar_SkipsSessionCookies(t *testing.T) {
	repo := newMockCookieRepo()
	jar := newTestJar(t, repo)

	u, _ := url.Parse("http://localhost:3001/api")
	jar.SetCookies(u, []*http.Cookie{
		{Name: "transient", Value: "x", Path: "/"},
	})

	assert.Empty(t, repo.byHost["localhost:3001"])
	// Still live in memory for this process, though.
	assert.Len(t, jar.Cookies(u), 1)
}

// A later response that sets only a session-scoped cookie must not
// disturb what is on disk — the stored session token has to survive every
// unrelated Set-Cookie the backend sends.
func TestJar_SessionCookieKeepsPersistedSet(t *testing.T) {
	repo := newMockCookieRepo()
	jar := newTestJar(t, repo)

	u, _ := url.Parse("http://localhost:3001/api")
	jar.SetCookies(u, []*http.Cookie{
		{Name: "token", Value: "jwt-value", Path: "/", Expires: time.Now().Add(time.Hour), HttpOnly: true},
	})
	jar.SetCookies(u, []*http.Cookie{
		{Name: "csrf", Value: "nonce", Path: "/"},
	})

	stored := repo.byHost["localhost:3001"]
	require.Len(t, stored, 1, "the persisted session token must survive an unrelated Set-Cookie")
	assert.Equal(t, "token", stored[0].Name)
	assert.Equal(t, "jwt-value", stored[0].Value)
}

// A MaxAge<0 deletion from the server removes the cookie from disk as
// well as from the live jar.
func TestJar_ServerDeletionRemovesPersisted(t *testing.T) {
	repo := newMockCookieRepo()
	jar := newTestJar(t, repo)

	u, _ := url.Parse("http://localhost:3001/api")
	jar.SetCookies(u, []*http.Cookie{
		{Name: "token", Value: "jwt-value", Path: "/", Expires: time.Now().Add(time.Hour)},
	})
	jar.SetCookies(u, []*http.Cookie{
		{Name: "token", Value: "", Path: "/", MaxAge: -1},
	})

	assert.Empty(t, repo.byHost["localhost:3001"], "a server-deleted cookie must not be restored on the next start")
}

// Max-Age cookies are persistent too; the stored expiry is computed from
// the lifetime the server gave.
func TestJar_MaxAgeCookiePersisted(t *testing.T) {
	repo := newMockCookieRepo()
	jar := newTestJar(t, repo)

	u, _ := url.Parse("http://localhost:3001/api")
	jar.SetCookies(u, []*http.Cookie{
		{Name: "token", Value: "jwt-value", Path: "/", MaxAge: 3600},
	})

	stored := repo.byHost["localhost:3001"]
	require.Len(t, stored, 1)
	assert.WithinDuration(t, time.Now().Add(time.Hour), stored[0].Expires, time.Minute)
}

// A new Jar over the same repository must present the old cookies — this
// is what keeps the backend session across CLI invocations.
func TestJar_ReplaysPersistedCookies(t *testing.T) {
	repo := newMockCookieRepo()
	repo.byHost["localhost:3001"] = []repository.Cookie{
		{Host: "localhost:3001", Name: "token", Value: "jwt-value", Path: "/", Expires: time.Now().Add(time.Hour)},
	}

	jar := newTestJar(t, repo)

	u, _ := url.Parse("http://localhost:3001/api")
	cookies := jar.Cookies(u)
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, "jwt-value", cookies[0].Value)
}

func TestJar_Clear(t *testing.T) {
	repo := newMockCookieRepo()
	jar := newTestJar(t, repo)

	u, _ := url.Parse("http://localhost:3001/api")
	jar.SetCookies(u, []*http.Cookie{
		{Name: "token", Value: "jwt-value", Path: "/", Expires: time.Now().Add(time.Hour)},
	})

	require.NoError(t, jar.Clear(context.Background()))

	assert.Empty(t, jar.Cookies(u), "in-memory cookies must be gone")
	assert.Empty(t, repo.byHost, "persisted cookies must be gone")
}
