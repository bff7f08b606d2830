package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/gitify-app/gitify-cli/internal/repository"
)

// Jar is a cookie jar with write-through persistence.
//
// The backend's session rides in a cookie; the browser persisted it for
// the web client for free. Here we wrap the standard cookiejar and mirror
// every SetCookies into the repository, then replay the stored cookies
// into a fresh inner jar on startup. Persistence is best-effort: a failed
// write is logged, never surfaced — an in-memory session that works beats
// an error because the disk is full.
type Jar struct {
	mu    sync.Mutex
	inner *cookiejar.Jar

	// persisted mirrors what is on disk, keyed host → name;path. Each
	// save replaces the host's whole stored set, so it has to carry the
	// cookies from earlier responses too — a response that only sets a
	// session-scoped cookie must not wipe the stored session token.
	persisted map[string]map[string]repository.Cookie

	repo   repository.CookieRepository
	logger *slog.Logger
}

var _ http.CookieJar = (*Jar)(nil)

// NewJar creates a Jar and loads previously persisted cookies into it.
func NewJar(ctx context.Context, repo repository.CookieRepository, logger *slog.Logger) (*Jar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &Jar{
		inner:     inner,
		persisted: make(map[string]map[string]repository.Cookie),
		repo:      repo,
		logger:    logger,
	}

	stored, err := repo.LoadCookies(ctx)
	if err != nil {
		// Corrupt cookie storage means "no session cookie", same contract
		// as the session record: degrade, don't fail.
		logger.Warn("loading persisted cookies failed", slog.String("error", err.Error()))
		return j, nil
	}

	for host, cookies := range stored {
		u := &url.URL{Scheme: "http", Host: host}
		inner.SetCookies(u, toHTTPCookies(cookies))

		byKey := make(map[string]repository.Cookie, len(cookies))
		for _, c := range cookies {
			byKey[c.Name+";"+c.Path] = c
		}
		j.persisted[host] = byKey
	}

	return j, nil
}

// SetCookies stores cookies in the inner jar and mirrors the host's
// resulting cookie set to durable storage.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.inner.SetCookies(u, cookies)

	host := j.persisted[u.Host]
	if host == nil {
		host = make(map[string]repository.Cookie)
		j.persisted[u.Host] = host
	}

	changed := false
	for _, c := range cookies {
		key := c.Name + ";" + cookiePath(c)
		switch {
		case c.MaxAge < 0:
			// Server-side deletion: drop it from disk too.
			if _, ok := host[key]; ok {
				delete(host, key)
				changed = true
			}
		case c.MaxAge == 0 && c.Expires.IsZero():
			// Session-scoped: lives in the inner jar for this process
			// only; the stored set stays untouched.
		default:
			expires := c.Expires
			if c.MaxAge > 0 {
				expires = time.Now().Add(time.Duration(c.MaxAge) * time.Second)
			}
			host[key] = repository.Cookie{
				Host:     u.Host,
				Name:     c.Name,
				Value:    c.Value,
				Path:     cookiePath(c),
				Expires:  expires,
				Secure:   c.Secure,
				HTTPOnly: c.HttpOnly,
			}
			changed = true
		}
	}
	if !changed {
		return
	}

	set := make([]repository.Cookie, 0, len(host))
	for _, c := range host {
		set = append(set, c)
	}
	if err := j.repo.SaveCookies(context.Background(), u.Host, set); err != nil {
		j.logger.Warn("persisting cookies failed",
			slog.String("host", u.Host),
			slog.String("error", err.Error()),
		)
	}
}

// Cookies returns the cookies to send for u.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// Clear wipes both the in-memory jar and the persisted store. Called on
// logout: without this, a still-valid server cookie would silently
// re-authenticate the next login flow.
func (j *Jar) Clear(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	inner, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.inner = inner
	j.persisted = make(map[string]map[string]repository.Cookie)

	return j.repo.ClearCookies(ctx)
}

func cookiePath(c *http.Cookie) string {
	if c.Path == "" {
		return "/"
	}
	return c.Path
}

func toHTTPCookies(cookies []repository.Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		})
	}
	return out
}
