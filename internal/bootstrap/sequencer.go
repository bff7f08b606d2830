// Package bootstrap resolves the session state on startup.
//
// THREE SIGNALS, STRICT PRIORITY:
//  1. An OAuth redirect payload in the URL (`?user=<url-encoded JSON>`).
//     Always wins — completing a fresh OAuth flow must replace whatever
//     session was cached, or switching accounts would be impossible.
//  2. A previously persisted session in durable storage.
//  3. Neither → logged out.
//
// The web client ran a copy of this logic in every layout that cared,
// which meant several racing bootstraps per page load. Here there is ONE
// Sequencer, run once per process (the cli package guards it with a
// sync.Once); everything else reads the session store it feeds.
package bootstrap

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/gitify-app/gitify-cli/internal/apperror"
	"github.com/gitify-app/gitify-cli/internal/model"
	"github.com/gitify-app/gitify-cli/internal/redirect"
	"github.com/gitify-app/gitify-cli/internal/session"
)

// Resolution is the outcome of one bootstrap run.
type Resolution struct {
	// User is the resolved identity, nil when logged out.
	User *model.User

	// CleanURL is the input URL with the OAuth payload stripped in place.
	// Set when no navigation happens — re-running the sequencer on it must
	// land in the persisted-session branch and agree with this resolution.
	CleanURL *url.URL

	// NavigateTo is the single full navigation this run requires, or "".
	// A full navigation guarantees no stale query parameters survive.
	NavigateTo string

	// FromPayload records which branch resolved: true means the OAuth
	// payload was consumed, false means persisted storage decided.
	FromPayload bool
}

// Sequencer reconciles the auth signals into the session store.
type Sequencer struct {
	sessions  *session.Store
	redirects *redirect.Manager
	logger    *slog.Logger
}

// New creates a Sequencer.
func New(sessions *session.Store, redirects *redirect.Manager, logger *slog.Logger) *Sequencer {
	return &Sequencer{
		sessions:  sessions,
		redirects: redirects,
		logger:    logger,
	}
}

// Resolve runs the bootstrap state machine against current, the URL the
// process was "mounted" on — for a login that is the loopback callback
// URL, for everything else a bare app path like /projects.
//
// ORDER OF OPERATIONS in the payload branch matters and is load-bearing:
// the record is stored BEFORE any navigation, so the destination "page"
// re-reading storage sees exactly what the payload carried (idempotence),
// and the pending redirect target is cleared the moment it is read, so it
// fires at most once.
func (s *Sequencer) Resolve(ctx context.Context, current *url.URL) (*Resolution, error) {
	s.sessions.SetLoading(true)

	payload := current.Query().Get("user")
	if payload == "" {
		// No redirect signal — restore from durable storage, no network.
		s.sessions.CheckAuth(ctx)
		snap := s.sessions.Snapshot()
		return &Resolution{User: snap.User, CleanURL: current}, nil
	}

	user, err := decodePayload(payload)
	if err != nil {
		// Terminal for this bootstrap attempt: log it, resolve from
		// storage so the state machine still lands in Resolved, and send
		// the caller to the default landing page — a reload there runs
		// the payload-absent branch. Never crash the view over a bad
		// query parameter.
		s.logger.Error("discarding malformed OAuth payload",
			slog.String("error", err.Error()),
		)
		s.sessions.CheckAuth(ctx)
		snap := s.sessions.Snapshot()
		return &Resolution{
			User:       snap.User,
			NavigateTo: redirect.DefaultPath,
		}, apperror.MalformedPayload(err)
	}

	// The payload wins over anything cached: apply and persist it first.
	s.sessions.InitializeFromRedirect(ctx, user)

	// Consume the pending redirect target — read and cleared exactly once.
	target := s.redirects.RedirectPath()
	s.redirects.ClearRedirectPath()

	if target != current.Path {
		s.logger.Debug("bootstrap navigating to pending target",
			slog.String("target", target),
		)
		return &Resolution{User: user, NavigateTo: target, FromPayload: true}, nil
	}

	// Already where we need to be: strip the payload from the URL in
	// place so a reload does not re-trigger this branch.
	clean := *current
	q := clean.Query()
	q.Del("user")
	clean.RawQuery = q.Encode()

	return &Resolution{User: user, CleanURL: &clean, FromPayload: true}, nil
}

// decodePayload parses the `user` query parameter.
//
// url.Query() has already undone the URL encoding once. Some backend
// versions double-encode the JSON, so if the first parse fails we unescape
// once more and retry before declaring the payload malformed.
func decodePayload(raw string) (*model.User, error) {
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err == nil {
		return &user, nil
	}

	unescaped, err := url.QueryUnescape(raw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(unescaped), &user); err != nil {
		return nil, err
	}
	return &user, nil
}
