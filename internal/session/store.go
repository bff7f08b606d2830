// Package session holds the single source of truth for "who is logged in".
//
// THE STORE IS THE ONLY WRITER:
// The web client this replaces had a process-wide mutable store that
// several layouts mutated independently, each running its own copy of the
// auth bootstrap. Here the Store is an explicit object created once in
// main, mutated only through its methods, and read by everyone else as an
// immutable Snapshot — one owner, many readers, no hidden global.
//
// WHAT IS PERSISTED:
// Only the user record. IsAuthenticated is derived from it (user != nil)
// instead of being stored redundantly, and IsLoading is transient by
// definition — it starts true on every process start and goes false the
// first time auth state resolves.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gitify-app/gitify-cli/internal/model"
	"github.com/gitify-app/gitify-cli/internal/repository"
)

// Snapshot is a read-only view of the session state. The User pointer is
// shared — treat it as immutable.
//
// Invariant: IsAuthenticated == (User != nil), always. The Store derives
// one from the other; there is no way to set them out of step.
type Snapshot struct {
	User            *model.User
	IsAuthenticated bool
	IsLoading       bool
}

// Store owns the session state and its persistence.
type Store struct {
	mu      sync.Mutex
	user    *model.User
	loading bool
	subs    []chan Snapshot

	repo   repository.SessionRepository
	logger *slog.Logger
}

// New creates a Store in its boot state: no user, not authenticated,
// loading. The loading flag stays up until the bootstrap sequencer (or any
// other resolution path) brings the state to a decision.
func New(repo repository.SessionRepository, logger *slog.Logger) *Store {
	return &Store{
		loading: true,
		repo:    repo,
		logger:  logger,
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that receives a Snapshot after every state
// change. The channel has a one-slot buffer and stale snapshots are
// dropped in favour of newer ones, so a slow consumer sees the latest
// state rather than a backlog — the same "render whatever the store says
// now" contract the web views had.
func (s *Store) Subscribe() <-chan Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Snapshot, 1)
	s.subs = append(s.subs, ch)
	return ch
}

// SetUser records a logged-in user and persists the record.
// Transition: user set, authenticated, not loading.
func (s *Store) SetUser(ctx context.Context, user *model.User) {
	s.mu.Lock()
	s.user = user
	s.loading = false
	s.persistLocked(ctx)
	s.notifyLocked()
	s.mu.Unlock()
}

// SetLoading flips the loading flag (shown as a spinner/placeholder by
// consumers). It never touches the user or the persisted record.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.notifyLocked()
	s.mu.Unlock()
}

// InitializeFromRedirect is SetUser for the OAuth redirect payload. The
// distinction is kept because the bootstrap invariant is stated in terms
// of it: exactly one of InitializeFromRedirect or CheckAuth should run per
// bootstrap (running both is idempotent, just redundant).
func (s *Store) InitializeFromRedirect(ctx context.Context, user *model.User) {
	s.logger.Info("session initialized from redirect payload",
		slog.String("username", user.Username),
	)
	s.SetUser(ctx, user)
}

// CheckAuth restores the session from durable storage.
//
// It NEVER talks to the network — local storage is trusted as
// authoritative, which means a revoked server session is only discovered
// when an API call comes back 401. That trade-off is inherited from the
// product's design; the login flow's token peek (auth.SessionExpiry) gives
// the user a local staleness warning without breaking this contract.
//
// Storage errors resolve to "logged out", never to a surfaced error.
func (s *Store) CheckAuth(ctx context.Context) {
	user, err := s.repo.LoadUser(ctx)
	if err != nil {
		s.logger.Warn("session restore failed, treating as logged out",
			slog.String("error", err.Error()),
		)
		user = nil
	}

	s.mu.Lock()
	s.user = user
	s.loading = false
	s.notifyLocked()
	s.mu.Unlock()

	if user != nil {
		s.logger.Debug("session restored from storage", slog.String("username", user.Username))
	}
}

// Logout resets the state and wipes the durable record.
//
// LOCAL-ONLY BY DESIGN: no backend logout endpoint is called — the
// backend's contract for it doesn't exist. What we do guarantee is that
// the persisted record is gone, so a fresh process cannot restore this
// session. (The cookie jar is cleared separately by the login flow, which
// closes the "server cookie outlives client logout" hole for this client.)
func (s *Store) Logout(ctx context.Context) {
	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Warn("clearing persisted session failed", slog.String("error", err.Error()))
	}

	s.mu.Lock()
	s.user = nil
	s.loading = false
	s.notifyLocked()
	s.mu.Unlock()

	s.logger.Info("logged out")
}

// persistLocked writes the current user record. Persistence failures are
// logged and swallowed: the in-memory session must keep working even when
// the disk doesn't.
func (s *Store) persistLocked(ctx context.Context) {
	if s.user == nil {
		return
	}
	if err := s.repo.SaveUser(ctx, s.user); err != nil {
		s.logger.Warn("persisting session failed", slog.String("error", err.Error()))
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		User:            s.user,
		IsAuthenticated: s.user != nil,
		IsLoading:       s.loading,
	}
}

// notifyLocked pushes the latest snapshot to every subscriber,
// replacing any undelivered older one.
func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
