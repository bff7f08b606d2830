// Package cli wires every layer together and exposes the command tree.
//
// COMPOSITION ROOT:
// All dependencies are assembled in one place (NewApp) rather than
// scattered across commands:
//
//	config → sqlite.DB → cookie jar ┐
//	                 └→ session.Store ├→ bootstrap.Sequencer → auth.Flow
//	       redirect.Manager ─────────┘
//	cookie jar → api.Client
//
// Each command receives the App and pulls only what it needs.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/gitify-app/gitify-cli/internal/api"
	"github.com/gitify-app/gitify-cli/internal/auth"
	"github.com/gitify-app/gitify-cli/internal/bootstrap"
	"github.com/gitify-app/gitify-cli/internal/config"
	"github.com/gitify-app/gitify-cli/internal/redirect"
	sqliteRepo "github.com/gitify-app/gitify-cli/internal/repository/sqlite"
	"github.com/gitify-app/gitify-cli/internal/session"
)

// nowFunc is swapped out in tests.
var nowFunc = time.Now

// App owns the wired dependency graph for one CLI invocation.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Jar       *api.Jar
	Sessions  *session.Store
	Redirects *redirect.Manager
	Sequencer *bootstrap.Sequencer
	API       *api.Client
	Flow      *auth.Flow

	db *sqliteRepo.DB

	// bootOnce guards the bootstrap sequencer: the web client ran it once
	// per layout and raced; here it runs at most once per process no
	// matter how commands compose.
	bootOnce sync.Once
	bootRes  *bootstrap.Resolution
}

// NewApp assembles the full dependency graph.
func NewApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("cli: creating data dir: %w", err)
	}

	db, err := sqliteRepo.New(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("cli: opening database: %w", err)
	}

	jar, err := api.NewJar(ctx, db, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cli: loading cookie jar: %w", err)
	}

	client, err := api.New(cfg.APIURL, jar, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cli: building API client: %w", err)
	}

	sessions := session.New(db, logger)
	redirects := redirect.NewManager()
	sequencer := bootstrap.New(sessions, redirects, logger)
	flow := auth.NewFlow(cfg.APIURL, cfg.CallbackPort, sequencer, redirects, logger)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Jar:       jar,
		Sessions:  sessions,
		Redirects: redirects,
		Sequencer: sequencer,
		API:       client,
		Flow:      flow,
		db:        db,
	}, nil
}

// Close releases the database connection.
func (a *App) Close() error {
	return a.db.Close()
}

// Bootstrap resolves the session exactly once per process, as if the app
// had been mounted on the given path.
func (a *App) Bootstrap(ctx context.Context, path string) *bootstrap.Resolution {
	a.bootOnce.Do(func() {
		res, err := a.Sequencer.Resolve(ctx, &url.URL{Path: path})
		if err != nil {
			a.Logger.Warn("bootstrap resolved with error", "error", err.Error())
		}
		a.bootRes = res
	})
	return a.bootRes
}

// RequireAuth bootstraps and then insists on a signed-in session.
//
// On failure it remembers the path the user was trying to reach, so the
// next `gitify login` carries it through the OAuth state and the success
// message points back here.
func (a *App) RequireAuth(ctx context.Context, path string) error {
	a.Bootstrap(ctx, path)

	snap := a.Sessions.Snapshot()
	if snap.IsAuthenticated {
		a.warnIfExpired()
		return nil
	}

	a.Redirects.SetRedirectPath(path)
	return fmt.Errorf("not signed in — run `gitify login` first")
}

// warnIfExpired peeks at the backend session cookie and warns when it has
// already lapsed. The API call itself would fail with 401 anyway; the
// warning just names the fix up front.
func (a *App) warnIfExpired() {
	expiry, err := auth.SessionExpiry(a.Jar, a.Config.APIURL)
	if err != nil {
		return
	}
	if expiry.Before(nowFunc()) {
		a.Logger.Warn("session token has expired; API calls will likely fail",
			"expired_at", expiry.Format("2006-01-02 15:04:05"),
		)
	}
}
