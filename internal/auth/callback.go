package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gitify-app/gitify-cli/internal/bootstrap"
)

// callbackServer is the short-lived loopback HTTP server that receives the
// backend's post-OAuth redirect.
//
// WHY A REAL HTTP SERVER?
// The backend finishes the OAuth dance by redirecting the BROWSER to a
// success URL carrying the user payload. A browser can only deliver that
// to us over HTTP, so for the few seconds of a login we become a web
// server on 127.0.0.1 — the same trick gh and gcloud use.
type callbackServer struct {
	seq    *bootstrap.Sequencer
	logger *slog.Logger

	// results receives exactly one resolution; once guards against the
	// browser replaying the callback (refresh, back button).
	results chan *bootstrap.Resolution
	once    sync.Once
}

func newCallbackServer(seq *bootstrap.Sequencer, logger *slog.Logger) *callbackServer {
	return &callbackServer{
		seq:     seq,
		logger:  logger,
		results: make(chan *bootstrap.Resolution, 1),
	}
}

// routes builds the loopback router. Only /success is meaningful; chi's
// NotFound default covers everything else.
func (cs *callbackServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Get("/success", cs.handleSuccess)
	return r
}

// handleSuccess is the native stand-in for the web client's success page:
// it hands the callback URL to the bootstrap sequencer and tells the
// browser the terminal has taken over.
func (cs *callbackServer) handleSuccess(w http.ResponseWriter, r *http.Request) {
	res, err := cs.seq.Resolve(r.Context(), r.URL)
	if err != nil {
		cs.logger.Warn("login callback could not be resolved", "error", err.Error())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, failurePage)
		cs.deliver(res)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, successPage)
	cs.deliver(res)
}

func (cs *callbackServer) deliver(res *bootstrap.Resolution) {
	cs.once.Do(func() {
		cs.results <- res
	})
}

// serve runs the server on ln until ctx is cancelled, then shuts it down
// gracefully. Binding the listener is the caller's job so a port conflict
// surfaces before any browser is opened.
func (cs *callbackServer) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           cs.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("auth: callback server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		cs.logger.Warn("callback server shutdown", "error", err.Error())
	}
	return nil
}

const successPage = `<!doctype html>
<html>
<head><title>Gitify — signed in</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4rem;">
<h1>Signed in</h1>
<p>You can close this tab and return to the terminal.</p>
</body>
</html>
`

const failurePage = `<!doctype html>
<html>
<head><title>Gitify — sign-in failed</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4rem;">
<h1>Sign-in failed</h1>
<p>The login response could not be read. Close this tab and run <code>gitify login</code> again.</p>
</body>
</html>
`
