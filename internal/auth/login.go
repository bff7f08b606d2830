package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/gitify-app/gitify-cli/internal/bootstrap"
	"github.com/gitify-app/gitify-cli/internal/redirect"
)

// loginTimeout caps how long `gitify login` waits for the browser round
// trip before giving up.
const loginTimeout = 5 * time.Minute

// Flow drives one interactive login.
type Flow struct {
	apiURL       string
	callbackPort int
	seq          *bootstrap.Sequencer
	redirects    *redirect.Manager
	logger       *slog.Logger

	// openURL is swapped out in tests; the default launches the system
	// browser.
	openURL func(string) error
}

// NewFlow creates a login flow against the given API base URL.
func NewFlow(apiURL string, callbackPort int, seq *bootstrap.Sequencer, redirects *redirect.Manager, logger *slog.Logger) *Flow {
	return &Flow{
		apiURL:       apiURL,
		callbackPort: callbackPort,
		seq:          seq,
		redirects:    redirects,
		logger:       logger,
		openURL:      openBrowser,
	}
}

// AuthURL is the backend endpoint that starts the GitHub dance. The state
// parameter carries the pending redirect target through GitHub and back.
func (f *Flow) AuthURL() string {
	return strings.TrimSuffix(f.apiURL, "/") + "/auth/github?state=" + f.redirects.OAuthState()
}

// Login runs the whole flow: bind the loopback listener, open the
// browser, wait for the callback, and return the resolution the
// sequencer produced.
//
// LISTEN BEFORE BROWSE:
// The listener is bound before the browser opens. If the port is taken
// the user finds out immediately, not after authorizing on GitHub and
// landing on a connection-refused page.
func (f *Flow) Login(ctx context.Context) (*bootstrap.Resolution, error) {
	addr := fmt.Sprintf("127.0.0.1:%d", f.callbackPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("auth: binding callback listener on %s: %w", addr, err)
	}

	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	cs := newCallbackServer(f.seq, f.logger)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- cs.serve(ctx, ln)
	}()

	authURL := f.AuthURL()
	if err := f.openURL(authURL); err != nil {
		// No browser is not fatal: headless boxes and SSH sessions paste
		// the URL into a browser elsewhere on the same machine.
		f.logger.Warn("could not open browser", "error", err.Error())
		fmt.Printf("Open this URL in your browser to sign in:\n\n  %s\n\n", authURL)
	} else {
		fmt.Println("Waiting for the browser sign-in to finish...")
	}

	select {
	case res := <-cs.results:
		cancel() // stop the callback server, we have what we came for
		<-serveErr
		if res == nil || res.User == nil {
			return nil, fmt.Errorf("auth: login did not produce a signed-in user")
		}
		f.logger.Info("signed in", "username", res.User.Username)
		return res, nil
	case err := <-serveErr:
		if err != nil {
			return nil, err
		}
		return nil, ctx.Err()
	case <-ctx.Done():
		<-serveErr
		return nil, fmt.Errorf("auth: login timed out after %s", loginTimeout)
	}
}

// openBrowser launches the platform's default browser.
func openBrowser(targetURL string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", targetURL).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", targetURL).Start()
	default:
		return exec.Command("xdg-open", targetURL).Start()
	}
}
