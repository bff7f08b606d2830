package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"
)

// loggingTransport wraps an http.RoundTripper to log every call to the
// backend with method, path, status, and timing — the client side of the
// request log the backend keeps.
//
// It also stamps an X-Request-ID (xid: sortable, unguessable enough for
// correlation) on each outgoing request, so a client log line can be
// matched against the backend's request log when debugging a user report.
type loggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

func newLoggingTransport(next http.RoundTripper, logger *slog.Logger) *loggingTransport {
	return &loggingTransport{next: next, logger: logger}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request; stamp a clone.
	requestID := xid.New().String()
	req = req.Clone(req.Context())
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		t.logger.Warn("api call failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("requestID", requestID),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	t.logger.Debug("api call",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.String("requestID", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", elapsed),
	)
	return resp, nil
}
