// Package api is the gateway to the Gitify backend.
//
// Every screen of the web client repeated the same five lines around
// fetch(): credentials included, JSON headers, check response.ok, check
// result.success, pull result.data or result.error. This package is that
// wrapper made explicit, once: one Client, one envelope decoder, one error
// taxonomy (apperror), and typed methods per endpoint.
//
// "CREDENTIALS: INCLUDE" FOR A NATIVE PROCESS:
// The backend authenticates with a session cookie. The Client's http.Client
// carries a persistent cookie jar (see jar.go), so the cookie set by the
// OAuth callback rides along on every call and survives restarts.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gitify-app/gitify-cli/internal/apperror"
)

// Envelope is the backend's uniform response shape:
// {success: bool, data?: T, error?: string, message?: string, code?: string}.
// Data stays raw here; each endpoint method unmarshals it into its type.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Count   int             `json:"count"` // list endpoints report a count next to data
}

// Client calls the backend.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger

	// verifyTimeout bounds payment verification calls. Overridable in
	// tests; every other call runs on the caller's context alone, same as
	// the web client which only ever set a timeout on verification.
	verifyTimeout time.Duration
}

// New creates a Client for the backend at baseURL (including the /api
// prefix). jar may be nil for unauthenticated use.
func New(baseURL string, jar http.CookieJar, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL %q: %w", baseURL, err)
	}

	return &Client{
		base: base,
		http: &http.Client{
			Jar:       jar,
			Transport: newLoggingTransport(http.DefaultTransport, logger),
		},
		logger:        logger,
		verifyTimeout: 10 * time.Second,
	}, nil
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// get issues a GET and decodes the envelope's data into out (out may be
// nil when the caller only cares about success).
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// post issues a POST with a JSON body and decodes the envelope's data.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// delete issues a DELETE.
func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do runs one request/response cycle against the envelope contract.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	env, _, err := c.roundTrip(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("api: decoding %s %s data: %w", method, path, err)
		}
	}
	return nil
}

// roundTrip sends the request and returns the decoded envelope (already
// checked for success) plus the raw body, for the rare endpoint that puts
// fields at the top level next to `success`. All error mapping lives here:
//
//	context deadline   → apperror.Timeout
//	network failure    → apperror.Transport
//	401                → apperror.Unauthorized
//	other non-2xx      → envelope error if the body has one, else transport
//	success:false      → apperror.Envelope (backend's error/message + code)
func (c *Client) roundTrip(ctx context.Context, method, path string, body any) (*Envelope, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("api: encoding %s %s body: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("api: building %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, apperror.Timeout(method + " " + path)
		}
		return nil, nil, apperror.Transport(method+" "+path, err)
	}
	defer resp.Body.Close()

	return c.decodeEnvelope(method, path, resp)
}

// decodeEnvelope reads the body and applies the envelope contract.
func (c *Client) decodeEnvelope(method, path string, resp *http.Response) (*Envelope, []byte, error) {
	op := method + " " + path

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, nil, apperror.Transport(op, err)
	}

	var env Envelope
	decodable := json.Unmarshal(data, &env) == nil

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, nil, apperror.Unauthorized(envelopeMessage(&env, decodable))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		// Prefer the backend's own words when the body carries them.
		if decodable && (env.Error != "" || env.Message != "") {
			return nil, nil, apperror.Envelope(env.Code, envelopeMessage(&env, true))
		}
		return nil, nil, apperror.TransportStatus(op, resp.StatusCode)
	case !decodable:
		return nil, nil, apperror.Transport(op, fmt.Errorf("undecodable response body"))
	case !env.Success:
		return nil, nil, apperror.Envelope(env.Code, envelopeMessage(&env, true))
	}

	return &env, data, nil
}

// envelopeMessage picks the human-readable field: the backend uses `error`
// on most endpoints and `message` on the payment ones.
func envelopeMessage(env *Envelope, decodable bool) string {
	if !decodable {
		return ""
	}
	if env.Error != "" {
		return env.Error
	}
	return env.Message
}
