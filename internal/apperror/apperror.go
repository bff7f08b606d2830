// Package apperror defines the client-side error taxonomy.
//
// Every failure a command can see falls into one of a handful of buckets,
// and the CLI decides what to tell the user purely from the bucket:
//
//   - ErrTransport   → network unreachable / non-2xx status. Transient;
//     show the message and offer to retry.
//   - ErrEnvelope    → the backend answered {success:false, error:"..."}.
//     Recoverable and user-actionable (plan limit hit, bad input, ...).
//   - ErrUnauthorized → 401 from the backend. The cached session is stale;
//     the fix is `gitify login`, not a retry.
//   - ErrTimeout     → the payment-verification deadline fired. Kept
//     distinct from ErrTransport so the user sees "server slow" rather
//     than "server broken".
//   - ErrMalformedPayload → the OAuth redirect carried a `user` parameter
//     that isn't valid JSON. Terminal for that bootstrap attempt.
//
// errors.Is() works through the whole chain because AppError implements
// Unwrap(), so callers can wrap freely with fmt.Errorf("...: %w", err).
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrTransport        = errors.New("transport error")
	ErrEnvelope         = errors.New("request rejected")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTimeout          = errors.New("timed out")
	ErrMalformedPayload = errors.New("malformed payload")
)

// AppError carries the sentinel, a human-readable message, and — for
// envelope failures — the backend's machine-readable code
// (e.g. "PLAN_LIMIT_EXCEEDED").
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // human-readable description, shown to the user
	Code    string // optional: backend error code from the envelope
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Transport wraps a lower-level HTTP/network failure.
func Transport(op string, err error) *AppError {
	return &AppError{
		Err:     ErrTransport,
		Message: fmt.Sprintf("%s: %v", op, err),
	}
}

// TransportStatus reports a non-2xx HTTP status with no usable envelope.
func TransportStatus(op string, status int) *AppError {
	return &AppError{
		Err:     ErrTransport,
		Message: fmt.Sprintf("%s: unexpected status %d", op, status),
	}
}

// Envelope reports a {success:false} response. message is the backend's
// `error` (or `message`) field, code its optional `code`.
func Envelope(code, message string) *AppError {
	if message == "" {
		message = "request failed"
	}
	return &AppError{
		Err:     ErrEnvelope,
		Message: message,
		Code:    code,
	}
}

// Unauthorized reports a 401 — the server no longer accepts our session.
func Unauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required — run `gitify login`"
	}
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Timeout reports a blown wall-clock deadline (payment verification).
func Timeout(op string) *AppError {
	return &AppError{
		Err:     ErrTimeout,
		Message: fmt.Sprintf("%s: the server did not answer in time — please try again", op),
	}
}

// MalformedPayload reports an OAuth redirect `user` parameter that could
// not be decoded.
func MalformedPayload(err error) *AppError {
	return &AppError{
		Err:     ErrMalformedPayload,
		Message: fmt.Sprintf("could not decode the login payload: %v", err),
	}
}

// Code extracts the backend error code from an error chain, or "".
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
