package courier

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies provider failures into the small taxonomy the
// orchestration layer acts on.
type ErrorKind string

const (
	// KindAPI is a generic remote failure: bad response, timeout, 5xx.
	KindAPI ErrorKind = "api"
	// KindAuthentication marks 401-class responses. Never retried blindly;
	// signals a credential problem upstream.
	KindAuthentication ErrorKind = "authentication"
	// KindRateLimit marks 429-class responses, the only kind where a
	// caller-level backoff and retry is appropriate.
	KindRateLimit ErrorKind = "rate_limit"
)

// ProviderError is a failure from one provider's remote API. It carries the
// provider code, the HTTP status when known, and the raw response body for
// diagnostics.
type ProviderError struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int
	Message    string
	RawBody    string
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s error: %s: %v", e.Provider, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s %s error: %s", e.Provider, e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Is matches another ProviderError by kind.
func (e *ProviderError) Is(target error) bool {
	t, ok := target.(*ProviderError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewProviderError creates a generic API-kind provider error.
func NewProviderError(provider, message string) *ProviderError {
	return &ProviderError{Provider: provider, Kind: KindAPI, Message: message}
}

// WithCause attaches the underlying error.
func (e *ProviderError) WithCause(err error) *ProviderError {
	e.Cause = err
	return e
}

// WithStatusCode records the HTTP status and reclassifies the kind:
// 401/403 become authentication errors, 429 a rate-limit error.
func (e *ProviderError) WithStatusCode(code int) *ProviderError {
	e.StatusCode = code
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Kind = KindAuthentication
	case http.StatusTooManyRequests:
		e.Kind = KindRateLimit
	}
	return e
}

// WithRawBody keeps the raw provider response for diagnostics.
func (e *ProviderError) WithRawBody(body string) *ProviderError {
	e.RawBody = body
	return e
}

// ErrProviderUnavailable indicates an unknown or uninitialized provider
// code. Caller error, not retryable.
var ErrProviderUnavailable = errors.New("provider unavailable")

// ErrOrderNotFound indicates the order id is not in the store.
var ErrOrderNotFound = errors.New("order not found")

// ErrInvalidTransition indicates the order's lifecycle state does not allow
// the requested operation.
var ErrInvalidTransition = errors.New("invalid order state transition")

// IsRetryable reports whether a caller-level backoff/retry is appropriate.
// Only rate-limit responses qualify.
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind == KindRateLimit
	}
	return false
}

// IsAuthentication reports whether the error is a credential problem.
func IsAuthentication(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == KindAuthentication
}
