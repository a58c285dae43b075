// Package ledger provides an authenticated HTTP client for the LedgerFlow
// accounting API: token-pair credentials, folder-scoped reads, and a
// refresh-and-retry-once recovery policy for expired access tokens.
package ledger

import (
	"errors"
	"fmt"
	"net/http"
)

// Credential and session state errors.
var (
	// ErrUnauthenticated means the session holds no token pair. Supply
	// credentials by calling Authenticate with an exchange token, or seed
	// the session with a previously persisted pair via WithTokens.
	ErrUnauthenticated = errors.New("ledger: not authenticated (call Authenticate with an exchange token or seed saved tokens with WithTokens)")

	// ErrNoFolder means a data operation ran before a folder was selected.
	ErrNoFolder = errors.New("ledger: no folder selected")

	// ErrInvalidTokens means a request made with a freshly refreshed access
	// token was still rejected. Both tokens are dead; the caller must run
	// the exchange-token authentication flow again.
	ErrInvalidTokens = errors.New("ledger: access and refresh tokens rejected (re-authentication required)")
)

// Sentinel errors for HTTP status code classification.
// Use errors.Is(err, ledger.ErrServerError) to check.
var (
	ErrBadRequest   = errors.New("ledger: bad request")
	ErrUnauthorized = errors.New("ledger: unauthorized")
	ErrForbidden    = errors.New("ledger: forbidden")
	ErrNotFound     = errors.New("ledger: not found")
	ErrServerError  = errors.New("ledger: server error")
)

// APIError wraps a sentinel error with the HTTP status code, the request
// correlation ID, and the API error body for debugging.
type APIError struct {
	StatusCode int
	RequestID  string
	Message    string
	Err        error // sentinel, for errors.Is()
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("ledger: HTTP %d (request-id: %s): %s", e.StatusCode, e.RequestID, e.Message)
	}

	return fmt.Sprintf("ledger: HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status code to a sentinel error.
// Returns nil for 2xx success codes.
func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return nil
	}
}
