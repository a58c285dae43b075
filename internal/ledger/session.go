package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
)

// Session owns one logical API session: the authenticating email, the
// current token pair, the selected folder, and the derived bearer
// configuration. A single mutex makes the refresh-and-rebuild two-step
// atomic from the caller's perspective, so a Session is safe to share
// between goroutines even though the design targets sequential use.
type Session struct {
	auth   *AuthClient
	client *Client
	logger *slog.Logger

	// onTokenChange is invoked outside the mutex after every successful
	// silent refresh, so callers can persist the superseding pair.
	onTokenChange func(TokenPair)

	mu     sync.Mutex
	email  string
	tokens *TokenPair
	folder string
	// bearer is the derived Authorization header value. Invariant: non-empty
	// only while tokens is non-nil. Built lazily, rebuilt on every refresh.
	bearer string
	// pending holds a refreshed pair until notifyTokenChange delivers it.
	pending *TokenPair
}

// NewSession creates an unauthenticated session against the given API base
// URL. Call Authenticate, or seed persisted credentials with WithTokens.
// A nil httpClient or logger falls back to the package defaults.
func NewSession(baseURL string, httpClient *http.Client, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	client := NewClient(baseURL, httpClient, logger)

	return &Session{
		auth:   NewAuthClient(client, logger),
		client: client,
		logger: logger,
	}
}

// WithTokens seeds the session with a previously persisted token pair,
// skipping the exchange-token flow. Returns the session for chaining.
func (s *Session) WithTokens(email string, pair TokenPair) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := pair
	s.email = email
	s.tokens = &p
	s.bearer = ""

	return s
}

// OnTokenChange registers a callback invoked with the new pair after every
// successful silent refresh. Set it before issuing requests; the callback
// runs outside the session mutex and must not call back into the Session.
func (s *Session) OnTokenChange(fn func(TokenPair)) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onTokenChange = fn

	return s
}

// SetFolder selects the folder every data read is scoped to. Folder
// selection is orthogonal to authentication and never inferred.
func (s *Session) SetFolder(name string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.folder = name

	return s
}

// Folder returns the currently selected folder, or "" if none is set.
func (s *Session) Folder() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.folder
}

// SetAccessToken overrides the access token in place, leaving the refresh
// token untouched. Escape hatch for recovery and test scenarios; normal
// token writes happen only through the two exchange operations.
func (s *Session) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refresh := ""
	if s.tokens != nil {
		refresh = s.tokens.RefreshToken
	}

	s.tokens = &TokenPair{AccessToken: token, RefreshToken: refresh}
	s.bearer = ""
}

// IsAuthenticated reports whether a usable credential pair is present.
// Presence of both tokens is the only check; no validation round trip.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isAuthenticatedLocked()
}

func (s *Session) isAuthenticatedLocked() bool {
	return s.tokens != nil && s.tokens.AccessToken != "" && s.tokens.RefreshToken != ""
}

// Authenticate exchanges a one-time exchange token for a token pair and
// stores it along with the email. The pair is returned so the caller can
// persist it for later sessions. Failures propagate unchanged; the token
// path never retries.
func (s *Session) Authenticate(ctx context.Context, email, exchangeToken string) (TokenPair, error) {
	pair, err := s.auth.Exchange(ctx, email, exchangeToken)
	if err != nil {
		return TokenPair{}, err
	}

	s.mu.Lock()
	p := pair
	s.email = email
	s.tokens = &p
	s.bearer = "Bearer " + p.AccessToken
	s.mu.Unlock()

	s.logger.Info("authenticated", slog.String("email", email))

	return pair, nil
}

// All fetches every object in the given object-model namespace for the
// selected folder. A 200 returns the raw JSON payload; any other non-fault
// status yields (nil, nil) — the API reports an empty folder as 404, and
// callers treat that as an absent result rather than an error.
func (s *Session) All(ctx context.Context, namespace string) (json.RawMessage, error) {
	return s.fetch(ctx, func(folder string) string {
		return fmt.Sprintf("app/%s/Folder/%s", url.PathEscape(namespace), url.PathEscape(folder))
	})
}

// Get fetches a single object by code. Same absent-result semantics as All.
func (s *Session) Get(ctx context.Context, objectModel, code string) (json.RawMessage, error) {
	return s.fetch(ctx, func(folder string) string {
		return fmt.Sprintf("app/%s/%s/Folder/%s", url.PathEscape(objectModel), url.PathEscape(code), url.PathEscape(folder))
	})
}

// fetch runs one folder-scoped read through the retry policy, then delivers
// any pending token change outside the mutex.
func (s *Session) fetch(ctx context.Context, buildPath func(folder string) string) (json.RawMessage, error) {
	s.mu.Lock()
	raw, err := s.fetchLocked(ctx, buildPath)
	s.mu.Unlock()

	s.notifyTokenChange()

	return raw, err
}

func (s *Session) fetchLocked(ctx context.Context, buildPath func(folder string) string) (json.RawMessage, error) {
	if err := s.ensureReadyLocked(); err != nil {
		return nil, err
	}

	path := buildPath(s.folder)

	resp, err := s.executeLocked(ctx, func(ctx context.Context) (Response, error) {
		// Read the bearer at attempt time: a refresh between the first and
		// second attempt must be visible to the retry.
		return s.client.Get(ctx, path, s.bearer)
	})
	if err != nil {
		return nil, err
	}

	if resp.Status != http.StatusOK {
		s.logger.Debug("non-200 read treated as absent",
			slog.String("path", path),
			slog.Int("status", resp.Status),
		)

		return nil, nil
	}

	return json.RawMessage(resp.Body), nil
}

// ensureReadyLocked verifies credentials and folder selection, deriving the
// bearer configuration on first use. Both checks run on every call; the
// derivation is idempotent and skipped when already built.
func (s *Session) ensureReadyLocked() error {
	if s.bearer == "" {
		if !s.isAuthenticatedLocked() {
			return ErrUnauthenticated
		}

		s.bearer = "Bearer " + s.tokens.AccessToken
	}

	if s.folder == "" {
		return ErrNoFolder
	}

	return nil
}

// notifyTokenChange delivers a refreshed pair to the registered callback.
// Runs outside the mutex so the callback can do slow work (disk, keyring).
func (s *Session) notifyTokenChange() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	fn := s.onTokenChange
	s.mu.Unlock()

	if pending != nil && fn != nil {
		fn(*pending)
	}
}
