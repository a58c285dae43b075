package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// requestFunc performs one classified transport attempt using the session's
// current credentials.
type requestFunc func(ctx context.Context) (Response, error)

// executeLocked runs a request through the retry policy. The transition
// table, written out as a plain conditional:
//
//	attempt #1: transport fault        -> propagate unchanged
//	            any status except 401  -> done (callers interpret the status)
//	            401                    -> refresh, then attempt #2
//	attempt #2: transport fault        -> propagate unchanged
//	            any status except 401  -> done
//	            401                    -> ErrInvalidTokens
//
// The budget is exactly one re-attempt: a second 401 after a fresh refresh
// means the server rejects the refresh token itself, so further retries
// cannot help and would loop. Callers hold s.mu.
func (s *Session) executeLocked(ctx context.Context, fn requestFunc) (Response, error) {
	resp, err := fn(ctx)
	if err != nil {
		return Response{}, err
	}

	if resp.Status != http.StatusUnauthorized {
		return resp, nil
	}

	s.logger.Info("access token rejected, refreshing credentials",
		slog.String("request_id", resp.RequestID),
	)

	if err := s.refreshLocked(ctx); err != nil {
		return Response{}, err
	}

	resp, err = fn(ctx)
	if err != nil {
		return Response{}, err
	}

	if resp.Status == http.StatusUnauthorized {
		s.logger.Error("request rejected again after refresh",
			slog.String("request_id", resp.RequestID),
		)

		return Response{}, ErrInvalidTokens
	}

	return resp, nil
}

// refreshLocked exchanges the stored refresh token for a new pair,
// overwrites the token store, and rebuilds the derived bearer
// configuration. Both steps happen under the session mutex so no reader
// can observe a half-updated state. The new pair is queued for the
// OnTokenChange callback.
func (s *Session) refreshLocked(ctx context.Context) error {
	pair, err := s.auth.Refresh(ctx, s.email, s.tokens.RefreshToken)
	if err != nil {
		return fmt.Errorf("refreshing credentials: %w", err)
	}

	s.tokens = &pair
	s.bearer = "Bearer " + pair.AccessToken
	s.pending = &pair

	s.logger.Info("credentials refreshed")

	return nil
}
