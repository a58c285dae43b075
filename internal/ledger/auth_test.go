package ledger

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthClient(url string) *AuthClient {
	return NewAuthClient(NewClient(url, http.DefaultClient, slog.Default()), slog.Default())
}

func TestExchange_SendsGrantAndBasicHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/OAuth20/Token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		// The Basic header carries the base64 of the email, not a password.
		authz := r.Header.Get("Authorization")
		require.True(t, len(authz) > len("Basic "))

		decoded, err := base64.StdEncoding.DecodeString(authz[len("Basic "):])
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", string(decoded))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "exchange_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "EXCH123", r.PostForm.Get("code"))

		_, _ = w.Write([]byte(`{"access_token":"A1","refresh_token":"R1"}`))
	}))
	defer srv.Close()

	pair, err := newTestAuthClient(srv.URL).Exchange(context.Background(), "user@example.com", "EXCH123")
	require.NoError(t, err)
	assert.Equal(t, TokenPair{AccessToken: "A1", RefreshToken: "R1"}, pair)
}

func TestRefresh_SendsRefreshGrant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "R1", r.PostForm.Get("code"))

		_, _ = w.Write([]byte(`{"access_token":"A2","refresh_token":"R2"}`))
	}))
	defer srv.Close()

	pair, err := newTestAuthClient(srv.URL).Refresh(context.Background(), "user@example.com", "R1")
	require.NoError(t, err)
	assert.Equal(t, TokenPair{AccessToken: "A2", RefreshToken: "R2"}, pair)
}

func TestGrant_NonSuccessStatusIsFinal(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"bad request", http.StatusBadRequest, ErrBadRequest},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer srv.Close()

			_, err := newTestAuthClient(srv.URL).Exchange(context.Background(), "user@example.com", "EXCH123")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)

			// The token path never retries.
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestGrant_MalformedResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := newTestAuthClient(srv.URL).Exchange(context.Background(), "user@example.com", "EXCH123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding token response")
}

func TestGrant_MissingTokenFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing refresh", `{"access_token":"A1"}`},
		{"missing access", `{"refresh_token":"R1"}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestAuthClient(srv.URL).Exchange(context.Background(), "user@example.com", "EXCH123")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "missing access_token or refresh_token")
		})
	}
}

func TestGrant_NetworkFault(t *testing.T) {
	_, err := newTestAuthClient("http://127.0.0.1:1").Exchange(context.Background(), "user@example.com", "EXCH123")
	require.Error(t, err)
}
