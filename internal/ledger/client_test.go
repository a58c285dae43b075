package ledger

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ReturnsClassifiedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get(headerRequestID))

		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, http.DefaultClient, slog.Default())

	resp, err := c.Get(context.Background(), "app/Sale/Folder/acme", "Bearer tok")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, `{"ok":true}`, string(resp.Body))
	assert.NotEmpty(t, resp.RequestID)
}

func TestGet_NonAuthStatusesPassThrough(t *testing.T) {
	// Everything below 500 is a classified outcome, not an error — the
	// session's policy decides what a 401 or 404 means.
	for _, status := range []int{
		http.StatusNoContent,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
	} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, http.DefaultClient, slog.Default())

			resp, err := c.Get(context.Background(), "x", "Bearer tok")
			require.NoError(t, err)
			assert.Equal(t, status, resp.Status)
		})
	}
}

func TestGet_ServerErrorIsFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerRequestID, "srv-req-1")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream down`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, http.DefaultClient, slog.Default())

	_, err := c.Get(context.Background(), "x", "Bearer tok")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServerError)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "srv-req-1", apiErr.RequestID)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestGet_NetworkFault(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", http.DefaultClient, slog.Default())

	_, err := c.Get(context.Background(), "x", "Bearer tok")
	require.Error(t, err)
}

func TestPostForm_EncodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "Basic abc", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, http.DefaultClient, slog.Default())

	form := url.Values{}
	form.Set("grant_type", "refresh_token")

	resp, err := c.PostForm(context.Background(), "OAuth20/Token", form, "Basic abc")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
}

func TestNewClient_BaseURLJoining(t *testing.T) {
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// Trailing slash on the base URL must not double up.
	c := NewClient(srv.URL+"/", http.DefaultClient, slog.Default())

	_, err := c.Get(context.Background(), "app/Sale/Folder/acme", "Bearer tok")
	require.NoError(t, err)
	assert.Equal(t, "/app/Sale/Folder/acme", gotPath)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("http://localhost", nil, nil)
	assert.NotNil(t, c.httpClient)
	assert.NotNil(t, c.logger)
}

func TestAPIError_ErrorsIsAndUnwrap(t *testing.T) {
	apiErr := &APIError{
		StatusCode: http.StatusNotFound,
		RequestID:  "abc-123",
		Message:    "no such object",
		Err:        ErrNotFound,
	}

	assert.ErrorIs(t, apiErr, ErrNotFound)
	assert.False(t, errors.Is(apiErr, ErrServerError))
	assert.Equal(t, ErrNotFound, errors.Unwrap(apiErr))
}

func TestAPIError_ErrorString(t *testing.T) {
	t.Run("with request ID", func(t *testing.T) {
		apiErr := &APIError{StatusCode: 404, RequestID: "req-1", Message: "gone", Err: ErrNotFound}
		assert.Contains(t, apiErr.Error(), "404")
		assert.Contains(t, apiErr.Error(), "req-1")
	})

	t.Run("without request ID", func(t *testing.T) {
		apiErr := &APIError{StatusCode: 404, Message: "gone", Err: ErrNotFound}
		assert.Contains(t, apiErr.Error(), "404")
		assert.NotContains(t, apiErr.Error(), "request-id")
	})
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		code     int
		expected error
	}{
		{http.StatusOK, nil},
		{http.StatusCreated, nil},
		{http.StatusNoContent, nil},
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusInternalServerError, ErrServerError},
		{http.StatusBadGateway, ErrServerError},
		{http.StatusServiceUnavailable, ErrServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyStatus(tt.code))
		})
	}
}
