package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const (
	userAgent       = "ledgerflow-go/0.1"
	headerRequestID = "X-Request-Id"
)

// Client performs single HTTP attempts against the LedgerFlow API and
// classifies each outcome. It carries no credential state and never retries;
// the session's retry policy decides what happens after a failure.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a transport client for the given API base URL.
// A nil httpClient or logger falls back to the package defaults.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
		httpClient: httpClient,
		logger:     logger,
	}
}

// Get performs one GET attempt for a path relative to the base URL.
// bearer is the full Authorization header value.
func (c *Client) Get(ctx context.Context, path, bearer string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return Response{}, fmt.Errorf("ledger: creating request: %w", err)
	}

	req.Header.Set("Authorization", bearer)

	return c.do(req)
}

// PostForm performs one form-encoded POST attempt. authorization is the full
// Authorization header value (the token endpoint uses a Basic scheme).
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, authorization string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return Response{}, fmt.Errorf("ledger: creating request: %w", err)
	}

	req.Header.Set("Authorization", authorization)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

// do executes exactly one HTTP round trip and classifies the outcome:
// connectivity faults and 5xx responses are errors, everything else is a
// Response for the caller's policy to interpret.
func (c *Client) do(req *http.Request) (Response, error) {
	reqID := uuid.NewString()
	req.Header.Set(headerRequestID, reqID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("ledger: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("ledger: reading response body: %w", err)
	}

	// Prefer the server's echo of the correlation ID.
	serverID := resp.Header.Get(headerRequestID)
	if serverID == "" {
		serverID = reqID
	}

	c.logger.Debug("request completed",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", serverID),
	)

	if resp.StatusCode >= http.StatusInternalServerError {
		return Response{}, &APIError{
			StatusCode: resp.StatusCode,
			RequestID:  serverID,
			Message:    string(body),
			Err:        ErrServerError,
		}
	}

	return Response{Status: resp.StatusCode, Body: body, RequestID: serverID}, nil
}
