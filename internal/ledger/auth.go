package ledger

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

// Token endpoint and grant types. The LedgerFlow token endpoint speaks an
// OAuth2-style form protocol but authenticates with the account email alone,
// base64-encoded in a Basic scheme — no password, no client secret.
const (
	tokenEndpoint = "OAuth20/Token"

	grantExchangeToken = "exchange_token"
	grantRefreshToken  = "refresh_token"
)

// AuthClient exchanges tokens against the LedgerFlow token endpoint. It
// never mutates session state; callers store the returned pair themselves.
type AuthClient struct {
	client *Client
	logger *slog.Logger
}

// NewAuthClient creates an auth client on top of the given transport.
func NewAuthClient(client *Client, logger *slog.Logger) *AuthClient {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthClient{client: client, logger: logger}
}

// Exchange trades a one-time exchange token for an access/refresh pair.
func (a *AuthClient) Exchange(ctx context.Context, email, exchangeToken string) (TokenPair, error) {
	return a.grant(ctx, email, grantExchangeToken, exchangeToken)
}

// Refresh trades a refresh token for a brand-new pair. The previous pair is
// superseded wholesale.
func (a *AuthClient) Refresh(ctx context.Context, email, refreshToken string) (TokenPair, error) {
	return a.grant(ctx, email, grantRefreshToken, refreshToken)
}

// grant posts the form grant to the token endpoint and parses the pair.
// Any non-2xx verdict is final — this path never retries.
func (a *AuthClient) grant(ctx context.Context, email, grantType, code string) (TokenPair, error) {
	form := url.Values{}
	form.Set("grant_type", grantType)
	form.Set("code", code)

	authz := "Basic " + base64.StdEncoding.EncodeToString([]byte(email))

	resp, err := a.client.PostForm(ctx, tokenEndpoint, form, authz)
	if err != nil {
		return TokenPair{}, err
	}

	if resp.Status < http.StatusOK || resp.Status >= http.StatusMultipleChoices {
		return TokenPair{}, &APIError{
			StatusCode: resp.Status,
			RequestID:  resp.RequestID,
			Message:    string(resp.Body),
			Err:        classifyStatus(resp.Status),
		}
	}

	var pair TokenPair
	if err := json.Unmarshal(resp.Body, &pair); err != nil {
		return TokenPair{}, fmt.Errorf("ledger: decoding token response: %w", err)
	}

	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return TokenPair{}, fmt.Errorf("ledger: token response missing access_token or refresh_token")
	}

	// Never log token values.
	a.logger.Info("token grant succeeded", slog.String("grant_type", grantType))

	return pair, nil
}
