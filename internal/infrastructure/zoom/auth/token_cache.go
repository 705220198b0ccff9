// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package auth obtains and caches the Zoom server-to-server OAuth token.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
)

const (
	// TokenURL is the Zoom OAuth token endpoint
	TokenURL = "https://zoom.us/oauth/token"
	// DefaultExpiryMargin is subtracted from the provider-reported lifetime
	DefaultExpiryMargin = 300 * time.Second
	// DefaultTimeout bounds a single token exchange
	DefaultTimeout = 30 * time.Second
	// DefaultTokenLifetime applies when the token response has no expires_in
	DefaultTokenLifetime = time.Hour

	refreshKey = "zoom-token"
)

// Config holds the account credentials used for the token exchange.
type Config struct {
	AccountID    string
	ClientID     string
	ClientSecret string
	// Optional: override token URL for testing
	TokenURL string
	// Optional: override the expiry safety margin
	ExpiryMargin time.Duration
	// Optional: HTTP client used for the exchange
	HTTPClient *http.Client
}

// TokenSource supplies bearer tokens for provider calls.
type TokenSource interface {
	Token(ctx context.Context) (*oauth2.Token, error)
	Invalidate()
}

// TokenCache holds a single process-wide bearer token and refreshes it on expiry.
// Concurrent callers share one in-flight exchange.
type TokenCache struct {
	oauthConfig *clientcredentials.Config
	httpClient  *http.Client
	margin      time.Duration
	now         func() time.Time

	mu    sync.RWMutex
	token *oauth2.Token
	group singleflight.Group
}

var _ TokenSource = (*TokenCache)(nil)

// NewTokenCache creates a token cache for the Zoom account credentials grant.
func NewTokenCache(config Config) *TokenCache {
	if config.TokenURL == "" {
		config.TokenURL = TokenURL
	}
	if config.ExpiryMargin == 0 {
		config.ExpiryMargin = DefaultExpiryMargin
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}

	// Zoom Server-to-Server OAuth uses its own grant type plus the account id,
	// with the client id and secret in a Basic authorization header.
	oauthConfig := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.TokenURL,
		EndpointParams: url.Values{
			"grant_type": []string{"account_credentials"},
			"account_id": []string{config.AccountID},
		},
		AuthStyle: oauth2.AuthStyleInHeader,
	}

	return &TokenCache{
		oauthConfig: oauthConfig,
		httpClient:  config.HTTPClient,
		margin:      config.ExpiryMargin,
		now:         time.Now,
	}
}

// Token returns the cached token, exchanging credentials when it is missing
// or inside the expiry margin.
func (c *TokenCache) Token(ctx context.Context) (*oauth2.Token, error) {
	if token := c.cached(); token != nil {
		return token, nil
	}

	v, err, shared := c.group.Do(refreshKey, func() (any, error) {
		if token := c.cached(); token != nil {
			return token, nil
		}
		// one caller cancelling must not fail the others waiting on this exchange
		return c.exchange(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.DebugContext(ctx, "joined in-flight Zoom token refresh")
	}
	return v.(*oauth2.Token), nil
}

// Invalidate drops the cached token so the next call performs a fresh exchange.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.token = nil
	c.mu.Unlock()
}

func (c *TokenCache) cached() *oauth2.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == nil {
		return nil
	}
	if c.token.Expiry.IsZero() || !c.now().Before(c.token.Expiry.Add(-c.margin)) {
		return nil
	}
	return c.token
}

func (c *TokenCache) exchange(ctx context.Context) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	start := time.Now()
	token, err := c.oauthConfig.Token(ctx)
	if err != nil {
		authErr := toAuthenticationError(err)
		slog.ErrorContext(ctx, "Zoom token exchange failed",
			"status", authErr.StatusCode,
			"duration", time.Since(start).String(),
			logging.ErrKey, err,
		)
		return nil, authErr
	}
	if token.Expiry.IsZero() {
		withExpiry := *token
		withExpiry.Expiry = c.now().Add(DefaultTokenLifetime)
		token = &withExpiry
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	slog.DebugContext(ctx, "obtained Zoom access token",
		"expiry", token.Expiry,
		"duration", time.Since(start).String(),
	)
	return token, nil
}

func toAuthenticationError(err error) *domain.AuthenticationError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		authErr := &domain.AuthenticationError{Body: string(retrieveErr.Body), Err: err}
		if retrieveErr.Response != nil {
			authErr.StatusCode = retrieveErr.Response.StatusCode
		}
		return authErr
	}
	return &domain.AuthenticationError{Err: err}
}
