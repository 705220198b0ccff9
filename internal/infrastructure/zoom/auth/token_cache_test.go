// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
)

// newTokenServer returns a token endpoint that issues tok-1, tok-2, ... with the given lifetime.
func newTokenServer(t *testing.T, expiresIn int, delay time.Duration) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		if delay > 0 {
			time.Sleep(delay)
		}

		assert.Equal(t, http.MethodPost, r.Method)
		clientID, secret, ok := r.BasicAuth()
		assert.True(t, ok, "expected basic auth")
		assert.Equal(t, "client-id", clientID)
		assert.Equal(t, "client-secret", secret)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "account_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "account-1", r.Form.Get("account_id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"access_token":"tok-%d","token_type":"bearer","expires_in":%d}`, n, expiresIn)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func newTestCache(url string) *TokenCache {
	return NewTokenCache(Config{
		AccountID:    "account-1",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		TokenURL:     url,
	})
}

func TestNewTokenCache_Defaults(t *testing.T) {
	cache := NewTokenCache(Config{AccountID: "acc", ClientID: "id", ClientSecret: "secret"})

	assert.Equal(t, TokenURL, cache.oauthConfig.TokenURL)
	assert.Equal(t, DefaultExpiryMargin, cache.margin)
	assert.Equal(t, "account_credentials", cache.oauthConfig.EndpointParams.Get("grant_type"))
	assert.Equal(t, "acc", cache.oauthConfig.EndpointParams.Get("account_id"))
	assert.NotNil(t, cache.httpClient)
}

func TestTokenCache_ReusesValidToken(t *testing.T) {
	server, hits := newTokenServer(t, 3600, 0)
	cache := newTestCache(server.URL)

	first, err := cache.Token(context.Background())
	require.NoError(t, err)
	second, err := cache.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "tok-1", first.AccessToken)
	assert.Equal(t, "tok-1", second.AccessToken)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestTokenCache_RefreshesInsideExpiryMargin(t *testing.T) {
	// a 200s lifetime is already inside the 300s margin, so every call refreshes
	server, hits := newTokenServer(t, 200, 0)
	cache := newTestCache(server.URL)

	first, err := cache.Token(context.Background())
	require.NoError(t, err)
	second, err := cache.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "tok-1", first.AccessToken)
	assert.Equal(t, "tok-2", second.AccessToken)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestTokenCache_RefreshesAfterClockPassesMargin(t *testing.T) {
	server, hits := newTokenServer(t, 3600, 0)
	cache := newTestCache(server.URL)

	_, err := cache.Token(context.Background())
	require.NoError(t, err)

	cache.now = func() time.Time { return time.Now().Add(3600*time.Second - DefaultExpiryMargin + time.Second) }
	token, err := cache.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "tok-2", token.AccessToken)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestTokenCache_MissingExpiresInGetsDefaultLifetime(t *testing.T) {
	server, hits := newTokenServer(t, 0, 0)
	cache := newTestCache(server.URL)
	issued := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return issued }

	first, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, issued.Add(DefaultTokenLifetime), first.Expiry)

	second, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", second.AccessToken)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	cache.now = func() time.Time { return issued.Add(DefaultTokenLifetime - DefaultExpiryMargin) }
	third, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", third.AccessToken)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestTokenCache_ZeroExpiryIsNotReused(t *testing.T) {
	server, hits := newTokenServer(t, 3600, 0)
	cache := newTestCache(server.URL)
	cache.token = &oauth2.Token{AccessToken: "stale"}

	token, err := cache.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "tok-1", token.AccessToken)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestTokenCache_ConcurrentCallersShareOneRefresh(t *testing.T) {
	server, hits := newTokenServer(t, 3600, 50*time.Millisecond)
	cache := newTestCache(server.URL)

	const callers = 20
	var wg sync.WaitGroup
	tokens := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := cache.Token(context.Background())
			if assert.NoError(t, err) {
				tokens[i] = token.AccessToken
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	for _, token := range tokens {
		assert.Equal(t, "tok-1", token)
	}
}

func TestTokenCache_Invalidate(t *testing.T) {
	server, hits := newTokenServer(t, 3600, 0)
	cache := newTestCache(server.URL)

	_, err := cache.Token(context.Background())
	require.NoError(t, err)
	cache.Invalidate()
	token, err := cache.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "tok-2", token.AccessToken)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestTokenCache_FailureReturnsAuthenticationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"reason":"Invalid client_id or client_secret","error":"invalid_client"}`))
	}))
	defer server.Close()

	cache := newTestCache(server.URL)
	token, err := cache.Token(context.Background())

	assert.Nil(t, token)
	var authErr *domain.AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Contains(t, authErr.Body, "Invalid client_id")
}

func TestTokenCache_UnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	cache := newTestCache(url)
	_, err := cache.Token(context.Background())

	var authErr *domain.AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.Zero(t, authErr.StatusCode)
}
