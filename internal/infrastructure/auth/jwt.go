// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/pkg/constants"
)

const (
	// PS256 is the default for Heimdall's JWT signing
	PS256 = validator.PS256

	defaultIssuer   = "heimdall"
	defaultAudience = "lfx-v2-zoom-proxy-service"
	defaultJWKSURL  = "http://heimdall:4457/.well-known/jwks"

	jwksCacheTTL   = 5 * time.Minute
	allowedSkew    = 5 * time.Second
	principalClaim = "principal"
)

// HeimdallClaims contains extra custom claims we want to parse from the JWT token.
type HeimdallClaims struct {
	Principal string `json:"principal"`
	Email     string `json:"email,omitempty"`
}

// Validate provides additional middleware validation of any claims defined in HeimdallClaims.
func (c *HeimdallClaims) Validate(ctx context.Context) error {
	if c.Principal == "" {
		return fmt.Errorf("%s must be provided", principalClaim)
	}
	return nil
}

// JWTAuthConfig holds the configuration for JWT authentication
type JWTAuthConfig struct {
	// JWKSURL is the URL to the JSON Web Key Set endpoint
	JWKSURL string
	// Audience is the intended audience for the JWT token
	Audience string
	// Issuer is the expected token issuer
	Issuer string
	// MockLocalPrincipal skips validation and uses this principal. For local development only.
	MockLocalPrincipal string
}

// JWTAuth handles JWT authentication of the HTTP surface
type JWTAuth struct {
	validator *validator.Validator
	config    JWTAuthConfig
}

// NewJWTAuth creates a new JWT authenticator
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	if config.JWKSURL == "" {
		config.JWKSURL = defaultJWKSURL
	}
	if config.Audience == "" {
		config.Audience = defaultAudience
	}
	if config.Issuer == "" {
		config.Issuer = defaultIssuer
	}

	jwksURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWKS URL: %w", err)
	}
	issuerURL, err := url.Parse(config.Issuer)
	if err != nil {
		return nil, fmt.Errorf("invalid issuer: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, jwksCacheTTL, jwks.WithCustomJWKSURI(jwksURL))

	customClaims := func() validator.CustomClaims {
		return &HeimdallClaims{}
	}

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		PS256,
		issuerURL.String(),
		[]string{config.Audience},
		validator.WithCustomClaims(customClaims),
		validator.WithAllowedClockSkew(allowedSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the JWT validator: %w", err)
	}

	return &JWTAuth{
		validator: jwtValidator,
		config:    config,
	}, nil
}

// ParsePrincipal validates the token and returns its principal claim
func (j *JWTAuth) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {
	if j.config.MockLocalPrincipal != "" {
		logger.InfoContext(ctx, "JWT validation is disabled, using mock principal",
			"principal", j.config.MockLocalPrincipal,
		)
		return j.config.MockLocalPrincipal, nil
	}

	if j.validator == nil {
		return "", errors.New("JWT validator is not set up")
	}

	parsedJWT, err := j.validator.ValidateToken(ctx, token)
	if err != nil {
		return "", err
	}

	claims, ok := parsedJWT.(*validator.ValidatedClaims)
	if !ok {
		return "", errors.New("failed to get validated authorization claims")
	}

	customClaims, ok := claims.CustomClaims.(*HeimdallClaims)
	if !ok {
		return "", errors.New("failed to get custom authorization claims")
	}

	return customClaims.Principal, nil
}

// Middleware authenticates requests with a bearer token and stores the
// principal and authorization header in the request context
func (j *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := jwtmiddleware.AuthHeaderTokenExtractor(r)
		if err != nil || (token == "" && j.config.MockLocalPrincipal == "") {
			slog.WarnContext(ctx, "missing or malformed bearer token", logging.ErrKey, err)
			writeUnauthorized(w)
			return
		}

		principal, err := j.ParsePrincipal(ctx, token, slog.Default())
		if err != nil {
			slog.WarnContext(ctx, "rejected bearer token", logging.ErrKey, err)
			writeUnauthorized(w)
			return
		}

		ctx = context.WithValue(ctx, constants.PrincipalContextID, principal)
		ctx = context.WithValue(ctx, constants.AuthorizationContextID, r.Header.Get(constants.AuthorizationHeader))
		ctx = logging.AppendCtx(ctx, slog.String("principal", principal))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "unauthorized"})
}
