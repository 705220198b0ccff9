// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/infrastructure/auth"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/infrastructure/store"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/infrastructure/zoom"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/infrastructure/zoom/api"
	zoomauth "github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/infrastructure/zoom/auth"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/pkg/constants"
)

const natsDrainTimeout = 10 * time.Second

// setupJWTAuth configures JWT authentication for the service
func setupJWTAuth(env environment) (*auth.JWTAuth, error) {
	jwtAuthConfig := auth.JWTAuthConfig{
		JWKSURL:            env.JWT.JWKSURL,
		Audience:           env.JWT.Audience,
		Issuer:             env.JWT.Issuer,
		MockLocalPrincipal: env.JWT.MockLocalPrincipal,
	}
	return auth.NewJWTAuth(jwtAuthConfig)
}

// setupDatabase applies the schema migrations and opens the connection pool.
func setupDatabase(ctx context.Context, env environment) (*pgxpool.Pool, error) {
	if err := store.Migrate(env.DatabaseURL); err != nil {
		return nil, err
	}
	return store.Connect(ctx, store.Config{
		URL:      env.DatabaseURL,
		MaxConns: env.DBMaxConns,
	})
}

// setupZoom builds the provider on top of the shared token cache.
func setupZoom(env environment) *zoom.ZoomProvider {
	tokens := zoomauth.NewTokenCache(zoomauth.Config{
		AccountID:    env.Zoom.AccountID,
		ClientID:     env.Zoom.ClientID,
		ClientSecret: env.Zoom.ClientSecret,
		TokenURL:     env.Zoom.AuthURL,
	})
	client := api.NewClient(api.Config{BaseURL: env.Zoom.APIBaseURL}, tokens)
	return zoom.NewZoomProvider(client, env.Zoom.UserID)
}

// setupNATS connects to NATS when NATS_URL is set. Without it, events are
// dropped by a no-op publisher and conn is nil.
func setupNATS(ctx context.Context, env environment) (domain.EventPublisher, *nats.Conn, error) {
	if env.NatsURL == "" {
		slog.WarnContext(ctx, "NATS_URL is not set, lifecycle events will not be published")
		return messaging.NoopPublisher{}, nil, nil
	}

	conn, err := nats.Connect(
		env.NatsURL,
		nats.Name(constants.ServiceName),
		nats.DrainTimeout(natsDrainTimeout),
		nats.MaxReconnects(-1),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject).Error("async NATS error")
				return
			}
			slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.With(logging.ErrKey, err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.InfoContext(ctx, "connected to NATS", "url", conn.ConnectedUrl())
	return messaging.NewMessageBuilder(conn), conn, nil
}
