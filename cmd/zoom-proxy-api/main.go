// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the Zoom proxy API: it schedules Zoom meetings, mirrors them
// in Postgres and exposes the account's cloud recordings over REST.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/infrastructure/store"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/pkg/utils"
)

func main() {
	env, err := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	if err != nil {
		slog.With(logging.ErrKey, err).Error("invalid configuration")
		os.Exit(1)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up OpenTelemetry")
		os.Exit(1)
	}

	jwtAuth, err := setupJWTAuth(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up JWT authentication")
		os.Exit(1)
	}

	pool, err := setupDatabase(ctx, env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up database")
		os.Exit(1)
	}

	publisher, natsConn, err := setupNATS(ctx, env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		pool.Close()
		os.Exit(1)
	}

	provider := setupZoom(env)

	meetingService := service.NewMeetingService(store.NewPostgresMeetingRepository(pool), provider, publisher)
	recordingService := service.NewRecordingService(provider, publisher)

	checks := []handlers.HealthCheck{
		{Name: "database", Check: meetingService.CheckDatabase},
		{Name: "events", Check: func(context.Context) error {
			if !publisher.IsConnected() {
				return errors.New("event publisher is not connected")
			}
			return nil
		}},
	}

	router := newRouter(routerDeps{
		Meetings:       handlers.NewMeetingHandler(meetingService),
		Recordings:     handlers.NewRecordingHandler(recordingService),
		Health:         handlers.NewHealthHandler(checks...),
		Authenticate:   jwtAuth.Middleware,
		AllowedOrigins: env.CORSAllowedOrigins,
	})

	httpServer := setupHTTPServer(flags, router, &gracefulCloseWG)

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done
	cancel()

	closers := []func(context.Context) error{
		otelShutdown,
		func(context.Context) error {
			pool.Close()
			return nil
		},
	}
	if natsConn != nil {
		closers = append(closers, func(context.Context) error {
			return natsConn.Drain()
		})
	}

	gracefulShutdown(httpServer, &gracefulCloseWG, closers...)
}
