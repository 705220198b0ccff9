// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/pkg/constants"
)

// routerDeps are the handlers and settings mounted by newRouter.
type routerDeps struct {
	Meetings       *handlers.MeetingHandler
	Recordings     *handlers.RecordingHandler
	Health         *handlers.HealthHandler
	Authenticate   func(http.Handler) http.Handler
	AllowedOrigins []string
}

// newRouter builds the HTTP surface. Probes and metrics are public; everything
// under /api requires a bearer token.
func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	// RequestIDMiddleware runs first so every later log line carries the id.
	r.Use(
		middleware.RequestIDMiddleware(),
		middleware.RequestLoggerMiddleware(),
		middleware.MetricsMiddleware(),
		cors.Handler(cors.Options{
			AllowedOrigins: deps.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", constants.RequestIDHeader},
			ExposedHeaders: []string{constants.RequestIDHeader, "Content-Disposition"},
			MaxAge:         300,
		}),
	)

	r.Get("/livez", deps.Health.Livez)
	r.Get("/readyz", deps.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(deps.Authenticate)
		r.Route("/meetings", deps.Meetings.Routes)
		r.Route("/cloudrecording", deps.Recordings.Routes)
	})

	return otelhttp.NewHandler(r, constants.ServiceName)
}

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(flags flags, handler http.Handler, gracefulCloseWG *sync.WaitGroup) *http.Server {
	// Set up http listener in a goroutine using provided command line parameters.
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}

// gracefulShutdown stops the HTTP server, then releases the remaining
// resources in reverse order of acquisition.
func gracefulShutdown(httpServer *http.Server, gracefulCloseWG *sync.WaitGroup, closers ...func(context.Context) error) {
	slog.Info("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	go func() {
		if err := httpServer.Shutdown(ctx); err != nil {
			slog.With(logging.ErrKey, err).Error("http shutdown error")
		}
		gracefulCloseWG.Done()
	}()
	gracefulCloseWG.Wait()

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil {
			slog.With(logging.ErrKey, err).Error("shutdown error")
		}
	}

	slog.Info("graceful shutdown complete")
}
