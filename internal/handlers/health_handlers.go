// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/pkg/concurrent"
)

const readinessTimeout = 3 * time.Second

// HealthCheck is one named readiness dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler serves the Kubernetes probes.
type HealthHandler struct {
	checks []HealthCheck
	pool   *concurrent.WorkerPool
}

func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		pool:   concurrent.NewWorkerPool(len(checks)),
	}
}

// Livez always answers while the process runs.
func (h *HealthHandler) Livez(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

// Readyz runs every check concurrently and fails if any of them does.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	jobs := make([]func(context.Context) error, 0, len(h.checks))
	for _, c := range h.checks {
		jobs = append(jobs, c.Check)
	}

	errs := h.pool.RunAll(ctx, jobs...)

	failed := make(map[string]string)
	for i, err := range errs {
		if err == nil {
			continue
		}
		slog.WarnContext(ctx, "readiness check failed", "check", h.checks[i].Name, logging.ErrKey, err)
		failed[h.checks[i].Name] = err.Error()
	}

	if len(failed) > 0 {
		writeJSON(ctx, w, http.StatusServiceUnavailable, map[string]any{
			"message": "service unavailable",
			"checks":  failed,
		})
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}
