// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/pkg/constants"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{name: "generates an id", incoming: ""},
		{name: "reuses the caller id", incoming: "req-123", reuse: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = r.Context().Value(constants.RequestIDContextID).(string)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/meetings", nil)
			if tt.incoming != "" {
				req.Header.Set(constants.RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, rec.Header().Get(constants.RequestIDHeader))
			if tt.reuse {
				assert.Equal(t, tt.incoming, seen)
			}
		})
	}
}

func TestRequestLoggerMiddleware_CapturesStatus(t *testing.T) {
	var captured *responseWriter
	handler := RequestLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = w.(*responseWriter)
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/meetings", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, http.StatusTeapot, captured.statusCode)
}

func TestResponseWriter_DefaultsToOK(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())
	_, err := rw.Write([]byte("ok"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rw.statusCode)
}

func TestIsProbePath(t *testing.T) {
	assert.True(t, isProbePath("/livez"))
	assert.True(t, isProbePath("/readyz"))
	assert.True(t, isProbePath("/metrics"))
	assert.False(t, isProbePath("/api/meetings"))
}

func TestMetricsMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware())
	r.Get("/api/meetings/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/meetings/{id}", "204"))

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/meetings/"+id, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/meetings/{id}", "204"))
	assert.Equal(t, float64(3), after-before)
}

func TestMetricsMiddleware_Unmatched(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware())
	r.Get("/known", func(w http.ResponseWriter, r *http.Request) {})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404"))
	assert.Equal(t, float64(1), after-before)
}
