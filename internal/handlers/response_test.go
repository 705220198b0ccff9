// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
)

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "validation",
			err:            domain.NewValidationError("topic is required"),
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "topic is required",
		},
		{
			name:           "not found wrapped",
			err:            fmt.Errorf("lookup: %w", domain.NewNotFoundError("meeting x not found")),
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "meeting x not found",
		},
		{
			name:           "conflict",
			err:            domain.NewConflictError("meeting exists"),
			expectedStatus: http.StatusConflict,
			expectedMsg:    "meeting exists",
		},
		{
			name:           "unavailable",
			err:            domain.NewUnavailableError("not ready"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedMsg:    "not ready",
		},
		{
			name:           "internal",
			err:            domain.NewInternalError("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "boom",
		},
		{
			name:           "rejected credentials",
			err:            &domain.AuthenticationError{StatusCode: http.StatusBadRequest, Body: "invalid_client"},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Zoom rejected the service credentials",
		},
		{
			name:           "token endpoint unreachable",
			err:            &domain.AuthenticationError{Err: errors.New("dial tcp")},
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    "Zoom authentication is unavailable",
		},
		{
			name:           "provider client error keeps status",
			err:            &domain.ProviderError{StatusCode: http.StatusNotFound, Code: 3001, Message: "Meeting does not exist"},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "zoom API error (status 404, code 3001): Meeting does not exist",
		},
		{
			name: "wrapped provider error keeps the operation prefix",
			err: fmt.Errorf("failed to create Zoom meeting: %w",
				&domain.ProviderError{StatusCode: http.StatusTooManyRequests, Code: 429, Message: "Too many requests"}),
			expectedStatus: http.StatusTooManyRequests,
			expectedMsg:    "failed to create Zoom meeting: zoom API error (status 429, code 429): Too many requests",
		},
		{
			name: "wrapped provider outage",
			err: fmt.Errorf("failed to delete recordings: %w",
				&domain.ProviderError{StatusCode: http.StatusInternalServerError, Body: "oops"}),
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    "failed to delete recordings: zoom API error (status 500): oops",
		},
		{
			name:           "provider outage",
			err:            &domain.ProviderError{StatusCode: http.StatusServiceUnavailable, Body: "down"},
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    "zoom API error (status 503): down",
		},
		{
			name:           "unknown",
			err:            errors.New("pq: connection reset"),
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := errorResponse(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedMsg, msg)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Topic string `json:"topic"`
	}

	tests := []struct {
		name        string
		payload     string
		expectError string
	}{
		{name: "valid", payload: `{"topic":"Algebra"}`},
		{name: "empty", payload: ``, expectError: "request body is required"},
		{name: "unknown field", payload: `{"topic":"Algebra","extra":1}`, expectError: "invalid request body"},
		{name: "malformed", payload: `{"topic":`, expectError: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			var v body
			err := decodeJSON(req, &v)
			if tt.expectError == "" {
				require.NoError(t, err)
				assert.Equal(t, "Algebra", v.Topic)
				return
			}
			require.Error(t, err)
			assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestParseMeetingID(t *testing.T) {
	id, err := parseMeetingID("85746065432")
	require.NoError(t, err)
	assert.Equal(t, int64(85746065432), id)

	for _, raw := range []string{"", "abc", "0", "-5"} {
		_, err := parseMeetingID(raw)
		assert.Error(t, err, raw)
	}
}
