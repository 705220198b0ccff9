// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// MessageResponse acknowledges an operation that returns no resource.
type MessageResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	MeetingID   string `json:"meeting_id,omitempty"`
	RecordingID string `json:"recording_id,omitempty"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(ctx, "failed to write response body", logging.ErrKey, err)
	}
}

func writeMessage(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeJSON(ctx, w, status, ErrorResponse{Message: message})
}

// writeError maps err onto an HTTP status and a JSON message.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, message := errorResponse(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", logging.ErrKey, err, "status", status)
	} else {
		slog.WarnContext(ctx, "request rejected", logging.ErrKey, err, "status", status)
	}
	writeMessage(ctx, w, status, message)
}

// errorResponse picks the HTTP status and caller visible message for err.
// Provider client errors keep their status; provider outages become 502. Provider
// messages keep the prefix added by the operation that failed.
func errorResponse(err error) (int, string) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Type {
		case domain.ErrorTypeValidation:
			return http.StatusBadRequest, domainErr.Message
		case domain.ErrorTypeNotFound:
			return http.StatusNotFound, domainErr.Message
		case domain.ErrorTypeConflict:
			return http.StatusConflict, domainErr.Message
		case domain.ErrorTypeUnavailable:
			return http.StatusServiceUnavailable, domainErr.Message
		default:
			return http.StatusInternalServerError, domainErr.Message
		}
	}

	var authErr *domain.AuthenticationError
	if errors.As(err, &authErr) {
		if isClientError(authErr.StatusCode) {
			return http.StatusUnauthorized, "Zoom rejected the service credentials"
		}
		return http.StatusBadGateway, "Zoom authentication is unavailable"
	}

	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) {
		if isClientError(providerErr.StatusCode) {
			return providerErr.StatusCode, err.Error()
		}
		return http.StatusBadGateway, err.Error()
	}

	return http.StatusInternalServerError, "internal server error"
}

func isClientError(status int) bool {
	return status >= 400 && status < 500
}

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return domain.NewValidationError("request body is required")
	}
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewValidationError("request body is required")
		}
		return domain.NewValidationError("invalid request body", err)
	}
	return nil
}

// parseMeetingID parses a Zoom meeting id path parameter.
func parseMeetingID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("meeting id must be a positive number")
	}
	return id, nil
}
