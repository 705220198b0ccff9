// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/infrastructure/zoom/auth"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
)

// ClientAPI defines the interface for Zoom API operations
// This allows for easy mocking and testing of the Zoom client
type ClientAPI interface {
	CreateMeeting(ctx context.Context, userID string, request *CreateMeetingRequest) (*MeetingResponse, error)
	GetMeeting(ctx context.Context, meetingID int64) (*MeetingResponse, error)
	UpdateMeeting(ctx context.Context, meetingID int64, request *UpdateMeetingRequest) error
	DeleteMeetingOccurrence(ctx context.Context, meetingID int64, occurrenceID string) error

	AddRegistrant(ctx context.Context, meetingID int64, request *AddRegistrantRequest) (*AddRegistrantResponse, error)

	GetMeetingRecordings(ctx context.Context, meetingID string) (*MeetingRecordingsResponse, bool, error)
	ListUserRecordings(ctx context.Context, userID string, query ListRecordingsQuery) (*ListRecordingsResponse, error)
	DownloadRecording(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error)
	DeleteMeetingRecordings(ctx context.Context, meetingID string) error
	DeleteRecordingFile(ctx context.Context, meetingID, recordingID string) error
}

const (
	// BaseURL is the base URL for Zoom API
	BaseURL = "https://api.zoom.us/v2"
	// DefaultClientTimeout is the default HTTP client timeout for Zoom API requests
	DefaultClientTimeout = 30 * time.Second
	// DefaultDownloadTimeout bounds recording downloads, which can be large
	DefaultDownloadTimeout = 30 * time.Minute
)

// Client represents a Zoom API client
type Client struct {
	httpClient     *http.Client
	downloadClient *http.Client
	config         Config
	tokens         auth.TokenSource
}

// Config holds the configuration for the Zoom client
type Config struct {
	// Optional: override base URL for testing
	BaseURL string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: override timeout for recording downloads
	DownloadTimeout time.Duration
	// Optional: base transport, wrapped with tracing
	Transport http.RoundTripper
}

// Ensure that Client implements ClientAPI
var _ ClientAPI = (*Client)(nil)

// NewClient creates a new Zoom API client authenticating with tokens
func NewClient(config Config, tokens auth.TokenSource) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.DownloadTimeout == 0 {
		config.DownloadTimeout = DefaultDownloadTimeout
	}
	base := config.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	transport := otelhttp.NewTransport(base)

	return &Client{
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		downloadClient: &http.Client{
			Timeout:   config.DownloadTimeout,
			Transport: transport,
		},
		config: config,
		tokens: tokens,
	}
}

// doRequest performs an authenticated JSON request against a path under the base URL.
// Non-success responses are returned as *domain.ProviderError.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	jsonBody, err := c.marshalRequestBody(body)
	if err != nil {
		return nil, err
	}

	target := c.config.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := c.createRequest(ctx, method, target, jsonBody)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "making Zoom API request",
		"method", method,
		"path", path,
	)

	return c.send(ctx, c.httpClient, req, path)
}

// send attaches the bearer token, executes the request and converts failures.
func (c *Client) send(ctx context.Context, client *http.Client, req *http.Request, path string) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(req)

	startTime := time.Now()
	resp, err := client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		slog.ErrorContext(ctx, "Zoom API request failed",
			"method", req.Method,
			"path", path,
			"duration", duration.String(),
			logging.ErrKey, err)
		return nil, fmt.Errorf("zoom API request %s %s failed: %w", req.Method, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		providerErr := parseErrorResponse(resp.StatusCode, body)

		if resp.StatusCode == http.StatusUnauthorized {
			// the next call exchanges credentials again; this one is not retried
			c.tokens.Invalidate()
		}

		level := slog.LevelError
		if resp.StatusCode == http.StatusNotFound {
			level = slog.LevelDebug
		}
		slog.Log(ctx, level, "Zoom API error response",
			"method", req.Method,
			"path", path,
			"status", resp.StatusCode,
			"duration", duration.String(),
			"body", string(body),
			logging.ErrKey, providerErr)
		return nil, providerErr
	}

	slog.InfoContext(ctx, "Zoom API request completed",
		"method", req.Method,
		"path", path,
		"status", resp.StatusCode,
		"duration", duration.String(),
	)
	return resp, nil
}

// marshalRequestBody marshals the request body to JSON
func (c *Client) marshalRequestBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return jsonBody, nil
}

// createRequest creates a new HTTP request with the given parameters
func (c *Client) createRequest(ctx context.Context, method, url string, jsonBody []byte) (*http.Request, error) {
	var bodyReader io.Reader
	if jsonBody != nil {
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if jsonBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// decodeResponse decodes a JSON response body into v and closes the body.
func decodeResponse(resp *http.Response, v any, what string) error {
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", what, err)
	}
	return nil
}

// discardResponse drains and closes a response whose body is not needed.
func discardResponse(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// parseErrorResponse builds a provider error, keeping Zoom's code and message when present
func parseErrorResponse(statusCode int, body []byte) *domain.ProviderError {
	providerErr := &domain.ProviderError{StatusCode: statusCode, Body: string(body)}
	var errResp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		providerErr.Code = errResp.Code
		providerErr.Message = errResp.Message
	}
	return providerErr
}
