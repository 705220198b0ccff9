// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"fmt"
)

// ErrorType represents the semantic category of an error
type ErrorType int

const (
	ErrorTypeValidation  ErrorType = iota // Input validation errors (400 Bad Request)
	ErrorTypeNotFound                     // Resource not found errors (404 Not Found)
	ErrorTypeConflict                     // Resource conflict errors (409 Conflict)
	ErrorTypeInternal                     // Internal server errors (500 Internal Server Error)
	ErrorTypeUnavailable                  // Service unavailable errors (503 Service Unavailable)
)

// Sentinel errors used with errors.Is across the service.
var (
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrRecordingNotFound  = errors.New("recording not found")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// DomainError represents an error with semantic type information
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error // underlying error for wrapping
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// AuthenticationError is returned when the provider token exchange fails.
// StatusCode is zero when the token endpoint could not be reached at all.
type AuthenticationError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("provider authentication failed: %v", e.Err)
	}
	return fmt.Sprintf("provider authentication failed (status %d): %s", e.StatusCode, e.Body)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// ProviderError is returned for any non-success response from the provider API.
// Code and Message are filled when the provider body carried its JSON error shape.
type ProviderError struct {
	StatusCode int
	Body       string
	Code       int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("zoom API error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("zoom API error (status %d): %s", e.StatusCode, e.Body)
}

// IsProviderNotFound reports whether err is a provider 404.
func IsProviderNotFound(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr) && providerErr.StatusCode == 404
}

// GetErrorType returns the semantic type of an error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ErrorTypeInternal // default fallback
}

// Error constructors for different types
func NewValidationError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Message: message, Err: errors.Join(err...)}
}

func NewNotFoundError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeNotFound, Message: message, Err: errors.Join(err...)}
}

func NewConflictError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeConflict, Message: message, Err: errors.Join(err...)}
}

func NewInternalError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeInternal, Message: message, Err: errors.Join(err...)}
}

func NewUnavailableError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeUnavailable, Message: message, Err: errors.Join(err...)}
}

// NewInconsistentStateError reports that the provider accepted a change the
// local store then failed to record.
func NewInconsistentStateError(providerMeetingID int64, err error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeInternal,
		Message: fmt.Sprintf("meeting %d was changed at the provider but the local record could not be written", providerMeetingID),
		Err:     err,
	}
}
