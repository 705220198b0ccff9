// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package zoom

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/infrastructure/zoom/api"
)

// DefaultUserID schedules meetings for the account owner of the token
const DefaultUserID = "me"

// ZoomProvider implements the domain meeting and recording providers on top of the Zoom API client
type ZoomProvider struct {
	client api.ClientAPI
	userID string
	now    func() time.Time
}

// Ensure ZoomProvider implements the domain provider interfaces
var (
	_ domain.MeetingProvider   = (*ZoomProvider)(nil)
	_ domain.RecordingProvider = (*ZoomProvider)(nil)
)

// NewZoomProvider creates a provider acting on behalf of userID
func NewZoomProvider(client api.ClientAPI, userID string) *ZoomProvider {
	if userID == "" {
		userID = DefaultUserID
	}
	return &ZoomProvider{
		client: client,
		userID: userID,
		now:    time.Now,
	}
}

// parseTime parses a Zoom timestamp, returning nil for empty or malformed values
func parseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
