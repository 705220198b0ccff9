// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
)

// EventPublisher publishes meeting and recording lifecycle events.
type EventPublisher interface {
	PublishMeetingCreated(ctx context.Context, meeting *models.MeetingRecord) error
	PublishMeetingUpdated(ctx context.Context, meeting *models.MeetingRecord) error
	PublishRecordingToggled(ctx context.Context, event models.RecordingToggledEvent) error
	PublishOccurrenceDeleted(ctx context.Context, event models.OccurrenceDeletedEvent) error
	PublishMeetingDeleted(ctx context.Context, meetingRecordID string) error
	PublishRecordingDeleted(ctx context.Context, event models.RecordingDeletedEvent) error
	IsConnected() bool
}
