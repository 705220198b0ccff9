// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
)

// NoopPublisher drops every event. It is used when no NATS URL is configured.
type NoopPublisher struct{}

var _ domain.EventPublisher = NoopPublisher{}

func (NoopPublisher) PublishMeetingCreated(context.Context, *models.MeetingRecord) error {
	return nil
}

func (NoopPublisher) PublishMeetingUpdated(context.Context, *models.MeetingRecord) error {
	return nil
}

func (NoopPublisher) PublishRecordingToggled(context.Context, models.RecordingToggledEvent) error {
	return nil
}

func (NoopPublisher) PublishOccurrenceDeleted(context.Context, models.OccurrenceDeletedEvent) error {
	return nil
}

func (NoopPublisher) PublishMeetingDeleted(context.Context, string) error {
	return nil
}

func (NoopPublisher) PublishRecordingDeleted(context.Context, models.RecordingDeletedEvent) error {
	return nil
}

// IsConnected is always true so readiness does not depend on an absent broker.
func (NoopPublisher) IsConnected() bool {
	return true
}
