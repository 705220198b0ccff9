// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
)

// MeetingRepository defines the interface for the local meeting mirror.
// Records are soft deleted; every read ignores deleted rows.
type MeetingRepository interface {
	// Create stores a new record, assigning its surrogate id and timestamps.
	Create(ctx context.Context, meeting *models.MeetingRecord) error
	GetByID(ctx context.Context, id string) (*models.MeetingRecord, error)
	GetByMeetingID(ctx context.Context, meetingID int64) (*models.MeetingRecord, error)
	GetAll(ctx context.Context) ([]*models.MeetingRecord, error)
	Update(ctx context.Context, meeting *models.MeetingRecord) error
	// UpdateRecordingMode sets auto_recording for the record mirroring meetingID.
	UpdateRecordingMode(ctx context.Context, meetingID int64, mode models.RecordingMode) error
	SoftDelete(ctx context.Context, id string) error

	// Ping checks connectivity to the backing store.
	Ping(ctx context.Context) error
}
