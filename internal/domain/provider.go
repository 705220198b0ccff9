// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"io"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
)

// MeetingProvider is the external conferencing platform's meeting API.
type MeetingProvider interface {
	// CreateMeeting schedules a single meeting and returns the provider's view of it.
	CreateMeeting(ctx context.Context, input *models.CreateMeetingInput) (*models.ProviderMeeting, error)

	// CreateRecurringMeeting schedules a recurring meeting.
	CreateRecurringMeeting(ctx context.Context, input *models.RecurringMeetingInput) (*models.ProviderMeeting, error)

	GetMeeting(ctx context.Context, meetingID int64) (*models.ProviderMeeting, error)

	// UpdateMeeting patches the fields set in input.
	UpdateMeeting(ctx context.Context, meetingID int64, input *models.UpdateMeetingInput) error

	// SetRecordingMode requests a recording mode and returns the mode the provider
	// actually applied, which may differ from the request.
	SetRecordingMode(ctx context.Context, meetingID int64, mode models.RecordingMode) (models.RecordingMode, error)

	DeleteOccurrence(ctx context.Context, meetingID int64, occurrenceID string) error

	RegisterInvitee(ctx context.Context, meetingID int64, invitee models.Invitee) (*models.Registrant, error)
}

// RecordingProvider is the external conferencing platform's cloud recording API.
type RecordingProvider interface {
	// GetMeetingRecordings returns found=false when the provider has no recordings
	// for the meeting yet.
	GetMeetingRecordings(ctx context.Context, meetingID string) (set *models.RecordingSet, found bool, err error)

	ListRecordings(ctx context.Context, from, to time.Time, pageSize int) (*models.RecordingList, error)

	// DownloadRecording streams the file behind downloadURL. The caller closes the reader.
	DownloadRecording(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error)

	DeleteMeetingRecordings(ctx context.Context, meetingID string) error
	DeleteRecordingFile(ctx context.Context, meetingID, recordingID string) error
}
