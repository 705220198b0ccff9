// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
)

// MockMeetingProvider implements domain.MeetingProvider for testing
type MockMeetingProvider struct {
	mock.Mock
}

var _ domain.MeetingProvider = (*MockMeetingProvider)(nil)

func (m *MockMeetingProvider) CreateMeeting(ctx context.Context, input *models.CreateMeetingInput) (*models.ProviderMeeting, error) {
	args := m.Called(ctx, input)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.(*models.ProviderMeeting), args.Error(1)
}

func (m *MockMeetingProvider) CreateRecurringMeeting(ctx context.Context, input *models.RecurringMeetingInput) (*models.ProviderMeeting, error) {
	args := m.Called(ctx, input)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.(*models.ProviderMeeting), args.Error(1)
}

func (m *MockMeetingProvider) GetMeeting(ctx context.Context, meetingID int64) (*models.ProviderMeeting, error) {
	args := m.Called(ctx, meetingID)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.(*models.ProviderMeeting), args.Error(1)
}

func (m *MockMeetingProvider) UpdateMeeting(ctx context.Context, meetingID int64, input *models.UpdateMeetingInput) error {
	args := m.Called(ctx, meetingID, input)
	return args.Error(0)
}

func (m *MockMeetingProvider) SetRecordingMode(ctx context.Context, meetingID int64, mode models.RecordingMode) (models.RecordingMode, error) {
	args := m.Called(ctx, meetingID, mode)
	return args.Get(0).(models.RecordingMode), args.Error(1)
}

func (m *MockMeetingProvider) DeleteOccurrence(ctx context.Context, meetingID int64, occurrenceID string) error {
	args := m.Called(ctx, meetingID, occurrenceID)
	return args.Error(0)
}

func (m *MockMeetingProvider) RegisterInvitee(ctx context.Context, meetingID int64, invitee models.Invitee) (*models.Registrant, error) {
	args := m.Called(ctx, meetingID, invitee)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.(*models.Registrant), args.Error(1)
}

// MockRecordingProvider implements domain.RecordingProvider for testing
type MockRecordingProvider struct {
	mock.Mock
}

var _ domain.RecordingProvider = (*MockRecordingProvider)(nil)

func (m *MockRecordingProvider) GetMeetingRecordings(ctx context.Context, meetingID string) (*models.RecordingSet, bool, error) {
	args := m.Called(ctx, meetingID)
	result := args.Get(0)
	if result == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return result.(*models.RecordingSet), args.Bool(1), args.Error(2)
}

func (m *MockRecordingProvider) ListRecordings(ctx context.Context, from, to time.Time, pageSize int) (*models.RecordingList, error) {
	args := m.Called(ctx, from, to, pageSize)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.(*models.RecordingList), args.Error(1)
}

func (m *MockRecordingProvider) DownloadRecording(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error) {
	args := m.Called(ctx, downloadURL)
	result := args.Get(0)
	if result == nil {
		return nil, 0, args.Error(2)
	}
	return result.(io.ReadCloser), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecordingProvider) DeleteMeetingRecordings(ctx context.Context, meetingID string) error {
	args := m.Called(ctx, meetingID)
	return args.Error(0)
}

func (m *MockRecordingProvider) DeleteRecordingFile(ctx context.Context, meetingID, recordingID string) error {
	args := m.Called(ctx, meetingID, recordingID)
	return args.Error(0)
}
