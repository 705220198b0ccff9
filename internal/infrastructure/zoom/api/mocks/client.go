// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/infrastructure/zoom/api"
)

// MockClient is a mock implementation of the Zoom API client
type MockClient struct {
	mock.Mock
}

// Ensure MockClient implements ClientAPI interface
var _ api.ClientAPI = (*MockClient)(nil)

func (m *MockClient) CreateMeeting(ctx context.Context, userID string, request *api.CreateMeetingRequest) (*api.MeetingResponse, error) {
	args := m.Called(ctx, userID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.MeetingResponse), args.Error(1)
}

func (m *MockClient) GetMeeting(ctx context.Context, meetingID int64) (*api.MeetingResponse, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.MeetingResponse), args.Error(1)
}

func (m *MockClient) UpdateMeeting(ctx context.Context, meetingID int64, request *api.UpdateMeetingRequest) error {
	args := m.Called(ctx, meetingID, request)
	return args.Error(0)
}

func (m *MockClient) DeleteMeetingOccurrence(ctx context.Context, meetingID int64, occurrenceID string) error {
	args := m.Called(ctx, meetingID, occurrenceID)
	return args.Error(0)
}

func (m *MockClient) AddRegistrant(ctx context.Context, meetingID int64, request *api.AddRegistrantRequest) (*api.AddRegistrantResponse, error) {
	args := m.Called(ctx, meetingID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.AddRegistrantResponse), args.Error(1)
}

func (m *MockClient) GetMeetingRecordings(ctx context.Context, meetingID string) (*api.MeetingRecordingsResponse, bool, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*api.MeetingRecordingsResponse), args.Bool(1), args.Error(2)
}

func (m *MockClient) ListUserRecordings(ctx context.Context, userID string, query api.ListRecordingsQuery) (*api.ListRecordingsResponse, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ListRecordingsResponse), args.Error(1)
}

func (m *MockClient) DownloadRecording(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error) {
	args := m.Called(ctx, downloadURL)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(int64), args.Error(2)
}

func (m *MockClient) DeleteMeetingRecordings(ctx context.Context, meetingID string) error {
	args := m.Called(ctx, meetingID)
	return args.Error(0)
}

func (m *MockClient) DeleteRecordingFile(ctx context.Context, meetingID, recordingID string) error {
	args := m.Called(ctx, meetingID, recordingID)
	return args.Error(0)
}
