// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
)

// MockMeetingRepository implements domain.MeetingRepository for testing
type MockMeetingRepository struct {
	mock.Mock
}

var _ domain.MeetingRepository = (*MockMeetingRepository)(nil)

func (m *MockMeetingRepository) Create(ctx context.Context, meeting *models.MeetingRecord) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockMeetingRepository) GetByID(ctx context.Context, id string) (*models.MeetingRecord, error) {
	args := m.Called(ctx, id)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.(*models.MeetingRecord), args.Error(1)
}

func (m *MockMeetingRepository) GetByMeetingID(ctx context.Context, meetingID int64) (*models.MeetingRecord, error) {
	args := m.Called(ctx, meetingID)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.(*models.MeetingRecord), args.Error(1)
}

func (m *MockMeetingRepository) GetAll(ctx context.Context) ([]*models.MeetingRecord, error) {
	args := m.Called(ctx)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.([]*models.MeetingRecord), args.Error(1)
}

func (m *MockMeetingRepository) Update(ctx context.Context, meeting *models.MeetingRecord) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockMeetingRepository) UpdateRecordingMode(ctx context.Context, meetingID int64, mode models.RecordingMode) error {
	args := m.Called(ctx, meetingID, mode)
	return args.Error(0)
}

func (m *MockMeetingRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMeetingRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
