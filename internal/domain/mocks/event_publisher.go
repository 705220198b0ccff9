// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
)

// MockEventPublisher implements domain.EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

var _ domain.EventPublisher = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) PublishMeetingCreated(ctx context.Context, meeting *models.MeetingRecord) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishMeetingUpdated(ctx context.Context, meeting *models.MeetingRecord) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishRecordingToggled(ctx context.Context, event models.RecordingToggledEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishOccurrenceDeleted(ctx context.Context, event models.OccurrenceDeletedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishMeetingDeleted(ctx context.Context, meetingRecordID string) error {
	args := m.Called(ctx, meetingRecordID)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishRecordingDeleted(ctx context.Context, event models.RecordingDeletedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}
