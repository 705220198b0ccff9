// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
)

var recordingNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func newTestRecordingService() (*RecordingService, *mocks.MockRecordingProvider, *mocks.MockEventPublisher) {
	provider := &mocks.MockRecordingProvider{}
	publisher := &mocks.MockEventPublisher{}
	service := NewRecordingService(provider, publisher)
	service.now = func() time.Time { return recordingNow }
	return service, provider, publisher
}

func recordingSet(statuses ...string) *models.RecordingSet {
	set := &models.RecordingSet{UUID: "abc==", ID: 42, Topic: "Algebra I"}
	for i, status := range statuses {
		set.RecordingFiles = append(set.RecordingFiles, models.RecordingFile{
			ID:       string(rune('a' + i)),
			FileType: "MP4",
			FileSize: 1024 * 1024,
			Status:   status,
		})
	}
	return set
}

func TestRecordingService_GetMeetingRecordings(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		service, provider, _ := newTestRecordingService()
		provider.On("GetMeetingRecordings", mock.Anything, "42").Return(recordingSet("completed"), true, nil)

		set, found, err := service.GetMeetingRecordings(ctx, "42")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, int64(42), set.ID)
	})

	t.Run("absent is not an error", func(t *testing.T) {
		service, provider, _ := newTestRecordingService()
		provider.On("GetMeetingRecordings", mock.Anything, "42").Return(nil, false, nil)

		set, found, err := service.GetMeetingRecordings(ctx, "42")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, set)
	})

	t.Run("empty meeting id", func(t *testing.T) {
		service, _, _ := newTestRecordingService()
		_, _, err := service.GetMeetingRecordings(ctx, "")
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})
}

func TestRecordingService_GetAllRecordings(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the last 30 days and the maximum page size", func(t *testing.T) {
		service, provider, _ := newTestRecordingService()
		from := recordingNow.AddDate(0, 0, -30)
		provider.On("ListRecordings", mock.Anything, from, recordingNow, 300).Return(&models.RecordingList{
			From: "2026-09-17", To: "2026-10-17", PageSize: 300,
		}, nil)

		list, err := service.GetAllRecordings(ctx, nil, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, "2026-09-17", list.From)
		assert.NotNil(t, list.Meetings)
		assert.Empty(t, list.Meetings)
		provider.AssertExpectations(t)
	})

	t.Run("explicit range and capped page size", func(t *testing.T) {
		service, provider, _ := newTestRecordingService()
		from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		provider.On("ListRecordings", mock.Anything, from, to, 300).Return(&models.RecordingList{
			Meetings: []models.RecordingSet{*recordingSet("completed")},
		}, nil)

		list, err := service.GetAllRecordings(ctx, &from, &to, 1000)
		require.NoError(t, err)
		assert.Len(t, list.Meetings, 1)
	})

	t.Run("from after to", func(t *testing.T) {
		service, _, _ := newTestRecordingService()
		from := recordingNow
		to := recordingNow.AddDate(0, 0, -1)

		_, err := service.GetAllRecordings(ctx, &from, &to, 10)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})
}

func TestRecordingService_DownloadRecording(t *testing.T) {
	ctx := context.Background()
	const downloadURL = "https://us06web.zoom.us/rec/download/abc"

	t.Run("streams with content type from the file name", func(t *testing.T) {
		service, provider, _ := newTestRecordingService()
		body := io.NopCloser(strings.NewReader("WEBVTT"))
		provider.On("DownloadRecording", mock.Anything, downloadURL).Return(body, int64(6), nil)

		download, err := service.DownloadRecording(ctx, downloadURL, "captions.VTT")
		require.NoError(t, err)
		defer download.Body.Close()

		assert.Equal(t, "captions.VTT", download.FileName)
		assert.Equal(t, "text/vtt", download.ContentType)
		assert.Equal(t, int64(6), download.ContentLength)
	})

	t.Run("file name defaults to recording.mp4", func(t *testing.T) {
		service, provider, _ := newTestRecordingService()
		provider.On("DownloadRecording", mock.Anything, downloadURL).Return(io.NopCloser(strings.NewReader("")), int64(-1), nil)

		download, err := service.DownloadRecording(ctx, downloadURL, "")
		require.NoError(t, err)
		assert.Equal(t, "recording.mp4", download.FileName)
		assert.Equal(t, "video/mp4", download.ContentType)
	})

	t.Run("path components are stripped from the file name", func(t *testing.T) {
		service, provider, _ := newTestRecordingService()
		provider.On("DownloadRecording", mock.Anything, downloadURL).Return(io.NopCloser(strings.NewReader("")), int64(0), nil)

		download, err := service.DownloadRecording(ctx, downloadURL, "../../etc/audio.m4a")
		require.NoError(t, err)
		assert.Equal(t, "audio.m4a", download.FileName)
		assert.Equal(t, "audio/mp4", download.ContentType)
	})

	rejected := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"plain http", "http://zoom.us/rec/download/abc"},
		{"foreign host", "https://evil.example.com/rec"},
		{"suffix trick", "https://notzoom.us/rec"},
	}
	for _, tt := range rejected {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			service, provider, _ := newTestRecordingService()
			_, err := service.DownloadRecording(ctx, tt.url, "")
			assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
			provider.AssertNotCalled(t, "DownloadRecording", mock.Anything, mock.Anything)
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := map[string]string{
		"a.mp4":        "video/mp4",
		"a.m4a":        "audio/mp4",
		"a.txt":        "text/plain",
		"a.vtt":        "text/vtt",
		"a.json":       "application/json",
		"a.zip":        "application/octet-stream",
		"no-extension": "application/octet-stream",
	}
	for name, want := range tests {
		assert.Equal(t, want, ContentTypeFor(name), name)
	}
}

func TestRecordingService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("delete all publishes", func(t *testing.T) {
		service, provider, publisher := newTestRecordingService()
		provider.On("DeleteMeetingRecordings", mock.Anything, "42").Return(nil)
		publisher.On("PublishRecordingDeleted", mock.Anything, models.RecordingDeletedEvent{MeetingID: "42"}).Return(nil)

		require.NoError(t, service.DeleteAllRecordings(ctx, "42"))
		provider.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("delete one file publishes", func(t *testing.T) {
		service, provider, publisher := newTestRecordingService()
		provider.On("DeleteRecordingFile", mock.Anything, "42", "file-1").Return(nil)
		publisher.On("PublishRecordingDeleted", mock.Anything, models.RecordingDeletedEvent{MeetingID: "42", RecordingID: "file-1"}).Return(nil)

		require.NoError(t, service.DeleteRecordingFile(ctx, "42", "file-1"))
		publisher.AssertExpectations(t)
	})

	t.Run("provider failure propagates without an event", func(t *testing.T) {
		service, provider, publisher := newTestRecordingService()
		provider.On("DeleteMeetingRecordings", mock.Anything, "42").Return(&domain.ProviderError{StatusCode: 404})

		err := service.DeleteAllRecordings(ctx, "42")
		assert.True(t, domain.IsProviderNotFound(err))
		publisher.AssertNotCalled(t, "PublishRecordingDeleted", mock.Anything, mock.Anything)
	})

	t.Run("empty recording id", func(t *testing.T) {
		service, _, _ := newTestRecordingService()
		err := service.DeleteRecordingFile(ctx, "42", "")
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})
}

func TestRecordingService_IsRecordingReady(t *testing.T) {
	tests := []struct {
		name    string
		set     *models.RecordingSet
		found   bool
		err     error
		ready   bool
		status  string
		message string
	}{
		{"all completed", recordingSet("completed", "completed"), true, nil, true, "completed", recordingReadyMessage},
		{"one still processing", recordingSet("completed", "processing"), true, nil, false, "processing", recordingProcessingMessage},
		{"no files", recordingSet(), true, nil, false, "processing", recordingProcessingMessage},
		{"not found", nil, false, nil, false, "processing", recordingProcessingMessage},
		{"provider error", nil, false, errors.New("boom"), false, "error", recordingErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, provider, _ := newTestRecordingService()
			if tt.set == nil {
				provider.On("GetMeetingRecordings", mock.Anything, "42").Return(nil, tt.found, tt.err)
			} else {
				provider.On("GetMeetingRecordings", mock.Anything, "42").Return(tt.set, tt.found, tt.err)
			}

			assert.Equal(t, tt.ready, service.IsRecordingReady(context.Background(), "42"))

			status := service.GetRecordingStatus(context.Background(), "42")
			assert.Equal(t, "42", status.MeetingID)
			assert.Equal(t, tt.ready, status.IsReady)
			assert.Equal(t, tt.status, status.Status)
			assert.Equal(t, tt.message, status.Message)
		})
	}
}

func TestRecordingService_GetRecordingStats(t *testing.T) {
	ctx := context.Background()

	t.Run("groups files by type", func(t *testing.T) {
		service, provider, _ := newTestRecordingService()
		set := &models.RecordingSet{
			Topic: "Algebra I",
			RecordingFiles: []models.RecordingFile{
				{FileType: "MP4", FileSize: 3 * 1024 * 1024, Status: "completed"},
				{FileType: "M4A", FileSize: 512 * 1024, Status: "completed"},
				{FileType: "MP4", FileSize: 1024 * 1024, Status: "processing"},
			},
		}
		provider.On("GetMeetingRecordings", mock.Anything, "42").Return(set, true, nil)

		stats, err := service.GetRecordingStats(ctx, "42")
		require.NoError(t, err)

		assert.Equal(t, "42", stats.MeetingID)
		assert.Equal(t, "Algebra I", stats.Topic)
		assert.Equal(t, 3, stats.TotalFiles)
		assert.InDelta(t, 4.5, stats.TotalSizeMB, 0.001)
		assert.Equal(t, models.RecordingStatsProcessing, stats.Status)
		require.Len(t, stats.FileTypes, 2)
		assert.Equal(t, models.FileTypeStats{FileType: "M4A", Count: 1, TotalSizeMB: 0.5}, stats.FileTypes[0])
		assert.Equal(t, models.FileTypeStats{FileType: "MP4", Count: 2, TotalSizeMB: 4}, stats.FileTypes[1])
	})

	t.Run("completed", func(t *testing.T) {
		service, provider, _ := newTestRecordingService()
		provider.On("GetMeetingRecordings", mock.Anything, "42").Return(recordingSet("completed"), true, nil)

		stats, err := service.GetRecordingStats(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, models.RecordingStatsCompleted, stats.Status)
	})

	t.Run("not found", func(t *testing.T) {
		service, provider, _ := newTestRecordingService()
		provider.On("GetMeetingRecordings", mock.Anything, "42").Return(nil, false, nil)

		_, err := service.GetRecordingStats(ctx, "42")
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	})
}
