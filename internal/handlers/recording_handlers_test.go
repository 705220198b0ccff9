// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/service"
)

func setupRecordingRouter() (http.Handler, *mocks.MockRecordingProvider, *mocks.MockEventPublisher) {
	provider := &mocks.MockRecordingProvider{}
	publisher := &mocks.MockEventPublisher{}
	handler := NewRecordingHandler(service.NewRecordingService(provider, publisher))

	r := chi.NewRouter()
	r.Route("/api/cloudrecording", handler.Routes)
	return r, provider, publisher
}

func testRecordingSet(statuses ...string) *models.RecordingSet {
	set := &models.RecordingSet{UUID: "abc==", ID: 42, Topic: "Algebra I"}
	for i, status := range statuses {
		set.RecordingFiles = append(set.RecordingFiles, models.RecordingFile{
			ID:       string(rune('a' + i)),
			FileType: "MP4",
			FileSize: 2 * 1024 * 1024,
			Status:   status,
		})
	}
	return set
}

func TestRecordingHandler_HandlerReady(t *testing.T) {
	assert.False(t, NewRecordingHandler(nil).HandlerReady())
	assert.True(t, NewRecordingHandler(service.NewRecordingService(&mocks.MockRecordingProvider{}, &mocks.MockEventPublisher{})).HandlerReady())
}

func TestRecordingHandler_GetAllRecordings(t *testing.T) {
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		query          string
		setupMocks     func(p *mocks.MockRecordingProvider)
		expectedStatus int
	}{
		{
			name:  "explicit range",
			query: "?from=2026-09-01&to=2026-09-30&page_size=50",
			setupMocks: func(p *mocks.MockRecordingProvider) {
				p.On("ListRecordings", mock.Anything, from, to, 50).
					Return(&models.RecordingList{From: "2026-09-01", To: "2026-09-30"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "rfc3339 bounds",
			query: "?from=2026-09-01T00:00:00Z&to=2026-09-30T00:00:00Z",
			setupMocks: func(p *mocks.MockRecordingProvider) {
				p.On("ListRecordings", mock.Anything, from, to, 300).
					Return(&models.RecordingList{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bad date",
			query:          "?from=09/01/2026",
			setupMocks:     func(*mocks.MockRecordingProvider) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad page size",
			query:          "?page_size=lots",
			setupMocks:     func(*mocks.MockRecordingProvider) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "inverted range",
			query:          "?from=2026-09-30&to=2026-09-01",
			setupMocks:     func(*mocks.MockRecordingProvider) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, provider, _ := setupRecordingRouter()
			tt.setupMocks(provider)

			rec := serve(router, http.MethodGet, "/api/cloudrecording"+tt.query, "")

			require.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var list models.RecordingList
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
				assert.NotNil(t, list.Meetings)
			}
			provider.AssertExpectations(t)
		})
	}
}

func TestRecordingHandler_GetMeetingRecordings(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		router, provider, _ := setupRecordingRouter()
		provider.On("GetMeetingRecordings", mock.Anything, "42").Return(testRecordingSet("completed"), true, nil)

		rec := serve(router, http.MethodGet, "/api/cloudrecording/meeting/42", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var set models.RecordingSet
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&set))
		assert.Equal(t, int64(42), set.ID)
	})

	t.Run("still processing", func(t *testing.T) {
		router, provider, _ := setupRecordingRouter()
		provider.On("GetMeetingRecordings", mock.Anything, "42").Return(nil, false, nil)

		rec := serve(router, http.MethodGet, "/api/cloudrecording/meeting/42", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeMessage(t, rec)
		assert.Equal(t, "No recordings found for this meeting", resp.Message)
		assert.Contains(t, resp.Detail, "1-2 hours")
	})

	t.Run("zoom rejects credentials", func(t *testing.T) {
		router, provider, _ := setupRecordingRouter()
		provider.On("GetMeetingRecordings", mock.Anything, "42").
			Return(nil, false, &domain.AuthenticationError{StatusCode: http.StatusUnauthorized, Body: "invalid_client"})

		rec := serve(router, http.MethodGet, "/api/cloudrecording/meeting/42", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRecordingHandler_DownloadRecording(t *testing.T) {
	downloadURL := "https://us02web.zoom.us/rec/download/abc"

	t.Run("streams the file", func(t *testing.T) {
		router, provider, _ := setupRecordingRouter()
		provider.On("DownloadRecording", mock.Anything, downloadURL).
			Return(io.NopCloser(strings.NewReader("video-bytes")), int64(11), nil)

		query := url.Values{"download_url": {downloadURL}, "file_name": {"../lesson one.mp4"}}
		rec := serve(router, http.MethodGet, "/api/cloudrecording/download?"+query.Encode(), "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "video/mp4", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="lesson one.mp4"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "11", rec.Header().Get("Content-Length"))
		assert.Equal(t, "video-bytes", rec.Body.String())
	})

	t.Run("rejects foreign hosts", func(t *testing.T) {
		router, provider, _ := setupRecordingRouter()

		query := url.Values{"download_url": {"https://evil.example.com/rec.mp4"}}
		rec := serve(router, http.MethodGet, "/api/cloudrecording/download?"+query.Encode(), "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		provider.AssertNotCalled(t, "DownloadRecording", mock.Anything, mock.Anything)
	})

	t.Run("requires a url", func(t *testing.T) {
		router, _, _ := setupRecordingRouter()

		rec := serve(router, http.MethodGet, "/api/cloudrecording/download", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRecordingHandler_Delete(t *testing.T) {
	t.Run("all recordings", func(t *testing.T) {
		router, provider, publisher := setupRecordingRouter()
		provider.On("DeleteMeetingRecordings", mock.Anything, "42").Return(nil)
		publisher.On("PublishRecordingDeleted", mock.Anything, models.RecordingDeletedEvent{MeetingID: "42"}).Return(nil)

		rec := serve(router, http.MethodDelete, "/api/cloudrecording/meeting/42", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp MessageResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "All recordings deleted successfully", resp.Message)
		assert.Equal(t, "42", resp.MeetingID)
		publisher.AssertExpectations(t)
	})

	t.Run("one file", func(t *testing.T) {
		router, provider, publisher := setupRecordingRouter()
		provider.On("DeleteRecordingFile", mock.Anything, "42", "file-1").Return(nil)
		publisher.On("PublishRecordingDeleted", mock.Anything, models.RecordingDeletedEvent{MeetingID: "42", RecordingID: "file-1"}).Return(nil)

		rec := serve(router, http.MethodDelete, "/api/cloudrecording/meeting/42/file/file-1", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp MessageResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Recording file deleted successfully", resp.Message)
		assert.Equal(t, "file-1", resp.RecordingID)
	})

	t.Run("zoom not found passes through", func(t *testing.T) {
		router, provider, publisher := setupRecordingRouter()
		provider.On("DeleteMeetingRecordings", mock.Anything, "42").
			Return(&domain.ProviderError{StatusCode: http.StatusNotFound, Code: 3301, Message: "This recording does not exist."})

		rec := serve(router, http.MethodDelete, "/api/cloudrecording/meeting/42", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		publisher.AssertNotCalled(t, "PublishRecordingDeleted", mock.Anything, mock.Anything)
	})
}

func TestRecordingHandler_GetRecordingStatus(t *testing.T) {
	tests := []struct {
		name           string
		set            *models.RecordingSet
		found          bool
		expectedStatus string
		expectedReady  bool
	}{
		{name: "completed", set: testRecordingSet("completed", "completed"), found: true, expectedStatus: "completed", expectedReady: true},
		{name: "processing", set: testRecordingSet("completed", "processing"), found: true, expectedStatus: "processing"},
		{name: "absent", found: false, expectedStatus: "processing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, provider, _ := setupRecordingRouter()
			provider.On("GetMeetingRecordings", mock.Anything, "42").Return(tt.set, tt.found, nil)

			rec := serve(router, http.MethodGet, "/api/cloudrecording/meeting/42/status", "")

			require.Equal(t, http.StatusOK, rec.Code)
			var status models.RecordingStatus
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
			assert.Equal(t, "42", status.MeetingID)
			assert.Equal(t, tt.expectedStatus, status.Status)
			assert.Equal(t, tt.expectedReady, status.IsReady)
		})
	}
}

func TestRecordingHandler_GetRecordingStats(t *testing.T) {
	t.Run("summarises files", func(t *testing.T) {
		router, provider, _ := setupRecordingRouter()
		provider.On("GetMeetingRecordings", mock.Anything, "42").Return(testRecordingSet("completed", "completed"), true, nil)

		rec := serve(router, http.MethodGet, "/api/cloudrecording/meeting/42/stats", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var stats models.RecordingStats
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
		assert.Equal(t, 2, stats.TotalFiles)
		assert.Equal(t, 4.0, stats.TotalSizeMB)
	})

	t.Run("no recordings", func(t *testing.T) {
		router, provider, _ := setupRecordingRouter()
		provider.On("GetMeetingRecordings", mock.Anything, "42").Return(nil, false, nil)

		rec := serve(router, http.MethodGet, "/api/cloudrecording/meeting/42/stats", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
