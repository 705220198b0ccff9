// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/pkg/constants"
)

// DefaultDownloadHost is the host suffix download URLs must carry. The bearer
// token is attached to downloads, so it must never reach another host.
const DefaultDownloadHost = "zoom.us"

// Readiness statuses and messages reported by GetRecordingStatus.
const (
	recordingStatusCompleted  = "completed"
	recordingStatusProcessing = "processing"
	recordingStatusError      = "error"

	recordingReadyMessage      = "Recording is ready for download"
	recordingProcessingMessage = "Recording is still being processed. Please check back in 1-2 hours."
	recordingErrorMessage      = "Unable to check recording status. Recording may not exist."
)

var contentTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4a":  "audio/mp4",
	".txt":  "text/plain",
	".vtt":  "text/vtt",
	".json": "application/json",
}

// RecordingService reads and deletes cloud recordings. Recordings are not
// mirrored locally; every read goes to the provider.
type RecordingService struct {
	Provider     domain.RecordingProvider
	Publisher    domain.EventPublisher
	DownloadHost string
	now          func() time.Time
}

// NewRecordingService creates a new RecordingService.
func NewRecordingService(provider domain.RecordingProvider, publisher domain.EventPublisher) *RecordingService {
	return &RecordingService{
		Provider:     provider,
		Publisher:    publisher,
		DownloadHost: DefaultDownloadHost,
		now:          time.Now,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *RecordingService) ServiceReady() bool {
	return s.Provider != nil && s.Publisher != nil
}

func (s *RecordingService) ready(ctx context.Context) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "recording service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("recording service is not ready", domain.ErrServiceUnavailable)
	}
	return nil
}

func requireMeetingID(meetingID string) error {
	if strings.TrimSpace(meetingID) == "" {
		return domain.NewValidationError("meeting id is required")
	}
	return nil
}

// GetMeetingRecordings returns the recordings of a meeting. found is false
// while Zoom has no recordings for it, which is not an error.
func (s *RecordingService) GetMeetingRecordings(ctx context.Context, meetingID string) (*models.RecordingSet, bool, error) {
	if err := s.ready(ctx); err != nil {
		return nil, false, err
	}
	if err := requireMeetingID(meetingID); err != nil {
		return nil, false, err
	}
	return s.Provider.GetMeetingRecordings(ctx, meetingID)
}

// GetAllRecordings lists account recordings between from and to. The range
// defaults to the last 30 days and the page size is capped.
func (s *RecordingService) GetAllRecordings(ctx context.Context, from, to *time.Time, pageSize int) (*models.RecordingList, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	end := now
	if to != nil {
		end = to.UTC()
	}
	start := end.AddDate(0, 0, -constants.DefaultRecordingWindowDays)
	if from != nil {
		start = from.UTC()
	}
	if start.After(end) {
		return nil, domain.NewValidationError("from must not be after to")
	}
	if pageSize <= 0 || pageSize > constants.DefaultRecordingPageSize {
		pageSize = constants.DefaultRecordingPageSize
	}

	list, err := s.Provider.ListRecordings(ctx, start, end, pageSize)
	if err != nil {
		return nil, err
	}
	if list.Meetings == nil {
		list.Meetings = []models.RecordingSet{}
	}

	slog.DebugContext(ctx, "listed recordings",
		"from", list.From,
		"to", list.To,
		"total_records", list.TotalRecords,
	)
	return list, nil
}

// DownloadRecording streams a recording file from Zoom. The caller closes the body.
func (s *RecordingService) DownloadRecording(ctx context.Context, downloadURL, fileName string) (*models.RecordingDownload, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(downloadURL) == "" {
		return nil, domain.NewValidationError("download url is required")
	}
	if err := s.validateDownloadURL(downloadURL); err != nil {
		slog.WarnContext(ctx, "rejected recording download url", logging.ErrKey, err)
		return nil, err
	}

	if strings.TrimSpace(fileName) == "" {
		fileName = constants.DefaultRecordingFileName
	}
	fileName = path.Base(fileName)

	body, size, err := s.Provider.DownloadRecording(ctx, downloadURL)
	if err != nil {
		return nil, err
	}

	return &models.RecordingDownload{
		Body:          body,
		FileName:      fileName,
		ContentType:   ContentTypeFor(fileName),
		ContentLength: size,
	}, nil
}

func (s *RecordingService) validateDownloadURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return domain.NewValidationError("download url is not a valid url", err)
	}
	if u.Scheme != "https" {
		return domain.NewValidationError("download url must use https")
	}

	host := strings.ToLower(u.Hostname())
	allowed := strings.ToLower(s.DownloadHost)
	if host != allowed && !strings.HasSuffix(host, "."+allowed) {
		return domain.NewValidationError(fmt.Sprintf("download url host must be %s", allowed))
	}
	return nil
}

// ContentTypeFor returns the content type served for a recording file name.
func ContentTypeFor(fileName string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(fileName))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// DeleteAllRecordings deletes every cloud recording of a meeting.
func (s *RecordingService) DeleteAllRecordings(ctx context.Context, meetingID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := requireMeetingID(meetingID); err != nil {
		return err
	}

	if err := s.Provider.DeleteMeetingRecordings(ctx, meetingID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "deleted meeting recordings", "meeting_id", meetingID)
	publishEvent(ctx, models.RecordingDeletedSubject, func() error {
		return s.Publisher.PublishRecordingDeleted(ctx, models.RecordingDeletedEvent{MeetingID: meetingID})
	})
	return nil
}

// DeleteRecordingFile deletes one recording file of a meeting.
func (s *RecordingService) DeleteRecordingFile(ctx context.Context, meetingID, recordingID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := requireMeetingID(meetingID); err != nil {
		return err
	}
	if strings.TrimSpace(recordingID) == "" {
		return domain.NewValidationError("recording id is required")
	}

	if err := s.Provider.DeleteRecordingFile(ctx, meetingID, recordingID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "deleted recording file", "meeting_id", meetingID, "recording_id", recordingID)
	publishEvent(ctx, models.RecordingDeletedSubject, func() error {
		return s.Publisher.PublishRecordingDeleted(ctx, models.RecordingDeletedEvent{
			MeetingID:   meetingID,
			RecordingID: recordingID,
		})
	})
	return nil
}

// IsRecordingReady reports whether a meeting has recordings and Zoom finished
// processing all of them. Lookup failures count as not ready.
func (s *RecordingService) IsRecordingReady(ctx context.Context, meetingID string) bool {
	ready, err := s.recordingReady(ctx, meetingID)
	if err != nil {
		slog.WarnContext(ctx, "could not check recording readiness", logging.ErrKey, err, "meeting_id", meetingID)
		return false
	}
	return ready
}

func (s *RecordingService) recordingReady(ctx context.Context, meetingID string) (bool, error) {
	set, found, err := s.GetMeetingRecordings(ctx, meetingID)
	if err != nil {
		return false, err
	}
	return found && set.AllCompleted(), nil
}

// GetRecordingStatus is the polling view of IsRecordingReady.
func (s *RecordingService) GetRecordingStatus(ctx context.Context, meetingID string) *models.RecordingStatus {
	status := &models.RecordingStatus{MeetingID: meetingID}

	ready, err := s.recordingReady(ctx, meetingID)
	switch {
	case err != nil:
		slog.WarnContext(ctx, "could not check recording status", logging.ErrKey, err, "meeting_id", meetingID)
		status.Status = recordingStatusError
		status.Message = recordingErrorMessage
	case ready:
		status.IsReady = true
		status.Status = recordingStatusCompleted
		status.Message = recordingReadyMessage
	default:
		status.Status = recordingStatusProcessing
		status.Message = recordingProcessingMessage
	}
	return status
}

// GetRecordingStats summarises a meeting's recording files by file type.
func (s *RecordingService) GetRecordingStats(ctx context.Context, meetingID string) (*models.RecordingStats, error) {
	set, found, err := s.GetMeetingRecordings(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if !found || set == nil {
		return nil, domain.NewNotFoundError("no recordings found for this meeting", domain.ErrRecordingNotFound)
	}
	return recordingStats(meetingID, set), nil
}

func recordingStats(meetingID string, set *models.RecordingSet) *models.RecordingStats {
	byType := make(map[string]*models.FileTypeStats)
	var totalSize int64
	sizeByType := make(map[string]int64)

	for _, f := range set.RecordingFiles {
		totalSize += f.FileSize
		sizeByType[f.FileType] += f.FileSize

		group, ok := byType[f.FileType]
		if !ok {
			group = &models.FileTypeStats{FileType: f.FileType}
			byType[f.FileType] = group
		}
		group.Count++
	}

	fileTypes := make([]models.FileTypeStats, 0, len(byType))
	for fileType, group := range byType {
		group.TotalSizeMB = models.BytesToMB(sizeByType[fileType])
		fileTypes = append(fileTypes, *group)
	}
	sort.Slice(fileTypes, func(i, j int) bool {
		return fileTypes[i].FileType < fileTypes[j].FileType
	})

	status := models.RecordingStatsProcessing
	if set.AllCompleted() {
		status = models.RecordingStatsCompleted
	}

	return &models.RecordingStats{
		MeetingID:   meetingID,
		Topic:       set.Topic,
		TotalFiles:  len(set.RecordingFiles),
		TotalSizeMB: models.BytesToMB(totalSize),
		FileTypes:   fileTypes,
		Status:      status,
	}
}
