// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package zoom

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/infrastructure/zoom/api"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
)

// GetMeetingRecordings fetches the cloud recordings of a meeting.
// found is false when Zoom has nothing for the meeting yet.
func (p *ZoomProvider) GetMeetingRecordings(ctx context.Context, meetingID string) (*models.RecordingSet, bool, error) {
	resp, found, err := p.client.GetMeetingRecordings(ctx, meetingID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get recordings of meeting %s: %w", meetingID, err)
	}
	if !found {
		slog.DebugContext(ctx, "no Zoom recordings for meeting yet", "meeting_id", meetingID)
		return nil, false, nil
	}
	return toRecordingSet(resp), true, nil
}

// ListRecordings lists the account's cloud recordings between from and to
func (p *ZoomProvider) ListRecordings(ctx context.Context, from, to time.Time, pageSize int) (*models.RecordingList, error) {
	query := api.ListRecordingsQuery{
		From:     from.UTC().Format(api.DateFormat),
		To:       to.UTC().Format(api.DateFormat),
		PageSize: pageSize,
	}
	resp, err := p.client.ListUserRecordings(ctx, p.userID, query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list Zoom recordings", logging.ErrKey, err)
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}

	list := &models.RecordingList{
		From:          resp.From,
		To:            resp.To,
		PageCount:     resp.PageCount,
		PageSize:      resp.PageSize,
		TotalRecords:  resp.TotalRecords,
		NextPageToken: resp.NextPageToken,
		Meetings:      make([]models.RecordingSet, 0, len(resp.Meetings)),
	}
	if list.From == "" {
		list.From = query.From
	}
	if list.To == "" {
		list.To = query.To
	}
	if list.PageSize == 0 {
		list.PageSize = pageSize
	}
	for i := range resp.Meetings {
		list.Meetings = append(list.Meetings, *toRecordingSet(&resp.Meetings[i]))
	}
	return list, nil
}

// DownloadRecording streams a recording file from Zoom
func (p *ZoomProvider) DownloadRecording(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error) {
	body, size, err := p.client.DownloadRecording(ctx, downloadURL)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to download recording: %w", err)
	}
	return body, size, nil
}

// DeleteMeetingRecordings deletes every cloud recording of a meeting
func (p *ZoomProvider) DeleteMeetingRecordings(ctx context.Context, meetingID string) error {
	if err := p.client.DeleteMeetingRecordings(ctx, meetingID); err != nil {
		return fmt.Errorf("failed to delete recordings of meeting %s: %w", meetingID, err)
	}
	slog.InfoContext(ctx, "deleted Zoom meeting recordings", "meeting_id", meetingID)
	return nil
}

// DeleteRecordingFile deletes one recording file
func (p *ZoomProvider) DeleteRecordingFile(ctx context.Context, meetingID, recordingID string) error {
	if err := p.client.DeleteRecordingFile(ctx, meetingID, recordingID); err != nil {
		return fmt.Errorf("failed to delete recording %s of meeting %s: %w", recordingID, meetingID, err)
	}
	slog.InfoContext(ctx, "deleted Zoom recording file",
		"meeting_id", meetingID,
		"recording_id", recordingID,
	)
	return nil
}

func toRecordingSet(resp *api.MeetingRecordingsResponse) *models.RecordingSet {
	set := &models.RecordingSet{
		UUID:           resp.UUID,
		ID:             resp.ID,
		AccountID:      resp.AccountID,
		HostID:         resp.HostID,
		Topic:          resp.Topic,
		StartTime:      parseTime(resp.StartTime),
		Duration:       resp.Duration,
		TotalSize:      resp.TotalSize,
		TotalSizeMB:    models.BytesToMB(resp.TotalSize),
		RecordingCount: resp.RecordingCount,
		ShareURL:       resp.ShareURL,
		RecordingFiles: make([]models.RecordingFile, 0, len(resp.RecordingFiles)),
	}
	for _, f := range resp.RecordingFiles {
		set.RecordingFiles = append(set.RecordingFiles, models.RecordingFile{
			ID:             f.ID,
			MeetingID:      f.MeetingID,
			RecordingStart: parseTime(f.RecordingStart),
			RecordingEnd:   parseTime(f.RecordingEnd),
			FileType:       f.FileType,
			FileSize:       f.FileSize,
			FileSizeMB:     models.BytesToMB(f.FileSize),
			PlayURL:        f.PlayURL,
			DownloadURL:    f.DownloadURL,
			Status:         f.Status,
			RecordingType:  f.RecordingType,
		})
	}
	return set
}
