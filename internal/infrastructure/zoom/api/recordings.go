// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
)

// DateFormat is the layout of the from/to recording list parameters
const DateFormat = "2006-01-02"

// RecordingFileResponse is one file of a Zoom cloud recording
type RecordingFileResponse struct {
	ID             string `json:"id"`
	MeetingID      string `json:"meeting_id"`
	RecordingStart string `json:"recording_start"`
	RecordingEnd   string `json:"recording_end"`
	FileType       string `json:"file_type"`
	FileSize       int64  `json:"file_size"`
	PlayURL        string `json:"play_url"`
	DownloadURL    string `json:"download_url"`
	Status         string `json:"status"`
	RecordingType  string `json:"recording_type"`
}

// MeetingRecordingsResponse is the cloud recording of one meeting instance
type MeetingRecordingsResponse struct {
	UUID           string                  `json:"uuid"`
	ID             int64                   `json:"id"`
	AccountID      string                  `json:"account_id"`
	HostID         string                  `json:"host_id"`
	Topic          string                  `json:"topic"`
	StartTime      string                  `json:"start_time"`
	Duration       int                     `json:"duration"`
	TotalSize      int64                   `json:"total_size"`
	RecordingCount int                     `json:"recording_count"`
	ShareURL       string                  `json:"share_url"`
	RecordingFiles []RecordingFileResponse `json:"recording_files"`
}

// ListRecordingsQuery holds the date range and paging of a recording list
type ListRecordingsQuery struct {
	From          string
	To            string
	PageSize      int
	NextPageToken string
}

func (q ListRecordingsQuery) values() url.Values {
	v := url.Values{}
	if q.From != "" {
		v.Set("from", q.From)
	}
	if q.To != "" {
		v.Set("to", q.To)
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.NextPageToken != "" {
		v.Set("next_page_token", q.NextPageToken)
	}
	return v
}

// ListRecordingsResponse is one page of a user's cloud recordings
type ListRecordingsResponse struct {
	From          string                      `json:"from"`
	To            string                      `json:"to"`
	PageCount     int                         `json:"page_count"`
	PageSize      int                         `json:"page_size"`
	TotalRecords  int                         `json:"total_records"`
	NextPageToken string                      `json:"next_page_token"`
	Meetings      []MeetingRecordingsResponse `json:"meetings"`
}

// recordingMeetingPath escapes a meeting id or UUID for the recordings endpoints.
// UUIDs beginning with "/" or containing "//" must be escaped twice.
func recordingMeetingPath(meetingID string) string {
	if strings.HasPrefix(meetingID, "/") || strings.Contains(meetingID, "//") {
		return url.PathEscape(url.PathEscape(meetingID))
	}
	return url.PathEscape(meetingID)
}

// GetMeetingRecordings fetches the cloud recordings of a meeting.
// A 404 from Zoom is reported as found=false with no error.
func (c *Client) GetMeetingRecordings(ctx context.Context, meetingID string) (*MeetingRecordingsResponse, bool, error) {
	path := fmt.Sprintf("/meetings/%s/recordings", recordingMeetingPath(meetingID))
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		var providerErr *domain.ProviderError
		if errors.As(err, &providerErr) && providerErr.StatusCode == http.StatusNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	var recordings MeetingRecordingsResponse
	if err := decodeResponse(resp, &recordings, "recordings"); err != nil {
		return nil, false, err
	}
	return &recordings, true, nil
}

// ListUserRecordings lists the cloud recordings of a user within a date range
func (c *Client) ListUserRecordings(ctx context.Context, userID string, query ListRecordingsQuery) (*ListRecordingsResponse, error) {
	path := fmt.Sprintf("/users/%s/recordings", url.PathEscape(userID))
	resp, err := c.doRequest(ctx, http.MethodGet, path, query.values(), nil)
	if err != nil {
		return nil, err
	}

	var list ListRecordingsResponse
	if err := decodeResponse(resp, &list, "recording list"); err != nil {
		return nil, err
	}
	return &list, nil
}

// DownloadRecording streams a recording file from its absolute download URL.
// The caller must close the returned body.
func (c *Client) DownloadRecording(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error) {
	req, err := c.createRequest(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Del("Accept")

	slog.DebugContext(ctx, "downloading Zoom recording")

	resp, err := c.send(ctx, c.downloadClient, req, "recording download")
	if err != nil {
		return nil, 0, err
	}
	return resp.Body, resp.ContentLength, nil
}

// DeleteMeetingRecordings deletes all cloud recordings of a meeting
func (c *Client) DeleteMeetingRecordings(ctx context.Context, meetingID string) error {
	path := fmt.Sprintf("/meetings/%s/recordings", recordingMeetingPath(meetingID))
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	discardResponse(resp)
	return nil
}

// DeleteRecordingFile deletes one file of a meeting's cloud recording
func (c *Client) DeleteRecordingFile(ctx context.Context, meetingID, recordingID string) error {
	path := fmt.Sprintf("/meetings/%s/recordings/%s", recordingMeetingPath(meetingID), url.PathEscape(recordingID))
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	discardResponse(resp)
	return nil
}
