// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"io"
	"math"
	"time"
)

// RecordingFileStatusCompleted is the provider status of a processed recording file.
const RecordingFileStatusCompleted = "completed"

// Overall recording statuses reported by stats and readiness.
const (
	RecordingStatsCompleted  = "Completed"
	RecordingStatsProcessing = "Processing"
)

// RecordingFile is one file of a cloud recording.
type RecordingFile struct {
	ID             string     `json:"id"`
	MeetingID      string     `json:"meeting_id"`
	RecordingStart *time.Time `json:"recording_start,omitempty"`
	RecordingEnd   *time.Time `json:"recording_end,omitempty"`
	FileType       string     `json:"file_type"`
	FileSize       int64      `json:"file_size"`
	FileSizeMB     float64    `json:"file_size_mb"`
	PlayURL        string     `json:"play_url,omitempty"`
	DownloadURL    string     `json:"download_url,omitempty"`
	Status         string     `json:"status"`
	RecordingType  string     `json:"recording_type,omitempty"`
}

// Completed reports whether the provider finished processing the file.
func (f RecordingFile) Completed() bool {
	return f.Status == RecordingFileStatusCompleted
}

// RecordingSet is the cloud recording of one meeting instance.
type RecordingSet struct {
	UUID           string          `json:"uuid"`
	ID             int64           `json:"id"`
	AccountID      string          `json:"account_id,omitempty"`
	HostID         string          `json:"host_id,omitempty"`
	Topic          string          `json:"topic"`
	StartTime      *time.Time      `json:"start_time,omitempty"`
	Duration       int             `json:"duration"`
	TotalSize      int64           `json:"total_size"`
	TotalSizeMB    float64         `json:"total_size_mb"`
	RecordingCount int             `json:"recording_count"`
	ShareURL       string          `json:"share_url,omitempty"`
	RecordingFiles []RecordingFile `json:"recording_files"`
}

// AllCompleted reports whether the set has files and every one is completed.
func (s *RecordingSet) AllCompleted() bool {
	if s == nil || len(s.RecordingFiles) == 0 {
		return false
	}
	for _, f := range s.RecordingFiles {
		if !f.Completed() {
			return false
		}
	}
	return true
}

// RecordingList is a page of account recordings in a date range.
type RecordingList struct {
	From          string         `json:"from"`
	To            string         `json:"to"`
	PageCount     int            `json:"page_count"`
	PageSize      int            `json:"page_size"`
	TotalRecords  int            `json:"total_records"`
	NextPageToken string         `json:"next_page_token,omitempty"`
	Meetings      []RecordingSet `json:"meetings"`
}

// FileTypeStats groups recording files of one type.
type FileTypeStats struct {
	FileType    string  `json:"file_type"`
	Count       int     `json:"count"`
	TotalSizeMB float64 `json:"total_size_mb"`
}

// RecordingStats summarises a meeting's recording files.
type RecordingStats struct {
	MeetingID   string          `json:"meeting_id"`
	Topic       string          `json:"topic"`
	TotalFiles  int             `json:"total_files"`
	TotalSizeMB float64         `json:"total_size_mb"`
	FileTypes   []FileTypeStats `json:"file_types"`
	Status      string          `json:"status"`
}

// RecordingStatus is the polling view of a meeting's recordings.
type RecordingStatus struct {
	MeetingID string `json:"meeting_id"`
	IsReady   bool   `json:"is_ready"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// RecordingDownload is a streamed recording file. The caller closes Body.
type RecordingDownload struct {
	Body          io.ReadCloser
	FileName      string
	ContentType   string
	ContentLength int64
}

// BytesToMB converts a byte count to megabytes rounded to two decimals.
func BytesToMB(size int64) float64 {
	return math.Round(float64(size)/(1024*1024)*100) / 100
}
