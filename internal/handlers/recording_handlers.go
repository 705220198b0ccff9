// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/service"
)

const (
	recordingsNotFoundMessage = "No recordings found for this meeting"
	recordingsNotFoundDetail  = "Recording may still be processing (takes 1-2 hours after meeting ends)"
)

// RecordingHandler serves the /api/cloudrecording routes.
type RecordingHandler struct {
	recordingService *service.RecordingService
}

func NewRecordingHandler(recordingService *service.RecordingService) *RecordingHandler {
	return &RecordingHandler{recordingService: recordingService}
}

func (h *RecordingHandler) HandlerReady() bool {
	return h.recordingService != nil && h.recordingService.ServiceReady()
}

// Routes registers the cloud recording routes on r.
func (h *RecordingHandler) Routes(r chi.Router) {
	r.Get("/", h.GetAllRecordings)
	r.Get("/download", h.DownloadRecording)
	r.Get("/meeting/{meetingId}", h.GetMeetingRecordings)
	r.Delete("/meeting/{meetingId}", h.DeleteAllRecordings)
	r.Delete("/meeting/{meetingId}/file/{recordingId}", h.DeleteRecordingFile)
	r.Get("/meeting/{meetingId}/status", h.GetRecordingStatus)
	r.Get("/meeting/{meetingId}/stats", h.GetRecordingStats)
}

func (h *RecordingHandler) GetAllRecordings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	from, err := parseDateParam("from", query.Get("from"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	to, err := parseDateParam("to", query.Get("to"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var pageSize int
	if raw := query.Get("page_size"); raw != "" {
		pageSize, err = strconv.Atoi(raw)
		if err != nil || pageSize <= 0 {
			writeError(ctx, w, domain.NewValidationError("page_size must be a positive number"))
			return
		}
	}

	list, err := h.recordingService.GetAllRecordings(ctx, from, to, pageSize)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, list)
}

func (h *RecordingHandler) GetMeetingRecordings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	set, found, err := h.recordingService.GetMeetingRecordings(ctx, chi.URLParam(r, "meetingId"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !found {
		writeJSON(ctx, w, http.StatusNotFound, ErrorResponse{
			Message: recordingsNotFoundMessage,
			Detail:  recordingsNotFoundDetail,
		})
		return
	}
	writeJSON(ctx, w, http.StatusOK, set)
}

// DownloadRecording streams the file body straight through to the caller.
func (h *RecordingHandler) DownloadRecording(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	download, err := h.recordingService.DownloadRecording(ctx, query.Get("download_url"), query.Get("file_name"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	defer func() {
		if errClose := download.Body.Close(); errClose != nil {
			slog.WarnContext(ctx, "failed to close recording body", logging.ErrKey, errClose)
		}
	}()

	w.Header().Set("Content-Type", download.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": download.FileName}))
	if download.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(download.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	written, err := io.Copy(w, download.Body)
	if err != nil {
		// headers are already sent
		slog.ErrorContext(ctx, "recording download interrupted", logging.ErrKey, err, "bytes_written", written)
		return
	}
	slog.DebugContext(ctx, "recording downloaded", "file_name", download.FileName, "bytes_written", written)
}

func (h *RecordingHandler) DeleteAllRecordings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meetingID := chi.URLParam(r, "meetingId")

	if err := h.recordingService.DeleteAllRecordings(ctx, meetingID); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, MessageResponse{
		Success:   true,
		Message:   "All recordings deleted successfully",
		MeetingID: meetingID,
	})
}

func (h *RecordingHandler) DeleteRecordingFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meetingID := chi.URLParam(r, "meetingId")
	recordingID := chi.URLParam(r, "recordingId")

	if err := h.recordingService.DeleteRecordingFile(ctx, meetingID, recordingID); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, MessageResponse{
		Success:     true,
		Message:     "Recording file deleted successfully",
		MeetingID:   meetingID,
		RecordingID: recordingID,
	})
}

func (h *RecordingHandler) GetRecordingStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeJSON(ctx, w, http.StatusOK, h.recordingService.GetRecordingStatus(ctx, chi.URLParam(r, "meetingId")))
}

func (h *RecordingHandler) GetRecordingStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.recordingService.GetRecordingStats(ctx, chi.URLParam(r, "meetingId"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, stats)
}

// parseDateParam accepts a yyyy-mm-dd date or an RFC3339 timestamp. An empty value is nil.
func parseDateParam(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, domain.NewValidationError(name + " must be a date (yyyy-mm-dd) or an RFC3339 timestamp")
}
