// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/service"
)

// MeetingHandler serves the /api/meetings routes.
type MeetingHandler struct {
	meetingService *service.MeetingService
}

func NewMeetingHandler(meetingService *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService}
}

func (h *MeetingHandler) HandlerReady() bool {
	return h.meetingService != nil && h.meetingService.ServiceReady()
}

// ToggleRecordingRequest is the body of PATCH /api/meetings/{meetingId}/recording.
type ToggleRecordingRequest struct {
	EnableRecording *bool `json:"enable_recording"`
}

// Routes registers the meeting routes on r. GET accepts a local record id or a
// Zoom meeting id, PUT and DELETE a local record id, and the nested routes a Zoom meeting id.
func (h *MeetingHandler) Routes(r chi.Router) {
	r.Get("/", h.ListMeetings)
	r.Get("/test-connection", h.TestConnection)
	r.Post("/live-class", h.CreateMeeting)
	r.Post("/recurring", h.CreateRecurringMeeting)
	r.Get("/{meetingId}", h.GetMeeting)
	r.Put("/{meetingId}", h.UpdateMeeting)
	r.Delete("/{meetingId}", h.DeleteMeeting)
	r.Patch("/{meetingId}/recording", h.ToggleRecording)
	r.Get("/{meetingId}/occurrences", h.GetOccurrences)
	r.Delete("/{meetingId}/occurrences/{occurrenceId}", h.DeleteOccurrence)
}

func (h *MeetingHandler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meetings, err := h.meetingService.ListMeetings(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, meetings)
}

func (h *MeetingHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meeting, err := h.meetingService.GetMeeting(ctx, chi.URLParam(r, "meetingId"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, meeting)
}

func (h *MeetingHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input models.CreateMeetingInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.meetingService.CreateMeeting(ctx, &input)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, result)
}

func (h *MeetingHandler) CreateRecurringMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input models.RecurringMeetingInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(ctx, w, err)
		return
	}

	meeting, err := h.meetingService.CreateRecurringMeeting(ctx, &input)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, meeting)
}

func (h *MeetingHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input models.UpdateMeetingInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(ctx, w, err)
		return
	}

	meeting, err := h.meetingService.UpdateMeeting(ctx, chi.URLParam(r, "meetingId"), &input)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, meeting)
}

func (h *MeetingHandler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.meetingService.DeleteMeeting(ctx, chi.URLParam(r, "meetingId")); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MeetingHandler) ToggleRecording(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	meetingID, err := parseMeetingID(chi.URLParam(r, "meetingId"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req ToggleRecordingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.EnableRecording == nil {
		writeMessage(ctx, w, http.StatusBadRequest, "enable_recording is required")
		return
	}

	result, err := h.meetingService.ToggleRecording(ctx, meetingID, *req.EnableRecording)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *MeetingHandler) GetOccurrences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	meetingID, err := parseMeetingID(chi.URLParam(r, "meetingId"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	occurrences, err := h.meetingService.GetOccurrences(ctx, meetingID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, occurrences)
}

func (h *MeetingHandler) DeleteOccurrence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	meetingID, err := parseMeetingID(chi.URLParam(r, "meetingId"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.meetingService.DeleteOccurrence(ctx, meetingID, chi.URLParam(r, "occurrenceId")); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TestConnection reports whether the local store is reachable.
func (h *MeetingHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.meetingService.CheckDatabase(ctx); err != nil {
		slog.ErrorContext(ctx, "database connection test failed", logging.ErrKey, err)
		writeMessage(ctx, w, http.StatusInternalServerError, "Database connection test failed: "+err.Error())
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]string{
		"message":  "Successfully connected to the database",
		"provider": "postgresql",
	})
}
