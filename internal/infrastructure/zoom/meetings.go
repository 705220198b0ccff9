// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package zoom

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/infrastructure/zoom/api"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
)

// CreateMeeting schedules a single meeting in Zoom
func (p *ZoomProvider) CreateMeeting(ctx context.Context, input *models.CreateMeetingInput) (*models.ProviderMeeting, error) {
	ctx = logging.AppendCtx(ctx, slog.String("zoom_operation", "create_meeting"))

	req := p.buildCreateMeetingRequest(input)
	resp, err := p.client.CreateMeeting(ctx, p.userID, req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create Zoom meeting", logging.ErrKey, err)
		return nil, fmt.Errorf("failed to create Zoom meeting: %w", err)
	}

	slog.InfoContext(ctx, "successfully created Zoom meeting",
		"meeting_id", resp.ID,
		"topic", resp.Topic,
	)
	return toProviderMeeting(resp), nil
}

// CreateRecurringMeeting schedules a recurring meeting in Zoom
func (p *ZoomProvider) CreateRecurringMeeting(ctx context.Context, input *models.RecurringMeetingInput) (*models.ProviderMeeting, error) {
	ctx = logging.AppendCtx(ctx, slog.String("zoom_operation", "create_recurring_meeting"))

	req := p.buildRecurringMeetingRequest(input)
	resp, err := p.client.CreateMeeting(ctx, p.userID, req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create recurring Zoom meeting", logging.ErrKey, err)
		return nil, fmt.Errorf("failed to create recurring Zoom meeting: %w", err)
	}

	slog.InfoContext(ctx, "successfully created recurring Zoom meeting",
		"meeting_id", resp.ID,
		"type", resp.Type,
		"pattern", input.Recurrence.Pattern,
	)
	return toProviderMeeting(resp), nil
}

// GetMeeting fetches the live view of a meeting from Zoom
func (p *ZoomProvider) GetMeeting(ctx context.Context, meetingID int64) (*models.ProviderMeeting, error) {
	resp, err := p.client.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get Zoom meeting %d: %w", meetingID, err)
	}
	return toProviderMeeting(resp), nil
}

// UpdateMeeting patches the topic, agenda, schedule or timezone of a meeting
func (p *ZoomProvider) UpdateMeeting(ctx context.Context, meetingID int64, input *models.UpdateMeetingInput) error {
	ctx = logging.AppendCtx(ctx, slog.String("zoom_operation", "update_meeting"))
	ctx = logging.AppendCtx(ctx, slog.Int64("zoom_meeting_id", meetingID))

	req := &api.UpdateMeetingRequest{
		Topic:    input.Topic,
		Agenda:   input.Agenda,
		Duration: input.Duration,
		Timezone: input.Timezone,
	}
	if input.StartTime != nil {
		req.StartTime = ClampStart(*input.StartTime, p.now()).Format(api.TimeFormat)
	}

	if err := p.client.UpdateMeeting(ctx, meetingID, req); err != nil {
		slog.ErrorContext(ctx, "failed to update Zoom meeting", logging.ErrKey, err)
		return fmt.Errorf("failed to update Zoom meeting %d: %w", meetingID, err)
	}

	slog.InfoContext(ctx, "successfully updated Zoom meeting")
	return nil
}

// SetRecordingMode requests a recording mode and reads back the mode Zoom applied.
// Accounts without cloud recording can silently fall back to another mode.
func (p *ZoomProvider) SetRecordingMode(ctx context.Context, meetingID int64, mode models.RecordingMode) (models.RecordingMode, error) {
	ctx = logging.AppendCtx(ctx, slog.String("zoom_operation", "set_recording_mode"))
	ctx = logging.AppendCtx(ctx, slog.Int64("zoom_meeting_id", meetingID))

	err := p.client.UpdateMeeting(ctx, meetingID, &api.UpdateMeetingRequest{
		Settings: &api.MeetingSettingsUpdate{AutoRecording: string(mode)},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to update Zoom recording setting", logging.ErrKey, err)
		return "", fmt.Errorf("failed to update recording setting: %w", err)
	}

	resp, err := p.client.GetMeeting(ctx, meetingID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read back Zoom recording setting", logging.ErrKey, err)
		return "", fmt.Errorf("failed to confirm recording setting: %w", err)
	}

	actual := models.RecordingModeNone
	if resp.Settings != nil && resp.Settings.AutoRecording != "" {
		actual = models.RecordingMode(resp.Settings.AutoRecording)
	}
	if actual != mode {
		slog.WarnContext(ctx, "Zoom applied a different recording mode than requested",
			"requested", mode,
			"actual", actual,
		)
	}
	return actual, nil
}

// DeleteOccurrence deletes one occurrence of a recurring meeting
func (p *ZoomProvider) DeleteOccurrence(ctx context.Context, meetingID int64, occurrenceID string) error {
	if err := p.client.DeleteMeetingOccurrence(ctx, meetingID, occurrenceID); err != nil {
		return fmt.Errorf("failed to delete occurrence %s of meeting %d: %w", occurrenceID, meetingID, err)
	}
	slog.InfoContext(ctx, "deleted Zoom meeting occurrence",
		"meeting_id", meetingID,
		"occurrence_id", occurrenceID,
	)
	return nil
}

// RegisterInvitee registers one invitee for a meeting
func (p *ZoomProvider) RegisterInvitee(ctx context.Context, meetingID int64, invitee models.Invitee) (*models.Registrant, error) {
	firstName, lastName := splitName(invitee.Name, invitee.Email)
	resp, err := p.client.AddRegistrant(ctx, meetingID, &api.AddRegistrantRequest{
		Email:     invitee.Email,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", invitee.Email, err)
	}
	return &models.Registrant{
		ID:           resp.ID,
		RegistrantID: resp.RegistrantID,
		JoinURL:      resp.JoinURL,
		Topic:        resp.Topic,
	}, nil
}

// buildCreateMeetingRequest builds a Zoom API request for a single scheduled meeting
func (p *ZoomProvider) buildCreateMeetingRequest(input *models.CreateMeetingInput) *api.CreateMeetingRequest {
	start := ClampStart(input.StartTime, p.now())

	agenda := input.Agenda
	if agenda == "" {
		agenda = input.Topic
	}

	settings := &api.MeetingSettings{
		HostVideo:        true,
		ParticipantVideo: true,
		JoinBeforeHost:   true,
		MuteUponEntry:    true,
		AutoRecording:    string(recordingModeOrDefault(input.AutoRecording)),
	}
	// invitees register individually; open meetings go through the waiting room
	if len(input.Invitees) > 0 {
		settings.WaitingRoom = false
		settings.ApprovalType = input.ApprovalType
		settings.RegistrationType = api.RegistrationTypeOnce
	} else {
		settings.WaitingRoom = true
		settings.ApprovalType = api.ApprovalTypeNoRegistration
		settings.RegistrationType = api.RegistrationTypeChooseOccurrences
	}

	return &api.CreateMeetingRequest{
		Topic:     input.Topic,
		Type:      api.MeetingTypeScheduled,
		StartTime: start.Format(api.TimeFormat),
		Duration:  input.Duration,
		Timezone:  models.DefaultTimezone,
		Agenda:    agenda,
		Settings:  settings,
	}
}

// buildRecurringMeetingRequest builds a Zoom API request for a recurring meeting
func (p *ZoomProvider) buildRecurringMeetingRequest(input *models.RecurringMeetingInput) *api.CreateMeetingRequest {
	spec := input.Recurrence
	if input.RecurrenceType == models.RecurrenceNoFixedTime {
		spec.StartTime = nil
	}
	plan := BuildRecurrence(spec, p.now())

	timezone := input.Timezone
	if timezone == "" {
		timezone = models.DefaultTimezone
	}

	req := &api.CreateMeetingRequest{
		Topic:      input.Topic,
		Type:       plan.MeetingType,
		Duration:   input.Duration,
		Timezone:   timezone,
		Agenda:     input.Agenda,
		Recurrence: plan.Recurrence,
		Settings: &api.MeetingSettings{
			HostVideo:        true,
			ParticipantVideo: true,
			JoinBeforeHost:   true,
			MuteUponEntry:    true,
			WaitingRoom:      true,
			AutoRecording:    string(recordingModeOrDefault(input.AutoRecording)),
		},
	}
	if plan.StartTime != nil {
		req.StartTime = plan.StartTime.Format(api.TimeFormat)
	}
	// Zoom ignores the recurrence object of a meeting with no fixed time
	if plan.MeetingType == api.MeetingTypeRecurringNoFixedTime {
		req.Recurrence = nil
	}
	return req
}

func recordingModeOrDefault(mode models.RecordingMode) models.RecordingMode {
	if mode == "" {
		return models.RecordingModeCloud
	}
	return mode
}

// splitName splits a display name at the first space. Without a name the
// email address is used as the first name, which Zoom requires.
func splitName(name, email string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return email, ""
	}
	first, last, _ := strings.Cut(name, " ")
	return first, strings.TrimSpace(last)
}

// toProviderMeeting converts a Zoom meeting response to the domain view
func toProviderMeeting(resp *api.MeetingResponse) *models.ProviderMeeting {
	meeting := &models.ProviderMeeting{
		ID:        resp.ID,
		UUID:      resp.UUID,
		Topic:     resp.Topic,
		Type:      resp.Type,
		Status:    resp.Status,
		StartTime: parseTime(resp.StartTime),
		Duration:  resp.Duration,
		Timezone:  resp.Timezone,
		Agenda:    resp.Agenda,
		JoinURL:   resp.JoinURL,
		StartURL:  resp.StartURL,
		Password:  resp.Password,
		HostEmail: resp.HostEmail,
	}

	if resp.Settings != nil {
		meeting.Settings = &models.MeetingSettings{
			HostVideo:        resp.Settings.HostVideo,
			ParticipantVideo: resp.Settings.ParticipantVideo,
			JoinBeforeHost:   resp.Settings.JoinBeforeHost,
			MuteUponEntry:    resp.Settings.MuteUponEntry,
			WaitingRoom:      resp.Settings.WaitingRoom,
			ApprovalType:     resp.Settings.ApprovalType,
			AutoRecording:    models.RecordingMode(resp.Settings.AutoRecording),
		}
	}

	meeting.Occurrences = make([]models.Occurrence, 0, len(resp.Occurrences))
	for _, occ := range resp.Occurrences {
		meeting.Occurrences = append(meeting.Occurrences, models.Occurrence{
			OccurrenceID: occ.OccurrenceID,
			StartTime:    parseTime(occ.StartTime),
			Duration:     occ.Duration,
			Status:       occ.Status,
		})
	}
	return meeting
}
