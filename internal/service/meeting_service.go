// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/pkg/utils"
)

// MeetingService orchestrates meeting changes between the provider and the local mirror.
// The provider is always called first; the mirror is only written after it confirms.
type MeetingService struct {
	MeetingRepository domain.MeetingRepository
	Provider          domain.MeetingProvider
	Publisher         domain.EventPublisher
}

// NewMeetingService creates a new MeetingService.
func NewMeetingService(
	meetingRepository domain.MeetingRepository,
	provider domain.MeetingProvider,
	publisher domain.EventPublisher,
) *MeetingService {
	return &MeetingService{
		MeetingRepository: meetingRepository,
		Provider:          provider,
		Publisher:         publisher,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *MeetingService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.Provider != nil &&
		s.Publisher != nil
}

func (s *MeetingService) ready(ctx context.Context) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "meeting service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("meeting service is not ready", domain.ErrServiceUnavailable)
	}
	return nil
}

// CreateMeeting creates a single scheduled meeting, mirrors it locally and
// registers the invitees one by one. An invitee that fails to register is
// reported in the result and does not fail the meeting.
func (s *MeetingService) CreateMeeting(ctx context.Context, input *models.CreateMeetingInput) (*models.CreateMeetingResult, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if err := validateCreateMeeting(input); err != nil {
		slog.WarnContext(ctx, "invalid create meeting request", logging.ErrKey, err)
		return nil, err
	}

	providerMeeting, err := s.Provider.CreateMeeting(ctx, input)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.Int64("zoom_meeting_id", providerMeeting.ID))

	requested := models.DefaultMeetingSettings()
	requested.WaitingRoom = len(input.Invitees) == 0
	requested.ApprovalType = input.ApprovalType
	if input.AutoRecording != "" {
		requested.AutoRecording = input.AutoRecording
	}

	// a missing start is scheduled by the provider shortly after now
	var start *time.Time
	if !input.StartTime.IsZero() {
		start = &input.StartTime
	}

	record := newMeetingRecord(providerMeeting, meetingRequestValues{
		Topic:     input.Topic,
		Type:      2,
		StartTime: start,
		Duration:  input.Duration,
		Agenda:    utils.Coalesce(input.Agenda, input.Topic),
		Settings:  requested,
	})

	if err := s.MeetingRepository.Create(ctx, record); err != nil {
		slog.ErrorContext(ctx, "meeting created in Zoom but could not be stored locally",
			logging.ErrKey, err,
			logging.PriorityCritical(),
		)
		return nil, domain.NewInconsistentStateError(providerMeeting.ID, err)
	}

	slog.InfoContext(ctx, "created meeting", "meeting_record_id", record.ID)

	invitees := s.registerInvitees(ctx, providerMeeting.ID, input.Invitees)

	publishEvent(ctx, models.MeetingCreatedSubject, func() error {
		return s.Publisher.PublishMeetingCreated(ctx, record)
	})

	return &models.CreateMeetingResult{
		Meeting:  record,
		Invitees: invitees,
	}, nil
}

// registerInvitees registers each invitee sequentially and collects the outcomes.
func (s *MeetingService) registerInvitees(ctx context.Context, meetingID int64, invitees []models.Invitee) []models.InviteeResult {
	results := make([]models.InviteeResult, 0, len(invitees))
	for _, invitee := range invitees {
		result := models.InviteeResult{Email: invitee.Email}

		registrant, err := s.Provider.RegisterInvitee(ctx, meetingID, invitee)
		if err != nil {
			slog.WarnContext(ctx, "failed to register invitee", logging.ErrKey, err, "email", invitee.Email)
			result.Error = err.Error()
		} else {
			result.Success = true
			result.RegistrantID = registrant.RegistrantID
			result.JoinURL = registrant.JoinURL
		}
		results = append(results, result)
	}

	if len(invitees) > 0 {
		succeeded := 0
		for _, r := range results {
			if r.Success {
				succeeded++
			}
		}
		slog.InfoContext(ctx, "registered invitees", "requested", len(invitees), "succeeded", succeeded)
	}
	return results
}

// CreateRecurringMeeting creates a recurring meeting and mirrors it locally.
func (s *MeetingService) CreateRecurringMeeting(ctx context.Context, input *models.RecurringMeetingInput) (*models.MeetingRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if err := validateRecurringMeeting(input); err != nil {
		slog.WarnContext(ctx, "invalid recurring meeting request", logging.ErrKey, err)
		return nil, err
	}

	providerMeeting, err := s.Provider.CreateRecurringMeeting(ctx, input)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.Int64("zoom_meeting_id", providerMeeting.ID))

	requested := models.DefaultMeetingSettings()
	requested.WaitingRoom = true
	if input.AutoRecording != "" {
		requested.AutoRecording = input.AutoRecording
	}

	start := input.Recurrence.StartTime
	if input.RecurrenceType == models.RecurrenceNoFixedTime {
		start = nil
	}

	record := newMeetingRecord(providerMeeting, meetingRequestValues{
		Topic:     input.Topic,
		StartTime: start,
		Duration:  input.Duration,
		Timezone:  input.Timezone,
		Agenda:    input.Agenda,
		Settings:  requested,
	})
	record.IsRecurring = true
	record.RecurrencePattern = input.Recurrence.Pattern.Label()

	// the rule is anchored at the start Zoom scheduled, which may have been clamped
	rule, err := RecurrenceRule(input.Recurrence, record.StartTime)
	if err != nil {
		slog.WarnContext(ctx, "could not render recurrence rule", logging.ErrKey, err)
	}
	record.RecurrenceRule = rule

	if err := s.MeetingRepository.Create(ctx, record); err != nil {
		slog.ErrorContext(ctx, "recurring meeting created in Zoom but could not be stored locally",
			logging.ErrKey, err,
			logging.PriorityCritical(),
		)
		return nil, domain.NewInconsistentStateError(providerMeeting.ID, err)
	}

	slog.InfoContext(ctx, "created recurring meeting",
		"meeting_record_id", record.ID,
		"pattern", record.RecurrencePattern,
		"recurrence_rule", record.RecurrenceRule,
	)

	publishEvent(ctx, models.MeetingCreatedSubject, func() error {
		return s.Publisher.PublishMeetingCreated(ctx, record)
	})

	return record, nil
}

// UpdateMeeting patches a meeting in Zoom, reads Zoom's confirmed view back and
// rewrites the local record from it. id is the local record id.
func (s *MeetingService) UpdateMeeting(ctx context.Context, id string, input *models.UpdateMeetingInput) (*models.MeetingRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid meeting record id %q", id))
	}
	if err := validateUpdateMeeting(input); err != nil {
		slog.WarnContext(ctx, "invalid update meeting request", logging.ErrKey, err)
		return nil, err
	}

	existing, err := s.MeetingRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.Int64("zoom_meeting_id", existing.MeetingID))
	ctx = logging.AppendCtx(ctx, slog.String("meeting_record_id", existing.ID))

	if err := s.Provider.UpdateMeeting(ctx, existing.MeetingID, input); err != nil {
		return nil, err
	}

	providerMeeting, err := s.Provider.GetMeeting(ctx, existing.MeetingID)
	if err != nil {
		slog.ErrorContext(ctx, "meeting updated in Zoom but could not be read back",
			logging.ErrKey, err,
			logging.PriorityCritical(),
		)
		return nil, domain.NewInconsistentStateError(existing.MeetingID, err)
	}

	record := newMeetingRecord(providerMeeting, meetingRequestValues{
		Topic:     existing.Topic,
		Type:      existing.Type,
		StartTime: existing.StartTime,
		Duration:  existing.Duration,
		Timezone:  existing.Timezone,
		Agenda:    existing.Agenda,
		Settings:  existing.Settings(),
	})
	record.ID = existing.ID
	record.IsRecurring = existing.IsRecurring
	record.RecurrencePattern = existing.RecurrencePattern
	record.RecurrenceRule = existing.RecurrenceRule
	record.CreatedAt = existing.CreatedAt

	if err := s.MeetingRepository.Update(ctx, record); err != nil {
		slog.ErrorContext(ctx, "meeting updated in Zoom but could not be stored locally",
			logging.ErrKey, err,
			logging.PriorityCritical(),
		)
		return nil, domain.NewInconsistentStateError(existing.MeetingID, err)
	}

	slog.InfoContext(ctx, "updated meeting")

	publishEvent(ctx, models.MeetingUpdatedSubject, func() error {
		return s.Publisher.PublishMeetingUpdated(ctx, record)
	})

	return record, nil
}

// ToggleRecording turns cloud recording on or off and stores the mode Zoom confirmed.
// The confirmed mode can differ from the requested one when the account lacks
// cloud recording.
func (s *MeetingService) ToggleRecording(ctx context.Context, meetingID int64, enable bool) (*models.RecordingToggleResult, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if meetingID <= 0 {
		return nil, domain.NewValidationError("meeting id must be a positive number")
	}

	ctx = logging.AppendCtx(ctx, slog.Int64("zoom_meeting_id", meetingID))

	requested := models.RecordingModeNone
	if enable {
		requested = models.RecordingModeCloud
	}

	actual, err := s.Provider.SetRecordingMode(ctx, meetingID, requested)
	if err != nil {
		return nil, err
	}

	err = s.MeetingRepository.UpdateRecordingMode(ctx, meetingID, actual)
	switch {
	case err == nil:
	case domain.GetErrorType(err) == domain.ErrorTypeNotFound:
		slog.WarnContext(ctx, "recording mode changed for a meeting with no local record", "auto_recording", actual)
	default:
		slog.ErrorContext(ctx, "recording mode changed in Zoom but could not be stored locally",
			logging.ErrKey, err,
			"auto_recording", actual,
			logging.PriorityCritical(),
		)
		return nil, domain.NewInconsistentStateError(meetingID, err)
	}

	publishEvent(ctx, models.MeetingRecordingToggledSubject, func() error {
		return s.Publisher.PublishRecordingToggled(ctx, models.RecordingToggledEvent{
			MeetingID:     meetingID,
			Requested:     requested,
			AutoRecording: actual,
		})
	})

	return &models.RecordingToggleResult{
		Success:             true,
		ActualRecordingType: actual,
		Message:             toggleMessage(requested, actual),
	}, nil
}

func toggleMessage(requested, actual models.RecordingMode) string {
	switch {
	case requested == actual && actual == models.RecordingModeNone:
		return "Recording disabled"
	case requested == actual:
		return fmt.Sprintf("Recording enabled (%s)", actual)
	default:
		return fmt.Sprintf("Requested %s recording but Zoom applied %s", requested, actual)
	}
}

// GetOccurrences returns the occurrences Zoom reports for a meeting.
// Meetings without occurrences return an empty list.
func (s *MeetingService) GetOccurrences(ctx context.Context, meetingID int64) ([]models.Occurrence, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	meeting, err := s.Provider.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.Occurrences == nil {
		return []models.Occurrence{}, nil
	}
	return meeting.Occurrences, nil
}

// DeleteOccurrence deletes one occurrence in Zoom. The local record is not changed.
func (s *MeetingService) DeleteOccurrence(ctx context.Context, meetingID int64, occurrenceID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(occurrenceID) == "" {
		return domain.NewValidationError("occurrence id is required")
	}

	if err := s.Provider.DeleteOccurrence(ctx, meetingID, occurrenceID); err != nil {
		return err
	}

	publishEvent(ctx, models.MeetingOccurrenceDeletedSubject, func() error {
		return s.Publisher.PublishOccurrenceDeleted(ctx, models.OccurrenceDeletedEvent{
			MeetingID:    meetingID,
			OccurrenceID: occurrenceID,
		})
	})
	return nil
}

// GetMeeting looks a meeting up by local record id or by Zoom meeting id.
// A Zoom id with no local record falls back to Zoom's live view.
func (s *MeetingService) GetMeeting(ctx context.Context, id string) (*models.MeetingRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	if _, err := uuid.Parse(id); err == nil {
		return s.MeetingRepository.GetByID(ctx, id)
	}

	meetingID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || meetingID <= 0 {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid meeting id %q", id))
	}

	record, err := s.MeetingRepository.GetByMeetingID(ctx, meetingID)
	if err == nil {
		return record, nil
	}
	if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		return nil, err
	}

	slog.DebugContext(ctx, "meeting not mirrored locally, reading from Zoom", "zoom_meeting_id", meetingID)
	providerMeeting, err := s.Provider.GetMeeting(ctx, meetingID)
	if err != nil {
		if domain.IsProviderNotFound(err) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("meeting %d not found", meetingID), domain.ErrMeetingNotFound)
		}
		return nil, err
	}
	return newMeetingRecord(providerMeeting, meetingRequestValues{Settings: models.DefaultMeetingSettings()}), nil
}

// ListMeetings returns every local meeting record, newest first.
func (s *MeetingService) ListMeetings(ctx context.Context) ([]*models.MeetingRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return s.MeetingRepository.GetAll(ctx)
}

// DeleteMeeting soft deletes the local record. The Zoom meeting is left in place.
func (s *MeetingService) DeleteMeeting(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	if err := s.MeetingRepository.SoftDelete(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "deleted meeting record", "meeting_record_id", id)

	publishEvent(ctx, models.MeetingDeletedSubject, func() error {
		return s.Publisher.PublishMeetingDeleted(ctx, id)
	})
	return nil
}

// CheckDatabase pings the local store.
func (s *MeetingService) CheckDatabase(ctx context.Context) error {
	if s.MeetingRepository == nil {
		return domain.NewUnavailableError("meeting store is not configured", domain.ErrServiceUnavailable)
	}
	return s.MeetingRepository.Ping(ctx)
}

// meetingRequestValues are the requested values used where Zoom's response omits a field.
type meetingRequestValues struct {
	Topic     string
	Type      int
	StartTime *time.Time
	Duration  int
	Timezone  string
	Agenda    string
	Settings  models.MeetingSettings
}

// newMeetingRecord maps Zoom's view of a meeting onto a local record.
// Zoom's values always win over the requested ones.
func newMeetingRecord(pm *models.ProviderMeeting, req meetingRequestValues) *models.MeetingRecord {
	record := &models.MeetingRecord{
		MeetingID: pm.ID,
		Topic:     utils.Coalesce(pm.Topic, req.Topic),
		Type:      pm.Type,
		StartTime: pm.StartTime,
		Duration:  pm.Duration,
		Timezone:  utils.Coalesce(pm.Timezone, req.Timezone, models.DefaultTimezone),
		Agenda:    utils.Coalesce(pm.Agenda, req.Agenda),
		JoinURL:   pm.JoinURL,
		StartURL:  pm.StartURL,
		Password:  pm.Password,
		HostEmail: pm.HostEmail,
	}
	if record.Type == 0 {
		record.Type = req.Type
	}
	if record.StartTime == nil && req.StartTime != nil {
		start := req.StartTime.UTC()
		record.StartTime = &start
	}
	if record.Duration == 0 {
		record.Duration = req.Duration
	}

	settings := req.Settings
	if pm.Settings != nil {
		settings = *pm.Settings
		if settings.AutoRecording == "" {
			settings.AutoRecording = req.Settings.AutoRecording
		}
	}
	record.HostVideo = settings.HostVideo
	record.ParticipantVideo = settings.ParticipantVideo
	record.JoinBeforeHost = settings.JoinBeforeHost
	record.MuteUponEntry = settings.MuteUponEntry
	record.WaitingRoom = settings.WaitingRoom
	record.ApprovalType = settings.ApprovalType
	record.AutoRecording = settings.AutoRecording

	return record
}
