// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// RecordingMode is the provider auto_recording setting.
type RecordingMode string

// Recording modes accepted by the provider.
const (
	RecordingModeCloud RecordingMode = "cloud"
	RecordingModeLocal RecordingMode = "local"
	RecordingModeNone  RecordingMode = "none"
)

// Valid reports whether m is one of the provider recording modes.
func (m RecordingMode) Valid() bool {
	switch m {
	case RecordingModeCloud, RecordingModeLocal, RecordingModeNone:
		return true
	}
	return false
}

// DefaultTimezone is used when neither the caller nor the provider names one.
const DefaultTimezone = "UTC"

// MeetingRecord is the local mirror of a provider meeting.
type MeetingRecord struct {
	ID                string        `json:"id"`
	MeetingID         int64         `json:"meeting_id"`
	Topic             string        `json:"topic"`
	Type              int           `json:"type"`
	StartTime         *time.Time    `json:"start_time,omitempty"`
	Duration          int           `json:"duration"`
	Timezone          string        `json:"timezone"`
	Agenda            string        `json:"agenda,omitempty"`
	JoinURL           string        `json:"join_url"`
	StartURL          string        `json:"start_url"`
	Password          string        `json:"password,omitempty"`
	HostEmail         string        `json:"host_email,omitempty"`
	HostVideo         bool          `json:"host_video"`
	ParticipantVideo  bool          `json:"participant_video"`
	JoinBeforeHost    bool          `json:"join_before_host"`
	MuteUponEntry     bool          `json:"mute_upon_entry"`
	WaitingRoom       bool          `json:"waiting_room"`
	ApprovalType      int           `json:"approval_type"`
	AutoRecording     RecordingMode `json:"auto_recording"`
	IsRecurring       bool          `json:"is_recurring"`
	RecurrencePattern string        `json:"recurrence_pattern,omitempty"`
	RecurrenceRule    string        `json:"recurrence_rule,omitempty"`
	IsDeleted         bool          `json:"-"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         *time.Time    `json:"updated_at,omitempty"`
}

// Settings returns the mirrored settings of the record.
func (m *MeetingRecord) Settings() MeetingSettings {
	return MeetingSettings{
		HostVideo:        m.HostVideo,
		ParticipantVideo: m.ParticipantVideo,
		JoinBeforeHost:   m.JoinBeforeHost,
		MuteUponEntry:    m.MuteUponEntry,
		WaitingRoom:      m.WaitingRoom,
		ApprovalType:     m.ApprovalType,
		AutoRecording:    m.AutoRecording,
	}
}

// MeetingSettings is the subset of provider meeting settings mirrored locally.
type MeetingSettings struct {
	HostVideo        bool          `json:"host_video"`
	ParticipantVideo bool          `json:"participant_video"`
	JoinBeforeHost   bool          `json:"join_before_host"`
	MuteUponEntry    bool          `json:"mute_upon_entry"`
	WaitingRoom      bool          `json:"waiting_room"`
	ApprovalType     int           `json:"approval_type"`
	AutoRecording    RecordingMode `json:"auto_recording"`
}

// DefaultMeetingSettings are the values stored when the provider omits its settings block.
func DefaultMeetingSettings() MeetingSettings {
	return MeetingSettings{
		HostVideo:        true,
		ParticipantVideo: true,
		JoinBeforeHost:   true,
		MuteUponEntry:    true,
		WaitingRoom:      false,
		AutoRecording:    RecordingModeCloud,
	}
}

// ProviderMeeting is the provider's authoritative view of a meeting.
type ProviderMeeting struct {
	ID          int64            `json:"id"`
	UUID        string           `json:"uuid,omitempty"`
	Topic       string           `json:"topic"`
	Type        int              `json:"type"`
	Status      string           `json:"status,omitempty"`
	StartTime   *time.Time       `json:"start_time,omitempty"`
	Duration    int              `json:"duration"`
	Timezone    string           `json:"timezone,omitempty"`
	Agenda      string           `json:"agenda,omitempty"`
	JoinURL     string           `json:"join_url"`
	StartURL    string           `json:"start_url,omitempty"`
	Password    string           `json:"password,omitempty"`
	HostEmail   string           `json:"host_email,omitempty"`
	Settings    *MeetingSettings `json:"settings,omitempty"`
	Occurrences []Occurrence     `json:"occurrences,omitempty"`
}

// Invitee is a person to register against a newly created meeting.
type Invitee struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Registrant is the provider's answer to a registration.
type Registrant struct {
	ID           int64  `json:"id"`
	RegistrantID string `json:"registrant_id"`
	JoinURL      string `json:"join_url"`
	Topic        string `json:"topic,omitempty"`
}

// InviteeResult is the per-invitee outcome of a registration batch.
type InviteeResult struct {
	Email        string `json:"email"`
	Success      bool   `json:"success"`
	RegistrantID string `json:"registrant_id,omitempty"`
	JoinURL      string `json:"join_url,omitempty"`
	Error        string `json:"error,omitempty"`
}

// CreateMeetingInput is a request for a single scheduled meeting.
type CreateMeetingInput struct {
	Topic         string        `json:"topic"`
	StartTime     time.Time     `json:"start_time"`
	Duration      int           `json:"duration"`
	Agenda        string        `json:"agenda,omitempty"`
	Invitees      []Invitee     `json:"invitees,omitempty"`
	ApprovalType  int           `json:"approval_type"`
	AutoRecording RecordingMode `json:"auto_recording,omitempty"`
}

// UpdateMeetingInput changes a scheduled meeting. Zero values leave a field unchanged.
type UpdateMeetingInput struct {
	Topic     string     `json:"topic,omitempty"`
	Agenda    string     `json:"agenda,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	Duration  int        `json:"duration,omitempty"`
	Timezone  string     `json:"timezone,omitempty"`
}

// Empty reports whether the input changes nothing.
func (in *UpdateMeetingInput) Empty() bool {
	return in.Topic == "" && in.Agenda == "" && in.StartTime == nil && in.Duration == 0 && in.Timezone == ""
}

// CreateMeetingResult is the stored meeting plus the invitee registration outcomes.
type CreateMeetingResult struct {
	Meeting  *MeetingRecord  `json:"meeting"`
	Invitees []InviteeResult `json:"invitees"`
}

// RecordingToggleResult carries the recording mode the provider actually applied.
type RecordingToggleResult struct {
	Success             bool          `json:"success"`
	ActualRecordingType RecordingMode `json:"actual_recording_type"`
	Message             string        `json:"message"`
}
