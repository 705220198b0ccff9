// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

// MessageAction is the lifecycle action carried by an event.
type MessageAction string

// Lifecycle actions.
const (
	ActionCreated          MessageAction = "created"
	ActionUpdated          MessageAction = "updated"
	ActionRecordingToggled MessageAction = "recording_toggled"
	ActionOccurrenceDelete MessageAction = "occurrence_deleted"
	ActionDeleted          MessageAction = "deleted"
)

// NATS subjects for meeting and recording lifecycle events.
const (
	MeetingCreatedSubject           = "lfx.zoom-proxy.meeting.created"
	MeetingUpdatedSubject           = "lfx.zoom-proxy.meeting.updated"
	MeetingRecordingToggledSubject  = "lfx.zoom-proxy.meeting.recording_toggled"
	MeetingOccurrenceDeletedSubject = "lfx.zoom-proxy.meeting.occurrence_deleted"
	MeetingDeletedSubject           = "lfx.zoom-proxy.meeting.deleted"
	RecordingDeletedSubject         = "lfx.zoom-proxy.recording.deleted"
)

// EventMessage is the envelope published for every lifecycle event.
type EventMessage struct {
	Action  MessageAction     `json:"action"`
	Headers map[string]string `json:"headers"`
	Data    any               `json:"data"`
}

// OccurrenceDeletedEvent identifies a deleted occurrence.
type OccurrenceDeletedEvent struct {
	MeetingID    int64  `json:"meeting_id"`
	OccurrenceID string `json:"occurrence_id"`
}

// RecordingToggledEvent records a confirmed recording mode change.
type RecordingToggledEvent struct {
	MeetingID     int64         `json:"meeting_id"`
	Requested     RecordingMode `json:"requested"`
	AutoRecording RecordingMode `json:"auto_recording"`
}

// RecordingDeletedEvent identifies deleted recordings. RecordingID is empty
// when every recording of the meeting was deleted.
type RecordingDeletedEvent struct {
	MeetingID   string `json:"meeting_id"`
	RecordingID string `json:"recording_id,omitempty"`
}
