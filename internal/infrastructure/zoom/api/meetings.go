// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Meeting type constants for Zoom API
const (
	MeetingTypeInstant              = 1
	MeetingTypeScheduled            = 2
	MeetingTypeRecurringNoFixedTime = 3
	MeetingTypeRecurringFixedTime   = 8
)

// Recurrence type constants for Zoom API
const (
	RecurrenceTypeDaily   = 1
	RecurrenceTypeWeekly  = 2
	RecurrenceTypeMonthly = 3
)

// Approval and registration type constants for Zoom API
const (
	ApprovalTypeAutomatic      = 0
	ApprovalTypeManual         = 1
	ApprovalTypeNoRegistration = 2

	RegistrationTypeOnce              = 1
	RegistrationTypeEachOccurrence    = 2
	RegistrationTypeChooseOccurrences = 3
)

// TimeFormat is the layout Zoom expects for start_time
const TimeFormat = "2006-01-02T15:04:05Z"

// CreateMeetingRequest represents the request to create a Zoom meeting
type CreateMeetingRequest struct {
	Topic      string              `json:"topic"`
	Type       int                 `json:"type"`
	StartTime  string              `json:"start_time,omitempty"`
	Duration   int                 `json:"duration,omitempty"`
	Timezone   string              `json:"timezone,omitempty"`
	Agenda     string              `json:"agenda,omitempty"`
	Recurrence *RecurrenceSettings `json:"recurrence,omitempty"`
	Settings   *MeetingSettings    `json:"settings,omitempty"`
}

// UpdateMeetingRequest represents a partial update of a Zoom meeting
type UpdateMeetingRequest struct {
	Topic     string                 `json:"topic,omitempty"`
	Agenda    string                 `json:"agenda,omitempty"`
	StartTime string                 `json:"start_time,omitempty"`
	Duration  int                    `json:"duration,omitempty"`
	Timezone  string                 `json:"timezone,omitempty"`
	Settings  *MeetingSettingsUpdate `json:"settings,omitempty"`
}

// MeetingSettingsUpdate carries only the settings being changed
type MeetingSettingsUpdate struct {
	AutoRecording string `json:"auto_recording,omitempty"`
}

// RecurrenceSettings represents Zoom meeting recurrence settings
type RecurrenceSettings struct {
	Type           int    `json:"type"`
	RepeatInterval int    `json:"repeat_interval,omitempty"`
	WeeklyDays     string `json:"weekly_days,omitempty"`
	MonthlyDay     int    `json:"monthly_day,omitempty"`
	MonthlyWeek    int    `json:"monthly_week,omitempty"`
	MonthlyWeekDay int    `json:"monthly_week_day,omitempty"`
	EndTimes       int    `json:"end_times,omitempty"`
	EndDateTime    string `json:"end_date_time,omitempty"`
}

// MeetingSettings represents Zoom meeting settings
type MeetingSettings struct {
	HostVideo        bool   `json:"host_video"`
	ParticipantVideo bool   `json:"participant_video"`
	JoinBeforeHost   bool   `json:"join_before_host"`
	MuteUponEntry    bool   `json:"mute_upon_entry"`
	WaitingRoom      bool   `json:"waiting_room"`
	ApprovalType     int    `json:"approval_type"`
	RegistrationType int    `json:"registration_type,omitempty"`
	AutoRecording    string `json:"auto_recording,omitempty"`
}

// OccurrenceResponse is one occurrence of a recurring Zoom meeting
type OccurrenceResponse struct {
	OccurrenceID string `json:"occurrence_id"`
	StartTime    string `json:"start_time"`
	Duration     int    `json:"duration"`
	Status       string `json:"status"`
}

// MeetingResponse represents a Zoom meeting as returned by create and get
type MeetingResponse struct {
	ID          int64                `json:"id"`
	UUID        string               `json:"uuid"`
	HostID      string               `json:"host_id"`
	HostEmail   string               `json:"host_email"`
	Topic       string               `json:"topic"`
	Type        int                  `json:"type"`
	Status      string               `json:"status"`
	StartTime   string               `json:"start_time"`
	Duration    int                  `json:"duration"`
	Timezone    string               `json:"timezone"`
	Agenda      string               `json:"agenda"`
	CreatedAt   string               `json:"created_at"`
	StartURL    string               `json:"start_url"`
	JoinURL     string               `json:"join_url"`
	Password    string               `json:"password"`
	Settings    *MeetingSettings     `json:"settings"`
	Recurrence  *RecurrenceSettings  `json:"recurrence"`
	Occurrences []OccurrenceResponse `json:"occurrences"`
}

// CreateMeeting creates a new meeting in Zoom for the specified user
// This is a pure API call with no business logic
func (c *Client) CreateMeeting(ctx context.Context, userID string, request *CreateMeetingRequest) (*MeetingResponse, error) {
	path := fmt.Sprintf("/users/%s/meetings", url.PathEscape(userID))
	resp, err := c.doRequest(ctx, http.MethodPost, path, nil, request)
	if err != nil {
		return nil, err
	}

	var meetingResp MeetingResponse
	if err := decodeResponse(resp, &meetingResp, "meeting"); err != nil {
		return nil, err
	}
	return &meetingResp, nil
}

// GetMeeting fetches a meeting, including its occurrences when it recurs
func (c *Client) GetMeeting(ctx context.Context, meetingID int64) (*MeetingResponse, error) {
	path := fmt.Sprintf("/meetings/%d", meetingID)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var meetingResp MeetingResponse
	if err := decodeResponse(resp, &meetingResp, "meeting"); err != nil {
		return nil, err
	}
	return &meetingResp, nil
}

// UpdateMeeting patches an existing meeting in Zoom
// This is a pure API call with no business logic
func (c *Client) UpdateMeeting(ctx context.Context, meetingID int64, request *UpdateMeetingRequest) error {
	path := fmt.Sprintf("/meetings/%d", meetingID)
	resp, err := c.doRequest(ctx, http.MethodPatch, path, nil, request)
	if err != nil {
		return err
	}
	discardResponse(resp)
	return nil
}

// DeleteMeetingOccurrence deletes one occurrence of a recurring meeting
func (c *Client) DeleteMeetingOccurrence(ctx context.Context, meetingID int64, occurrenceID string) error {
	path := fmt.Sprintf("/meetings/%d", meetingID)
	query := url.Values{"occurrence_id": []string{occurrenceID}}
	resp, err := c.doRequest(ctx, http.MethodDelete, path, query, nil)
	if err != nil {
		return err
	}
	discardResponse(resp)
	return nil
}
