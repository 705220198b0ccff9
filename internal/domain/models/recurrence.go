// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// RecurrencePattern is how often a recurring meeting repeats.
type RecurrencePattern string

// Supported recurrence patterns.
const (
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
)

// Label is the display form stored with recurring meetings.
func (p RecurrencePattern) Label() string {
	switch p {
	case RecurrenceDaily:
		return "Daily"
	case RecurrenceWeekly:
		return "Weekly"
	case RecurrenceMonthly:
		return "Monthly"
	}
	return ""
}

// RecurrenceType selects between fixed-time and floating recurring meetings.
type RecurrenceType string

// Recurrence types. A floating meeting reuses one meeting id with no schedule.
const (
	RecurrenceFixedTime   RecurrenceType = "fixed_time"
	RecurrenceNoFixedTime RecurrenceType = "no_fixed_time"
)

// RecurrenceSpec describes a recurring schedule.
// Weekdays use 1 for Sunday through 7 for Saturday.
type RecurrenceSpec struct {
	Pattern        RecurrencePattern `json:"pattern"`
	RepeatInterval int               `json:"repeat_interval,omitempty"`
	WeeklyDays     []int             `json:"weekly_days,omitempty"`
	MonthlyDay     *int              `json:"monthly_day,omitempty"`
	MonthlyWeek    *int              `json:"monthly_week,omitempty"`
	MonthlyWeekDay *int              `json:"monthly_week_day,omitempty"`
	EndDate        *time.Time        `json:"end_date,omitempty"`
	EndTimes       *int              `json:"end_times,omitempty"`
	StartTime      *time.Time        `json:"start_time,omitempty"`
}

// RecurringMeetingInput is a request for a recurring meeting.
type RecurringMeetingInput struct {
	Topic          string         `json:"topic"`
	Agenda         string         `json:"agenda,omitempty"`
	Duration       int            `json:"duration"`
	Timezone       string         `json:"timezone,omitempty"`
	RecurrenceType RecurrenceType `json:"recurrence_type,omitempty"`
	AutoRecording  RecordingMode  `json:"auto_recording,omitempty"`
	Recurrence     RecurrenceSpec `json:"recurrence"`
}

// Occurrence is one scheduled instance of a recurring meeting.
type Occurrence struct {
	OccurrenceID string     `json:"occurrence_id"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	Duration     int        `json:"duration"`
	Status       string     `json:"status,omitempty"`
}
