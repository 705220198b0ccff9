// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Meeting constraints
const (
	// MaxMeetingDurationMinutes is the maximum duration of a recurring meeting occurrence
	MaxMeetingDurationMinutes = 1440

	// MaxTopicLength matches the topic column width
	MaxTopicLength = 200

	// MaxAgendaLength matches the agenda column width
	MaxAgendaLength = 500

	// MaxTimezoneLength matches the timezone column width
	MaxTimezoneLength = 50

	// MaxRepeatInterval is the largest repeat interval Zoom accepts
	MaxRepeatInterval = 90

	// MaxOccurrences is the largest end_times Zoom accepts
	MaxOccurrences = 60
)

// Recording list defaults
const (
	// DefaultRecordingWindowDays is the trailing window used when no date range is given
	DefaultRecordingWindowDays = 30

	// DefaultRecordingPageSize is the page size used when none is given; it is also the maximum
	DefaultRecordingPageSize = 300

	// DefaultRecordingFileName is used for downloads requested without a file name
	DefaultRecordingFileName = "recording.mp4"
)
