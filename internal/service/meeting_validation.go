// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/pkg/constants"
)

func validateTopic(topic string) error {
	if strings.TrimSpace(topic) == "" {
		return domain.NewValidationError("topic is required")
	}
	if len(topic) > constants.MaxTopicLength {
		return domain.NewValidationError(fmt.Sprintf("topic must be at most %d characters", constants.MaxTopicLength))
	}
	return nil
}

func validateAgenda(agenda string) error {
	if len(agenda) > constants.MaxAgendaLength {
		return domain.NewValidationError(fmt.Sprintf("agenda must be at most %d characters", constants.MaxAgendaLength))
	}
	return nil
}

func validateDuration(duration int) error {
	if duration <= 0 {
		return domain.NewValidationError("duration must be greater than zero")
	}
	if duration > constants.MaxMeetingDurationMinutes {
		return domain.NewValidationError(fmt.Sprintf("duration must be at most %d minutes", constants.MaxMeetingDurationMinutes))
	}
	return nil
}

func validateRecordingMode(mode models.RecordingMode) error {
	if mode != "" && !mode.Valid() {
		return domain.NewValidationError(fmt.Sprintf("auto_recording must be one of cloud, local or none, got %q", mode))
	}
	return nil
}

// validateCreateMeeting checks a single meeting request before any provider call.
func validateCreateMeeting(input *models.CreateMeetingInput) error {
	if input == nil {
		return domain.NewValidationError("request body is required")
	}
	if err := validateTopic(input.Topic); err != nil {
		return err
	}
	if err := validateAgenda(input.Agenda); err != nil {
		return err
	}
	if err := validateDuration(input.Duration); err != nil {
		return err
	}
	if input.ApprovalType < 0 || input.ApprovalType > 2 {
		return domain.NewValidationError("approval_type must be 0, 1 or 2")
	}
	if err := validateRecordingMode(input.AutoRecording); err != nil {
		return err
	}
	for i, invitee := range input.Invitees {
		if strings.TrimSpace(invitee.Email) == "" {
			return domain.NewValidationError(fmt.Sprintf("invitees[%d].email is required", i))
		}
	}
	return nil
}

// validateUpdateMeeting checks an update request. Only the fields being changed are validated.
func validateUpdateMeeting(input *models.UpdateMeetingInput) error {
	if input == nil || input.Empty() {
		return domain.NewValidationError("at least one of topic, agenda, start_time, duration or timezone is required")
	}
	if input.Topic != "" {
		if err := validateTopic(input.Topic); err != nil {
			return err
		}
	}
	if err := validateAgenda(input.Agenda); err != nil {
		return err
	}
	if input.Duration != 0 {
		if err := validateDuration(input.Duration); err != nil {
			return err
		}
	}
	if len(input.Timezone) > constants.MaxTimezoneLength {
		return domain.NewValidationError(fmt.Sprintf("timezone must be at most %d characters", constants.MaxTimezoneLength))
	}
	return nil
}

// validateRecurringMeeting checks a recurring meeting request before any provider call.
func validateRecurringMeeting(input *models.RecurringMeetingInput) error {
	if input == nil {
		return domain.NewValidationError("request body is required")
	}
	if err := validateTopic(input.Topic); err != nil {
		return err
	}
	if err := validateAgenda(input.Agenda); err != nil {
		return err
	}
	if err := validateDuration(input.Duration); err != nil {
		return err
	}
	if err := validateRecordingMode(input.AutoRecording); err != nil {
		return err
	}
	if input.Timezone != "" {
		if _, err := time.LoadLocation(input.Timezone); err != nil {
			return domain.NewValidationError(fmt.Sprintf("unknown timezone %q", input.Timezone))
		}
	}

	switch input.RecurrenceType {
	case "", models.RecurrenceNoFixedTime:
	case models.RecurrenceFixedTime:
		if input.Recurrence.StartTime == nil {
			return domain.NewValidationError("start_time is required for fixed time recurring meetings")
		}
	default:
		return domain.NewValidationError(fmt.Sprintf("recurrence_type must be fixed_time or no_fixed_time, got %q", input.RecurrenceType))
	}

	return validateRecurrence(input.Recurrence)
}

func validateRecurrence(spec models.RecurrenceSpec) error {
	if spec.RepeatInterval < 0 || spec.RepeatInterval > constants.MaxRepeatInterval {
		return domain.NewValidationError(fmt.Sprintf("repeat_interval must be between 1 and %d", constants.MaxRepeatInterval))
	}

	switch spec.Pattern {
	case models.RecurrenceDaily:
	case models.RecurrenceWeekly:
		if len(spec.WeeklyDays) == 0 {
			return domain.NewValidationError("weekly_days is required for weekly recurrence")
		}
		for _, d := range spec.WeeklyDays {
			if !validWeekday(d) {
				return domain.NewValidationError(fmt.Sprintf("weekly_days must be between 1 (Sunday) and 7 (Saturday), got %d", d))
			}
		}
	case models.RecurrenceMonthly:
		if err := validateMonthly(spec); err != nil {
			return err
		}
	default:
		return domain.NewValidationError(fmt.Sprintf("pattern must be daily, weekly or monthly, got %q", spec.Pattern))
	}

	if spec.EndDate != nil && spec.EndTimes != nil {
		return domain.NewValidationError("end_date and end_times cannot both be set")
	}
	if spec.EndTimes != nil && (*spec.EndTimes < 1 || *spec.EndTimes > constants.MaxOccurrences) {
		return domain.NewValidationError(fmt.Sprintf("end_times must be between 1 and %d", constants.MaxOccurrences))
	}
	if spec.EndDate != nil && spec.StartTime != nil && !spec.EndDate.After(*spec.StartTime) {
		return domain.NewValidationError("end_date must be after start_time")
	}
	return nil
}

func validateMonthly(spec models.RecurrenceSpec) error {
	if spec.MonthlyDay != nil {
		day := *spec.MonthlyDay
		if day == 0 || day < -1 || day > 31 {
			return domain.NewValidationError(fmt.Sprintf("monthly_day must be -1 or between 1 and 31, got %d", day))
		}
		return nil
	}

	if spec.MonthlyWeek == nil || spec.MonthlyWeekDay == nil {
		return domain.NewValidationError("monthly recurrence requires monthly_day or both monthly_week and monthly_week_day")
	}
	week := *spec.MonthlyWeek
	if week != -1 && (week < 1 || week > 4) {
		return domain.NewValidationError(fmt.Sprintf("monthly_week must be -1 or between 1 and 4, got %d", week))
	}
	if !validWeekday(*spec.MonthlyWeekDay) {
		return domain.NewValidationError(fmt.Sprintf("monthly_week_day must be between 1 and 7, got %d", *spec.MonthlyWeekDay))
	}
	return nil
}

func validWeekday(d int) bool {
	return d >= 1 && d <= 7
}
