// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package zoom

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/infrastructure/zoom/api"
)

const (
	// MinimumStartLead is how far ahead a fixed start must be to be sent unchanged
	MinimumStartLead = 5 * time.Minute
	// ClampedStartLead is the start offset used when a start is too close to now
	ClampedStartLead = 10 * time.Minute
)

// RecurrencePlan is the provider payload derived from a recurrence spec
type RecurrencePlan struct {
	MeetingType int
	StartTime   *time.Time
	Recurrence  *api.RecurrenceSettings
}

// ClampStart moves a start within MinimumStartLead of now (or in the past)
// to now + ClampedStartLead. Zoom rejects near-immediate starts.
func ClampStart(start, now time.Time) time.Time {
	if !start.After(now.Add(MinimumStartLead)) {
		return now.Add(ClampedStartLead).UTC()
	}
	return start.UTC()
}

// BuildRecurrence converts a recurrence spec into the Zoom meeting type,
// start time and recurrence object. A spec without a start time becomes a
// recurring meeting with no fixed time (type 3); the recurrence object is
// built either way.
func BuildRecurrence(spec models.RecurrenceSpec, now time.Time) RecurrencePlan {
	rec := &api.RecurrenceSettings{
		Type:           recurrenceTypeCode(spec.Pattern),
		RepeatInterval: spec.RepeatInterval,
	}
	if rec.RepeatInterval <= 0 {
		rec.RepeatInterval = 1
	}

	switch spec.Pattern {
	case models.RecurrenceWeekly:
		rec.WeeklyDays = joinWeekdays(spec.WeeklyDays)
	case models.RecurrenceMonthly:
		// day of month takes precedence over the week/weekday pair
		if spec.MonthlyDay != nil {
			rec.MonthlyDay = *spec.MonthlyDay
		} else if spec.MonthlyWeek != nil && spec.MonthlyWeekDay != nil {
			rec.MonthlyWeek = *spec.MonthlyWeek
			rec.MonthlyWeekDay = *spec.MonthlyWeekDay
		}
	}

	if spec.EndDate != nil {
		rec.EndDateTime = spec.EndDate.UTC().Format(time.RFC3339)
	}
	if spec.EndTimes != nil {
		rec.EndTimes = *spec.EndTimes
	}

	if spec.StartTime == nil {
		return RecurrencePlan{
			MeetingType: api.MeetingTypeRecurringNoFixedTime,
			Recurrence:  rec,
		}
	}

	start := ClampStart(*spec.StartTime, now)
	return RecurrencePlan{
		MeetingType: api.MeetingTypeRecurringFixedTime,
		StartTime:   &start,
		Recurrence:  rec,
	}
}

func recurrenceTypeCode(pattern models.RecurrencePattern) int {
	switch pattern {
	case models.RecurrenceWeekly:
		return api.RecurrenceTypeWeekly
	case models.RecurrenceMonthly:
		return api.RecurrenceTypeMonthly
	default:
		return api.RecurrenceTypeDaily
	}
}

// joinWeekdays renders a weekday set as Zoom's ascending comma-joined list
func joinWeekdays(days []int) string {
	sorted := slices.Clone(days)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	parts := make([]string, 0, len(sorted))
	for _, d := range sorted {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}
