// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"slices"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
)

// weekdays maps the 1 (Sunday) to 7 (Saturday) convention onto RFC 5545 weekdays.
var weekdays = map[int]rrule.Weekday{
	1: rrule.SU,
	2: rrule.MO,
	3: rrule.TU,
	4: rrule.WE,
	5: rrule.TH,
	6: rrule.FR,
	7: rrule.SA,
}

// RecurrenceRule renders a recurrence as an RFC 5545 RRULE anchored at start.
// Floating meetings have no schedule and render as an empty rule.
func RecurrenceRule(spec models.RecurrenceSpec, start *time.Time) (string, error) {
	if start == nil {
		return "", nil
	}

	opt := rrule.ROption{
		Interval: max(spec.RepeatInterval, 1),
		Dtstart:  start.UTC(),
	}

	switch spec.Pattern {
	case models.RecurrenceDaily:
		opt.Freq = rrule.DAILY
	case models.RecurrenceWeekly:
		opt.Freq = rrule.WEEKLY
		days := slices.Clone(spec.WeeklyDays)
		slices.Sort(days)
		for _, d := range slices.Compact(days) {
			wd, ok := weekdays[d]
			if !ok {
				return "", fmt.Errorf("invalid weekday %d", d)
			}
			opt.Byweekday = append(opt.Byweekday, wd)
		}
	case models.RecurrenceMonthly:
		opt.Freq = rrule.MONTHLY
		switch {
		case spec.MonthlyDay != nil:
			opt.Bymonthday = []int{*spec.MonthlyDay}
		case spec.MonthlyWeek != nil && spec.MonthlyWeekDay != nil:
			wd, ok := weekdays[*spec.MonthlyWeekDay]
			if !ok {
				return "", fmt.Errorf("invalid weekday %d", *spec.MonthlyWeekDay)
			}
			opt.Byweekday = []rrule.Weekday{wd.Nth(*spec.MonthlyWeek)}
		}
	default:
		return "", fmt.Errorf("unsupported recurrence pattern %q", spec.Pattern)
	}

	if spec.EndTimes != nil {
		opt.Count = *spec.EndTimes
	}
	if spec.EndDate != nil {
		opt.Until = spec.EndDate.UTC()
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("failed to build recurrence rule: %w", err)
	}
	return rule.OrigOptions.RRuleString(), nil
}
