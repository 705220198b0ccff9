// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/pkg/utils"
)

func TestRecurrenceRule(t *testing.T) {
	start := time.Date(2026, 11, 2, 15, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		spec     models.RecurrenceSpec
		contains []string
		absent   []string
	}{
		{
			name:     "daily every other day",
			spec:     models.RecurrenceSpec{Pattern: models.RecurrenceDaily, RepeatInterval: 2},
			contains: []string{"FREQ=DAILY", "INTERVAL=2"},
		},
		{
			name:     "weekly days are sorted and de-duplicated",
			spec:     models.RecurrenceSpec{Pattern: models.RecurrenceWeekly, WeeklyDays: []int{4, 2, 4}, EndTimes: utils.Ptr(10)},
			contains: []string{"FREQ=WEEKLY", "BYDAY=MO,WE", "COUNT=10"},
		},
		{
			name:     "monthly by day",
			spec:     models.RecurrenceSpec{Pattern: models.RecurrenceMonthly, MonthlyDay: utils.Ptr(15), EndDate: &end},
			contains: []string{"FREQ=MONTHLY", "BYMONTHDAY=15", "UNTIL=20261231T000000Z"},
		},
		{
			name: "monthly day wins over week and weekday",
			spec: models.RecurrenceSpec{
				Pattern:        models.RecurrenceMonthly,
				MonthlyDay:     utils.Ptr(1),
				MonthlyWeek:    utils.Ptr(2),
				MonthlyWeekDay: utils.Ptr(3),
			},
			contains: []string{"BYMONTHDAY=1"},
			absent:   []string{"BYDAY"},
		},
		{
			name: "monthly by week and weekday",
			spec: models.RecurrenceSpec{
				Pattern:        models.RecurrenceMonthly,
				MonthlyWeek:    utils.Ptr(2),
				MonthlyWeekDay: utils.Ptr(3),
			},
			contains: []string{"FREQ=MONTHLY", "2TU"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := RecurrenceRule(tt.spec, &start)
			require.NoError(t, err)
			for _, part := range tt.contains {
				assert.Contains(t, rule, part)
			}
			for _, part := range tt.absent {
				assert.NotContains(t, rule, part)
			}
			assert.NotContains(t, rule, "DTSTART")
		})
	}
}

func TestRecurrenceRule_NoStart(t *testing.T) {
	rule, err := RecurrenceRule(models.RecurrenceSpec{Pattern: models.RecurrenceDaily}, nil)
	require.NoError(t, err)
	assert.Empty(t, rule)
}

func TestRecurrenceRule_Invalid(t *testing.T) {
	start := time.Now()

	_, err := RecurrenceRule(models.RecurrenceSpec{Pattern: "yearly"}, &start)
	assert.Error(t, err)

	_, err = RecurrenceRule(models.RecurrenceSpec{Pattern: models.RecurrenceWeekly, WeeklyDays: []int{8}}, &start)
	assert.Error(t, err)
}
