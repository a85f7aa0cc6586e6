package workflow

import (
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dorm-portal/internal/entities"
)

func keys(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = DateKey(d)
	}
	return out
}

func TestIsWorkingDay(t *testing.T) {
	cal := NewCalendar(entities.CleanlinessSettings{
		WorkingDays: map[string]bool{"2025-03-15": true, "2025-03-12": false},
	}, time.UTC)

	assert.True(t, cal.IsWorkingDay(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.False(t, cal.IsWorkingDay(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)))
	assert.True(t, cal.IsWorkingDay(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)), "суббота открыта вручную")
	assert.False(t, cal.IsWorkingDay(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)), "среда закрыта вручную")
}

func TestWorkingDaysAppliesOverrides(t *testing.T) {
	cal := NewCalendar(entities.CleanlinessSettings{
		WorkingDays: map[string]bool{"2025-03-15": true, "2025-03-12": false, "2025-04-01": true},
	}, time.UTC)

	days, err := cal.WorkingDays(
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-10", "2025-03-11", "2025-03-13", "2025-03-15"}, keys(days))

	for _, d := range days {
		assert.True(t, cal.IsWorkingDay(d))
	}
}

func TestWorkingDaysEmptyRange(t *testing.T) {
	cal := NewCalendar(entities.CleanlinessSettings{}, time.UTC)
	days, err := cal.WorkingDays(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestGeneralCleaningDates(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	weekly := NewCalendar(entities.CleanlinessSettings{GeneralCleaningDay: null.IntFrom(4)}, time.UTC)
	days, err := weekly.GeneralCleaningDates(from, to)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-06", "2025-03-13", "2025-03-20", "2025-03-27"}, keys(days))

	monthly := Calendar{GeneralCleaningRule: "FREQ=MONTHLY;BYDAY=-1FR", Location: time.UTC}
	days, err = monthly.GeneralCleaningDates(from, to)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-28"}, keys(days))

	none := NewCalendar(entities.CleanlinessSettings{}, time.UTC)
	days, err = none.GeneralCleaningDates(from, to)
	require.NoError(t, err)
	assert.Empty(t, days)

	_, err = Calendar{GeneralCleaningRule: "FREQ=SOMETIMES"}.GeneralCleaningDates(from, to)
	assert.Error(t, err)
}

func TestWeekAndMonthDates(t *testing.T) {
	now := time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC)
	week := WeekDates(now, 0)
	assert.Equal(t, "2025-03-10", DateKey(week[0]))
	assert.Equal(t, "2025-03-16", DateKey(week[6]))
	assert.Equal(t, "2025-03-03", DateKey(WeekDates(now, -1)[0]))

	month := MonthDates(now, 0)
	assert.Len(t, month, 31)
	assert.Len(t, MonthDates(now, -1), 28)
}
