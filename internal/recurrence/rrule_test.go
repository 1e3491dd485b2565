package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"
)

func TestRRule_Weekly(t *testing.T) {
	s := Schedule{Frequency: Weekly, Interval: 2, StartDate: Date(2024, time.January, 1), Occurrences: intPtr(3)}

	out, err := RRule(s)

	require.NoError(t, err)
	assert.Contains(t, out, "FREQ=WEEKLY")
	assert.Contains(t, out, "INTERVAL=2")
	assert.Contains(t, out, "COUNT=3")
}

func TestRRule_QuarterlyBecomesMonthly(t *testing.T) {
	s := Schedule{Frequency: Quarterly, Interval: 1, StartDate: Date(2024, time.January, 10), EndDate: datePtr(2025, time.January, 10)}

	out, err := RRule(s)

	require.NoError(t, err)
	assert.Contains(t, out, "FREQ=MONTHLY")
	assert.Contains(t, out, "INTERVAL=3")
	assert.Contains(t, out, "UNTIL=")
}

func TestRRule_RejectsInvalidSchedule(t *testing.T) {
	_, err := RRule(Schedule{Frequency: Daily, Interval: 0, StartDate: Date(2024, time.January, 1)})
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

// For schedules whose day of month never needs clamping, the generator must agree with
// a reference RFC 5545 implementation.
func TestGenerate_AgreesWithRRuleWhenNoClampingApplies(t *testing.T) {
	schedules := []Schedule{
		{Frequency: Daily, Interval: 3, StartDate: Date(2024, time.February, 20), Occurrences: intPtr(20)},
		{Frequency: Weekly, Interval: 2, StartDate: Date(2023, time.December, 25), Occurrences: intPtr(30)},
		{Frequency: Monthly, Interval: 1, StartDate: Date(2024, time.January, 15), Occurrences: intPtr(24)},
		{Frequency: Quarterly, Interval: 1, StartDate: Date(2024, time.March, 28), Occurrences: intPtr(8)},
		{Frequency: Yearly, Interval: 2, StartDate: Date(2024, time.July, 4), Occurrences: intPtr(5)},
		{Frequency: Daily, Interval: 1, StartDate: Date(2024, time.June, 1), EndDate: datePtr(2024, time.June, 30)},
	}

	for _, s := range schedules {
		t.Run(Describe(s), func(t *testing.T) {
			opt, err := ToROption(s)
			require.NoError(t, err)
			rule, err := rrule.NewRRule(opt)
			require.NoError(t, err)

			assert.Equal(t, formatDates(rule.All()), formatDates(Dates(s, Window{})))
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "every 2 weeks from 2024-01-01, 3 times",
		Describe(Schedule{Frequency: Weekly, Interval: 2, StartDate: Date(2024, time.January, 1), Occurrences: intPtr(3)}))
	assert.Equal(t, "every month from 2024-01-31 until 2024-12-31",
		Describe(Schedule{Frequency: Monthly, Interval: 1, StartDate: Date(2024, time.January, 31), EndDate: datePtr(2024, time.December, 31)}))
	assert.Equal(t, "every year from 2024-01-01, once",
		Describe(Schedule{Frequency: Yearly, Interval: 1, StartDate: Date(2024, time.January, 1), Occurrences: intPtr(1)}))
	assert.Equal(t, "one-off", Describe(Schedule{}))
}
