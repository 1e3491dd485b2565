package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMonths_ClampsToLastDayOfMonth(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		n    int
		want time.Time
	}{
		{"jan 31 into leap february", Date(2024, time.January, 31), 1, Date(2024, time.February, 29)},
		{"jan 31 into common february", Date(2023, time.January, 31), 1, Date(2023, time.February, 28)},
		{"may 31 into august keeps day", Date(2024, time.May, 31), 3, Date(2024, time.August, 31)},
		{"nov 30 quarter into february", Date(2024, time.November, 30), 3, Date(2025, time.February, 28)},
		{"crosses year boundary", Date(2024, time.December, 15), 1, Date(2025, time.January, 15)},
		{"leap day plus one year", Date(2024, time.February, 29), 12, Date(2025, time.February, 28)},
		{"leap day plus four years", Date(2024, time.February, 29), 48, Date(2028, time.February, 29)},
		{"backwards into february", Date(2024, time.March, 31), -1, Date(2024, time.February, 29)},
		{"backwards across years", Date(2024, time.January, 15), -13, Date(2022, time.December, 15)},
		{"zero months", Date(2024, time.June, 10), 0, Date(2024, time.June, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.from, tt.n))
		})
	}
}

func TestAddMonths_DoesNotMutateInput(t *testing.T) {
	from := Date(2024, time.January, 31)
	_ = AddMonths(from, 1)
	assert.Equal(t, Date(2024, time.January, 31), from)
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 28, DaysIn(2023, time.February))
	assert.Equal(t, 28, DaysIn(1900, time.February))
	assert.Equal(t, 29, DaysIn(2000, time.February))
	assert.Equal(t, 31, DaysIn(2024, time.December))
	assert.Equal(t, 30, DaysIn(2024, time.April))
}

func TestDateOf_DropsClock(t *testing.T) {
	in := time.Date(2024, time.March, 5, 23, 59, 59, 999, time.UTC)
	assert.Equal(t, Date(2024, time.March, 5), DateOf(in))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Date(2024, time.February, 29), d)

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)
}
