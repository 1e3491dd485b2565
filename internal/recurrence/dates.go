package recurrence

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// FarFuture stands in for "no end date" when neither the template nor the caller bounds
// the window.
var FarFuture = Date(2099, time.December, 31)

// Date builds a calendar date at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// DateOf drops the clock part of t, keeping the calendar date it shows in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// day 0 of the following month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddDays moves a date by n days.
func AddDays(t time.Time, n int) time.Time {
	return DateOf(t).AddDate(0, 0, n)
}

// AddMonths moves a date by n months, keeping the day of month when the target month has
// it and clamping to the target month's last day otherwise. Jan 31 + 1 month is Feb 28
// (or 29), never Mar 2 or 3.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()

	total := int(m) - 1 + n
	year := y + floorDiv(total, 12)
	month := time.Month(total-floorDiv(total, 12)*12 + 1)

	if last := DaysIn(year, month); d > last {
		d = last
	}
	return Date(year, month, d)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
