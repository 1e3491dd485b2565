package recurrence

import (
	"errors"
	"time"
)

// MaxOccurrences caps a single generation run regardless of the schedule's own bounds.
const MaxOccurrences = 100

var (
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrInvalidInterval    = errors.New("interval must be at least 1")
	ErrMissingStartDate   = errors.New("start date is required")
	ErrEndBeforeStart     = errors.New("end date must not be before start date")
	ErrInvalidOccurrences = errors.New("occurrences must be at least 1")
)

// Schedule is the date part of a recurring transaction template.
type Schedule struct {
	Frequency   Frequency
	Interval    int
	StartDate   time.Time
	EndDate     *time.Time
	Occurrences *int
}

// Window narrows a generation run. Nil bounds fall back to the schedule's own.
type Window struct {
	Start *time.Time
	End   *time.Time
}

type Occurrence struct {
	// Sequence is the 0-based position within this run.
	Sequence int
	// SeriesIndex is the 0-based position within the whole series, counted from StartDate.
	SeriesIndex int
	DueDate     time.Time
}

type Result struct {
	Occurrences []Occurrence
	// CeilingReached is set when MaxOccurrences cut the run short while the schedule
	// still had dates left inside the window.
	CeilingReached bool
}

// Validate checks the invariants a schedule must hold before it is stored.
func (s Schedule) Validate() error {
	var errs []error
	if !s.Frequency.IsValid() {
		errs = append(errs, ErrInvalidFrequency)
	}
	if s.Interval < 1 {
		errs = append(errs, ErrInvalidInterval)
	}
	if s.StartDate.IsZero() {
		errs = append(errs, ErrMissingStartDate)
	} else if s.EndDate != nil && DateOf(*s.EndDate).Before(DateOf(s.StartDate)) {
		errs = append(errs, ErrEndBeforeStart)
	}
	if s.Occurrences != nil && *s.Occurrences < 1 {
		errs = append(errs, ErrInvalidOccurrences)
	}
	return errors.Join(errs...)
}

// Next returns the occurrence following cursor. A schedule with an unknown frequency
// returns cursor unchanged.
func (s Schedule) Next(cursor time.Time) time.Time {
	if d := s.Frequency.days(); d > 0 {
		return AddDays(cursor, d*s.Interval)
	}
	if m := s.Frequency.months(); m > 0 {
		return AddMonths(cursor, m*s.Interval)
	}
	return cursor
}

// Generate enumerates the schedule's due dates that fall inside the window.
//
// Dates are always derived by stepping from StartDate, so a window that begins between
// two occurrences starts at the next real occurrence, and overlapping windows agree on
// every date they share. The run stops at the first of: the end bound (the earlier of
// EndDate and w.End, or FarFuture when neither is set), the schedule's Occurrences cap
// (counted over the whole series), MaxOccurrences emitted dates, or a step that fails
// to move the cursor forward.
func Generate(s Schedule, w Window) Result {
	var res Result
	if s.StartDate.IsZero() {
		return res
	}

	cursor := DateOf(s.StartDate)
	from := cursor
	if w.Start != nil && DateOf(*w.Start).After(from) {
		from = DateOf(*w.Start)
	}
	end := endBound(s, w)
	if from.After(end) {
		return res
	}

	series := 0
	// Day-based steps never clamp, so the series can jump straight to the window.
	if step := s.Frequency.days() * s.Interval; step > 0 && from.After(cursor) {
		skipped := int(from.Sub(cursor).Hours()/24) / step
		cursor = AddDays(cursor, skipped*step)
		series = skipped
	}

	// Occurrences counts the whole series, dates before the window included.
	for ; !cursor.After(end); series++ {
		if s.Occurrences != nil && series >= *s.Occurrences {
			break
		}
		if !cursor.Before(from) {
			if len(res.Occurrences) >= MaxOccurrences {
				res.CeilingReached = true
				break
			}
			res.Occurrences = append(res.Occurrences, Occurrence{
				Sequence:    len(res.Occurrences),
				SeriesIndex: series,
				DueDate:     cursor,
			})
		}

		next := s.Next(cursor)
		if !next.After(cursor) {
			break
		}
		cursor = next
	}
	return res
}

// Dates is a convenience wrapper returning only the due dates of Generate.
func Dates(s Schedule, w Window) []time.Time {
	res := Generate(s, w)
	dates := make([]time.Time, len(res.Occurrences))
	for i, o := range res.Occurrences {
		dates[i] = o.DueDate
	}
	return dates
}

func endBound(s Schedule, w Window) time.Time {
	var end *time.Time
	if s.EndDate != nil {
		d := DateOf(*s.EndDate)
		end = &d
	}
	if w.End != nil {
		d := DateOf(*w.End)
		if end == nil || d.Before(*end) {
			end = &d
		}
	}
	if end == nil {
		return FarFuture
	}
	return *end
}
