package recurrence

import (
	"fmt"
	"strings"

	"github.com/teambition/rrule-go"
)

// ToROption maps a schedule onto RFC 5545 recurrence options. Quarterly becomes a
// monthly rule with a tripled interval.
func ToROption(s Schedule) (rrule.ROption, error) {
	if err := s.Validate(); err != nil {
		return rrule.ROption{}, err
	}

	opt := rrule.ROption{
		Interval: s.Interval,
		Dtstart:  DateOf(s.StartDate),
	}
	switch s.Frequency {
	case Daily:
		opt.Freq = rrule.DAILY
	case Weekly:
		opt.Freq = rrule.WEEKLY
	case Monthly:
		opt.Freq = rrule.MONTHLY
	case Quarterly:
		opt.Freq = rrule.MONTHLY
		opt.Interval = 3 * s.Interval
	case Yearly:
		opt.Freq = rrule.YEARLY
	}
	if s.Occurrences != nil {
		opt.Count = *s.Occurrences
	}
	if s.EndDate != nil {
		opt.Until = DateOf(*s.EndDate)
	}
	return opt, nil
}

// RRule renders the schedule as an RFC 5545 rule for calendar export.
//
// Calendar clients skip months that lack the start day instead of clamping to the last
// day, so for start days after the 28th the exported rule can disagree with Generate.
func RRule(s Schedule) (string, error) {
	opt, err := ToROption(s)
	if err != nil {
		return "", err
	}
	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("failed to build RRULE: %w", err)
	}
	return rule.String(), nil
}

var units = map[Frequency]string{
	Daily:     "day",
	Weekly:    "week",
	Monthly:   "month",
	Quarterly: "quarter",
	Yearly:    "year",
}

// Describe returns a short English summary, e.g. "every 2 weeks from 2024-01-01, 3 times".
func Describe(s Schedule) string {
	unit, ok := units[s.Frequency]
	if !ok {
		return "one-off"
	}

	var b strings.Builder
	if s.Interval <= 1 {
		b.WriteString("every " + unit)
	} else {
		fmt.Fprintf(&b, "every %d %ss", s.Interval, unit)
	}
	if !s.StartDate.IsZero() {
		b.WriteString(" from " + s.StartDate.Format(DateLayout))
	}
	if s.EndDate != nil {
		b.WriteString(" until " + s.EndDate.Format(DateLayout))
	}
	if s.Occurrences != nil {
		if *s.Occurrences == 1 {
			b.WriteString(", once")
		} else {
			fmt.Fprintf(&b, ", %d times", *s.Occurrences)
		}
	}
	return b.String()
}
