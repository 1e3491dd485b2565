package recurrence

import (
	"fmt"
	"strings"
)

type Frequency string

const (
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

var frequencies = []Frequency{Daily, Weekly, Monthly, Quarterly, Yearly}

// ParseFrequency accepts the frequency names case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}
	return f, nil
}

// Frequencies lists the supported frequencies from the shortest step to the longest.
func Frequencies() []Frequency {
	out := make([]Frequency, len(frequencies))
	copy(out, frequencies)
	return out
}

func (f Frequency) IsValid() bool {
	for _, known := range frequencies {
		if f == known {
			return true
		}
	}
	return false
}

// months returns the number of calendar months one step of this frequency spans,
// or 0 for day-based frequencies.
func (f Frequency) months() int {
	switch f {
	case Monthly:
		return 1
	case Quarterly:
		return 3
	case Yearly:
		return 12
	default:
		return 0
	}
}

// days returns the number of days one step spans, or 0 for month-based frequencies.
func (f Frequency) days() int {
	switch f {
	case Daily:
		return 1
	case Weekly:
		return 7
	default:
		return 0
	}
}
