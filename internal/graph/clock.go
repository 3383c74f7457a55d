package graph

import (
	"fmt"
	"time"
)

// MinutesPerDay is the length of a wait table.
const MinutesPerDay = 24 * 60

// TimeOfDay is a number of minutes after midnight in the range [0, MinutesPerDay).
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from hours and minutes, wrapping past midnight.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return normalizeMinute(hour*60 + minute)
}

// TimeOfDayFromDuration converts an offset from midnight, such as a GTFS
// stop time of 25:10:00, into a TimeOfDay. Seconds are truncated.
func TimeOfDayFromDuration(d time.Duration) TimeOfDay {
	return normalizeMinute(int(d / time.Minute))
}

// TimeOfDayFromTime returns the wall-clock minute of t in its own location.
func TimeOfDayFromTime(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

// ParseTimeOfDay parses "HH:MM" (24-hour clock). "HH:MM:SS" is accepted too.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayFromTime(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q: expected HH:MM", s)
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Minute returns the minute component.
func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func normalizeMinute(m int) TimeOfDay {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return TimeOfDay(m)
}
