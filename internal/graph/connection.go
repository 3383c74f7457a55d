package graph

import (
	"math"
	"slices"
)

// WalkingSpeed is the walking pace used for distance-derived connections, in meters per minute.
const WalkingSpeed = 80.0

// Connection is the cost model carried by an edge. A timetabled connection
// holds one entry per minute of the day with the number of minutes until the
// next departure; an instantaneous connection (walking) can be used at any minute.
type Connection struct {
	Duration uint16
	waits    *[MinutesPerDay]uint16
}

// NewTimetabledConnection builds a scheduled connection from its departure times.
// Departures are sorted and de-duplicated; minutes after the last departure of
// the day wait for the first departure of the next day.
func NewTimetabledConnection(durationMinutes float64, departures []TimeOfDay) (Connection, error) {
	if len(departures) == 0 {
		return Connection{}, ErrNoDepartures
	}

	times := make([]int, 0, len(departures))
	for _, d := range departures {
		times = append(times, int(normalizeMinute(int(d))))
	}
	slices.Sort(times)
	times = slices.Compact(times)

	var waits [MinutesPerDay]uint16
	start := 0
	for _, departure := range times {
		for m := start; m <= departure; m++ {
			waits[m] = uint16(departure - m)
		}
		start = departure + 1
	}

	first := times[0]
	for m := start; m < MinutesPerDay; m++ {
		waits[m] = uint16(MinutesPerDay - m + first)
	}

	return Connection{
		Duration: clampMinutes(durationMinutes),
		waits:    &waits,
	}, nil
}

// NewWalkingConnection builds an instantaneous connection covering the given distance.
func NewWalkingConnection(meters float64) Connection {
	return Connection{Duration: clampMinutes(meters / WalkingSpeed)}
}

// IsInstantaneous reports whether the connection has no schedule.
func (c Connection) IsInstantaneous() bool {
	return c.waits == nil
}

// MinutesToDeparture returns the wait at the given minute. Minutes beyond one
// day are folded back into the day.
func (c Connection) MinutesToDeparture(minute int) uint16 {
	if c.waits == nil {
		return 0
	}
	return c.waits[normalizeMinute(minute)]
}

// Cost returns the wait and the travel time when arriving at the edge's tail at minute.
func (c Connection) Cost(minute int) (wait, travel uint16) {
	return c.MinutesToDeparture(minute), c.Duration
}

// Departures recovers the departure times encoded in the wait table.
func (c Connection) Departures() []TimeOfDay {
	if c.waits == nil {
		return nil
	}
	var departures []TimeOfDay
	for m, wait := range c.waits {
		if wait == 0 {
			departures = append(departures, TimeOfDay(m))
		}
	}
	return departures
}

func clampMinutes(minutes float64) uint16 {
	if math.IsNaN(minutes) || minutes <= 0 {
		return 0
	}
	if minutes >= math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(minutes)
}
