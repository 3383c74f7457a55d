package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// reference point in central London
var origin = Location{Lat: 51.5, Lon: -0.1}

func offset(lat, lon float64) Location {
	return Location{Lat: origin.Lat + lat, Lon: origin.Lon + lon}
}

func tod(t *testing.T, s string) TimeOfDay {
	t.Helper()
	v, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func timetabled(t *testing.T, duration float64, departures ...string) Connection {
	t.Helper()
	times := make([]TimeOfDay, 0, len(departures))
	for _, d := range departures {
		times = append(times, tod(t, d))
	}
	c, err := NewTimetabledConnection(duration, times)
	require.NoError(t, err)
	return c
}

// scenarioGraph is A -(10:00, 10:30; 5 min)-> B -(walk 3 min)-> C, with no
// walking augmentation.
func scenarioGraph(t *testing.T) *Graph {
	t.Helper()
	g := New()
	a := g.AddStation(Station{ID: "A", Name: "Alpha", Location: offset(0, 0)})
	b := g.AddStation(Station{ID: "B", Name: "Bravo", Location: offset(0.05, 0)})
	c := g.AddStation(Station{ID: "C", Name: "Charlie", Location: offset(0.1, 0)})
	g.AddEdge(a, b, timetabled(t, 5, "10:00", "10:30"))
	g.AddEdge(b, c, NewWalkingConnection(3*WalkingSpeed))
	return g
}

func minutesByID(paths []Path) map[string]int {
	out := make(map[string]int, len(paths))
	for _, p := range paths {
		out[p.Destination.ID] = p.Minutes
	}
	return out
}

func pathByID(paths []Path, id string) (Path, bool) {
	for _, p := range paths {
		if p.Destination.ID == id {
			return p, true
		}
	}
	return Path{}, false
}
