package graph

import (
	"log/slog"
	"time"

	"traveltime.dev/engine/internal/logging"
)

// ConnectionRecord is a direct scheduled link between two consecutive stops
// as read from the store.
type ConnectionRecord struct {
	Origin          string
	Destination     string
	DurationMinutes float64
	Departures      []TimeOfDay
}

// StopRecord is a stop as read from the store.
type StopRecord struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

// BuildReport summarizes a graph build.
type BuildReport struct {
	Stations       int
	ScheduledEdges int
	WalkingEdges   int
	Skipped        int
	Errors         []error
	Duration       time.Duration
}

type buildOptions struct {
	logger        *slog.Logger
	walkingRadius float64
	walking       bool
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

// WithLogger sets the logger used to report skipped records.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(o *buildOptions) {
		o.logger = logger
	}
}

// WithWalkingRadius overrides DefaultWalkingRadius.
func WithWalkingRadius(meters float64) BuildOption {
	return func(o *buildOptions) {
		o.walkingRadius = meters
	}
}

// WithoutWalkingEdges disables walking augmentation.
func WithoutWalkingEdges() BuildOption {
	return func(o *buildOptions) {
		o.walking = false
	}
}

// Build assembles a graph from direct connections and the stops they reference.
// Records whose endpoints are missing from stops, or which have no departures,
// are skipped and reported; the build itself never fails.
func Build(connections []ConnectionRecord, stops map[string]StopRecord, opts ...BuildOption) (*Graph, BuildReport) {
	o := buildOptions{
		logger:        slog.Default(),
		walkingRadius: DefaultWalkingRadius,
		walking:       true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	started := time.Now()
	g := New()
	g.walkingRadius = o.walkingRadius
	var report BuildReport

	skip := func(err error) {
		report.Skipped++
		report.Errors = append(report.Errors, err)
		logging.LogWarn(o.logger, "skipping connection", err)
	}

	for _, c := range connections {
		origin, ok := stops[c.Origin]
		if !ok {
			skip(&DataInconsistencyError{Origin: c.Origin, Destination: c.Destination, MissingStop: c.Origin, Err: ErrStopNotFound})
			continue
		}
		destination, ok := stops[c.Destination]
		if !ok {
			skip(&DataInconsistencyError{Origin: c.Origin, Destination: c.Destination, MissingStop: c.Destination, Err: ErrStopNotFound})
			continue
		}

		conn, err := NewTimetabledConnection(c.DurationMinutes, c.Departures)
		if err != nil {
			skip(&DataInconsistencyError{Origin: c.Origin, Destination: c.Destination, Err: err})
			continue
		}

		from := g.AddStation(origin.station())
		to := g.AddStation(destination.station())
		g.AddEdge(from, to, conn)
		report.ScheduledEdges++
	}

	if o.walking {
		report.WalkingEdges = g.AddWalkingEdges(o.walkingRadius)
	}

	report.Stations = g.StationCount()
	report.Duration = time.Since(started)

	logging.LogOperation(o.logger, "graph_built",
		slog.Int("stations", report.Stations),
		slog.Int("scheduled_edges", report.ScheduledEdges),
		slog.Int("walking_edges", report.WalkingEdges),
		slog.Int("skipped", report.Skipped),
		slog.Duration("duration", report.Duration))

	return g, report
}

func (s StopRecord) station() Station {
	return Station{
		ID:       s.ID,
		Name:     s.Name,
		Location: Location{Lat: s.Lat, Lon: s.Lon},
	}
}
