package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrStopNotFound is returned when a query references a stop id that is not in the graph.
	ErrStopNotFound = errors.New("stop not found")

	// ErrInvalidCoordinate is wrapped by every CoordinateParseError.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrNoDepartures is returned when a timetabled connection is built from an empty schedule.
	ErrNoDepartures = errors.New("connection has no departures")

	// ErrNoLocations is returned by group queries called without any origin.
	ErrNoLocations = errors.New("at least one location is required")

	// ErrUnreachable is returned by single-target searches when the target cannot be reached.
	ErrUnreachable = errors.New("destination unreachable")
)

// CoordinateParseError describes a "lat,lon" string that could not be parsed.
type CoordinateParseError struct {
	Input  string
	Reason string
}

func (e *CoordinateParseError) Error() string {
	return fmt.Sprintf("invalid coordinate %q: %s", e.Input, e.Reason)
}

func (e *CoordinateParseError) Unwrap() error {
	return ErrInvalidCoordinate
}

// DataInconsistencyError is reported for connection records the builder had to skip.
type DataInconsistencyError struct {
	Origin      string
	Destination string
	MissingStop string
	Err         error
}

func (e *DataInconsistencyError) Error() string {
	if e.MissingStop != "" {
		return fmt.Sprintf("connection %s -> %s references unknown stop %q", e.Origin, e.Destination, e.MissingStop)
	}
	return fmt.Sprintf("connection %s -> %s: %v", e.Origin, e.Destination, e.Err)
}

func (e *DataInconsistencyError) Unwrap() error {
	return e.Err
}

func stopNotFound(id string) error {
	return fmt.Errorf("%w: %q", ErrStopNotFound, id)
}
