package graph

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// LocationSeparator joins several "lat,lon" pairs in a single group query.
const LocationSeparator = "_"

// Location is a point on the Earth's surface in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Point converts the location to an orb point (longitude first).
func (l Location) Point() orb.Point {
	return orb.Point{l.Lon, l.Lat}
}

// DistanceTo returns the great-circle distance in meters.
func (l Location) DistanceTo(other Location) float64 {
	return geo.DistanceHaversine(l.Point(), other.Point())
}

func (l Location) String() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lon, 'f', -1, 64)
}

// ParseLocation parses a "lat,lon" pair such as "51.501105,-0.232320".
func ParseLocation(s string) (Location, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Location{}, &CoordinateParseError{Input: s, Reason: "expected \"lat,lon\""}
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Location{}, &CoordinateParseError{Input: s, Reason: "latitude is not a number"}
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Location{}, &CoordinateParseError{Input: s, Reason: "longitude is not a number"}
	}

	loc := Location{Lat: lat, Lon: lon}
	if reason := loc.rangeProblem(); reason != "" {
		return Location{}, &CoordinateParseError{Input: s, Reason: reason}
	}
	return loc, nil
}

// Validate checks that the coordinate lies within the valid latitude and longitude ranges.
func (l Location) Validate() error {
	if reason := l.rangeProblem(); reason != "" {
		return &CoordinateParseError{Input: l.String(), Reason: reason}
	}
	return nil
}

func (l Location) rangeProblem() string {
	if math.IsNaN(l.Lat) || l.Lat < -90 || l.Lat > 90 {
		return "latitude must be between -90 and 90"
	}
	if math.IsNaN(l.Lon) || l.Lon < -180 || l.Lon > 180 {
		return "longitude must be between -180 and 180"
	}
	return ""
}

// ParseLocations parses LocationSeparator-delimited coordinates. A single bad
// pair fails the whole input.
func ParseLocations(s string) ([]Location, error) {
	parts := strings.Split(s, LocationSeparator)
	locations := make([]Location, 0, len(parts))
	for _, part := range parts {
		loc, err := ParseLocation(part)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

// LooksLikeLocation reports whether s should be treated as coordinates rather than a stop id.
func LooksLikeLocation(s string) bool {
	return strings.Contains(s, ",")
}
