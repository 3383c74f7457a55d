package utils

import (
	"fmt"
	"net/url"
	"strconv"

	"traveltime.dev/engine/internal/graph"
)

// Origin is the parsed origin of a travel-time request: either a stop id or
// one or more coordinates.
type Origin struct {
	StopID    string
	Locations []graph.Location
}

// IsStop reports whether the origin names a stop
func (o Origin) IsStop() bool {
	return o.StopID != ""
}

// ParseOrigin interprets the origin path segment. Anything containing a comma
// is parsed as coordinates joined by graph.LocationSeparator, and one bad
// coordinate rejects the whole origin.
func ParseOrigin(origin string) (Origin, map[string][]string) {
	if graph.LooksLikeLocation(origin) {
		locations, err := graph.ParseLocations(origin)
		if err != nil {
			return Origin{}, map[string][]string{"origin": {err.Error()}}
		}
		if err := ValidateLocationCount(len(locations)); err != nil {
			return Origin{}, map[string][]string{"origin": {err.Error()}}
		}
		return Origin{Locations: locations}, nil
	}

	if err := ValidateID(origin); err != nil {
		return Origin{}, map[string][]string{"origin": {err.Error()}}
	}
	return Origin{StopID: origin}, nil
}

// ParseTimeParameter parses the departure time path segment ("HH:MM").
func ParseTimeParameter(timeParam string) (graph.TimeOfDay, map[string][]string) {
	if timeParam == "" {
		return 0, map[string][]string{"time": {"time is required"}}
	}
	start, err := graph.ParseTimeOfDay(timeParam)
	if err != nil {
		return 0, map[string][]string{"time": {"Invalid field value for field \"time\"."}}
	}
	return start, nil
}

// ParseBoolParam retrieves a boolean value from the provided URL query parameters.
// A missing key yields def; an unparsable value yields def and a field error.
func ParseBoolParam(params url.Values, key string, def bool, fieldErrors map[string][]string) (bool, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return def, fieldErrors
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return def, fieldErrors
	}
	return b, fieldErrors
}
