package transitdb

import "fmt"

// Stop is a transit stop with its coordinates
type Stop struct {
	ID   string  `json:"id"`   // stop_id
	Name string  `json:"name"` // stop_name
	Lat  float64 `json:"lat"`  // stop_lat
	Lon  float64 `json:"lon"`  // stop_lon
}

// DirectConnection is a scheduled link between two consecutive stops of
// some service, with every departure minute from the origin.
type DirectConnection struct {
	Origin          string  `json:"origin"`          // origin_id
	Destination     string  `json:"destination"`     // destination_id
	DurationMinutes float64 `json:"durationMinutes"` // duration_minutes
	// Departures are minutes after midnight, sorted and unique once stored.
	Departures []int `json:"departures"`
}

// ConnectionKey identifies a connection by its ordered stop pair.
type ConnectionKey struct {
	Origin      string
	Destination string
}

func (k ConnectionKey) String() string {
	return fmt.Sprintf("%q->%q", k.Origin, k.Destination)
}

// Key is the natural key of a connection.
func (c DirectConnection) Key() ConnectionKey {
	return ConnectionKey{Origin: c.Origin, Destination: c.Destination}
}
