package models

import "traveltime.dev/engine/internal/graph"

type Stop struct {
	ID   string  `json:"id"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}

func NewStop(station graph.Station) Stop {
	return Stop{
		ID:   station.ID,
		Lat:  station.Location.Lat,
		Lon:  station.Location.Lon,
		Name: station.Name,
	}
}

// TravelTime is one reachable destination in a travel-time response.
type TravelTime struct {
	Minutes     int       `json:"minutes"`
	Destination Stop      `json:"destination"`
	Path        []string  `json:"path,omitempty"`
	Polyline    *Polyline `json:"polyline,omitempty"`
}

// NewTravelTime converts a search result. stations resolves the ids in
// path.Stops; pass nil to leave out the path and its polyline.
func NewTravelTime(path graph.Path, stations map[string]graph.Station) TravelTime {
	entry := TravelTime{
		Minutes:     path.Minutes,
		Destination: NewStop(path.Destination),
	}
	if stations == nil {
		return entry
	}

	entry.Path = path.Stops
	points := make([]CoordinatePoint, 0, len(path.Stops))
	for _, id := range path.Stops {
		if s, ok := stations[id]; ok {
			points = append(points, CoordinatePoint{Lat: s.Location.Lat, Lon: s.Location.Lon})
		}
	}
	if len(points) > 0 {
		line := NewPolyline(points)
		entry.Polyline = &line
	}
	return entry
}
