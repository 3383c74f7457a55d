package models

import "time"

// Health is the entry returned by the health endpoint
type Health struct {
	Status       string `json:"status"`
	Stations     int    `json:"stations"`
	Edges        int    `json:"edges"`
	WalkingEdges int    `json:"walkingEdges"`
	BuiltFrom    string `json:"builtFrom"`
	LastUpdated  int64  `json:"lastUpdated"`
	ReadableTime string `json:"readableLastUpdated"`
}

func NewHealth(status string, stations, edges, walkingEdges int, builtFrom string, lastUpdated time.Time) Health {
	h := Health{
		Status:       status,
		Stations:     stations,
		Edges:        edges,
		WalkingEdges: walkingEdges,
		BuiltFrom:    builtFrom,
	}
	if !lastUpdated.IsZero() {
		h.LastUpdated = lastUpdated.UnixNano() / int64(time.Millisecond)
		h.ReadableTime = lastUpdated.Format(time.RFC3339)
	}
	return h
}
