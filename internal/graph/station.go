package graph

// Station is a graph node: a transit stop, or an ephemeral query point with an empty ID.
type Station struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location Location `json:"location"`
}

// IsEphemeral reports whether the station stands for a query coordinate rather than a stop.
func (s Station) IsEphemeral() bool {
	return s.ID == ""
}

// Edge is a directed edge stored in its origin's adjacency list.
type Edge struct {
	To         int
	Connection Connection
}
