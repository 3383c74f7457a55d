package graph

import (
	"sync"
)

// DefaultWalkingRadius is the distance within which stations get walking edges, in meters.
const DefaultWalkingRadius = 1000.0

// Graph is an arena of stations with per-station outgoing edges. It is
// assembled once by Build (or ReadSnapshot) and read concurrently afterwards.
type Graph struct {
	stations      []Station
	adjacency     [][]Edge
	edgeCount     int
	stationIndex  map[string]int
	walkingRadius float64

	spatialOnce sync.Once
	spatial     *SpatialIndex
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		stationIndex:  make(map[string]int),
		walkingRadius: DefaultWalkingRadius,
	}
}

// StationCount returns the number of stations.
func (g *Graph) StationCount() int {
	return len(g.stations)
}

// EdgeCount returns the number of directed edges, scheduled and walking.
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

// WalkingRadius returns the radius used for walking edges, in meters.
func (g *Graph) WalkingRadius() float64 {
	return g.walkingRadius
}

// Station returns the station stored at index i.
func (g *Graph) Station(i int) Station {
	return g.stations[i]
}

// Stations returns a copy of every station in index order.
func (g *Graph) Stations() []Station {
	out := make([]Station, len(g.stations))
	copy(out, g.stations)
	return out
}

// Lookup returns the node index of a stop id.
func (g *Graph) Lookup(id string) (int, bool) {
	idx, ok := g.stationIndex[id]
	return idx, ok
}

// StationByID returns the station with the given stop id.
func (g *Graph) StationByID(id string) (Station, bool) {
	idx, ok := g.stationIndex[id]
	if !ok {
		return Station{}, false
	}
	return g.stations[idx], true
}

// StationsOnPaths resolves every station id visited by paths. Ids the graph
// does not know are left out.
func (g *Graph) StationsOnPaths(paths []Path) map[string]Station {
	stations := make(map[string]Station)
	for _, path := range paths {
		for _, id := range path.Stops {
			if _, ok := stations[id]; ok {
				continue
			}
			if s, ok := g.StationByID(id); ok {
				stations[id] = s
			}
		}
	}
	return stations
}

// Outgoing returns the edges leaving station i. The slice must not be modified.
func (g *Graph) Outgoing(i int) []Edge {
	return g.adjacency[i]
}

// AddStation returns the index of the station with s.ID, inserting s if the id
// is new. The first occurrence of an id wins.
func (g *Graph) AddStation(s Station) int {
	if idx, ok := g.stationIndex[s.ID]; ok {
		return idx
	}
	idx := len(g.stations)
	g.stations = append(g.stations, s)
	g.adjacency = append(g.adjacency, nil)
	g.stationIndex[s.ID] = idx
	return idx
}

// AddEdge adds a directed edge. Parallel edges are kept.
func (g *Graph) AddEdge(from, to int, c Connection) {
	g.adjacency[from] = append(g.adjacency[from], Edge{To: to, Connection: c})
	g.edgeCount++
}

// SpatialIndex returns the nearest-neighbour index over all stations, building it on first use.
func (g *Graph) SpatialIndex() *SpatialIndex {
	g.spatialOnce.Do(func() {
		if g.spatial == nil {
			g.spatial = NewSpatialIndex(g.stations)
		}
	})
	return g.spatial
}

// search graph view shared by the plain graph and the ephemeral-origin overlay
type view interface {
	stationCount() int
	station(i int) Station
	outgoing(i int) []Edge
}

func (g *Graph) stationCount() int     { return len(g.stations) }
func (g *Graph) station(i int) Station { return g.stations[i] }
func (g *Graph) outgoing(i int) []Edge { return g.adjacency[i] }
