package graph

import (
	"math"
	"sort"

	"github.com/tidwall/rtree"
)

// 1 degree of latitude is roughly 111km; the box is a superset of the circle.
const metersPerDegree = 111000.0

// Neighbor is a station found by a radius query.
type Neighbor struct {
	Index  int
	Meters float64
}

// SpatialIndex answers "which stations lie within r meters of this point".
// Candidates come from an R-tree bounding-box search and are then filtered by
// haversine distance.
type SpatialIndex struct {
	tree      rtree.RTree
	locations []Location
}

// NewSpatialIndex indexes the stations by their slice position.
func NewSpatialIndex(stations []Station) *SpatialIndex {
	idx := &SpatialIndex{
		locations: make([]Location, len(stations)),
	}
	for i, s := range stations {
		idx.locations[i] = s.Location
		// For points, min and max are the same [lat, lon]
		point := [2]float64{s.Location.Lat, s.Location.Lon}
		idx.tree.Insert(point, point, i)
	}
	return idx
}

// Len returns the number of indexed points.
func (s *SpatialIndex) Len() int {
	return len(s.locations)
}

// WithinRadius returns every indexed point within radius meters of loc,
// nearest first (ties by index).
func (s *SpatialIndex) WithinRadius(loc Location, radius float64) []Neighbor {
	if s == nil || radius < 0 {
		return nil
	}

	latDelta := radius / metersPerDegree
	cosLat := math.Cos(loc.Lat * math.Pi / 180)
	if cosLat < 1e-6 {
		cosLat = 1e-6
	}
	lonDelta := radius / (metersPerDegree * cosLat)

	var neighbors []Neighbor
	s.tree.Search(
		[2]float64{loc.Lat - latDelta, loc.Lon - lonDelta},
		[2]float64{loc.Lat + latDelta, loc.Lon + lonDelta},
		func(min, max [2]float64, data interface{}) bool {
			i, ok := data.(int)
			if !ok {
				return true
			}
			if d := loc.DistanceTo(s.locations[i]); d <= radius {
				neighbors = append(neighbors, Neighbor{Index: i, Meters: d})
			}
			return true
		},
	)

	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].Meters != neighbors[b].Meters {
			return neighbors[a].Meters < neighbors[b].Meters
		}
		return neighbors[a].Index < neighbors[b].Index
	})
	return neighbors
}
