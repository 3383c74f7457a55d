package graph

import (
	"context"
	"fmt"
)

// overlay presents the graph plus one ephemeral origin to the search without
// touching the shared graph. The ephemeral node takes index len(stations) and
// only has outgoing walking edges.
type overlay struct {
	g      *Graph
	origin Station
	edges  []Edge
}

func newOverlay(g *Graph, loc Location) *overlay {
	o := &overlay{
		g:      g,
		origin: Station{Location: loc},
	}
	for _, n := range g.SpatialIndex().WithinRadius(loc, g.walkingRadius) {
		o.edges = append(o.edges, Edge{To: n.Index, Connection: NewWalkingConnection(n.Meters)})
	}
	return o
}

func (o *overlay) originIndex() int { return len(o.g.stations) }

func (o *overlay) stationCount() int { return len(o.g.stations) + 1 }

func (o *overlay) station(i int) Station {
	if i == o.originIndex() {
		return o.origin
	}
	return o.g.stations[i]
}

func (o *overlay) outgoing(i int) []Edge {
	if i == o.originIndex() {
		return o.edges
	}
	return o.g.adjacency[i]
}

// TimeToAllFromLocation runs a search from an arbitrary coordinate. The point
// is linked by walking edges to every station within the walking radius. The
// ephemeral origin never appears in the results.
func (g *Graph) TimeToAllFromLocation(ctx context.Context, loc Location, start TimeOfDay) ([]Path, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	o := newOverlay(g, loc)
	s, err := search(ctx, o, o.originIndex(), start, -1)
	if err != nil {
		return nil, fmt.Errorf("search from %s: %w", loc, err)
	}
	return s.paths(), nil
}
