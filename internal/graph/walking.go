package graph

// AddWalkingEdges links every station to every other station within radius
// meters with an instantaneous walking edge. Both directions are produced
// because each station takes its turn as the origin. Walking edges are added
// alongside scheduled ones, never merged with them. It returns the number of
// edges added.
func (g *Graph) AddWalkingEdges(radius float64) int {
	g.walkingRadius = radius
	index := g.SpatialIndex()

	added := 0
	for i, s := range g.stations {
		if s.IsEphemeral() {
			continue
		}
		for _, n := range index.WithinRadius(s.Location, radius) {
			if n.Index == i {
				continue
			}
			g.AddEdge(i, n.Index, NewWalkingConnection(n.Meters))
			added++
		}
	}
	return added
}
