package graph

import (
	"container/heap"
	"context"
	"sort"
)

// number of queue pops between context checks
const cancelCheckInterval = 256

// Path is the result of a search for one reachable destination.
type Path struct {
	Destination Station
	// Minutes elapsed between the query start and arrival at Destination.
	Minutes int
	// Stops lists station ids from the origin to Destination. Ephemeral
	// query points are left out.
	Stops []string
}

type queueItem struct {
	node  int
	score int
	seq   uint64
}

type priorityQueue []queueItem

func (q priorityQueue) Len() int { return len(q) }

func (q priorityQueue) Less(i, j int) bool {
	if q[i].score != q[j].score {
		return q[i].score < q[j].score
	}
	return q[i].seq < q[j].seq
}

func (q priorityQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *priorityQueue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *priorityQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

type searchState struct {
	v      view
	origin int
	start  int
	best   []int
	parent []int
}

// search runs a time-dependent Dijkstra from origin. Scores are absolute
// minutes since midnight of the query day and may exceed one day; wait tables
// are consulted at score mod MinutesPerDay. When target is non-negative the
// search stops as soon as target is settled.
func search(ctx context.Context, v view, origin int, start TimeOfDay, target int) (*searchState, error) {
	n := v.stationCount()
	s := &searchState{
		v:      v,
		origin: origin,
		start:  int(start),
		best:   make([]int, n),
		parent: make([]int, n),
	}
	for i := range s.best {
		s.best[i] = -1
		s.parent[i] = -1
	}
	visited := make([]bool, n)

	var seq uint64
	pq := &priorityQueue{}
	s.best[origin] = s.start
	heap.Push(pq, queueItem{node: origin, score: s.start, seq: seq})

	pops := 0
	for pq.Len() > 0 {
		pops++
		if pops%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		item := heap.Pop(pq).(queueItem)
		if visited[item.node] || item.score != s.best[item.node] {
			continue
		}
		visited[item.node] = true
		if item.node == target {
			break
		}

		for _, e := range v.outgoing(item.node) {
			if visited[e.To] {
				continue
			}
			wait, travel := e.Connection.Cost(item.score)
			next := item.score + int(wait) + int(travel)
			if s.best[e.To] < 0 || next < s.best[e.To] {
				s.best[e.To] = next
				s.parent[e.To] = item.node
				seq++
				heap.Push(pq, queueItem{node: e.To, score: next, seq: seq})
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *searchState) reached(node int) bool {
	return s.best[node] >= 0
}

func (s *searchState) path(node int) Path {
	var stops []string
	for cur := node; cur >= 0; cur = s.parent[cur] {
		if st := s.v.station(cur); !st.IsEphemeral() {
			stops = append(stops, st.ID)
		}
	}
	for i, j := 0, len(stops)-1; i < j; i, j = i+1, j-1 {
		stops[i], stops[j] = stops[j], stops[i]
	}
	return Path{
		Destination: s.v.station(node),
		Minutes:     s.best[node] - s.start,
		Stops:       stops,
	}
}

// paths lists every reached non-ephemeral station, ordered by minutes then id.
func (s *searchState) paths() []Path {
	var out []Path
	for node := range s.best {
		if !s.reached(node) || s.v.station(node).IsEphemeral() {
			continue
		}
		out = append(out, s.path(node))
	}
	sortPaths(out)
	return out
}

func sortPaths(paths []Path) {
	sort.Slice(paths, func(i, j int) bool {
		if paths[i].Minutes != paths[j].Minutes {
			return paths[i].Minutes < paths[j].Minutes
		}
		return paths[i].Destination.ID < paths[j].Destination.ID
	})
}

// TimeToAllFromStop returns the earliest arrival at every station reachable
// from stopID when leaving at start. The origin itself is included with zero
// minutes.
func (g *Graph) TimeToAllFromStop(ctx context.Context, stopID string, start TimeOfDay) ([]Path, error) {
	origin, ok := g.Lookup(stopID)
	if !ok || stopID == "" {
		return nil, stopNotFound(stopID)
	}
	s, err := search(ctx, g, origin, start, -1)
	if err != nil {
		return nil, err
	}
	return s.paths(), nil
}

// TimeBetweenStops returns the earliest-arrival path from one stop to another.
func (g *Graph) TimeBetweenStops(ctx context.Context, from, to string, start TimeOfDay) (Path, error) {
	origin, ok := g.Lookup(from)
	if !ok || from == "" {
		return Path{}, stopNotFound(from)
	}
	target, ok := g.Lookup(to)
	if !ok || to == "" {
		return Path{}, stopNotFound(to)
	}
	s, err := search(ctx, g, origin, start, target)
	if err != nil {
		return Path{}, err
	}
	if !s.reached(target) {
		return Path{}, ErrUnreachable
	}
	return s.path(target), nil
}
