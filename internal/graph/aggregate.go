package graph

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// TimeToAllFromLocations answers the group question "how long until every
// member of the group has arrived": one search per origin, reduced per
// destination by keeping the slowest arrival. A destination reached from only
// some origins keeps the slowest of the arrivals that exist.
func (g *Graph) TimeToAllFromLocations(ctx context.Context, locs []Location, start TimeOfDay) ([]Path, error) {
	switch len(locs) {
	case 0:
		return nil, ErrNoLocations
	case 1:
		return g.TimeToAllFromLocation(ctx, locs[0], start)
	}

	results := make([][]Path, len(locs))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, loc := range locs {
		eg.Go(func() error {
			paths, err := g.TimeToAllFromLocation(egCtx, loc, start)
			if err != nil {
				return err
			}
			results[i] = paths
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return reduceSlowest(results), nil
}

// reduceSlowest merges per-origin results keeping, for each destination id,
// the path with the greatest minutes. Ties keep the earlier origin.
func reduceSlowest(results [][]Path) []Path {
	slowest := make(map[string]int)
	var merged []Path
	for _, paths := range results {
		for _, p := range paths {
			i, seen := slowest[p.Destination.ID]
			if !seen {
				slowest[p.Destination.ID] = len(merged)
				merged = append(merged, p)
				continue
			}
			if p.Minutes > merged[i].Minutes {
				merged[i] = p
			}
		}
	}
	sortPaths(merged)
	return merged
}
