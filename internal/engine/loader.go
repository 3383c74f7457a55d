package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"traveltime.dev/engine/internal/graph"
	"traveltime.dev/engine/internal/logging"
	"traveltime.dev/engine/transitdb"
)

// Source is the read side of the store the graph is built from.
type Source interface {
	FetchAllConnections(ctx context.Context) ([]transitdb.DirectConnection, error)
	FetchStops(ctx context.Context, ids []string) ([]transitdb.Stop, error)
}

// buildFromSource fetches every connection, then the stops they reference,
// and assembles the graph.
func buildFromSource(ctx context.Context, source Source, config Config) (*graph.Graph, graph.BuildReport, error) {
	connections, err := source.FetchAllConnections(ctx)
	if err != nil {
		return nil, graph.BuildReport{}, fmt.Errorf("error fetching connections: %w", err)
	}

	stops, err := source.FetchStops(ctx, referencedStopIDs(connections))
	if err != nil {
		return nil, graph.BuildReport{}, fmt.Errorf("error fetching stops: %w", err)
	}

	stopRecords := make(map[string]graph.StopRecord, len(stops))
	for _, s := range stops {
		stopRecords[s.ID] = graph.StopRecord{ID: s.ID, Name: s.Name, Lat: s.Lat, Lon: s.Lon}
	}

	records := make([]graph.ConnectionRecord, 0, len(connections))
	for _, c := range connections {
		departures := make([]graph.TimeOfDay, len(c.Departures))
		for i, m := range c.Departures {
			departures[i] = graph.TimeOfDay(m)
		}
		records = append(records, graph.ConnectionRecord{
			Origin:          c.Origin,
			Destination:     c.Destination,
			DurationMinutes: c.DurationMinutes,
			Departures:      departures,
		})
	}

	opts := []graph.BuildOption{graph.WithLogger(config.logger())}
	if config.WalkingRadius > 0 {
		opts = append(opts, graph.WithWalkingRadius(config.WalkingRadius))
	}
	g, report := graph.Build(records, stopRecords, opts...)
	return g, report, nil
}

func referencedStopIDs(connections []transitdb.DirectConnection) []string {
	seen := make(map[string]struct{}, len(connections))
	for _, c := range connections {
		seen[c.Origin] = struct{}{}
		seen[c.Destination] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// readSnapshot returns (nil, nil) when the file does not exist.
func readSnapshot(path string, logger *slog.Logger) (g *graph.Graph, err error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening snapshot: %w", err)
	}
	defer logging.SafeCloseWithLogging(f, logger, "read_snapshot")

	return graph.ReadSnapshot(f)
}

// writeSnapshot writes to a temporary file and renames it into place.
func writeSnapshot(path string, g *graph.Graph, logger *slog.Logger) (err error) {
	started := time.Now()

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = g.WriteSnapshot(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("error closing snapshot: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("error renaming snapshot: %w", err)
	}

	logging.LogOperation(logger, "graph_snapshot_written",
		slog.String("path", path),
		slog.Duration("duration", time.Since(started)))
	return nil
}
