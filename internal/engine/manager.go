package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"traveltime.dev/engine/internal/graph"
	"traveltime.dev/engine/internal/logging"
)

// Origins of the current graph, reported by Statistics.
const (
	BuiltFromStore    = "store"
	BuiltFromSnapshot = "snapshot"
	BuiltInMemory     = "memory"
)

// ErrNoSource is returned when a manager has neither a store nor a snapshot to build from.
var ErrNoSource = errors.New("no graph source configured")

// Manager owns the travel-time graph and answers queries against it.
// Queries share a read lock; a rebuilt graph is swapped in under the write lock.
type Manager struct {
	source       Source
	config       Config
	logger       *slog.Logger
	graphMutex   sync.RWMutex
	graph        *graph.Graph
	report       graph.BuildReport
	builtFrom    string
	lastUpdated  time.Time
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// Statistics describes the graph currently being served.
type Statistics struct {
	Stations       int           `json:"stations"`
	Edges          int           `json:"edges"`
	ScheduledEdges int           `json:"scheduledEdges"`
	WalkingEdges   int           `json:"walkingEdges"`
	Skipped        int           `json:"skippedConnections"`
	BuildDuration  time.Duration `json:"buildDuration"`
	BuiltFrom      string        `json:"builtFrom"`
	LastUpdated    time.Time     `json:"lastUpdated"`
}

// InitManager builds the initial graph, from the snapshot when one exists or
// from source otherwise, and starts the periodic refresh when configured.
func InitManager(ctx context.Context, source Source, config Config) (*Manager, error) {
	manager := &Manager{
		source:       source,
		config:       config,
		logger:       config.logger(),
		shutdownChan: make(chan struct{}),
	}

	loaded, err := manager.loadSnapshot()
	if err != nil {
		return nil, err
	}
	if !loaded {
		if source == nil {
			return nil, ErrNoSource
		}
		if err := manager.Reload(ctx); err != nil {
			return nil, err
		}
	}

	if config.periodicRefreshEnabled() && source != nil {
		manager.wg.Add(1)
		go manager.refreshPeriodically()
	}

	return manager, nil
}

// NewManagerWithGraph wraps an already built graph. It never refreshes.
func NewManagerWithGraph(g *graph.Graph, config Config) *Manager {
	manager := &Manager{
		config:       config,
		logger:       config.logger(),
		shutdownChan: make(chan struct{}),
	}
	manager.setGraph(g, graph.BuildReport{Stations: g.StationCount()}, BuiltInMemory)
	return manager
}

// Shutdown stops background refreshes and waits for them to finish.
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		manager.wg.Wait()
	})
}

// Reload rebuilds the graph from the store and swaps it in. Queries keep
// running against the previous graph while the new one is built.
func (manager *Manager) Reload(ctx context.Context) error {
	if manager.source == nil {
		return ErrNoSource
	}

	g, report, err := buildFromSource(ctx, manager.source, manager.config)
	if err != nil {
		return err
	}
	manager.setGraph(g, report, BuiltFromStore)

	if manager.config.SnapshotPath != "" {
		if err := writeSnapshot(manager.config.SnapshotPath, g, manager.logger); err != nil {
			logging.LogError(manager.logger, "failed to write graph snapshot", err,
				slog.String("path", manager.config.SnapshotPath))
		}
	}
	return nil
}

// WriteSnapshot saves the current graph to path.
func (manager *Manager) WriteSnapshot(path string) error {
	return manager.withGraph(func(g *graph.Graph) error {
		return writeSnapshot(path, g, manager.logger)
	})
}

func (manager *Manager) loadSnapshot() (bool, error) {
	if manager.config.SnapshotPath == "" {
		return false, nil
	}
	started := time.Now()
	g, err := readSnapshot(manager.config.SnapshotPath, manager.logger)
	if err != nil {
		return false, err
	}
	if g == nil {
		return false, nil
	}
	manager.setGraph(g, graph.BuildReport{
		Stations: g.StationCount(),
		Duration: time.Since(started),
	}, BuiltFromSnapshot)
	return true, nil
}

func (manager *Manager) setGraph(g *graph.Graph, report graph.BuildReport, builtFrom string) {
	manager.graphMutex.Lock()
	manager.graph = g
	manager.report = report
	manager.builtFrom = builtFrom
	manager.lastUpdated = time.Now()
	manager.graphMutex.Unlock()

	if manager.config.Verbose {
		manager.PrintStatistics()
	}
}

func (manager *Manager) refreshPeriodically() {
	defer manager.wg.Done()

	ticker := time.NewTicker(manager.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			err := manager.Reload(ctx)
			cancel()
			if err != nil {
				logging.LogError(manager.logger, "error rebuilding graph", err)
				continue
			}
		case <-manager.shutdownChan:
			logging.LogOperation(manager.logger, "graph_refresh_stopped")
			return
		}
	}
}

// withGraph runs fn while holding the read lock.
func (manager *Manager) withGraph(fn func(g *graph.Graph) error) error {
	manager.graphMutex.RLock()
	defer manager.graphMutex.RUnlock()
	return fn(manager.graph)
}

func (manager *Manager) TimeToAllFromStop(ctx context.Context, stopID string, start graph.TimeOfDay) (paths []graph.Path, err error) {
	err = manager.withGraph(func(g *graph.Graph) error {
		paths, err = g.TimeToAllFromStop(ctx, stopID, start)
		return err
	})
	return paths, err
}

func (manager *Manager) TimeBetweenStops(ctx context.Context, from, to string, start graph.TimeOfDay) (path graph.Path, err error) {
	err = manager.withGraph(func(g *graph.Graph) error {
		path, err = g.TimeBetweenStops(ctx, from, to, start)
		return err
	})
	return path, err
}

func (manager *Manager) TimeToAllFromLocation(ctx context.Context, loc graph.Location, start graph.TimeOfDay) (paths []graph.Path, err error) {
	err = manager.withGraph(func(g *graph.Graph) error {
		paths, err = g.TimeToAllFromLocation(ctx, loc, start)
		return err
	})
	return paths, err
}

func (manager *Manager) TimeToAllFromLocations(ctx context.Context, locs []graph.Location, start graph.TimeOfDay) (paths []graph.Path, err error) {
	err = manager.withGraph(func(g *graph.Graph) error {
		paths, err = g.TimeToAllFromLocations(ctx, locs, start)
		return err
	})
	return paths, err
}

// Query selects where a travel-time search starts: a stop id, or one or
// more locations when StopID is empty.
type Query struct {
	StopID    string
	Locations []graph.Location
	Start     graph.TimeOfDay
	// WithStations also resolves the stations visited by the result paths.
	WithStations bool
}

// Result holds the paths of a query and, if requested, the stations on them.
// Both come from the same graph even when a reload happens concurrently.
type Result struct {
	Paths    []graph.Path
	Stations map[string]graph.Station
}

// TravelTimes runs q against the current graph under a single read lock.
func (manager *Manager) TravelTimes(ctx context.Context, q Query) (result Result, err error) {
	err = manager.withGraph(func(g *graph.Graph) error {
		var err error
		switch {
		case q.StopID != "":
			result.Paths, err = g.TimeToAllFromStop(ctx, q.StopID, q.Start)
		case len(q.Locations) == 1:
			result.Paths, err = g.TimeToAllFromLocation(ctx, q.Locations[0], q.Start)
		default:
			result.Paths, err = g.TimeToAllFromLocations(ctx, q.Locations, q.Start)
		}
		if err != nil {
			return err
		}
		if q.WithStations {
			result.Stations = g.StationsOnPaths(result.Paths)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

// Statistics reports the size and provenance of the current graph.
func (manager *Manager) Statistics() Statistics {
	manager.graphMutex.RLock()
	defer manager.graphMutex.RUnlock()

	return Statistics{
		Stations:       manager.graph.StationCount(),
		Edges:          manager.graph.EdgeCount(),
		ScheduledEdges: manager.report.ScheduledEdges,
		WalkingEdges:   manager.report.WalkingEdges,
		Skipped:        manager.report.Skipped,
		BuildDuration:  manager.report.Duration,
		BuiltFrom:      manager.builtFrom,
		LastUpdated:    manager.lastUpdated,
	}
}

// PrintStatistics logs the current graph statistics.
func (manager *Manager) PrintStatistics() {
	stats := manager.Statistics()
	logging.LogOperation(manager.logger, "graph_statistics",
		slog.String("built_from", stats.BuiltFrom),
		slog.Time("last_updated", stats.LastUpdated),
		slog.Int("stations", stats.Stations),
		slog.Int("edges", stats.Edges),
		slog.Int("walking_edges", stats.WalkingEdges),
		slog.Int("skipped", stats.Skipped))
}
