// Command graphtool loads transit data into the store and builds, snapshots
// and benchmarks the travel-time graph offline.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"traveltime.dev/engine/internal/appconf"
	"traveltime.dev/engine/internal/engine"
	"traveltime.dev/engine/internal/graph"
	"traveltime.dev/engine/internal/logging"
	"traveltime.dev/engine/transitdb"
)

type options struct {
	driver        string
	dsn           string
	importGTFS    string
	seed          string
	copyDriver    string
	copyTo        string
	build         bool
	snapshot      string
	walkingRadius float64
	benchStop     string
	benchTime     string
	logLevel      string
}

func parseOptions(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.driver, "driver", transitdb.DriverSQLite, "Store driver (sqlite|pgx)")
	fs.StringVar(&o.dsn, "db", "traveltime.db", "SQLite path or PostgreSQL connection string")
	fs.StringVar(&o.importGTFS, "import-gtfs", "", "GTFS zip to import (URL or local path)")
	fs.StringVar(&o.seed, "seed", "", "JSON document of stops and connections to import")
	fs.StringVar(&o.copyDriver, "copy-driver", transitdb.DriverPostgres, "Driver of the -copy-to store")
	fs.StringVar(&o.copyTo, "copy-to", "", "Copy every stop and connection into this store")
	fs.BoolVar(&o.build, "build", false, "Build the graph and report statistics")
	fs.StringVar(&o.snapshot, "snapshot", "", "Write the built graph to this file (implies -build)")
	fs.Float64Var(&o.walkingRadius, "walking-radius", graph.DefaultWalkingRadius, "Walking edge radius in meters")
	fs.StringVar(&o.benchStop, "bench-stop", "490004733C", "Stop id for the benchmark query after -build")
	fs.StringVar(&o.benchTime, "bench-time", "10:00", "Departure time for the benchmark query")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.snapshot != "" {
		o.build = true
	}
	if o.importGTFS == "" && o.seed == "" && o.copyTo == "" && !o.build {
		return options{}, errors.New("nothing to do: pass -import-gtfs, -seed, -copy-to or -build")
	}
	return o, nil
}

func main() {
	o, err := parseOptions(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	logger := logging.NewStructuredLogger(os.Stderr, logging.ParseLevel(o.logLevel))
	if err := run(context.Background(), o, logger); err != nil {
		logging.LogError(logger, "graphtool failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, logger *slog.Logger) error {
	store, err := openStore(o.driver, o.dsn, logger)
	if err != nil {
		return err
	}
	defer logging.SafeCloseWithLogging(store, logger, "transit_store")

	if o.importGTFS != "" {
		if err := importGTFS(ctx, store, o.importGTFS); err != nil {
			return err
		}
		logging.LogOperation(logger, "gtfs_imported",
			slog.String("source", o.importGTFS),
			slog.Duration("duration", store.ImportRuntime()))
	}

	if o.seed != "" {
		if err := importSeed(ctx, store, o.seed, logger); err != nil {
			return err
		}
	}

	if counts, err := store.TableCounts(ctx); err == nil {
		logger.Info("store contents", slog.Any("tables", counts))
	}

	if o.copyTo != "" {
		if err := copyStore(ctx, store, o.copyDriver, o.copyTo, logger); err != nil {
			return err
		}
	}

	if o.build {
		return buildAndBenchmark(ctx, store, o, logger)
	}
	return nil
}

func openStore(driver, dsn string, logger *slog.Logger) (*transitdb.Client, error) {
	config := transitdb.NewConfig(driver, dsn, appconf.Development, false)
	config.Logger = logger
	store, err := transitdb.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	return store, nil
}

func importGTFS(ctx context.Context, store *transitdb.Client, source string) error {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return store.DownloadAndStore(ctx, source)
	}
	return store.ImportFromFile(ctx, source)
}

func importSeed(ctx context.Context, store *transitdb.Client, path string, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer logging.SafeCloseWithLogging(f, logger, "seed_file")

	if err := store.ImportJSON(ctx, f); err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	logging.LogOperation(logger, "seed_imported", slog.String("path", path))
	return nil
}

// copyStore replicates stops and connections into another store, e.g. from
// a local SQLite file into the PostgreSQL database used in production.
func copyStore(ctx context.Context, from *transitdb.Client, driver, dsn string, logger *slog.Logger) error {
	to, err := openStore(driver, dsn, logger)
	if err != nil {
		return err
	}
	defer logging.SafeCloseWithLogging(to, logger, "copy_target_store")

	stops, err := from.FetchAllStops(ctx)
	if err != nil {
		return err
	}
	connections, err := from.FetchAllConnections(ctx)
	if err != nil {
		return err
	}

	if err := to.InsertStops(ctx, stops); err != nil {
		return fmt.Errorf("copy stops: %w", err)
	}
	if err := to.InsertConnections(ctx, connections); err != nil {
		return fmt.Errorf("copy connections: %w", err)
	}

	logging.LogOperation(logger, "store_copied",
		slog.String("driver", driver),
		slog.Int("stops", len(stops)),
		slog.Int("connections", len(connections)))
	return nil
}

func buildAndBenchmark(ctx context.Context, store *transitdb.Client, o options, logger *slog.Logger) error {
	manager, err := engine.InitManager(ctx, store, engine.Config{
		WalkingRadius: o.walkingRadius,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	defer manager.Shutdown()
	manager.PrintStatistics()

	if o.snapshot != "" {
		if err := manager.WriteSnapshot(o.snapshot); err != nil {
			return err
		}
	}

	if o.benchStop == "" {
		return nil
	}
	start, err := graph.ParseTimeOfDay(o.benchTime)
	if err != nil {
		return err
	}

	started := time.Now()
	paths, err := manager.TimeToAllFromStop(ctx, o.benchStop, start)
	if errors.Is(err, graph.ErrStopNotFound) {
		logger.Warn("benchmark stop not in graph", slog.String("stop", o.benchStop))
		return nil
	}
	if err != nil {
		return err
	}

	logging.LogOperation(logger, "benchmark_query",
		slog.String("stop", o.benchStop),
		slog.String("start", start.String()),
		slog.Int("reachable", len(paths)),
		slog.Duration("duration", time.Since(started)))
	return nil
}
