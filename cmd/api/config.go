package main

import (
	"flag"
	"strings"
	"time"

	"traveltime.dev/engine/internal/appconf"
)

// flags holds the command-line settings. Only flags that were set on the
// command line override the configuration file.
type flags struct {
	configPath string
	envFile    string
	logLevel   string
	verbose    bool

	port          int
	env           string
	apiKeys       string
	rateLimit     int
	driver        string
	dsn           string
	snapshotPath  string
	walkingRadius float64
	refresh       time.Duration
}

func parseFlags(fs *flag.FlagSet, args []string) (flags, map[string]bool, error) {
	var f flags
	fs.StringVar(&f.configPath, "config", "", "Path to a YAML configuration file")
	fs.StringVar(&f.envFile, "env-file", ".env", "Path to a .env file (ignored when missing)")
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	fs.BoolVar(&f.verbose, "verbose", false, "Log graph statistics after every build")
	fs.IntVar(&f.port, "port", 3001, "API server port")
	fs.StringVar(&f.env, "env", "development", "Environment (development|test|production)")
	fs.StringVar(&f.apiKeys, "api-keys", "", "Comma Separated API Keys; empty disables key checks")
	fs.IntVar(&f.rateLimit, "rate-limit", 100, "Requests per second per API key; 0 disables limiting")
	fs.StringVar(&f.driver, "driver", "sqlite", "Store driver (sqlite|pgx)")
	fs.StringVar(&f.dsn, "db", "traveltime.db", "SQLite path or PostgreSQL connection string")
	fs.StringVar(&f.snapshotPath, "snapshot", "", "Graph snapshot file to load at start-up and write after builds")
	fs.Float64Var(&f.walkingRadius, "walking-radius", 1000, "Walking edge radius in meters")
	fs.DurationVar(&f.refresh, "refresh", 0, "Rebuild the graph from the store at this interval; 0 disables it")

	if err := fs.Parse(args); err != nil {
		return flags{}, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return f, set, nil
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cfg *appconf.File, f flags, set map[string]bool) {
	if set["port"] {
		cfg.Server.Port = f.port
	}
	if set["env"] {
		cfg.Server.Env = f.env
	}
	if set["api-keys"] {
		cfg.Server.APIKeys = splitAPIKeys(f.apiKeys)
	}
	if set["rate-limit"] {
		cfg.Server.RateLimit = f.rateLimit
	}
	if set["driver"] {
		cfg.Store.Driver = f.driver
	}
	if set["db"] {
		cfg.Store.DSN = f.dsn
	}
	if set["snapshot"] {
		cfg.Graph.SnapshotPath = f.snapshotPath
	}
	if set["walking-radius"] {
		cfg.Graph.WalkingRadiusMeters = f.walkingRadius
	}
	if set["refresh"] {
		cfg.Graph.RefreshInterval = f.refresh
	}
}

func splitAPIKeys(s string) []string {
	var keys []string
	for _, key := range strings.Split(s, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
