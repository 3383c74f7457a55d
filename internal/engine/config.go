package engine

import (
	"log/slog"
	"time"

	"traveltime.dev/engine/internal/appconf"
)

type Config struct {
	// WalkingRadius in meters; graph.DefaultWalkingRadius when zero.
	WalkingRadius float64
	// SnapshotPath, when set, is loaded at start-up if present and rewritten
	// after every build from the store.
	SnapshotPath string
	// RefreshInterval rebuilds the graph from the store periodically. Zero disables it.
	RefreshInterval time.Duration
	Env             appconf.Environment
	Verbose         bool
	Logger          *slog.Logger
}

func (config Config) periodicRefreshEnabled() bool {
	return config.RefreshInterval > 0
}

func (config Config) logger() *slog.Logger {
	if config.Logger == nil {
		return slog.Default()
	}
	return config.Logger
}
