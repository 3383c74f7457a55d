package transitdb

import (
	"log/slog"

	"traveltime.dev/engine/internal/appconf"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Config holds configuration options for the Client
type Config struct {
	// Driver is "sqlite" (default) or "pgx" for PostgreSQL.
	Driver string
	// DBPath is the SQLite file path, ":memory:", or a PostgreSQL connection string.
	DBPath  string
	Env     appconf.Environment
	Logger  *slog.Logger
	verbose bool
}

func NewConfig(driver, dbPath string, env appconf.Environment, verbose bool) Config {
	config := Config{
		Driver:  driver,
		DBPath:  dbPath,
		Env:     env,
		verbose: verbose,
	}

	return config
}

func (c Config) driver() string {
	if c.Driver == "" {
		return DriverSQLite
	}
	return c.Driver
}

func (c Config) inMemory() bool {
	return c.driver() == DriverSQLite && c.DBPath == ":memory:"
}
