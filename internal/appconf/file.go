package appconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML configuration.
type File struct {
	Server ServerConfig `yaml:"server" validate:"required"`
	Store  StoreConfig  `yaml:"store"`
	Graph  GraphConfig  `yaml:"graph"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           int      `yaml:"port" validate:"gte=0,lte=65535"`
	Env            string   `yaml:"env" validate:"omitempty,oneof=development test production"`
	APIKeys        []string `yaml:"apiKeys" validate:"dive,required"`
	RateLimit      int      `yaml:"rateLimit" validate:"gte=0"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// StoreConfig selects the database holding stops and connections
type StoreConfig struct {
	Driver string `yaml:"driver" validate:"omitempty,oneof=sqlite pgx"`
	DSN    string `yaml:"dsn"`
}

// GraphConfig controls graph construction
type GraphConfig struct {
	WalkingRadiusMeters float64       `yaml:"walkingRadiusMeters" validate:"gte=0"`
	SnapshotPath        string        `yaml:"snapshotPath"`
	RefreshInterval     time.Duration `yaml:"refreshInterval" validate:"gte=0"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() File {
	return File{
		Server: ServerConfig{
			Port:      3001,
			Env:       "development",
			RateLimit: 100,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    "traveltime.db",
		},
		Graph: GraphConfig{
			WalkingRadiusMeters: 1000,
		},
	}
}

// Load reads a YAML file on top of Defaults, applies environment overrides
// and validates the result. An empty path skips the file.
func Load(path string) (File, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return File{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return File{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return File{}, err
	}

	if err := cfg.Validate(); err != nil {
		return File{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from PORT, DATABASE_URL and STORE_DRIVER.
func (f *File) ApplyEnv(getenv func(string) string) error {
	if port := getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		f.Server.Port = p
	}
	if dsn := getenv("DATABASE_URL"); dsn != "" {
		f.Store.DSN = dsn
		if f.Store.Driver == "" || strings.HasPrefix(dsn, "postgres") {
			f.Store.Driver = "pgx"
		}
	}
	if driver := getenv("STORE_DRIVER"); driver != "" {
		f.Store.Driver = driver
	}
	return nil
}

// Validate checks the configuration against its struct tags.
func (f File) Validate() error {
	v := validator.New()
	if err := v.Struct(f); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// AppConfig converts the server section into the runtime Config.
func (f File) AppConfig() Config {
	return Config{
		Port:           f.Server.Port,
		Env:            EnvFlagToEnvironment(f.Server.Env),
		ApiKeys:        f.Server.APIKeys,
		RateLimit:      f.Server.RateLimit,
		AllowedOrigins: f.Server.AllowedOrigins,
	}
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; existing variables are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}
