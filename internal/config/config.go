// Package config handles loading and parsing application configuration.
// It supports two sources for the config file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every value in the file can be overridden by the environment variable
// named in its env:"..." tag.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers understood by the application.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
//
// env-required:"true" makes Load fail when that value is missing.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	Storage    Storage    `yaml:"storage"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Metrics    Metrics    `yaml:"metrics"`
}

// Storage describes the backing store of the student table.
type Storage struct {
	// Driver selects the repository: "json" (flat JSON document) or
	// "sqlite" (single SQLite file).
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"json"`

	// Path is the filesystem path of the JSON document or SQLite file.
	Path string `yaml:"path" env:"STORAGE_PATH" env-required:"true"`

	// AtomicWrites makes the JSON driver write through a temp file and
	// rename it over the document.
	AtomicWrites bool `yaml:"atomic_writes" env:"STORAGE_ATOMIC_WRITES" env-default:"false"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Metrics controls the Prometheus endpoint.
type Metrics struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path" env:"METRICS_PATH" env-default:"/metrics"`
}

// Load reads the YAML file at path, applies environment overrides and
// checks the values that cleanenv cannot check on its own.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	switch cfg.Storage.Driver {
	case DriverJSON, DriverSQLite:
	default:
		return nil, fmt.Errorf("unknown storage driver %q: use %q or %q",
			cfg.Storage.Driver, DriverJSON, DriverSQLite)
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
//
// The name "MustLoad" follows a Go convention: functions prefixed with
// "Must" are allowed to panic/fatal on failure. Callers do not need to
// check a returned error: if this function returns, the config is valid.
func MustLoad() *Config {
	// ── Source 1: environment variable ───────────────────────────────
	configPath := os.Getenv("CONFIG_PATH")

	// ── Source 2: command-line flag ───────────────────────────────────
	//   go run ./cmd/students-api --config=config/local.yaml
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}
