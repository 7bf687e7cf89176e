// Package config handles loading and parsing application configuration.
// It supports three sources (later ones win):
//  1. Defaults declared on the struct tags below
//  2. An optional YAML file given by CONFIG_PATH or --config
//  3. Environment variables, including any loaded from a .env file
//
// With no file at all the service still starts: it listens on $PORT
// (default 3001) and keeps its JSON files under ./data.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage drivers accepted in Storage.Driver.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	Storage Storage `yaml:"storage"`

	HTTPServer `yaml:"http_server"`
}

// Storage selects where collections are persisted.
type Storage struct {
	// Driver is "json" (one file per collection) or "sqlite".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"json"`

	// Path is the data directory for the json driver and the database
	// file for the sqlite driver.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:"data"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the full listen address, e.g. "localhost:8082". When empty
	// the server listens on all interfaces at Port.
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR"`
	Port string `yaml:"port" env:"PORT" env-default:"3001"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Address returns the address to listen on.
func (h HTTPServer) Address() string {
	if h.Addr != "" {
		return h.Addr
	}
	return ":" + h.Port
}

// Load reads the config at path, or only the environment when path is "".
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	} else {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	switch cfg.Storage.Driver {
	case DriverJSON, DriverSQLite:
	default:
		return nil, fmt.Errorf("unknown storage driver %q (want %q or %q)",
			cfg.Storage.Driver, DriverJSON, DriverSQLite)
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
//
// Functions prefixed with "Must" are allowed to fatal on failure: if this
// returns, the config is valid.
func MustLoad() *Config {
	// A missing .env is normal; anything else (bad syntax) is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("cannot read .env: %s", err.Error())
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err.Error())
	}
	return cfg
}
