// Package config loads the client configuration from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverBadger   = "badger"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config is the full client configuration.
type Config struct {
	APIURL         string        `yaml:"api_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Store          StoreConfig   `yaml:"store"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	Feed           FeedConfig    `yaml:"feed"`
	Log            LogConfig     `yaml:"log"`
	MetricsAddr    string        `yaml:"metrics_addr"`
}

// StoreConfig selects where the session is persisted.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn,omitempty"`
	// Profile scopes rows when several clients share a postgres store.
	Profile string `yaml:"profile,omitempty"`
	// Passphrase, when set, encrypts the token at rest.
	Passphrase string `yaml:"passphrase,omitempty"`
}

// FeedConfig configures home feed assembly.
type FeedConfig struct {
	Fallback string `yaml:"fallback"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration written on first run.
func Default() Config {
	return Config{
		APIURL:         "http://localhost:8000/api",
		RequestTimeout: 15 * time.Second,
		Store: StoreConfig{
			Driver: DriverBadger,
			Path:   filepath.Join(homeDir(), ".devsocial", "session"),
		},
		PollInterval: 30 * time.Second,
		Feed:         FeedConfig{Fallback: "always"},
		Log:          LogConfig{Level: "info"},
	}
}

// DefaultPath is ~/.devsocial/config.yaml.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".devsocial", "config.yaml")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Load reads path, creating it with defaults if it does not exist, then
// applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that apply further
// overrides (command-line flags) before calling Validate.
func Read(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := writeDefault(path); err != nil {
			return Config{}, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// Parse decodes YAML on top of the defaults, so omitted keys keep their
// default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// ApplyEnv overrides fields from environment variables read with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.APIURL, "DEVSOCIAL_API_URL")
	set(&c.Store.Driver, "DEVSOCIAL_STORE")
	set(&c.Store.Path, "DEVSOCIAL_STORE_PATH")
	set(&c.Store.DSN, "DATABASE_URL")
	set(&c.Store.Passphrase, "DEVSOCIAL_STORE_PASSPHRASE")
	set(&c.Log.Level, "DEVSOCIAL_LOG_LEVEL")
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url %q must be an absolute URL", c.APIURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	switch c.Store.Driver {
	case DriverBadger:
		if c.Store.Path == "" {
			return errors.New("store.path is required for the badger store")
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return errors.New("store.dsn (or DATABASE_URL) is required for the postgres store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	switch strings.ToLower(c.Feed.Fallback) {
	case "", "always", "empty-only", "empty_only", "never":
	default:
		return fmt.Errorf("unknown feed.fallback %q", c.Feed.Fallback)
	}
	return nil
}
