// Package config handles application configuration
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"todoapp/backend"
	"todoapp/internal/utils"
	"todoapp/internal/views"
)

const appName = "todoapp"

//go:embed config.sample.yaml
var sampleConfig string

// GetSampleConfig returns the embedded sample configuration content
func GetSampleConfig() string {
	return sampleConfig
}

// ValidBackends lists the persistence backends a config may name
var ValidBackends = []string{"file", "keyring", "memory", "sqlite"}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	File   string `yaml:"file" toml:"file"` // used while the TUI owns the terminal
}

// Config represents the application configuration
type Config struct {
	Backend       string         `yaml:"backend" toml:"backend"`
	StorageKey    string         `yaml:"storage_key" toml:"storage_key"`
	DefaultFilter string         `yaml:"default_filter" toml:"default_filter"`
	Backends      BackendsConfig `yaml:"backends" toml:"backends"`
	Logging       LoggingConfig  `yaml:"logging" toml:"logging"`
}

// BackendsConfig holds per-backend settings
type BackendsConfig struct {
	SQLite  SQLiteConfig  `yaml:"sqlite" toml:"sqlite"`
	File    FileConfig    `yaml:"file" toml:"file"`
	Keyring KeyringConfig `yaml:"keyring" toml:"keyring"`
}

// SQLiteConfig holds SQLite-specific settings
type SQLiteConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// FileConfig holds settings for the file backend
type FileConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// KeyringConfig holds settings for the OS keyring backend
type KeyringConfig struct {
	Service string `yaml:"service" toml:"service"`
}

// DefaultConfig returns the configuration used when no file sets a value
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills every unset field
func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = "sqlite"
	}
	if c.StorageKey == "" {
		c.StorageKey = backend.DefaultKey
	}
	if c.DefaultFilter == "" {
		c.DefaultFilter = string(views.FilterAll)
	}
	if c.Backends.SQLite.Path == "" {
		c.Backends.SQLite.Path = filepath.Join(GetDataDir(), "todos.db")
	}
	if c.Backends.File.Dir == "" {
		c.Backends.File.Dir = filepath.Join(GetDataDir(), "lists")
	}
	if c.Backends.Keyring.Service == "" {
		c.Backends.Keyring.Service = appName
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.File == "" {
		c.Logging.File = filepath.Join(GetDataDir(), appName+".log")
	}
}

// DefaultPath returns the config file used when none is given
func DefaultPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// isTOML reports whether path names a TOML config file
func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load loads configuration from the specified path, or the default XDG path if empty.
// If the config file doesn't exist, it creates one with defaults.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath()
	}
	configPath = ExpandPath(configPath)

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		utils.Debugf("created default config at %s", configPath)
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, isTOML(configPath))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML (or TOML when asTOML is set), applies defaults and
// expands paths.
func Parse(data []byte, asTOML bool) (*Config, error) {
	cfg := &Config{}
	if asTOML {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid TOML in config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML in config file: %w", err)
		}
	}

	cfg.Backends.SQLite.Path = ExpandPath(cfg.Backends.SQLite.Path)
	cfg.Backends.File.Dir = ExpandPath(cfg.Backends.File.Dir)
	cfg.Logging.File = ExpandPath(cfg.Logging.File)
	cfg.applyDefaults()

	return cfg, nil
}

// save writes a new configuration file to path. YAML files get the
// commented sample; TOML files get the defaults.
func (c *Config) save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if isTOML(path) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
		if err := toml.NewEncoder(f).Encode(c); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write config file: %w", err)
		}
		return f.Close()
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !isValidBackend(c.Backend) {
		return utils.ErrUnknownBackend(c.Backend, ValidBackends)
	}

	if err := backend.ValidateKey(c.StorageKey); err != nil {
		return fmt.Errorf("invalid storage_key: %w", err)
	}

	if !utils.IsValidLogLevel(c.Logging.Level) {
		return fmt.Errorf("invalid logging.level: %q (must be debug, info, warn or error)", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid logging.format: %q (must be text, json or logfmt)", c.Logging.Format)
	}

	// default_filter is not checked: unknown modes fall back to all
	return nil
}

func isValidBackend(name string) bool {
	for _, b := range ValidBackends {
		if b == name {
			return true
		}
	}
	return false
}

// ApplyFlags applies CLI flag overrides to the configuration
func (c *Config) ApplyFlags(backendName string, verbose bool) {
	if backendName != "" {
		c.Backend = backendName
	}
	if verbose {
		c.Logging.Level = "debug"
	}
}

// BackendOptions returns the constructor options for the configured backends
func (c *Config) BackendOptions() backend.Options {
	return backend.Options{
		Path:    c.Backends.SQLite.Path,
		Dir:     c.Backends.File.Dir,
		Service: c.Backends.Keyring.Service,
	}
}

// GetDefaultFilter returns the filter the UI starts with
func (c *Config) GetDefaultFilter() views.Filter {
	return views.ParseFilter(c.DefaultFilter)
}

// getXDGDir returns a directory path following XDG spec.
// envVar is the XDG environment variable (e.g., "XDG_CONFIG_HOME").
// fallbackPath is the relative path from home (e.g., ".config").
func getXDGDir(envVar, fallbackPath string) string {
	if xdgDir := os.Getenv(envVar); xdgDir != "" {
		return filepath.Join(xdgDir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", fallbackPath, appName)
	}
	return filepath.Join(home, fallbackPath, appName)
}

// GetConfigDir returns the configuration directory following XDG spec
func GetConfigDir() string {
	return getXDGDir("XDG_CONFIG_HOME", ".config")
}

// GetDataDir returns the data directory following XDG spec
func GetDataDir() string {
	return getXDGDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// Expand ~ to home directory
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}
