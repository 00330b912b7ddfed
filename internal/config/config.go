// Package config loads and persists the quill configuration file and
// applies environment variable overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quillhq/quill/internal/pagination"
)

// Environment variable overrides. Each takes precedence over the
// corresponding config file value.
const (
	EnvAPIURL       = "QUILL_API_URL"
	EnvCacheEnabled = "QUILL_CACHE_ENABLED"
	EnvCacheDir     = "QUILL_CACHE_DIR"
	EnvCacheTTL     = "QUILL_CACHE_TTL"
	EnvLogLevel     = "QUILL_LOG_LEVEL"
	EnvLogFormat    = "QUILL_LOG_FORMAT"
)

// Defaults applied when the config file is absent or partial.
const (
	DefaultAPIURL     = "https://api.quill.example.com"
	DefaultAPITimeout = 15 * time.Second
	DefaultCacheTTL   = 5 * time.Minute
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"

	configFileName  = "config.yaml"
	sessionFileName = "session.json"
	appDirName      = "quill"
)

// Validation errors.
var (
	ErrEmptyAPIURL      = errors.New("api.url cannot be empty")
	ErrInvalidPageSize  = fmt.Errorf("defaults.page_size must be between %d and %d", pagination.MinPageSize, pagination.MaxPageSize)
	ErrNegativeSiblings = errors.New("defaults.sibling_count cannot be negative")
)

// Config is the root of the quill configuration file.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// APIConfig describes the remote blogging backend.
type APIConfig struct {
	// URL is the backend base URL, without a trailing slash.
	URL string `yaml:"url"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultsConfig holds listing defaults applied when flags are omitted.
type DefaultsConfig struct {
	// PageSize is the number of posts requested per page.
	PageSize int `yaml:"page_size"`

	// SiblingCount controls the width of the rendered page strip.
	SiblingCount int `yaml:"sibling_count"`
}

// CacheConfig controls the response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is a zerolog level name.
	Level string `yaml:"level"`

	// Format is "console" or "json".
	Format string `yaml:"format"`

	// File, when set, appends logs there instead of stderr.
	File string `yaml:"file"`
}

// Default returns a Config populated with every default value.
func Default() *Config {
	return &Config{
		API: APIConfig{
			URL:     DefaultAPIURL,
			Timeout: DefaultAPITimeout,
		},
		Defaults: DefaultsConfig{
			PageSize:     pagination.DefaultPageSize,
			SiblingCount: pagination.DefaultSiblingCount,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "", // Resolved lazily; see CacheDir.
			TTL:     DefaultCacheTTL,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads the config file at path (or the default location when
// path is empty), fills gaps with defaults, and applies env overrides.
// A missing file is not an error: defaults are returned.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, validateErr
	}
	return cfg, nil
}

// LoadFile reads the config file without applying env overrides or
// validation. Used when editing the file in place, so overrides are
// never written back.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}
	return cfg, nil
}

// Save writes the config to path (or the default location when path is
// empty), creating parent directories as needed.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.API.URL == "" {
		return ErrEmptyAPIURL
	}
	if c.Defaults.PageSize < pagination.MinPageSize || c.Defaults.PageSize > pagination.MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, c.Defaults.PageSize)
	}
	if c.Defaults.SiblingCount < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeSiblings, c.Defaults.SiblingCount)
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	return nil
}

// applyEnvOverrides layers environment variables over the loaded file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.URL = v
	}
	if v := os.Getenv(EnvCacheEnabled); v != "" {
		c.Cache.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv(EnvCacheTTL); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Cache.TTL = d
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
}

// CacheDir resolves the cache directory, preferring the configured
// value over the user cache directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// DefaultPath returns the default config file location,
// ~/.config/quill/config.yaml on most systems.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(base, appDirName, configFileName), nil
}

// SessionPath returns the location of the persisted session token,
// alongside the config file.
func SessionPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(base, appDirName, sessionFileName), nil
}
