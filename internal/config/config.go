// Package config owns the evlens configuration file and the global logger.
//
// Configuration lives at ~/.evlens/config.yaml and is split into three
// sections: server (backend connection), list (tuning knobs for the adaptive
// list engine), and logging. Environment variables override file values for
// the handful of settings that vary per invocation.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable overrides applied on Load.
const (
	EnvServerURL = "EVLENS_SERVER_URL"
	EnvAPIKey    = "EVLENS_API_KEY"
	EnvLogLevel  = "EVLENS_LOG_LEVEL"
)

// Defaults for the list engine tuning knobs.
const (
	DefaultPageSize              = 20
	DefaultVirtualizeThreshold   = 50
	DefaultOverscan              = 5
	DefaultEstimatedRowHeight    = 3
	DefaultServerTimeoutSeconds  = 30
	defaultConfigDirPermissions  = 0o750
	defaultConfigFilePermissions = 0o600
	maxPageSize                  = 100
)

// Validation errors returned by Config.Validate.
var (
	ErrNoServerURL  = errors.New("server.url is required")
	ErrBadServerURL = errors.New("server.url must be a valid http(s) URL")
	ErrBadPageSize  = errors.New("list.page_size must be between 1 and 100")
	ErrBadThreshold = errors.New("list.virtualization_threshold must be > 0")
	ErrBadOverscan  = errors.New("list.overscan must be >= 0")
	ErrBadRowHeight = errors.New("list.estimated_row_height must be > 0")
)

// ServerConfig holds the backend connection settings.
type ServerConfig struct {
	// URL is the base URL of the event backend, e.g. "http://nvr.local:5000".
	URL string `yaml:"url"`
	// APIKey is sent as a bearer token when non-empty.
	APIKey string `yaml:"api_key,omitempty"`
	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (s ServerConfig) Timeout() time.Duration {
	secs := s.TimeoutSeconds
	if secs <= 0 {
		secs = DefaultServerTimeoutSeconds
	}
	return time.Duration(secs) * time.Second
}

// ListConfig holds the adaptive list engine tuning knobs.
type ListConfig struct {
	// PageSize is the fetch page size and the paginated-mode page length.
	PageSize int `yaml:"page_size"`
	// VirtualizationThreshold is the total count above which a list renders
	// windowed instead of paginated. Fixed for the lifetime of one open list.
	VirtualizationThreshold int `yaml:"virtualization_threshold"`
	// Overscan is the number of extra rows materialized beyond each viewport
	// edge in windowed mode.
	Overscan int `yaml:"overscan"`
	// EstimatedRowHeight is the fixed per-row height in terminal cells.
	EstimatedRowHeight int `yaml:"estimated_row_height"`
}

// LoggingConfig holds log level and optional file output settings.
type LoggingConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error.
	Level string `yaml:"level"`
	// File receives structured log output when non-empty. The console only
	// shows logs in --debug mode so the TUI stays clean.
	File string `yaml:"file,omitempty"`
}

// Config is the root configuration document.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	List    ListConfig    `yaml:"list"`
	Logging LoggingConfig `yaml:"logging"`

	// configPath is where Save writes and Load read from.
	configPath string
}

// New returns a Config populated with defaults and the standard config path.
func New() *Config {
	cfg := &Config{
		Server: ServerConfig{
			TimeoutSeconds: DefaultServerTimeoutSeconds,
		},
		List: ListConfig{
			PageSize:                DefaultPageSize,
			VirtualizationThreshold: DefaultVirtualizeThreshold,
			Overscan:                DefaultOverscan,
			EstimatedRowHeight:      DefaultEstimatedRowHeight,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
	cfg.configPath = defaultConfigPath()
	return cfg
}

// defaultConfigPath returns ~/.evlens/config.yaml, falling back to a relative
// path when the home directory cannot be resolved.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".evlens", "config.yaml")
	}
	return filepath.Join(home, ".evlens", "config.yaml")
}

// ConfigPath returns the path Save writes to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath overrides the config file location (used by --config and tests).
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Load reads the config file at the configured path, applies environment
// overrides, and validates the result. A missing file is not an error: the
// defaults are used, but environment overrides still apply.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.configPath)
	switch {
	case err == nil:
		if unmarshalErr := yaml.Unmarshal(data, c); unmarshalErr != nil {
			return fmt.Errorf("parsing config %s: %w", c.configPath, unmarshalErr)
		}
	case os.IsNotExist(err):
		// Defaults stand.
	default:
		return fmt.Errorf("reading config %s: %w", c.configPath, err)
	}

	c.applyEnvOverrides()
	c.applyListDefaults()

	return c.Validate()
}

// applyEnvOverrides replaces file values with environment values where set.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvServerURL); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// applyListDefaults fills zero-valued list knobs so a sparse config file
// behaves like the documented defaults.
func (c *Config) applyListDefaults() {
	if c.List.PageSize == 0 {
		c.List.PageSize = DefaultPageSize
	}
	if c.List.VirtualizationThreshold == 0 {
		c.List.VirtualizationThreshold = DefaultVirtualizeThreshold
	}
	if c.List.Overscan == 0 {
		c.List.Overscan = DefaultOverscan
	}
	if c.List.EstimatedRowHeight == 0 {
		c.List.EstimatedRowHeight = DefaultEstimatedRowHeight
	}
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = DefaultServerTimeoutSeconds
	}
}

// Validate checks the configuration for values the engine cannot work with.
// The server URL is only required for commands that talk to the backend;
// Validate reports it, callers that run offline may ignore ErrNoServerURL.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return ErrNoServerURL
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrBadServerURL, c.Server.URL)
	}
	if c.List.PageSize < 1 || c.List.PageSize > maxPageSize {
		return fmt.Errorf("%w: got %d", ErrBadPageSize, c.List.PageSize)
	}
	if c.List.VirtualizationThreshold < 1 {
		return fmt.Errorf("%w: got %d", ErrBadThreshold, c.List.VirtualizationThreshold)
	}
	if c.List.Overscan < 0 {
		return fmt.Errorf("%w: got %d", ErrBadOverscan, c.List.Overscan)
	}
	if c.List.EstimatedRowHeight < 1 {
		return fmt.Errorf("%w: got %d", ErrBadRowHeight, c.List.EstimatedRowHeight)
	}
	return nil
}

// Save writes the configuration to ConfigPath, creating the directory if
// needed. The file is written with a commented header so a fresh init is
// self-describing.
func (c *Config) Save() error {
	dir := filepath.Dir(c.configPath)
	if err := os.MkdirAll(dir, defaultConfigDirPermissions); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	content := append([]byte(configHeader), data...)
	if err := os.WriteFile(c.configPath, content, defaultConfigFilePermissions); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// configHeader is prepended to every saved config file.
const configHeader = `# evlens configuration
#
# server.url          base URL of the event backend (required)
# server.api_key      bearer token, if the backend requires one
# list.*              adaptive list engine tuning; see 'evlens review --help'
# logging.file        structured log output path (console stays clean)
`
