package domain

import (
	"bytes"
	_ "embed"
	"path/filepath"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// File and directory names.
const (
	AppName               = "zentasks"
	ConfigFileName        = "config.toml"
	ProjectConfigFileName = ".zentasks.toml"
	SessionFileName       = "session.json"
	LogFileName           = "zentasks.log"
)

// Persisted storage keys for the session.
const (
	TokenStorageKey = "zen-tasks-token"
	UserStorageKey  = "zen-tasks-user"
)

// Defaults.
const (
	DefaultAPIURL    = "http://localhost:8080"
	DefaultTimeout   = 10 * time.Second
	DefaultRetries   = 1
	DefaultCacheTTL  = 5 * time.Minute
	DefaultLogLevel  = "info"
	APIBasePath      = "/v1"
	minRetries       = 0
	maxRetries       = 5
	defaultLogMaxMB  = 10
	defaultLogBackup = 3
)

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string    `toml:"-"`
	API      APIConfig   `toml:"api"`
	Log      LogConfig   `toml:"log"`
	Cache    CacheConfig `toml:"cache"`
}

// APIConfig holds settings from the [api] section.
type APIConfig struct {
	URL     string        `toml:"url"`     // Server origin, without the /v1 base path
	Timeout time.Duration `toml:"timeout"` // Per-request timeout
	Retries *int          `toml:"retries"` // Extra attempts for failed reads (nil = default)
}

// RetryCount returns the configured retry count, or the default when unset.
func (c APIConfig) RetryCount() int {
	if c.Retries == nil {
		return DefaultRetries
	}
	return ClampRetries(*c.Retries)
}

// CacheConfig holds settings from the [cache] section.
type CacheConfig struct {
	TTL      time.Duration `toml:"ttl"`      // How long reads stay fresh
	Disabled bool          `toml:"disabled"` // Bypass the read cache
}

// LogConfig holds settings from the [log] section.
type LogConfig struct {
	Level      string `toml:"level"`       // debug, info, warn, error
	File       string `toml:"file"`        // Log file path (empty = state dir default)
	MaxSizeMB  int    `toml:"max_size_mb"` // Rotate after this size
	MaxBackups int    `toml:"max_backups"` // Rotated files to keep
}

// NewDefaultConfig returns a Config with every default applied.
func NewDefaultConfig() *Config {
	retries := DefaultRetries
	return &Config{
		API: APIConfig{
			URL:     DefaultAPIURL,
			Timeout: DefaultTimeout,
			Retries: &retries,
		},
		Cache: CacheConfig{
			TTL: DefaultCacheTTL,
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  defaultLogMaxMB,
			MaxBackups: defaultLogBackup,
		},
	}
}

// ClampRetries bounds a retry count to a sane range.
func ClampRetries(n int) int {
	if n < minRetries {
		return minRetries
	}
	if n > maxRetries {
		return maxRetries
	}
	return n
}

// GlobalConfigDir returns the global config directory under configHome.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppName)
}

// SessionPath returns the session file path under stateDir.
func SessionPath(stateDir string) string {
	return filepath.Join(stateDir, SessionFileName)
}

// LogPath returns the default log file path under stateDir.
func LogPath(stateDir string) string {
	return filepath.Join(stateDir, "logs", LogFileName)
}

// RenderConfigTemplate renders the commented default config file.
func RenderConfigTemplate() string {
	tmpl := template.Must(template.New("config").Parse(configTemplateContent))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, NewDefaultConfig())
	return buf.String()
}
