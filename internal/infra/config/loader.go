// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/zentasks/zentasks/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Environment variables that override file settings.
const (
	EnvAPIURL   = "ZENTASKS_API_URL"
	EnvTimeout  = "ZENTASKS_TIMEOUT"
	EnvLogLevel = "ZENTASKS_LOG_LEVEL"
)

// Loader loads configuration from TOML files, a .env file, and the environment.
type Loader struct {
	getenv        func(string) string
	projectDir    string // Directory holding .zentasks.toml and .env
	globalConfDir string // Path to global config directory (e.g., ~/.config/zentasks)
}

// NewLoader creates a new Loader for the given project directory.
func NewLoader(projectDir string) *Loader {
	return &Loader{
		getenv:        os.Getenv,
		projectDir:    projectDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(projectDir, globalConfDir string) *Loader {
	return &Loader{
		getenv:        os.Getenv,
		projectDir:    projectDir,
		globalConfDir: globalConfDir,
	}
}

// WithEnv replaces the environment lookup. This is useful for testing.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// DefaultStateDir returns the directory for the session file and logs.
func DefaultStateDir() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), domain.AppName)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, domain.AppName)
}

// Load returns the merged configuration.
// Precedence: default <- global <- project <- .env <- environment.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	project, err := l.LoadProject()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if project != nil {
		base = mergeConfigs(base, project)
	}

	l.applyEnv(base)
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// LoadProject returns only the project configuration.
func (l *Loader) LoadProject() (*domain.Config, error) {
	if l.projectDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.projectDir, domain.ProjectConfigFileName))
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// lookupEnv reads a variable from the process environment, falling back to .env.
func (l *Loader) lookupEnv(dotenv map[string]string, key string) string {
	if v := l.getenv(key); v != "" {
		return v
	}
	return dotenv[key]
}

// applyEnv overlays environment variables onto cfg.
func (l *Loader) applyEnv(cfg *domain.Config) {
	dotenv := map[string]string{}
	if l.projectDir != "" {
		if m, err := godotenv.Read(filepath.Join(l.projectDir, ".env")); err == nil {
			dotenv = m
		}
	}

	if v := l.lookupEnv(dotenv, EnvAPIURL); v != "" {
		cfg.API.URL = v
	}
	if v := l.lookupEnv(dotenv, EnvLogLevel); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := l.lookupEnv(dotenv, EnvTimeout); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid %s: %v", EnvTimeout, err))
		} else {
			cfg.API.Timeout = d
		}
	}
}

// parseDuration accepts Go duration strings ("10s") and bare integers as milliseconds.
func parseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(v)
}

// durationValue converts a TOML value to a duration.
func durationValue(v any) (time.Duration, error) {
	switch val := v.(type) {
	case string:
		return parseDuration(val)
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	default:
		return 0, fmt.Errorf("unsupported value %v", v)
	}
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", section))
			continue
		}
		switch section {
		case "api":
			for k, v := range m {
				switch k {
				case "url":
					if s, ok := v.(string); ok {
						res.API.URL = s
					}
				case "timeout":
					d, err := durationValue(v)
					if err != nil {
						warnings = append(warnings, fmt.Sprintf("invalid [api].timeout: %v", err))
						continue
					}
					res.API.Timeout = d
				case "retries":
					if n, ok := v.(int64); ok {
						r := int(n)
						res.API.Retries = &r
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [api]: %s", k))
				}
			}
		case "cache":
			for k, v := range m {
				switch k {
				case "ttl":
					d, err := durationValue(v)
					if err != nil {
						warnings = append(warnings, fmt.Sprintf("invalid [cache].ttl: %v", err))
						continue
					}
					res.Cache.TTL = d
				case "disabled":
					if b, ok := v.(bool); ok {
						res.Cache.Disabled = b
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [cache]: %s", k))
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						res.Log.Level = s
					}
				case "file":
					if s, ok := v.(string); ok {
						res.Log.File = s
					}
				case "max_size_mb":
					if n, ok := v.(int64); ok {
						res.Log.MaxSizeMB = int(n)
					}
				case "max_backups":
					if n, ok := v.(int64); ok {
						res.Log.MaxBackups = int(n)
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := &domain.Config{
		API:      base.API,
		Cache:    base.Cache,
		Log:      base.Log,
		Warnings: append([]string{}, base.Warnings...),
	}

	// Add override warnings
	result.Warnings = append(result.Warnings, override.Warnings...)

	if override.API.URL != "" {
		result.API.URL = override.API.URL
	}
	if override.API.Timeout > 0 {
		result.API.Timeout = override.API.Timeout
	}
	if override.API.Retries != nil {
		r := domain.ClampRetries(*override.API.Retries)
		result.API.Retries = &r
	}
	if override.Cache.TTL > 0 {
		result.Cache.TTL = override.Cache.TTL
	}
	if override.Cache.Disabled {
		result.Cache.Disabled = true
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.Log.File != "" {
		result.Log.File = override.Log.File
	}
	if override.Log.MaxSizeMB > 0 {
		result.Log.MaxSizeMB = override.Log.MaxSizeMB
	}
	if override.Log.MaxBackups > 0 {
		result.Log.MaxBackups = override.Log.MaxBackups
	}

	return result
}
