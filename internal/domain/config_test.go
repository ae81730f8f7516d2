package domain

import (
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestPaths(t *testing.T) {
	if got, want := GlobalConfigDir("/home/user/.config"), "/home/user/.config/zentasks"; got != want {
		t.Errorf("GlobalConfigDir() = %q, want %q", got, want)
	}
	if got, want := SessionPath("/state"), "/state/session.json"; got != want {
		t.Errorf("SessionPath() = %q, want %q", got, want)
	}
	if got, want := LogPath("/state"), "/state/logs/zentasks.log"; got != want {
		t.Errorf("LogPath() = %q, want %q", got, want)
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.API.URL != DefaultAPIURL {
		t.Errorf("API.URL = %q, want %q", cfg.API.URL, DefaultAPIURL)
	}
	if cfg.API.Timeout != DefaultTimeout {
		t.Errorf("API.Timeout = %v, want %v", cfg.API.Timeout, DefaultTimeout)
	}
	if cfg.Cache.TTL != DefaultCacheTTL {
		t.Errorf("Cache.TTL = %v, want %v", cfg.Cache.TTL, DefaultCacheTTL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestClampRetries(t *testing.T) {
	for in, want := range map[int]int{-1: 0, 0: 0, 2: 2, 99: 5} {
		if got := ClampRetries(in); got != want {
			t.Errorf("ClampRetries(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestRenderConfigTemplate(t *testing.T) {
	content := RenderConfigTemplate()

	for _, want := range []string{"[api]", `url = "http://localhost:8080"`, `timeout = "10s"`, `ttl = "5m0s"`, `level = "info"`} {
		if !strings.Contains(content, want) {
			t.Errorf("template missing %q", want)
		}
	}

	// The rendered template must be valid TOML.
	var raw map[string]any
	if err := toml.Unmarshal([]byte(content), &raw); err != nil {
		t.Fatalf("rendered template is not valid TOML: %v", err)
	}
}
