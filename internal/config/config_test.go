package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, `
backend:
  base_url: http://backend.local/api/
`)
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://backend.local/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 30*time.Second || cfg.Backend.LongTimeout != 360*time.Second {
		t.Fatalf("unexpected timeouts %v %v", cfg.Backend.Timeout, cfg.Backend.LongTimeout)
	}
	if cfg.Token.Buffer != 5*time.Minute || cfg.Token.Store != "memory" {
		t.Fatalf("unexpected token config %+v", cfg.Token)
	}
	if cfg.Certificate.CourseOffsetY != 170 || cfg.Certificate.FontName != "Roboto-Regular" ||
		cfg.Certificate.FontFile != "assets/fonts/Roboto-Regular.ttf" {
		t.Fatalf("unexpected certificate config %+v", cfg.Certificate)
	}
	if cfg.File != filepath.Join(dir, "config.yaml") {
		t.Fatalf("expected config file to be recorded, got %q", cfg.File)
	}
}

func TestLoadConfigDurations(t *testing.T) {
	dir := writeConfig(t, `
backend:
  base_url: http://backend.local
  timeout: 5s
token:
  buffer: 2m
  default_ttl: 30m
`)
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.Timeout != 5*time.Second || cfg.Token.Buffer != 2*time.Minute || cfg.Token.DefaultTTL != 30*time.Minute {
		t.Fatalf("unexpected durations %+v %+v", cfg.Backend, cfg.Token)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := writeConfig(t, `
backend:
  base_url: http://from-file
`)
	t.Setenv("BACKEND_BASE_URL", "http://from-env")
	t.Setenv("BACKEND_ADMIN_EMAIL", "ops@example.com")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://from-env" || cfg.Backend.AdminEmail != "ops@example.com" || cfg.Server.Port != "9090" {
		t.Fatalf("env overrides not applied: %+v %+v", cfg.Backend, cfg.Server)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing base url", `server: {mode: debug}`},
		{"release without credentials", "server:\n  mode: release\nbackend:\n  base_url: http://b\n"},
		{"bad token store", "backend:\n  base_url: http://b\ntoken:\n  store: disk\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tc.body)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://only-env")
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://only-env" || cfg.File != "" {
		t.Fatalf("unexpected config %+v", cfg.Backend)
	}
}
