package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"pizzahunt/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "pizzahunt")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Server.DatabasePath != filepath.Join(wantState, "pizza-hunt.db") {
		t.Fatalf("unexpected catalog path: %q", cfg.Server.DatabasePath)
	}
	if cfg.Offline.StorePath != filepath.Join(wantState, "pizza_hunt.db") {
		t.Fatalf("unexpected offline store path: %q", cfg.Offline.StorePath)
	}
	if cfg.Server.Bind != "127.0.0.1:3001" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if !cfg.Offline.ExclusiveFlush {
		t.Fatal("expected exclusive flush enabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")

	custom := config.Default()
	custom.Paths.StateDir = filepath.Join(dir, "state")
	custom.Client.APIURL = "https://pizza.example.com/"
	custom.Offline.ExclusiveFlush = false
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Client.APIURL != "https://pizza.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Client.APIURL)
	}
	if cfg.Offline.ExclusiveFlush {
		t.Fatal("expected exclusive flush disabled")
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lowercased format, got %q", cfg.Logging.Format)
	}
	if got := cfg.ProbeTarget(); got != "pizza.example.com:443" {
		t.Fatalf("unexpected probe target %q", got)
	}
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "4040")
	t.Setenv("PIZZAHUNT_API_URL", "http://10.0.0.5:4040")
	t.Setenv("PIZZAHUNT_API_TOKEN", "secret")
	t.Setenv("PIZZAHUNT_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Bind != ":4040" {
		t.Fatalf("expected PORT to set bind, got %q", cfg.Server.Bind)
	}
	if cfg.Client.APIURL != "http://10.0.0.5:4040" {
		t.Fatalf("unexpected api url %q", cfg.Client.APIURL)
	}
	if cfg.Server.APIToken != "secret" || cfg.Client.APIToken != "secret" {
		t.Fatalf("expected token on both sides, got server=%q client=%q", cfg.Server.APIToken, cfg.Client.APIToken)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level %q", cfg.Logging.Level)
	}
	if got := cfg.ProbeTarget(); got != "10.0.0.5:4040" {
		t.Fatalf("unexpected probe target %q", got)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"bind", func(c *config.Config) { c.Server.Bind = "nope" }, "server.bind"},
		{"scheme", func(c *config.Config) { c.Client.APIURL = "ftp://example.com" }, "client.api_url"},
		{"probe interval", func(c *config.Config) { c.Offline.ProbeInterval = -1 }, "offline.probe_interval"},
		{"probe address", func(c *config.Config) { c.Offline.ProbeAddress = "example.com" }, "offline.probe_address"},
		{"ntfy", func(c *config.Config) { c.Notifications.NtfyTopic = "pizzahunt" }, "notifications.ntfy_topic"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleWritesLoadableFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample config to load, exists=%v err=%v", exists, err)
	}
}

func TestEnsureDirectoriesCreatesStoreParents(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Server.DatabasePath = filepath.Join(base, "catalog", "pizza-hunt.db")
	cfg.Offline.StorePath = filepath.Join(base, "offline", "pizza_hunt.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{"state", "logs", "catalog", "offline"} {
		if info, err := os.Stat(filepath.Join(base, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected %s directory, err=%v", dir, err)
		}
	}
}
