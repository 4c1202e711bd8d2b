package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "secboard", "config.toml")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL || cfg.CompletedBy != DefaultCompletedBy {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Endpoints.Tasks != "/security-tasks" || cfg.Endpoints.MarkAll != "/mark-all" {
		t.Fatalf("unexpected endpoints: %+v", cfg.Endpoints)
	}
	if cfg.DBPath != filepath.Join(dir, "secboard", DefaultDBName) {
		t.Fatalf("unexpected db path %s", cfg.DBPath)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), "security-tasks") {
		t.Fatalf("written config missing endpoints:\n%s", data)
	}
	if cfg.Refresh() != 30*time.Second || cfg.Debounce() != 300*time.Millisecond {
		t.Fatalf("unexpected durations: %v %v", cfg.Refresh(), cfg.Debounce())
	}
}

func TestLoadOrCreateReadsExisting(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
base_url = "http://n8n.internal:5678/webhook"
completed_by = "soc-analyst"
refresh_interval = "45s"
search_debounce = "180ms"

[endpoints]
mark_all = "http://n8n.internal:5678/webhook-test/mark-all-complete"

[keys]
quit = "Q"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg.BaseURL != "http://n8n.internal:5678/webhook" || cfg.CompletedBy != "soc-analyst" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Refresh() != 45*time.Second || cfg.Debounce() != 180*time.Millisecond {
		t.Fatalf("unexpected durations: %v %v", cfg.Refresh(), cfg.Debounce())
	}
	if cfg.Endpoints.MarkAll != "http://n8n.internal:5678/webhook-test/mark-all-complete" {
		t.Fatalf("endpoint override lost: %+v", cfg.Endpoints)
	}
	if cfg.Endpoints.Tasks != "/security-tasks" {
		t.Fatalf("default endpoint lost: %+v", cfg.Endpoints)
	}
	if cfg.Keys.Quit != "Q" || cfg.Keys.Toggle != " " {
		t.Fatalf("unexpected keys: %+v", cfg.Keys)
	}
}

func TestLoadOrCreateRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`refresh_interval = "soon"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrCreate(path); err == nil {
		t.Fatal("expected error for invalid refresh_interval")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvBaseURL, "http://override:1/webhook")
	cfg, err := LoadOrCreate(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg.BaseURL != "http://override:1/webhook" {
		t.Fatalf("env override ignored: %s", cfg.BaseURL)
	}

	t.Setenv(EnvConfigPath, "/tmp/custom.toml")
	if got := ResolveConfigPath(); got != "/tmp/custom.toml" {
		t.Fatalf("ResolveConfigPath = %s", got)
	}
}
