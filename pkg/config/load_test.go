package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "0.0.0.0:9090"
  read_timeout: "60s"

storage:
  backend: "sqlite"
  sqlite:
    path: "./test-orders.db"
    driver: "sqlite"

retention:
  days: 14
  schedule: "30 3 * * *"
  batch_size: 250

telemetry:
  logging:
    level: "debug"
    format: "text"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:9090", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 60*time.Second {
		t.Errorf("expected read timeout %v, got %v", 60*time.Second, cfg.Server.ReadTimeout)
	}
	if cfg.Storage.SQLite.Driver != "sqlite" {
		t.Errorf("expected driver %q, got %q", "sqlite", cfg.Storage.SQLite.Driver)
	}
	if cfg.Retention.Days != 14 {
		t.Errorf("expected days 14, got %d", cfg.Retention.Days)
	}
	if cfg.Retention.Schedule != "30 3 * * *" {
		t.Errorf("expected schedule %q, got %q", "30 3 * * *", cfg.Retention.Schedule)
	}
	if cfg.Retention.BatchSize != 250 {
		t.Errorf("expected batch size 250, got %d", cfg.Retention.BatchSize)
	}
	// Unset fields pick up defaults.
	if cfg.Retention.TimeZone != DefaultRetentionTimeZone {
		t.Errorf("expected time zone %q, got %q", DefaultRetentionTimeZone, cfg.Retention.TimeZone)
	}
	if cfg.Retention.Timeout != DefaultRetentionTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultRetentionTimeout, cfg.Retention.Timeout)
	}
	if cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("expected format %q, got %q", "text", cfg.Telemetry.Logging.Format)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not: valid")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error message, got %v", err)
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
retention:
  batch_size: 501
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if len(verr.Errors) != 1 || verr.Errors[0].Field != "retention.batch_size" {
		t.Errorf("unexpected field errors: %v", verr.Errors)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:8080"
retention:
  days: 7
`)

	t.Setenv("BACKOFFICE_SERVER_LISTEN_ADDRESS", "0.0.0.0:7070")
	t.Setenv("BACKOFFICE_RETENTION_DAYS", "30")
	t.Setenv("BACKOFFICE_RETENTION_ENABLED", "false")
	t.Setenv("BACKOFFICE_RETENTION_TIMEOUT", "2m")
	t.Setenv("BACKOFFICE_STORAGE_BACKEND", "memory")
	t.Setenv("BACKOFFICE_SECURITY_API_KEY", "env-provided-key-0123456789")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:7070" {
		t.Errorf("expected env listen address, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Retention.Days != 30 {
		t.Errorf("expected days 30, got %d", cfg.Retention.Days)
	}
	if cfg.Retention.SchedulerEnabled() {
		t.Error("expected scheduler disabled by env")
	}
	if cfg.Retention.Timeout != 2*time.Minute {
		t.Errorf("expected timeout 2m, got %v", cfg.Retention.Timeout)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("expected memory backend, got %q", cfg.Storage.Backend)
	}
	if len(cfg.Security.APIKeys) != 1 || cfg.Security.APIKeys[0].Name != "env" {
		t.Errorf("expected one env api key, got %+v", cfg.Security.APIKeys)
	}
}

func TestLoadConfigWithEnvOverrides_IgnoresMalformedValues(t *testing.T) {
	path := writeConfig(t, "retention:\n  days: 5\n")

	t.Setenv("BACKOFFICE_RETENTION_DAYS", "five")
	t.Setenv("BACKOFFICE_RETENTION_TIMEOUT", "soon")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Retention.Days != 5 {
		t.Errorf("expected file value 5 to survive, got %d", cfg.Retention.Days)
	}
	if cfg.Retention.Timeout != DefaultRetentionTimeout {
		t.Errorf("expected default timeout, got %v", cfg.Retention.Timeout)
	}
}

func TestLoadConfigWithEnvOverrides_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("BACKOFFICE_STORAGE_BACKEND", "memory")

	cfg, err := LoadConfigWithEnvOverrides(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("expected defaults, got error: %v", err)
	}
	if cfg.Retention.Schedule != DefaultRetentionSchedule {
		t.Errorf("expected default schedule, got %q", cfg.Retention.Schedule)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("expected env backend, got %q", cfg.Storage.Backend)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidAfterOverride(t *testing.T) {
	path := writeConfig(t, "{}\n")
	t.Setenv("BACKOFFICE_RETENTION_SCHEDULE", "every day")

	_, err := LoadConfigWithEnvOverrides(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "retention.schedule") {
		t.Errorf("expected schedule field in error, got %v", err)
	}
}
