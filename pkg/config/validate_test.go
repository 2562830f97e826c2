package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(NewDefault()); err != nil {
		t.Fatalf("default configuration should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "bad listen address",
			mutate: func(c *Config) { c.Server.ListenAddress = "8080" },
			field:  "server.listen_address",
		},
		{
			name:   "negative write timeout",
			mutate: func(c *Config) { c.Server.WriteTimeout = -time.Second },
			field:  "server.write_timeout",
		},
		{
			name:   "unknown backend",
			mutate: func(c *Config) { c.Storage.Backend = "firestore" },
			field:  "storage.backend",
		},
		{
			name:   "unknown sqlite driver",
			mutate: func(c *Config) { c.Storage.SQLite.Driver = "libsql" },
			field:  "storage.sqlite.driver",
		},
		{
			name:   "postgres without dsn",
			mutate: func(c *Config) { c.Storage.Backend = "postgres" },
			field:  "storage.postgres.dsn",
		},
		{
			name:   "zero-day window",
			mutate: func(c *Config) { c.Retention.Days = -1 },
			field:  "retention.days",
		},
		{
			name:   "six-field cron",
			mutate: func(c *Config) { c.Retention.Schedule = "0 0 2 * * *" },
			field:  "retention.schedule",
		},
		{
			name:   "unknown time zone",
			mutate: func(c *Config) { c.Retention.TimeZone = "Mars/Olympus" },
			field:  "retention.time_zone",
		},
		{
			name:   "batch size above storage limit",
			mutate: func(c *Config) { c.Retention.BatchSize = 501 },
			field:  "retention.batch_size",
		},
		{
			name:   "negative timeout",
			mutate: func(c *Config) { c.Retention.Timeout = -time.Minute },
			field:  "retention.timeout",
		},
		{
			name:   "unknown log level",
			mutate: func(c *Config) { c.Telemetry.Logging.Level = "verbose" },
			field:  "telemetry.logging.level",
		},
		{
			name:   "relative metrics path",
			mutate: func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			field:  "telemetry.metrics.path",
		},
		{
			name:   "tracing without endpoint",
			mutate: func(c *Config) { c.Telemetry.Tracing.Enabled = true },
			field:  "telemetry.tracing.endpoint",
		},
		{
			name: "sample ratio out of range",
			mutate: func(c *Config) {
				c.Telemetry.Tracing.Sampler = "ratio"
				c.Telemetry.Tracing.SampleRatio = 1.5
			},
			field: "telemetry.tracing.sample_ratio",
		},
		{
			name: "short api key",
			mutate: func(c *Config) {
				c.Security.APIKeys = []APIKeyConfig{{Key: "short", Name: "ops"}}
			},
			field: "security.api_keys[0].key",
		},
		{
			name: "duplicate api key",
			mutate: func(c *Config) {
				c.Security.APIKeys = []APIKeyConfig{
					{Key: "0123456789abcdef", Name: "a"},
					{Key: "0123456789abcdef", Name: "b"},
				}
			},
			field: "security.api_keys[1].key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}

			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %s, got %v", tt.field, verr.Errors)
			}
		})
	}
}

func TestValidate_MemoryBackendNeedsNothing(t *testing.T) {
	cfg := NewDefault()
	cfg.Storage.Backend = "memory"
	cfg.Storage.SQLite.Path = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("memory backend should validate: %v", err)
	}
}

func TestValidate_SecretReferenceSkipsLength(t *testing.T) {
	cfg := NewDefault()
	cfg.Security.APIKeys = []APIKeyConfig{{Key: "${secret:ops}", Name: "ops"}}

	if err := Validate(cfg); err != nil {
		t.Errorf("secret reference should validate: %v", err)
	}
}

func TestIsSecretReference(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"${secret:ops-key}", true},
		{"${secret:}", false},
		{"prefix-${secret:ops-key}", false},
		{"0123456789abcdef", false},
	}

	for _, tt := range tests {
		if got := IsSecretReference(tt.value); got != tt.want {
			t.Errorf("IsSecretReference(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestValidationError_Message(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := single.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("unexpected single error message %q", got)
	}

	multi := ValidationError{Errors: []FieldError{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}}
	msg := multi.Error()
	if !strings.Contains(msg, "2 errors") || !strings.Contains(msg, "b: worse") {
		t.Errorf("unexpected multi error message %q", msg)
	}
}
