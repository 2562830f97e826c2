package config

import "time"

// Config is the root configuration structure for the back-office service.
// It contains all configuration sections for the HTTP server, the order
// document store, the retention sweeper, telemetry, and security settings.
type Config struct {
	// Server contains HTTP server configuration including listen address
	// and timeouts.
	Server ServerConfig `yaml:"server"`

	// Storage selects and configures the order document store.
	Storage StorageConfig `yaml:"storage"`

	// Retention contains configuration for the daily-status retention sweep
	// and its schedule.
	Retention RetentionConfig `yaml:"retention"`

	// Telemetry contains configuration for logging, metrics and health
	// checks.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Security contains the API keys allowed to trigger operator actions.
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Manual sweeps respond synchronously, so this must cover a
	// full sweep.
	// Default: 10m
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header.
	// Default: 1MB
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// StorageConfig selects the order document store backend.
type StorageConfig struct {
	// Backend is one of "sqlite", "postgres", "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite configures the SQLite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Postgres configures the Postgres backend.
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig contains SQLite-specific settings.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/orders.db"
	Path string `yaml:"path"`

	// Driver is "sqlite3" (cgo) or "sqlite" (pure Go).
	// Default: "sqlite3"
	Driver string `yaml:"driver"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables write-ahead logging. Nil means the default (true).
	WALMode *bool `yaml:"wal_mode"`

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// WALEnabled reports whether WAL mode is on, applying the default.
func (c SQLiteConfig) WALEnabled() bool {
	if c.WALMode == nil {
		return DefaultSQLiteWALMode
	}
	return *c.WALMode
}

// PostgresConfig contains Postgres-specific settings.
type PostgresConfig struct {
	// DSN is the connection string, e.g.
	// "host=localhost user=backoffice dbname=backoffice sslmode=disable".
	DSN string `yaml:"dsn"`

	// SlowThreshold is the query duration above which a warning is logged.
	// Default: 300ms
	SlowThreshold time.Duration `yaml:"slow_threshold"`

	// AutoMigrate creates the order_documents table on startup.
	AutoMigrate bool `yaml:"auto_migrate"`
}

// RetentionConfig contains configuration for the daily-status retention sweep.
type RetentionConfig struct {
	// Enabled turns the scheduled sweep on. Manual sweeps are always
	// available. Nil means the default (true).
	Enabled *bool `yaml:"enabled"`

	// Days is the retention window. Entries dated before today minus Days
	// are removed.
	// Default: 7
	Days int `yaml:"days"`

	// Schedule is a standard 5-field cron expression.
	// Default: "0 2 * * *"
	Schedule string `yaml:"schedule"`

	// TimeZone is the IANA zone the schedule and the cutoff date are
	// evaluated in.
	// Default: "UTC"
	TimeZone string `yaml:"time_zone"`

	// BatchSize is the number of order rewrites committed per atomic batch.
	// It can not exceed 500.
	// Default: 500
	BatchSize int `yaml:"batch_size"`

	// MaxRetries is how many times a failed scheduled sweep is re-run.
	// A negative value disables retries.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// MaxRetryDuration caps the time spent retrying a failed scheduled sweep.
	// Default: 300s
	MaxRetryDuration time.Duration `yaml:"max_retry_duration"`

	// MinBackoff is the delay before the first retry; later retries double it.
	// Default: 10s
	MinBackoff time.Duration `yaml:"min_backoff"`

	// Timeout bounds a single scheduled sweep attempt.
	// Default: 9m
	Timeout time.Duration `yaml:"timeout"`
}

// SchedulerEnabled reports whether the scheduled sweep is on, applying the
// default.
func (c RetentionConfig) SchedulerEnabled() bool {
	if c.Enabled == nil {
		return DefaultRetentionEnabled
	}
	return *c.Enabled
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// Health configures readiness checks.
	Health HealthConfig `yaml:"health"`

	// Tracing configures OpenTelemetry span export.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in every log record.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled exposes the metrics endpoint. Nil means the default (true).
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "backoffice"
	Namespace string `yaml:"namespace"`

	// Subsystem is the second metric name component.
	// Default: "retention"
	Subsystem string `yaml:"subsystem"`
}

// IsEnabled reports whether metrics are exposed, applying the default.
func (c MetricsConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return DefaultMetricsEnabled
	}
	return *c.Enabled
}

// HealthConfig contains readiness check configuration.
type HealthConfig struct {
	// CheckTimeout bounds each individual readiness check.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled turns on span export. Disabled tracing uses a noop tracer.
	Enabled bool `yaml:"enabled"`

	// Exporter is the span exporter. Only "otlp" (gRPC) is supported.
	// Default: "otlp"
	Exporter string `yaml:"exporter"`

	// Endpoint is the collector address, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS on the OTLP connection.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export call.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "backoffice"
	ServiceName string `yaml:"service_name"`

	// Sampler is "always", "never" or "ratio".
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces kept by the "ratio" sampler.
	SampleRatio float64 `yaml:"sample_ratio"`
}

// SecurityConfig contains security-related configuration.
type SecurityConfig struct {
	// APIKeys lists the keys accepted on operator endpoints such as the
	// manual sweep. With no keys configured those endpoints are refused.
	APIKeys []APIKeyConfig `yaml:"api_keys"`

	// Secrets configures how ${secret:name} references in api_keys are
	// resolved.
	Secrets SecretsConfig `yaml:"secrets"`
}

// SecretsConfig configures secret resolution. Environment variables are
// always consulted; Dir adds a mounted secrets directory in front of them.
type SecretsConfig struct {
	// Dir holds one file per secret, named after the secret. Files must be
	// mode 0600 or 0400.
	Dir string `yaml:"dir"`

	// EnvPrefix is prepended to the upper-cased secret name to form the
	// environment variable name.
	// Default: "BACKOFFICE_SECRET_"
	EnvPrefix string `yaml:"env_prefix"`

	// CacheTTL is how long a resolved secret is reused. Zero disables the
	// cache.
	// Default: 5m
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// APIKeyConfig describes one operator API key.
type APIKeyConfig struct {
	// Key is the secret value presented by the caller, or a ${secret:name}
	// reference resolved at startup and on reload.
	Key string `yaml:"key"`

	// Name identifies the operator or system owning the key; it is logged
	// instead of the key itself.
	Name string `yaml:"name"`

	// Disabled rejects the key without removing it from the file.
	Disabled bool `yaml:"disabled"`
}
