package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 10 * time.Minute
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// Storage defaults
	DefaultStorageBackend        = "sqlite"
	DefaultSQLitePath            = "data/orders.db"
	DefaultSQLiteDriver          = "sqlite3"
	DefaultSQLiteMaxOpenConns    = 10
	DefaultSQLiteMaxIdleConns    = 5
	DefaultSQLiteWALMode         = true
	DefaultSQLiteBusyTimeout     = 5 * time.Second
	DefaultPostgresSlowThreshold = 300 * time.Millisecond

	// Retention defaults
	DefaultRetentionEnabled          = true
	DefaultRetentionDays             = 7
	DefaultRetentionSchedule         = "0 2 * * *"
	DefaultRetentionTimeZone         = "UTC"
	DefaultRetentionBatchSize        = 500
	DefaultRetentionMaxRetries       = 3
	DefaultRetentionMaxRetryDuration = 300 * time.Second
	DefaultRetentionMinBackoff       = 10 * time.Second
	DefaultRetentionTimeout          = 9 * time.Minute

	// MaxRetentionBatchSize is the storage layer's atomic batch limit.
	MaxRetentionBatchSize = 500

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "backoffice"
	DefaultMetricsSubsystem   = "retention"
	DefaultHealthCheckTimeout = 5 * time.Second
	DefaultTracingExporter    = "otlp"
	DefaultTracingTimeout     = 10 * time.Second
	DefaultTracingService     = "backoffice"
	DefaultTracingSampler     = "always"

	// Security defaults
	DefaultSecretsEnvPrefix = "BACKOFFICE_SECRET_"
	DefaultSecretsCacheTTL  = 5 * time.Minute
)

// ApplyDefaults fills every unset field of cfg with its default value.
// Fields that were set explicitly are left untouched.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// Storage defaults
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Storage.SQLite.Driver == "" {
		cfg.Storage.SQLite.Driver = DefaultSQLiteDriver
	}
	if cfg.Storage.SQLite.MaxOpenConns == 0 {
		cfg.Storage.SQLite.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if cfg.Storage.SQLite.MaxIdleConns == 0 {
		cfg.Storage.SQLite.MaxIdleConns = DefaultSQLiteMaxIdleConns
	}
	if cfg.Storage.SQLite.BusyTimeout == 0 {
		cfg.Storage.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Storage.Postgres.SlowThreshold == 0 {
		cfg.Storage.Postgres.SlowThreshold = DefaultPostgresSlowThreshold
	}

	// Retention defaults
	if cfg.Retention.Days == 0 {
		cfg.Retention.Days = DefaultRetentionDays
	}
	if cfg.Retention.Schedule == "" {
		cfg.Retention.Schedule = DefaultRetentionSchedule
	}
	if cfg.Retention.TimeZone == "" {
		cfg.Retention.TimeZone = DefaultRetentionTimeZone
	}
	if cfg.Retention.BatchSize == 0 {
		cfg.Retention.BatchSize = DefaultRetentionBatchSize
	}
	if cfg.Retention.MaxRetries == 0 {
		cfg.Retention.MaxRetries = DefaultRetentionMaxRetries
	}
	if cfg.Retention.MaxRetryDuration == 0 {
		cfg.Retention.MaxRetryDuration = DefaultRetentionMaxRetryDuration
	}
	if cfg.Retention.MinBackoff == 0 {
		cfg.Retention.MinBackoff = DefaultRetentionMinBackoff
	}
	if cfg.Retention.Timeout == 0 {
		cfg.Retention.Timeout = DefaultRetentionTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.Health.CheckTimeout == 0 {
		cfg.Telemetry.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
	if cfg.Telemetry.Tracing.Exporter == "" {
		cfg.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}

	// Security defaults
	if cfg.Security.Secrets.EnvPrefix == "" {
		cfg.Security.Secrets.EnvPrefix = DefaultSecretsEnvPrefix
	}
	if cfg.Security.Secrets.CacheTTL == 0 {
		cfg.Security.Secrets.CacheTTL = DefaultSecretsCacheTTL
	}
}

// NewDefault returns a configuration with every field at its default.
func NewDefault() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
