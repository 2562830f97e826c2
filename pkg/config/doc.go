// Package config provides configuration management for the back-office
// service.
//
// Configuration is read from a YAML file, completed with defaults, overridden
// from the environment and validated before use.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("config.yaml")              // file only
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml") // file + env
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention BACKOFFICE_SECTION_FIELD:
//
//   - BACKOFFICE_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - BACKOFFICE_STORAGE_POSTGRES_DSN overrides storage.postgres.dsn
//   - BACKOFFICE_RETENTION_DAYS overrides retention.days
//   - BACKOFFICE_SECURITY_API_KEY adds an operator API key
//
// # Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Hot Reload
//
// Watcher reloads the file when it changes. Only settings read on every use
// (the log level) take effect without a restart; storage and schedule
// changes need one.
//
// # Example Configuration
//
//	server:
//	  listen_address: "0.0.0.0:8080"
//
//	storage:
//	  backend: "sqlite"
//	  sqlite:
//	    path: "data/orders.db"
//
//	retention:
//	  days: 7
//	  schedule: "0 2 * * *"
//	  time_zone: "UTC"
//
//	security:
//	  api_keys:
//	    - name: "ops-dashboard"
//	      key: "${OPS_API_KEY}"
package config
