// Package config provides centralized configuration management for the importer.
// Tunables are loaded from environment variables with sensible defaults and
// validated on startup; database credentials come from a separate INI file
// named on the command line.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Import   ImportConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// DatabaseConfig holds connection pool settings.
// Host, user and password are not here: they live in the credentials file.
type DatabaseConfig struct {
	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// ConnectTimeout bounds pool creation and the initial ping (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`

	// QueryTimeout bounds each lookup or insert (default: 10s)
	QueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" default:"10s"`
}

// ImportConfig holds row processing settings.
type ImportConfig struct {
	// SkippedReport writes "<input> - skipped.csv" next to each input
	// when any row was skipped (default: false)
	SkippedReport bool `env:"IMPORT_SKIPPED_REPORT" default:"false"`

	// ContextCheckInterval is how often (in rows) cancellation is checked (default: 100)
	ContextCheckInterval int `env:"IMPORT_CONTEXT_CHECK_INTERVAL" default:"100"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// MetricsConfig holds run metrics settings.
type MetricsConfig struct {
	// TextfilePath, when set, receives the run's metrics in Prometheus
	// text exposition format (node_exporter textfile collector)
	TextfilePath string `env:"METRICS_TEXTFILE"`
}
