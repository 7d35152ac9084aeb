package config

import "time"

// Config is the root configuration for the ingestion pipeline.
type Config struct {
	Polygon    PolygonConfig    `yaml:"polygon"`
	Warehouse  WarehouseConfig  `yaml:"warehouse"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Migrations MigrationsConfig `yaml:"migrations"`
}

// PolygonConfig holds upstream API settings.
type PolygonConfig struct {
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"` // usually ${POLYGON_API_KEY}
	Timeout  time.Duration `yaml:"timeout"`
	Adjusted *bool         `yaml:"adjusted"` // split/dividend adjusted aggregates
	Retry    RetryConfig   `yaml:"retry"`
}

// RetryConfig holds the per-request retry policy for the fetch client.
type RetryConfig struct {
	MaxAttempts     int           `yaml:"max_attempts"`
	RateLimitWait   time.Duration `yaml:"rate_limit_wait"`
	ServerErrorWait time.Duration `yaml:"server_error_wait"`
}

// WarehouseConfig holds the Postgres warehouse connection.
type WarehouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"` // usually ${WAREHOUSE_PASSWORD}
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// IngestConfig holds orchestrator settings.
type IngestConfig struct {
	Market string `yaml:"market"`

	// YearsBack sizes the historical backfill window ending yesterday.
	YearsBack int `yaml:"years_back"`

	// DaysBackOverride, when positive, narrows the window to the last N
	// days; the daily trigger sets this to 1.
	DaysBackOverride int `yaml:"days_back_override"`

	// Pacing is the fixed sleep between per-day fetches within one run,
	// distinct from the fetch client's retry backoff.
	Pacing time.Duration `yaml:"pacing"`
}

// MigrationsConfig holds the schema migration source.
type MigrationsConfig struct {
	SourceURL string `yaml:"source_url"`
}
