package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL         = "https://api.polygon.io"
	DefaultAPITimeout      = 10 * time.Second
	DefaultMaxAttempts     = 3
	DefaultRateLimitWait   = 60 * time.Second
	DefaultServerErrorWait = 5 * time.Second
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultMarket          = "XNYS"
	DefaultYearsBack       = 2
	DefaultPacing          = 20 * time.Second
	DefaultMigrationSource = "file://migrations"
)

func (c *Config) applyDefaults() {
	// Upstream API defaults
	if c.Polygon.BaseURL == "" {
		c.Polygon.BaseURL = DefaultBaseURL
	}
	if c.Polygon.Timeout == 0 {
		c.Polygon.Timeout = DefaultAPITimeout
	}
	if c.Polygon.Adjusted == nil {
		adjusted := true
		c.Polygon.Adjusted = &adjusted
	}
	if c.Polygon.Retry.MaxAttempts == 0 {
		c.Polygon.Retry.MaxAttempts = DefaultMaxAttempts
	}
	if c.Polygon.Retry.RateLimitWait == 0 {
		c.Polygon.Retry.RateLimitWait = DefaultRateLimitWait
	}
	if c.Polygon.Retry.ServerErrorWait == 0 {
		c.Polygon.Retry.ServerErrorWait = DefaultServerErrorWait
	}

	// Warehouse defaults
	if c.Warehouse.Port == 0 {
		c.Warehouse.Port = DefaultDBPort
	}
	if c.Warehouse.SSLMode == "" {
		c.Warehouse.SSLMode = DefaultDBSSLMode
	}
	if c.Warehouse.MaxConns == 0 {
		c.Warehouse.MaxConns = DefaultMaxConns
	}
	if c.Warehouse.MinConns == 0 {
		c.Warehouse.MinConns = DefaultMinConns
	}

	// Ingest defaults
	if c.Ingest.Market == "" {
		c.Ingest.Market = DefaultMarket
	}
	if c.Ingest.YearsBack == 0 {
		c.Ingest.YearsBack = DefaultYearsBack
	}
	if c.Ingest.Pacing == 0 {
		c.Ingest.Pacing = DefaultPacing
	}

	// Migrations defaults
	if c.Migrations.SourceURL == "" {
		c.Migrations.SourceURL = DefaultMigrationSource
	}
}
