package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Polygon.APIKey == "" {
		return errors.New("polygon.api_key is required")
	}

	if err := c.Warehouse.validate("warehouse"); err != nil {
		return err
	}

	if c.Polygon.Retry.MaxAttempts < 1 {
		return errors.New("polygon.retry.max_attempts must be >= 1")
	}
	if c.Polygon.Retry.RateLimitWait < 0 || c.Polygon.Retry.ServerErrorWait < 0 {
		return errors.New("polygon.retry waits must not be negative")
	}

	if c.Ingest.YearsBack < 1 && c.Ingest.DaysBackOverride < 1 {
		return errors.New("ingest.years_back must be >= 1 when no days_back_override is set")
	}
	if c.Ingest.DaysBackOverride < 0 {
		return errors.New("ingest.days_back_override must not be negative")
	}
	if c.Ingest.Pacing < 0 {
		return errors.New("ingest.pacing must not be negative")
	}

	return nil
}

func (db *WarehouseConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
