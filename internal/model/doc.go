// Package model defines shared data types used across the ingestion pipeline.
//
// Conventions:
//   - Trading dates: time.Time at UTC midnight (civil dates)
//   - Upstream timestamps: int64 milliseconds since Unix epoch
//   - Run IDs: opaque strings, one per orchestrator invocation
package model
