// Package checkpoint implements the durable ingestion checkpoint log.
//
// The log is append-only: each attempt at a trading day produces a started
// row and exactly one terminal (completed or failed) row, and prior rows are
// never mutated or deleted. A day is done iff at least one of its rows is
// completed — failed and stale started rows simply leave the day eligible
// for the next run.
package checkpoint
