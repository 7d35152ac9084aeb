// Package ingest implements the Ingestion Orchestrator.
//
// The Orchestrator:
//   - Computes remaining work: trading days in range minus completed days
//   - Processes days strictly one at a time, in calendar order
//   - Paces fetches with a fixed inter-day sleep against the upstream budget
//   - Records a started row and exactly one terminal row per attempted day
//   - Continues past per-day failures; aborts only on checkpoint-log errors
//
// Sequential processing is deliberate backpressure against a rate-limited
// upstream, not an accidental limitation. Runs must not execute concurrently
// against the same market and range; the checkpoint log alone cannot
// arbitrate a same-day race between two live runs.
package ingest
