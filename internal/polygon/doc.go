// Package polygon implements the upstream fetch client.
//
// The Fetch Client:
//   - Retrieves the grouped-daily aggregate snapshot for one trading day
//   - Retries transient failures (429, 5xx, transport) with per-class waits
//   - Aborts immediately on other client errors
//   - Distinguishes "upstream has nothing" (ErrNoData) from "could not talk
//     to upstream" (*FetchError)
package polygon
