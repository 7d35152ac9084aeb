package model

import "time"

// -----------------------------------------------------------------------------
// Upstream Types
// -----------------------------------------------------------------------------

// RawAggregate is one ticker's row from the grouped-daily snapshot.
// JSON tags follow the upstream's short field names; fields the warehouse
// schema does not carry are not declared and fall away at decode.
type RawAggregate struct {
	Ticker       string  `json:"T"`  // Ticker symbol
	Volume       float64 `json:"v"`  // Traded volume
	VWAP         float64 `json:"vw"` // Volume-weighted average price
	Open         float64 `json:"o"`  // Open price
	Close        float64 `json:"c"`  // Close price
	High         float64 `json:"h"`  // High price
	Low          float64 `json:"l"`  // Low price
	Transactions int64   `json:"n"`  // Number of trades
	Timestamp    int64   `json:"t"`  // End of aggregate window (ms since epoch)
}

// -----------------------------------------------------------------------------
// Warehouse Types
// -----------------------------------------------------------------------------

// Row is the unit persisted into raw.daily_stocks. Append-only fact;
// the raw table carries no uniqueness constraint.
type Row struct {
	Ticker       string
	Volume       float64
	VWAP         float64
	Open         float64
	Close        float64
	High         float64
	Low          float64
	Transactions int64
	TradingDate  time.Time // Civil date being ingested (not derived from per-row timestamps)
	IngestedAt   time.Time // Wall-clock load time, naive UTC
}

// Status is a checkpoint lifecycle state.
type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status concludes an attempt.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Checkpoint is one append-only row in admin.ingestion_checkpoints.
// A day counts as done iff at least one of its rows is completed;
// prior rows are never updated or deleted.
type Checkpoint struct {
	RunID           string
	TradingDate     time.Time
	Status          Status
	ExpectedTickers *int    // nil until the batch size is known
	RowsInserted    *int64  // nil except on completed rows
	ErrorMessage    *string // nil except on failed rows
}
