// Package normalize maps upstream aggregate records into the warehouse's
// target schema. The mapping is pure: identical inputs yield identical rows.
package normalize

import (
	"time"

	"github.com/rickgao/eod-pipeline/internal/calendar"
	"github.com/rickgao/eod-pipeline/internal/model"
)

// Rows converts one day's raw batch into warehouse rows.
//
// The trading date is set from day for every row — the batch is fetched
// per-day, so per-row source timestamps are never consulted. Every row is
// stamped with ingestedAt (naive UTC). Records without a ticker symbol are
// dropped. Output columns are exactly the raw table's column set.
func Rows(batch []model.RawAggregate, day time.Time, ingestedAt time.Time) []model.Row {
	tradingDate := calendar.Date(day)
	stamped := ingestedAt.UTC()

	rows := make([]model.Row, 0, len(batch))
	for _, a := range batch {
		if a.Ticker == "" {
			continue
		}
		rows = append(rows, model.Row{
			Ticker:       a.Ticker,
			Volume:       a.Volume,
			VWAP:         a.VWAP,
			Open:         a.Open,
			Close:        a.Close,
			High:         a.High,
			Low:          a.Low,
			Transactions: a.Transactions,
			TradingDate:  tradingDate,
			IngestedAt:   stamped,
		})
	}

	return rows
}
