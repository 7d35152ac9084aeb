// Package load writes normalized rows into the warehouse raw table.
package load

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/eod-pipeline/internal/model"
)

const insertRowSQL = `
	INSERT INTO raw.daily_stocks
		(ticker, volume, vwap, open, close, high, low, transactions, trading_date, ingested_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

const defaultChunkSize = 1000

// Loader bulk-writes one day's normalized rows into raw.daily_stocks.
type Loader struct {
	db        *pgxpool.Pool
	chunkSize int
	logger    *slog.Logger
}

// New creates a Loader on the warehouse pool.
func New(db *pgxpool.Pool, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		db:        db,
		chunkSize: defaultChunkSize,
		logger:    logger,
	}
}

// LoadDay inserts the batch and reports rows written. An empty batch is a
// no-op success. The raw table is append-only with no uniqueness constraint,
// so a crash-retry can produce duplicates; dedup belongs downstream.
func (l *Loader) LoadDay(ctx context.Context, rows []model.Row) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	start := time.Now()

	var inserted int64
	for lo := 0; lo < len(rows); lo += l.chunkSize {
		hi := lo + l.chunkSize
		if hi > len(rows) {
			hi = len(rows)
		}

		n, err := l.insertChunk(ctx, rows[lo:hi])
		inserted += n
		if err != nil {
			return inserted, fmt.Errorf("load daily aggregates: %w", err)
		}
	}

	l.logger.Debug("loaded daily aggregates",
		"rows", inserted,
		"duration", time.Since(start),
	)
	return inserted, nil
}

// insertChunk inserts one chunk using pgx.Batch.
func (l *Loader) insertChunk(ctx context.Context, chunk []model.Row) (int64, error) {
	batch := &pgx.Batch{}
	for _, r := range chunk {
		batch.Queue(insertRowSQL,
			r.Ticker, r.Volume, r.VWAP, r.Open, r.Close, r.High, r.Low,
			r.Transactions, r.TradingDate, r.IngestedAt,
		)
	}

	results := l.db.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for range chunk {
		ct, err := results.Exec()
		if err != nil {
			return inserted, err
		}
		inserted += ct.RowsAffected()
	}

	return inserted, nil
}
