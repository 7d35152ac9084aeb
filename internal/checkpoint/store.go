package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/eod-pipeline/internal/model"
)

// ErrUnavailable marks a checkpoint store that cannot be read. The
// orchestrator must abort on it: treating unavailability as "nothing
// completed" would re-ingest already-completed days.
var ErrUnavailable = errors.New("checkpoint store unavailable")

const (
	completedDaysSQL = `
		SELECT DISTINCT trading_date
		FROM admin.ingestion_checkpoints
		WHERE status = 'completed'
	`

	insertCheckpointSQL = `
		INSERT INTO admin.ingestion_checkpoints
			(run_id, trading_date, status, expected_tickers, rows_inserted, started_at, completed_at, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	statsSQL = `
		SELECT
			COUNT(DISTINCT trading_date) FILTER (WHERE status = 'completed'),
			COALESCE(SUM(rows_inserted) FILTER (WHERE status = 'completed'), 0),
			COALESCE(AVG(expected_tickers) FILTER (WHERE status = 'completed'), 0),
			MIN(trading_date) FILTER (WHERE status = 'completed'),
			MAX(trading_date) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'failed')
		FROM admin.ingestion_checkpoints
	`
)

// Store appends to and reads the ingestion checkpoint log.
type Store struct {
	db  *pgxpool.Pool
	now func() time.Time
}

// New creates a Store on the warehouse pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db, now: time.Now}
}

// CompletedDays returns every trading day with at least one completed
// checkpoint, keyed by ISO date. Any read failure wraps ErrUnavailable;
// the method never degrades to an empty set.
func (s *Store) CompletedDays(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.Query(ctx, completedDaysSQL)
	if err != nil {
		return nil, fmt.Errorf("query completed days: %w: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	completed := make(map[string]struct{})
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan completed day: %w: %w", ErrUnavailable, err)
		}
		completed[d.Format("2006-01-02")] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read completed days: %w: %w", ErrUnavailable, err)
	}

	return completed, nil
}

// Record appends one checkpoint row. The append is a single INSERT, never a
// read-modify-write; started_at and completed_at are stamped here from the
// store clock according to the row's status.
func (s *Store) Record(ctx context.Context, cp model.Checkpoint) error {
	startedAt, completedAt := stampTimes(cp.Status, s.now().UTC())

	_, err := s.db.Exec(ctx, insertCheckpointSQL,
		cp.RunID,
		cp.TradingDate,
		string(cp.Status),
		cp.ExpectedTickers,
		cp.RowsInserted,
		startedAt,
		completedAt,
		cp.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("record %s checkpoint for %s: %w",
			cp.Status, cp.TradingDate.Format("2006-01-02"), err)
	}
	return nil
}

// stampTimes derives the timestamp columns for a checkpoint row: started
// rows carry started_at, terminal rows carry completed_at.
func stampTimes(status model.Status, now time.Time) (startedAt, completedAt *time.Time) {
	if status == model.StatusStarted {
		return &now, nil
	}
	if status.Terminal() {
		return nil, &now
	}
	return nil, nil
}

// Stats summarizes the checkpoint log for monitoring.
type Stats struct {
	DaysProcessed    int64
	TotalRows        int64
	AvgTickersPerDay float64
	EarliestDate     *time.Time
	LatestDate       *time.Time
	FailedAttempts   int64
}

// Stats aggregates ingestion history across all runs.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRow(ctx, statsSQL).Scan(
		&st.DaysProcessed,
		&st.TotalRows,
		&st.AvgTickersPerDay,
		&st.EarliestDate,
		&st.LatestDate,
		&st.FailedAttempts,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("query ingestion stats: %w: %w", ErrUnavailable, err)
	}
	return st, nil
}
