package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/eod-pipeline/internal/calendar"
	"github.com/rickgao/eod-pipeline/internal/model"
	"github.com/rickgao/eod-pipeline/internal/normalize"
	"github.com/rickgao/eod-pipeline/internal/polygon"
)

// Fetcher retrieves the grouped-daily snapshot for one trading day.
type Fetcher interface {
	GroupedDaily(ctx context.Context, day time.Time) ([]model.RawAggregate, error)
}

// Loader writes one day's normalized rows into the raw table.
type Loader interface {
	LoadDay(ctx context.Context, rows []model.Row) (int64, error)
}

// CheckpointLog is the durable per-day attempt log.
type CheckpointLog interface {
	CompletedDays(ctx context.Context) (map[string]struct{}, error)
	Record(ctx context.Context, cp model.Checkpoint) error
}

// CalendarFunc produces the ordered trading days for a market and range.
type CalendarFunc func(market string, start, end time.Time) ([]time.Time, error)

// Config holds one run's window and pacing.
type Config struct {
	Market string
	Start  time.Time
	End    time.Time

	// Pacing is the fixed sleep between per-day fetches, respecting the
	// upstream's aggregate request budget across the run. Distinct from the
	// fetch client's per-request retry backoff.
	Pacing time.Duration
}

// Summary reports one run's per-day outcomes.
type Summary struct {
	RunID        string
	TradingDays  int
	Skipped      int // already completed before this run
	Processed    int // fetched, loaded, completed
	NoData       int // completed with zero rows
	Failed       int // fetch or load failed; retried next run
	RowsInserted int64
}

// Orchestrator drives the fetch → normalize → load → checkpoint loop over a
// date range, one day at a time in calendar order.
type Orchestrator struct {
	cfg         Config
	calendar    CalendarFunc
	fetcher     Fetcher
	loader      Loader
	checkpoints CheckpointLog
	logger      *slog.Logger

	sleep    func(ctx context.Context, d time.Duration) error
	now      func() time.Time
	newRunID func() string
}

// New creates an Orchestrator with its collaborators.
func New(cfg Config, cal CalendarFunc, fetcher Fetcher, loader Loader, checkpoints CheckpointLog, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cfg:         cfg,
		calendar:    cal,
		fetcher:     fetcher,
		loader:      loader,
		checkpoints: checkpoints,
		logger:      logger,
		sleep:       sleepCtx,
		now:         time.Now,
		newRunID:    uuid.NewString,
	}
}

// Run walks the configured range. Per-day fetch and load failures are
// recorded and the walk continues; the run aborts only when the checkpoint
// log cannot be read or written, or the context is cancelled. Days left
// failed are absent from CompletedDays and picked up by the next invocation.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	sum := Summary{RunID: o.newRunID()}

	days, err := o.calendar(o.cfg.Market, o.cfg.Start, o.cfg.End)
	if err != nil {
		return sum, fmt.Errorf("trading calendar: %w", err)
	}
	sum.TradingDays = len(days)

	completed, err := o.checkpoints.CompletedDays(ctx)
	if err != nil {
		// Unreadable checkpoint log means remaining work cannot be
		// determined safely; never fall back to "nothing completed".
		return sum, fmt.Errorf("determine completed days: %w", err)
	}

	o.logger.Info("starting ingestion run",
		"run_id", sum.RunID,
		"market", o.cfg.Market,
		"start", o.cfg.Start.Format("2006-01-02"),
		"end", o.cfg.End.Format("2006-01-02"),
		"trading_days", len(days),
		"already_completed", len(completed),
	)

	attempted := false
	for i, day := range days {
		ds := day.Format("2006-01-02")

		if _, done := completed[ds]; done {
			sum.Skipped++
			o.logger.Debug("skipping completed day",
				"day", ds,
				"progress", fmt.Sprintf("%d/%d", i+1, len(days)),
			)
			continue
		}

		if attempted {
			if err := o.sleep(ctx, o.cfg.Pacing); err != nil {
				return sum, err
			}
		}
		attempted = true

		if err := o.processDay(ctx, &sum, day, ds, i+1, len(days)); err != nil {
			return sum, err
		}
	}

	o.logger.Info("ingestion run finished",
		"run_id", sum.RunID,
		"skipped", sum.Skipped,
		"processed", sum.Processed,
		"no_data", sum.NoData,
		"failed", sum.Failed,
		"rows_inserted", sum.RowsInserted,
	)
	return sum, nil
}

// processDay handles one trading day: started checkpoint, fetch, normalize,
// load, terminal checkpoint. A non-nil return aborts the whole run.
func (o *Orchestrator) processDay(ctx context.Context, sum *Summary, day time.Time, ds string, pos, total int) error {
	if err := o.record(ctx, sum.RunID, day, model.StatusStarted, nil, nil, nil); err != nil {
		return err
	}

	o.logger.Info("processing day",
		"day", ds,
		"progress", fmt.Sprintf("%d/%d", pos, total),
	)

	batch, err := o.fetcher.GroupedDaily(ctx, day)
	switch {
	case errors.Is(err, polygon.ErrNoData):
		// A holiday the calendar missed is not a failure; a zero-row
		// completed row keeps the day from being retried forever.
		zero := int64(0)
		none := 0
		if err := o.record(ctx, sum.RunID, day, model.StatusCompleted, &none, &zero, nil); err != nil {
			return err
		}
		sum.NoData++
		o.logger.Info("no data for day", "day", ds)
		return nil

	case err != nil:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := err.Error()
		if err := o.record(ctx, sum.RunID, day, model.StatusFailed, nil, nil, &msg); err != nil {
			return err
		}
		sum.Failed++
		o.logger.Error("fetch failed", "day", ds, "error", err)
		return nil
	}

	expected := len(batch)
	rows := normalize.Rows(batch, day, o.now())

	inserted, err := o.loader.LoadDay(ctx, rows)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := err.Error()
		if err := o.record(ctx, sum.RunID, day, model.StatusFailed, &expected, nil, &msg); err != nil {
			return err
		}
		sum.Failed++
		o.logger.Error("load failed", "day", ds, "error", err)
		return nil
	}

	if err := o.record(ctx, sum.RunID, day, model.StatusCompleted, &expected, &inserted, nil); err != nil {
		return err
	}
	sum.Processed++
	sum.RowsInserted += inserted
	o.logger.Info("day completed",
		"day", ds,
		"tickers", expected,
		"rows_inserted", inserted,
	)
	return nil
}

// record appends one checkpoint row. Append failures abort the run: without
// a durable log the started/terminal pairing and next-run resumability
// cannot be maintained.
func (o *Orchestrator) record(ctx context.Context, runID string, day time.Time, status model.Status, expected *int, inserted *int64, errMsg *string) error {
	err := o.checkpoints.Record(ctx, model.Checkpoint{
		RunID:           runID,
		TradingDate:     calendar.Date(day),
		Status:          status,
		ExpectedTickers: expected,
		RowsInserted:    inserted,
		ErrorMessage:    errMsg,
	})
	if err != nil {
		return fmt.Errorf("append checkpoint: %w", err)
	}
	return nil
}

// Window computes the ingestion range ending the day before now: the last
// daysBackOverride days when positive, otherwise yearsBack years.
func Window(now time.Time, yearsBack, daysBackOverride int) (start, end time.Time) {
	end = calendar.Date(now.AddDate(0, 0, -1))
	if daysBackOverride > 0 {
		start = end.AddDate(0, 0, -daysBackOverride+1)
	} else {
		start = end.AddDate(-yearsBack, 0, 0)
	}
	return start, end
}

// sleepCtx waits for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
