package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/eod-pipeline/internal/calendar"
	"github.com/rickgao/eod-pipeline/internal/checkpoint"
	"github.com/rickgao/eod-pipeline/internal/config"
	"github.com/rickgao/eod-pipeline/internal/database"
	"github.com/rickgao/eod-pipeline/internal/ingest"
	"github.com/rickgao/eod-pipeline/internal/load"
	"github.com/rickgao/eod-pipeline/internal/polygon"
	"github.com/rickgao/eod-pipeline/internal/version"
)

var daysBack int

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch and load daily aggregates for the configured window",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().IntVar(&daysBack, "days-back", 0,
		"override the backfill window to the last N days (daily trigger uses 1)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	logger.Info("starting eodload",
		"version", version.String(),
		"config", configPath,
	)

	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if daysBack > 0 {
		cfg.Ingest.DaysBackOverride = daysBack
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("connecting to warehouse",
		"host", cfg.Warehouse.Host,
		"port", cfg.Warehouse.Port,
		"database", cfg.Warehouse.Name,
	)
	pool, err := database.Connect(ctx, cfg.Warehouse)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("warehouse connected")

	client := polygon.NewClient(
		cfg.Polygon.BaseURL,
		cfg.Polygon.APIKey,
		polygon.WithTimeout(cfg.Polygon.Timeout),
		polygon.WithAdjusted(*cfg.Polygon.Adjusted),
		polygon.WithRetryPolicy(polygon.RetryPolicy{
			MaxAttempts:     cfg.Polygon.Retry.MaxAttempts,
			RateLimitWait:   cfg.Polygon.Retry.RateLimitWait,
			ServerErrorWait: cfg.Polygon.Retry.ServerErrorWait,
		}),
		polygon.WithLogger(logger),
	)

	// The window ends the day before "now" in market time.
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return fmt.Errorf("load market timezone: %w", err)
	}
	start, end := ingest.Window(time.Now().In(loc), cfg.Ingest.YearsBack, cfg.Ingest.DaysBackOverride)

	orch := ingest.New(
		ingest.Config{
			Market: cfg.Ingest.Market,
			Start:  start,
			End:    end,
			Pacing: cfg.Ingest.Pacing,
		},
		calendar.TradingDays,
		client,
		load.New(pool, logger),
		checkpoint.New(pool),
		logger,
	)

	sum, err := orch.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingestion run: %w", err)
	}

	// Failed days are not fatal: they stay absent from the completed set
	// and the next invocation retries them.
	logger.Info("run summary",
		"run_id", sum.RunID,
		"trading_days", sum.TradingDays,
		"skipped", sum.Skipped,
		"processed", sum.Processed,
		"no_data", sum.NoData,
		"failed", sum.Failed,
		"rows_inserted", sum.RowsInserted,
	)
	return nil
}
