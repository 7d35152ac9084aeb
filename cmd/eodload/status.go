package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rickgao/eod-pipeline/internal/checkpoint"
	"github.com/rickgao/eod-pipeline/internal/config"
	"github.com/rickgao/eod-pipeline/internal/database"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize ingestion history from the checkpoint log",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Warehouse)
	if err != nil {
		return err
	}
	defer pool.Close()

	stats, err := checkpoint.New(pool).Stats(ctx)
	if err != nil {
		return err
	}

	earliest, latest := "n/a", "n/a"
	if stats.EarliestDate != nil {
		earliest = stats.EarliestDate.Format("2006-01-02")
	}
	if stats.LatestDate != nil {
		latest = stats.LatestDate.Format("2006-01-02")
	}

	logger.Info("ingestion status",
		"days_processed", stats.DaysProcessed,
		"total_rows", stats.TotalRows,
		"avg_tickers_per_day", fmt.Sprintf("%.0f", stats.AvgTickersPerDay),
		"earliest_date", earliest,
		"latest_date", latest,
		"failed_attempts", stats.FailedAttempts,
	)
	return nil
}
