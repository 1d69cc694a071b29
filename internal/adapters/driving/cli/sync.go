package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driving"
	"github.com/tsen1220/tw-stock-analyst/internal/logger"
)

var (
	syncStocks    []string
	syncDays      int
	syncSkipFunds bool
	syncLogFile   string
	syncVerbose   bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Ingest stock data into the vector store",
	Long: `Fetches daily prices and quarterly fundamentals for the configured
stock universe, computes technical indicators, and writes the resulting
documents to the vector store. Days already present are skipped, so the
command is safe to re-run; a large --days turns it into a full load.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringSliceVar(&syncStocks, "stocks", nil,
		"stock codes to sync (default: configured universe)")
	syncCmd.Flags().IntVar(&syncDays, "days", 2,
		"lookback window in days")
	syncCmd.Flags().BoolVar(&syncSkipFunds, "skip-fundamentals", false,
		"skip the quarterly fundamentals pass")
	syncCmd.Flags().StringVar(&syncLogFile, "log-file", logger.DefaultLogFile,
		"sync log file path")
	syncCmd.Flags().BoolVarP(&syncVerbose, "verbose", "v", false,
		"mirror the log to stdout")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	log, logCloser, err := logger.NewFileLogger(syncLogFile, syncVerbose)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logCloser.Close()

	runner, cleanup, err := buildSyncRunner(log)
	if err != nil {
		return err
	}
	defer cleanup()

	days := syncDays
	if days <= 0 {
		days = cfg.Data.DefaultDays
	}

	cmd.Printf("Syncing %d days of stock data...\n", days)

	stats, err := runner.Run(context.Background(), driving.SyncOptions{
		StockIDs:         syncStocks,
		DaysBack:         days,
		SkipFundamentals: syncSkipFunds,
	})
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Sync complete: %d inserted, %d skipped, %d points in collection.\n",
		stats.Inserted, stats.Skipped, stats.TotalPoints)
	return nil
}
