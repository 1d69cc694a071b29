// Package driving provides interfaces for application entry points (primary/inbound ports).
package driving

import "context"

// SyncOptions configures one incremental sync run.
type SyncOptions struct {
	// StockIDs is the target universe. Empty means the configured default.
	StockIDs []string

	// DaysBack bounds the historical price window.
	DaysBack int

	// SkipFundamentals disables the per-stock fundamentals pass.
	SkipFundamentals bool
}

// SyncStats aggregates the counters of one sync run.
type SyncStats struct {
	// Inserted counts observations written during this run.
	Inserted int

	// Skipped counts observations whose key already existed.
	Skipped int

	// TotalPoints is the store's post-run point count, when available.
	TotalPoints uint64
}

// SyncRunner drives an incremental, idempotent sync over a stock
// universe. Re-running with an overlapping window inserts nothing new.
type SyncRunner interface {
	Run(ctx context.Context, opts SyncOptions) (SyncStats, error)
}
