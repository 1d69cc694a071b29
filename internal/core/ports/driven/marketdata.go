// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/tsen1220/tw-stock-analyst/internal/core/domain"
)

// PriceProvider fetches historical daily price data for a stock.
//
// Implementations may include:
//   - FinMind HTTP API (primary)
//   - Local SQLite cache (offline fallback)
//   - A fallback chain combining the two
type PriceProvider interface {
	// DailyPrices returns OHLCV candles for the stock between startDate
	// and endDate inclusive (ISO dates), oldest first. An empty result is
	// not an error; callers treat it as "nothing to sync".
	DailyPrices(ctx context.Context, stockID, startDate, endDate string) ([]domain.Candle, error)
}

// FundamentalsProvider fetches quarterly financial statements.
type FundamentalsProvider interface {
	// LatestFundamentals returns the most recent statement within the
	// provider's lookback window. Returns domain.ErrNoData when the stock
	// has no statements in the window.
	LatestFundamentals(ctx context.Context, stockID string) (*domain.FundamentalReport, error)
}
