package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tsen1220/tw-stock-analyst/internal/core/domain"
	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driven"
	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driving"
	"github.com/tsen1220/tw-stock-analyst/internal/indicators"
)

// Ensure SyncService implements the interface.
var _ driving.SyncRunner = (*SyncService)(nil)

// SyncService incrementally synchronises stock observations into the
// vector store. It is stateless between runs: instead of tracking a
// ledger of synced keys, it probes the store for each would-be key and
// skips rows that already exist. Combined with fingerprint-keyed upserts
// this makes overlapping or repeated runs idempotent, so a crashed run
// can simply be re-invoked.
type SyncService struct {
	prices       driven.PriceProvider
	fundamentals driven.FundamentalsProvider
	embedder     driven.EmbeddingService
	store        driven.VectorStore

	// universe maps stock code to display name; the default run target.
	universe map[string]string

	log zerolog.Logger

	// now is injectable for tests.
	now func() time.Time
}

// NewSyncService creates a sync service. The fundamentals provider may
// be nil, in which case the fundamentals pass is always skipped.
func NewSyncService(
	prices driven.PriceProvider,
	fundamentals driven.FundamentalsProvider,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	universe map[string]string,
	log zerolog.Logger,
) *SyncService {
	return &SyncService{
		prices:       prices,
		fundamentals: fundamentals,
		embedder:     embedder,
		store:        store,
		universe:     universe,
		log:          log,
		now:          time.Now,
	}
}

// Run executes one sync pass over the stock universe. Per-row and
// per-stock failures are logged and skipped; Run only fails on startup
// problems (collection creation), so the scan always reaches the end of
// the universe once it begins.
func (s *SyncService) Run(ctx context.Context, opts driving.SyncOptions) (driving.SyncStats, error) {
	var stats driving.SyncStats

	if err := s.store.EnsureCollection(ctx, s.embedder.Dimensions()); err != nil {
		return stats, fmt.Errorf("ensure collection: %w", err)
	}

	stockIDs := opts.StockIDs
	if len(stockIDs) == 0 {
		stockIDs = s.universeCodes()
	}

	endDate := s.now().Format(time.DateOnly)
	startDate := s.now().AddDate(0, 0, -opts.DaysBack).Format(time.DateOnly)

	s.log.Info().
		Int("stocks", len(stockIDs)).
		Str("start", startDate).
		Str("end", endDate).
		Bool("skip_fundamentals", opts.SkipFundamentals).
		Msg("stock sync started")

	for _, stockID := range stockIDs {
		if err := s.syncStock(ctx, stockID, startDate, endDate, opts.SkipFundamentals, &stats); err != nil {
			s.log.Error().Err(err).Str("stock_id", stockID).Msg("stock sync failed")
		}
	}

	s.log.Info().
		Int("inserted", stats.Inserted).
		Int("skipped", stats.Skipped).
		Msg("sync completed")

	if info, err := s.store.Info(ctx); err != nil {
		s.log.Warn().Err(err).Msg("collection info unavailable")
	} else {
		stats.TotalPoints = info.PointsCount
		s.log.Info().Uint64("total_points", info.PointsCount).Msg("collection size")
	}

	return stats, nil
}

// syncStock processes one stock: the technical window first, then at
// most one fundamental statement.
func (s *SyncService) syncStock(ctx context.Context, stockID, startDate, endDate string, skipFundamentals bool, stats *driving.SyncStats) error {
	stockName := s.stockName(stockID)
	s.log.Info().Str("stock_id", stockID).Str("name", stockName).Msg("processing stock")

	candles, err := s.prices.DailyPrices(ctx, stockID, startDate, endDate)
	if err != nil {
		return fmt.Errorf("fetch prices: %w", err)
	}
	if len(candles) == 0 {
		s.log.Warn().Str("stock_id", stockID).Msg("no price data")
		return nil
	}

	snapshots := indicators.BuildSnapshots(candles)

	// Oldest first so the log reads chronologically.
	for _, snap := range snapshots {
		if s.keyExists(ctx, stockID, snap.Date, domain.DataTypeTechnical) {
			s.log.Debug().Str("stock_id", stockID).Str("date", snap.Date).Msg("technical exists, skipping")
			stats.Skipped++
			continue
		}

		if err := s.insertObservation(ctx, snap.Observation(stockID, stockName)); err != nil {
			s.log.Error().Err(err).Str("stock_id", stockID).Str("date", snap.Date).Msg("technical insert failed")
			continue
		}
		stats.Inserted++
		s.log.Info().Str("stock_id", stockID).Str("date", snap.Date).Msg("inserted technical data")
	}

	if skipFundamentals || s.fundamentals == nil {
		return nil
	}

	// One fundamentals pass per stock per run, not one per window day.
	// A fundamentals failure never fails the stock.
	latestClose := candles[len(candles)-1].Close
	if err := s.syncFundamentals(ctx, stockID, stockName, latestClose, stats); err != nil {
		s.log.Warn().Err(err).Str("stock_id", stockID).Msg("fundamentals sync failed")
	}

	return nil
}

func (s *SyncService) syncFundamentals(ctx context.Context, stockID, stockName string, latestClose float64, stats *driving.SyncStats) error {
	report, err := s.fundamentals.LatestFundamentals(ctx, stockID)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			s.log.Debug().Str("stock_id", stockID).Msg("no fundamentals available")
			return nil
		}
		return fmt.Errorf("fetch fundamentals: %w", err)
	}

	if s.keyExists(ctx, stockID, report.Date, domain.DataTypeFundamental) {
		s.log.Debug().Str("stock_id", stockID).Str("date", report.Date).Msg("fundamental exists, skipping")
		stats.Skipped++
		return nil
	}

	if err := s.insertObservation(ctx, report.Observation(stockID, stockName, latestClose)); err != nil {
		return fmt.Errorf("insert fundamental: %w", err)
	}
	stats.Inserted++
	s.log.Info().Str("stock_id", stockID).Str("date", report.Date).Msg("inserted fundamental data")
	return nil
}

// insertObservation embeds the document text and writes it at its
// fingerprint key.
func (s *SyncService) insertObservation(ctx context.Context, obs domain.Observation) error {
	vector, err := s.embedder.Embed(ctx, obs.Text)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	obs.Embedding = vector

	if _, err := s.store.Upsert(ctx, obs); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// keyExists probes the store for an identity triple with a degenerate
// zero-vector query: only the filter match matters, not similarity. A
// probe failure is treated as absent; the fingerprint-keyed upsert makes
// a duplicate write harmless anyway.
func (s *SyncService) keyExists(ctx context.Context, stockID, date string, dataType domain.DataType) bool {
	results, err := s.store.Search(ctx, driven.SearchQuery{
		Vector:   make([]float32, s.embedder.Dimensions()),
		Limit:    1,
		StockID:  stockID,
		DataType: dataType,
		Date:     date,
	})
	if err != nil {
		s.log.Debug().Err(err).Str("stock_id", stockID).Str("date", date).Msg("existence probe failed")
		return false
	}
	return len(results) > 0
}

func (s *SyncService) universeCodes() []string {
	codes := make([]string, 0, len(s.universe))
	for code := range s.universe {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (s *SyncService) stockName(stockID string) string {
	if name, ok := s.universe[stockID]; ok {
		return name
	}
	return stockID
}
