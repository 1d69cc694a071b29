package sqlitecache

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tsen1220/tw-stock-analyst/internal/core/domain"
	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driven"
)

// Ensure CachedProvider implements the interface.
var _ driven.PriceProvider = (*CachedProvider)(nil)

// CachedProvider wraps a remote price provider with the local cache.
// Successful fetches are written through; when the remote fails or
// returns nothing, cached history is served instead.
type CachedProvider struct {
	remote driven.PriceProvider
	cache  *Cache
	log    zerolog.Logger
}

// NewCachedProvider wires a remote provider to the cache.
func NewCachedProvider(remote driven.PriceProvider, cache *Cache, log zerolog.Logger) *CachedProvider {
	return &CachedProvider{remote: remote, cache: cache, log: log}
}

// DailyPrices fetches fresh candles from the remote, falling back to
// the cache when the remote is unavailable.
func (p *CachedProvider) DailyPrices(ctx context.Context, stockID, startDate, endDate string) ([]domain.Candle, error) {
	candles, err := p.remote.DailyPrices(ctx, stockID, startDate, endDate)
	if err == nil && len(candles) > 0 {
		if saveErr := p.cache.Save(ctx, stockID, candles); saveErr != nil {
			p.log.Warn().Err(saveErr).Str("stock_id", stockID).Msg("price cache write failed")
		}
		return candles, nil
	}

	if err != nil {
		p.log.Warn().Err(err).Str("stock_id", stockID).Msg("remote price fetch failed, trying cache")
	}

	cached, cacheErr := p.cache.Load(ctx, stockID, startDate, endDate)
	if cacheErr != nil {
		if err != nil {
			return nil, err
		}
		return nil, cacheErr
	}
	if len(cached) > 0 {
		p.log.Info().Str("stock_id", stockID).Int("rows", len(cached)).Msg("serving prices from cache")
		return cached, nil
	}

	// Nothing remote and nothing cached. Propagate the remote error if
	// there was one; an empty window is otherwise a valid result.
	if err != nil {
		return nil, err
	}
	return candles, nil
}
