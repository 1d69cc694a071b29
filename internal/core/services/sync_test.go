package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsen1220/tw-stock-analyst/internal/core/domain"
	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driven"
	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driving"
)

func testCandles(n int) []domain.Candle {
	candles := make([]domain.Candle, n)
	for i := range candles {
		price := 100 + float64(i)
		candles[i] = domain.Candle{
			Date:   fmt.Sprintf("2026-08-%02d", i+1),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
		}
	}
	return candles
}

func newTestSync(prices *mockPriceProvider, funds *mockFundamentalsProvider, store *mockStore) *SyncService {
	// Convert a typed nil into a true nil interface so the service's
	// nil check sees the absent provider.
	var fundamentals driven.FundamentalsProvider
	if funds != nil {
		fundamentals = funds
	}
	svc := NewSyncService(prices, fundamentals, &mockEmbedder{dimensions: 4}, store,
		map[string]string{"2330": "台積電"}, zerolog.Nop())
	svc.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestSyncService_Run_InsertsAllNewRows(t *testing.T) {
	prices := &mockPriceProvider{candles: map[string][]domain.Candle{
		"2330": testCandles(3),
	}}
	funds := &mockFundamentalsProvider{reports: map[string]*domain.FundamentalReport{
		"2330": {Date: "2026-06-30", Revenue: 1e9, EPS: 10},
	}}
	store := newMockStore()

	stats, err := newTestSync(prices, funds, store).Run(context.Background(), driving.SyncOptions{DaysBack: 3})

	require.NoError(t, err)
	assert.Equal(t, 4, stats.Inserted) // 3 technical + 1 fundamental
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, uint64(4), stats.TotalPoints)
}

func TestSyncService_Run_SecondRunSkipsEverything(t *testing.T) {
	prices := &mockPriceProvider{candles: map[string][]domain.Candle{
		"2330": testCandles(2),
	}}
	funds := &mockFundamentalsProvider{reports: map[string]*domain.FundamentalReport{
		"2330": {Date: "2026-06-30", Revenue: 1e9, EPS: 10},
	}}
	store := newMockStore()
	svc := newTestSync(prices, funds, store)

	first, err := svc.Run(context.Background(), driving.SyncOptions{DaysBack: 2})
	require.NoError(t, err)
	require.Equal(t, 3, first.Inserted)

	second, err := svc.Run(context.Background(), driving.SyncOptions{DaysBack: 2})

	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 3, second.Skipped)
	assert.Equal(t, uint64(3), second.TotalPoints)
}

func TestSyncService_Run_EnsureCollectionFailureIsFatal(t *testing.T) {
	store := newMockStore()
	store.ensureErr = errBoom
	prices := &mockPriceProvider{}

	_, err := newTestSync(prices, nil, store).Run(context.Background(), driving.SyncOptions{DaysBack: 2})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure collection")
	assert.Zero(t, prices.calls)
}

func TestSyncService_Run_StockFailureDoesNotAbortRun(t *testing.T) {
	prices := &mockPriceProvider{err: errBoom}
	store := newMockStore()

	stats, err := newTestSync(prices, nil, store).Run(context.Background(), driving.SyncOptions{DaysBack: 2})

	require.NoError(t, err)
	assert.Equal(t, 0, stats.Inserted)
}

func TestSyncService_Run_EmptyWindowIsNotAnError(t *testing.T) {
	prices := &mockPriceProvider{candles: map[string][]domain.Candle{}}
	store := newMockStore()

	stats, err := newTestSync(prices, nil, store).Run(context.Background(), driving.SyncOptions{DaysBack: 2})

	require.NoError(t, err)
	assert.Equal(t, 0, stats.Inserted)
	assert.Equal(t, 0, stats.Skipped)
}

func TestSyncService_Run_SkipFundamentals(t *testing.T) {
	prices := &mockPriceProvider{candles: map[string][]domain.Candle{
		"2330": testCandles(1),
	}}
	funds := &mockFundamentalsProvider{reports: map[string]*domain.FundamentalReport{
		"2330": {Date: "2026-06-30"},
	}}
	store := newMockStore()

	stats, err := newTestSync(prices, funds, store).Run(context.Background(),
		driving.SyncOptions{DaysBack: 1, SkipFundamentals: true})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
	assert.Zero(t, funds.calls)
}

func TestSyncService_Run_FundamentalsFailureIsNonFatal(t *testing.T) {
	prices := &mockPriceProvider{candles: map[string][]domain.Candle{
		"2330": testCandles(1),
	}}
	funds := &mockFundamentalsProvider{err: errBoom}
	store := newMockStore()

	stats, err := newTestSync(prices, funds, store).Run(context.Background(), driving.SyncOptions{DaysBack: 1})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
}

func TestSyncService_Run_NoFundamentalsAvailable(t *testing.T) {
	prices := &mockPriceProvider{candles: map[string][]domain.Candle{
		"2330": testCandles(1),
	}}
	funds := &mockFundamentalsProvider{reports: map[string]*domain.FundamentalReport{}}
	store := newMockStore()

	stats, err := newTestSync(prices, funds, store).Run(context.Background(), driving.SyncOptions{DaysBack: 1})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 0, stats.Skipped)
}

func TestSyncService_Run_ExplicitStockList(t *testing.T) {
	prices := &mockPriceProvider{candles: map[string][]domain.Candle{
		"2317": testCandles(1),
	}}
	store := newMockStore()

	stats, err := newTestSync(prices, nil, store).Run(context.Background(),
		driving.SyncOptions{StockIDs: []string{"2317"}, DaysBack: 1})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)

	// Off-universe codes fall back to the code as display name.
	key := domain.Fingerprint("2317", "2026-08-01", domain.DataTypeTechnical)
	obs, ok := store.points[key]
	require.True(t, ok)
	assert.Equal(t, "2317", obs.StockName)
}

func TestSyncService_Run_ProbeFailureTreatedAsAbsent(t *testing.T) {
	prices := &mockPriceProvider{candles: map[string][]domain.Candle{
		"2330": testCandles(1),
	}}
	store := newMockStore()
	store.searchErr = errBoom

	stats, err := newTestSync(prices, nil, store).Run(context.Background(), driving.SyncOptions{DaysBack: 1})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
}

func TestSyncService_Run_InfoFailureLeavesZeroTotal(t *testing.T) {
	prices := &mockPriceProvider{candles: map[string][]domain.Candle{
		"2330": testCandles(1),
	}}
	store := newMockStore()
	store.infoErr = errBoom

	stats, err := newTestSync(prices, nil, store).Run(context.Background(), driving.SyncOptions{DaysBack: 1})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, uint64(0), stats.TotalPoints)
}
