package services

import (
	"context"
	"errors"

	"github.com/tsen1220/tw-stock-analyst/internal/core/domain"
	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driven"
)

// mockPriceProvider returns a fixed candle window per stock.
type mockPriceProvider struct {
	candles map[string][]domain.Candle
	err     error
	calls   int
}

func (m *mockPriceProvider) DailyPrices(_ context.Context, stockID, _, _ string) ([]domain.Candle, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.candles[stockID], nil
}

// mockFundamentalsProvider returns a fixed report per stock.
type mockFundamentalsProvider struct {
	reports map[string]*domain.FundamentalReport
	err     error
	calls   int
}

func (m *mockFundamentalsProvider) LatestFundamentals(_ context.Context, stockID string) (*domain.FundamentalReport, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	report, ok := m.reports[stockID]
	if !ok {
		return nil, domain.ErrNoData
	}
	return report, nil
}

// mockEmbedder returns a constant vector.
type mockEmbedder struct {
	dimensions int
	err        error
	calls      int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return make([]float32, m.dimensions), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vector
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dimensions }

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

// mockStore records upserts in memory, keyed by fingerprint, and serves
// existence probes and searches from them.
type mockStore struct {
	points map[string]domain.Observation

	ensureErr error
	upsertErr error
	searchErr error
	infoErr   error

	searchResults []domain.SearchResult
	lastQuery     driven.SearchQuery
	dropped       bool
}

func newMockStore() *mockStore {
	return &mockStore{points: make(map[string]domain.Observation)}
}

func (m *mockStore) EnsureCollection(_ context.Context, _ int) error {
	return m.ensureErr
}

func (m *mockStore) Upsert(_ context.Context, obs domain.Observation) (string, error) {
	if m.upsertErr != nil {
		return "", m.upsertErr
	}
	key := obs.Key()
	m.points[key] = obs
	return key, nil
}

func (m *mockStore) Search(_ context.Context, q driven.SearchQuery) ([]domain.SearchResult, error) {
	m.lastQuery = q
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if m.searchResults != nil {
		return m.searchResults, nil
	}
	// Existence probe path: match the identity triple.
	if q.StockID != "" && q.Date != "" && q.DataType != "" {
		key := domain.Fingerprint(q.StockID, q.Date, q.DataType)
		if obs, ok := m.points[key]; ok {
			return []domain.SearchResult{{
				ID:       key,
				StockID:  obs.StockID,
				Date:     obs.Date,
				DataType: obs.DataType,
			}}, nil
		}
	}
	return nil, nil
}

func (m *mockStore) Info(_ context.Context) (driven.CollectionInfo, error) {
	if m.infoErr != nil {
		return driven.CollectionInfo{}, m.infoErr
	}
	return driven.CollectionInfo{
		Name:        "stock_analysis",
		PointsCount: uint64(len(m.points)),
		Status:      "green",
	}, nil
}

func (m *mockStore) DropCollection(_ context.Context) error {
	m.dropped = true
	m.points = make(map[string]domain.Observation)
	return nil
}

func (m *mockStore) Close() error { return nil }

// mockLLM returns a canned reply.
type mockLLM struct {
	reply    string
	chatErr  error
	hasModel bool
	modelErr error

	lastMessages []driven.ChatMessage
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.lastMessages = messages
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func (m *mockLLM) HasModel(_ context.Context) (bool, error) {
	if m.modelErr != nil {
		return false, m.modelErr
	}
	return m.hasModel, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

var errBoom = errors.New("boom")
