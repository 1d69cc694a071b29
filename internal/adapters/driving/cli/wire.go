package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	ollamaembed "github.com/tsen1220/tw-stock-analyst/internal/adapters/driven/embedding/ollama"
	ollamallm "github.com/tsen1220/tw-stock-analyst/internal/adapters/driven/llm/ollama"
	"github.com/tsen1220/tw-stock-analyst/internal/adapters/driven/marketdata/finmind"
	"github.com/tsen1220/tw-stock-analyst/internal/adapters/driven/marketdata/sqlitecache"
	qdrantstore "github.com/tsen1220/tw-stock-analyst/internal/adapters/driven/vectorstore/qdrant"
	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driven"
	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driving"
	"github.com/tsen1220/tw-stock-analyst/internal/core/services"
)

// Build functions are package variables so tests can substitute fakes.
var (
	buildSyncRunner = realSyncRunner
	buildAskDeps    = realAskDeps
	buildStore      = realStore
)

// askDeps bundles everything the ask command needs beyond the answerer
// itself: service health checks and cleanup.
type askDeps struct {
	answerer       driving.Answerer
	info           func(ctx context.Context) (driven.CollectionInfo, error)
	modelAvailable func(ctx context.Context) bool
	modelName      string
	cleanup        func()
}

// realStore connects to the configured Qdrant collection.
func realStore() (driven.VectorStore, func(), error) {
	store, err := qdrantstore.NewStore(qdrantstore.Config{
		Host:       cfg.Qdrant.Host,
		Port:       cfg.Qdrant.Port,
		Collection: cfg.Qdrant.Collection,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect vector store: %w", err)
	}
	return store, func() { store.Close() }, nil
}

// realSyncRunner assembles the full ingestion pipeline.
func realSyncRunner(log zerolog.Logger) (driving.SyncRunner, func(), error) {
	store, closeStore, err := buildStore()
	if err != nil {
		return nil, nil, err
	}

	cache, err := sqlitecache.Open(cfg.Data.CachePath)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("open price cache: %w", err)
	}

	remote := finmind.NewClient(finmind.Config{
		APIURL:            cfg.FinMind.APIURL,
		Token:             cfg.FinMind.Token,
		RequestsPerMinute: cfg.FinMind.RequestsPerMinute,
	})
	prices := sqlitecache.NewCachedProvider(remote, cache, log)

	embedder := ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    cfg.Ollama.Host,
		Model:      cfg.Ollama.EmbeddingModel,
		Dimensions: cfg.Ollama.VectorSize,
	})

	runner := services.NewSyncService(prices, remote, embedder, store, cfg.Data.Stocks, log)

	cleanup := func() {
		embedder.Close()
		cache.Close()
		closeStore()
	}
	return runner, cleanup, nil
}

// realAskDeps assembles the question-answering pipeline.
func realAskDeps() (*askDeps, error) {
	store, closeStore, err := buildStore()
	if err != nil {
		return nil, err
	}

	embedder := ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    cfg.Ollama.Host,
		Model:      cfg.Ollama.EmbeddingModel,
		Dimensions: cfg.Ollama.VectorSize,
	})

	llm := ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: cfg.Ollama.Host,
		Model:   cfg.Ollama.Model,
	})

	retriever := services.NewRetriever(store, embedder)
	generator := services.NewGenerator(llm, cfg.SystemPrompt)
	answerer := services.NewAskService(retriever, generator, cfg.RAG.TopK)

	return &askDeps{
		answerer:       answerer,
		info:           store.Info,
		modelAvailable: generator.CheckModelAvailable,
		modelName:      generator.ModelName(),
		cleanup: func() {
			llm.Close()
			embedder.Close()
			closeStore()
		},
	}, nil
}
