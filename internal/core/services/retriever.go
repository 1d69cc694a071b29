package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tsen1220/tw-stock-analyst/internal/core/domain"
	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driven"
)

// NoDataSentinel is rendered when retrieval returns nothing; the
// generation step receives it instead of an empty context block.
const NoDataSentinel = "找不到相關的股市資料。"

// Retriever embeds a query and runs filtered similarity search against
// the vector store.
type Retriever struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
}

// NewRetriever creates a retriever.
func NewRetriever(store driven.VectorStore, embedder driven.EmbeddingService) *Retriever {
	return &Retriever{store: store, embedder: embedder}
}

// Retrieve returns up to topK results for the query, ordered by
// descending similarity. stockID and dataType are optional equality
// filters, combined with logical AND when both are given. Ties are
// broken by store order.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int, stockID string, dataType domain.DataType) ([]domain.SearchResult, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := r.store.Search(ctx, driven.SearchQuery{
		Vector:   vector,
		Limit:    topK,
		StockID:  stockID,
		DataType: dataType,
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return results, nil
}

// FormatContext renders ranked results into the grounding context block:
// each item carries its 1-based rank and three-decimal score, followed
// by the stored text, separated by blank lines. An empty result set
// yields the fixed no-data sentinel.
func FormatContext(results []domain.SearchResult) string {
	if len(results) == 0 {
		return NoDataSentinel
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("[資料 %d] (相關度: %.3f)", i+1, result.Score))
		parts = append(parts, result.Text)
		parts = append(parts, "")
	}

	return strings.Join(parts, "\n")
}
