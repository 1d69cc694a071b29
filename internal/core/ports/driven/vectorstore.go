package driven

import (
	"context"

	"github.com/tsen1220/tw-stock-analyst/internal/core/domain"
)

// SearchQuery describes a filtered nearest-neighbour search. StockID and
// DataType are optional equality filters combined with logical AND when
// both are set. Date narrows to an exact day and exists for existence
// probes, where Vector is all zeros and only the filter match matters.
type SearchQuery struct {
	// Vector is the query embedding.
	Vector []float32

	// Limit caps the number of results.
	Limit int

	// StockID filters by exact stock code when non-empty.
	StockID string

	// DataType filters by observation kind when non-empty.
	DataType domain.DataType

	// Date filters by exact ISO date when non-empty.
	Date string
}

// CollectionInfo is the store's health/size probe result.
type CollectionInfo struct {
	Name        string
	PointsCount uint64
	Status      string
}

// VectorStore persists observations keyed by fingerprint and serves
// filtered similarity queries. Writes are insert-or-replace: a second
// write with the same fingerprint overwrites, never duplicates.
type VectorStore interface {
	// EnsureCollection creates the collection with the given vector size
	// if it does not already exist.
	EnsureCollection(ctx context.Context, vectorSize int) error

	// Upsert writes the observation at its fingerprint key and returns
	// that key. The caller decides whether to skip an existing slot; the
	// store always performs the full write.
	Upsert(ctx context.Context, obs domain.Observation) (string, error)

	// Search runs a filtered nearest-neighbour query, results ordered by
	// descending similarity.
	Search(ctx context.Context, q SearchQuery) ([]domain.SearchResult, error)

	// Info reports the collection's point count and status.
	Info(ctx context.Context) (CollectionInfo, error)

	// DropCollection deletes the whole collection. Administrative only;
	// normal operation never deletes individual observations.
	DropCollection(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
