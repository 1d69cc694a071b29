package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNoData indicates a provider returned no rows for the request.
	ErrNoData = errors.New("no data")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable indicates the vector store cannot be reached.
	// Interactive sessions abort at startup when this occurs.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrModelUnavailable indicates the generation model is not present
	// in the model registry.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// reachable; ingestion and retrieval both require it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
