package domain

// SearchResult is a read-only projection returned by a similarity query.
// Score is the cosine similarity reported by the store; higher is more
// similar.
type SearchResult struct {
	// ID is the storage fingerprint of the matched observation.
	ID string

	// Score is the similarity score (cosine, typically in [0, 1]).
	Score float64

	// Text is the stored document.
	Text string

	StockID   string
	StockName string
	Date      string
	DataType  DataType

	// Metadata is the stored metric payload in generic form.
	Metadata map[string]any
}
