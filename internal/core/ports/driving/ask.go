package driving

import (
	"context"

	"github.com/tsen1220/tw-stock-analyst/internal/core/domain"
)

// Answer is a generated response plus the ranked context it was
// grounded on.
type Answer struct {
	// Text is the generated prose (or the degraded-service fallback).
	Text string

	// Sources are the retrieved observations, best match first.
	Sources []domain.SearchResult
}

// Answerer turns a free-form question into a grounded answer.
type Answerer interface {
	Ask(ctx context.Context, question string) (Answer, error)
}
