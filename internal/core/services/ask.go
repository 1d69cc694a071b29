package services

import (
	"context"

	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driving"
)

// Ensure AskService implements the interface.
var _ driving.Answerer = (*AskService)(nil)

// AskService composes retrieval and generation into the question-answer
// operation behind the interactive session.
type AskService struct {
	retriever *Retriever
	generator *Generator
	topK      int
}

// NewAskService creates an ask service. topK bounds the retrieved
// context size.
func NewAskService(retriever *Retriever, generator *Generator, topK int) *AskService {
	return &AskService{retriever: retriever, generator: generator, topK: topK}
}

// Ask retrieves grounding context for the question and generates an
// answer. When nothing relevant is stored, the answer carries the
// no-data sentinel and generation is skipped.
func (s *AskService) Ask(ctx context.Context, question string) (driving.Answer, error) {
	results, err := s.retriever.Retrieve(ctx, question, s.topK, "", "")
	if err != nil {
		return driving.Answer{}, err
	}

	if len(results) == 0 {
		return driving.Answer{Text: NoDataSentinel}, nil
	}

	contextBlock := FormatContext(results)
	answer := s.generator.Generate(ctx, question, contextBlock)

	return driving.Answer{Text: answer, Sources: results}, nil
}
