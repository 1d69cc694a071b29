package services

import (
	"context"
	"fmt"

	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driven"
)

// promptTemplate wraps the retrieved context and the user question into
// the single user turn sent to the model.
const promptTemplate = `參考資料：
%s

用戶問題：
%s

請基於以上資料回答問題。`

// Generator bridges retrieval context and the text-generation service.
// It sits at the end of an interactive loop, so generation failures are
// converted into a user-facing message instead of errors: the loop must
// keep accepting questions across transient model outages.
type Generator struct {
	llm          driven.LLMService
	systemPrompt string
}

// NewGenerator creates a generator. systemPrompt may be empty, in which
// case only the user turn is sent.
func NewGenerator(llm driven.LLMService, systemPrompt string) *Generator {
	return &Generator{llm: llm, systemPrompt: systemPrompt}
}

// Generate produces an answer grounded on the context block. Transport
// and model failures are returned as an apology string naming the model
// and remediation, never as an error.
func (g *Generator) Generate(ctx context.Context, query, contextBlock string) string {
	var messages []driven.ChatMessage
	if g.systemPrompt != "" {
		messages = append(messages, driven.ChatMessage{Role: "system", Content: g.systemPrompt})
	}
	messages = append(messages, driven.ChatMessage{
		Role:    "user",
		Content: fmt.Sprintf(promptTemplate, contextBlock, query),
	})

	answer, err := g.llm.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		return fmt.Sprintf("生成回答時發生錯誤：%v\n\n請確認 Ollama 已啟動且已下載 %s 模型。", err, g.llm.ModelName())
	}

	return answer
}

// CheckModelAvailable probes the service's model registry. Probe
// failures report false rather than an error.
func (g *Generator) CheckModelAvailable(ctx context.Context) bool {
	ok, err := g.llm.HasModel(ctx)
	if err != nil {
		return false
	}
	return ok
}

// ModelName returns the underlying model's name.
func (g *Generator) ModelName() string {
	return g.llm.ModelName()
}
