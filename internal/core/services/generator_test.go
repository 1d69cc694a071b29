package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driven"
)

func TestGenerator_Generate(t *testing.T) {
	llm := &mockLLM{reply: "台積電近期走勢偏多。"}
	gen := NewGenerator(llm, "系統提示")

	answer := gen.Generate(context.Background(), "台積電怎麼樣？", "[資料 1] ...")

	assert.Equal(t, "台積電近期走勢偏多。", answer)
	require.Len(t, llm.lastMessages, 2)
	assert.Equal(t, driven.ChatMessage{Role: "system", Content: "系統提示"}, llm.lastMessages[0])
	assert.Equal(t, "user", llm.lastMessages[1].Role)
	assert.Contains(t, llm.lastMessages[1].Content, "參考資料：")
	assert.Contains(t, llm.lastMessages[1].Content, "[資料 1] ...")
	assert.Contains(t, llm.lastMessages[1].Content, "用戶問題：")
	assert.Contains(t, llm.lastMessages[1].Content, "台積電怎麼樣？")
}

func TestGenerator_Generate_NoSystemPrompt(t *testing.T) {
	llm := &mockLLM{reply: "ok"}
	gen := NewGenerator(llm, "")

	gen.Generate(context.Background(), "q", "ctx")

	require.Len(t, llm.lastMessages, 1)
	assert.Equal(t, "user", llm.lastMessages[0].Role)
}

func TestGenerator_Generate_FailureReturnsApology(t *testing.T) {
	llm := &mockLLM{chatErr: errBoom}
	gen := NewGenerator(llm, "")

	answer := gen.Generate(context.Background(), "q", "ctx")

	assert.Contains(t, answer, "生成回答時發生錯誤")
	assert.Contains(t, answer, "mock-llm")
}

func TestGenerator_CheckModelAvailable(t *testing.T) {
	assert.True(t, NewGenerator(&mockLLM{hasModel: true}, "").CheckModelAvailable(context.Background()))
	assert.False(t, NewGenerator(&mockLLM{hasModel: false}, "").CheckModelAvailable(context.Background()))
	assert.False(t, NewGenerator(&mockLLM{modelErr: errBoom}, "").CheckModelAvailable(context.Background()))
}

func TestGenerator_ModelName(t *testing.T) {
	assert.Equal(t, "mock-llm", NewGenerator(&mockLLM{}, "").ModelName())
}
