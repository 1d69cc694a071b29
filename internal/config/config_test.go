package config

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "localhost", cfg.Qdrant.Host)
	assert.Equal(t, 6334, cfg.Qdrant.Port)
	assert.Equal(t, "stock_analysis", cfg.Qdrant.Collection)
	assert.Equal(t, 300, cfg.FinMind.RequestsPerMinute)
	assert.Equal(t, "deepseek-r1:1.5b", cfg.Ollama.Model)
	assert.Equal(t, "paraphrase-multilingual", cfg.Ollama.EmbeddingModel)
	assert.Equal(t, 384, cfg.Ollama.VectorSize)
	assert.Equal(t, 30, cfg.Data.DefaultDays)
	assert.Len(t, cfg.Data.Stocks, 15)
	assert.Equal(t, 5, cfg.RAG.TopK)
	assert.Equal(t, DefaultSystemPrompt, cfg.SystemPrompt)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileBackfillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[qdrant]
host = "qdrant.internal"

[ollama]
model = "llama3.2"

[rag]
top_k = 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "qdrant.internal", cfg.Qdrant.Host)
	assert.Equal(t, 6334, cfg.Qdrant.Port)
	assert.Equal(t, "llama3.2", cfg.Ollama.Model)
	assert.Equal(t, "paraphrase-multilingual", cfg.Ollama.EmbeddingModel)
	assert.Equal(t, 10, cfg.RAG.TopK)
	assert.Len(t, cfg.Data.Stocks, 15)
}

func TestLoad_CustomStocksReplaceDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[data.stocks]
"2330" = "台積電"
"2603" = "長榮"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Len(t, cfg.Data.Stocks, 2)
	assert.Equal(t, "長榮", cfg.Data.Stocks["2603"])
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0600))

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestConfig_StockCodes_Sorted(t *testing.T) {
	cfg := Default()

	codes := cfg.StockCodes()

	assert.Len(t, codes, 15)
	assert.True(t, sort.StringsAreSorted(codes))
	assert.Contains(t, codes, "2330")
}

func TestConfig_StockName(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "台積電", cfg.StockName("2330"))
	assert.Equal(t, "9999", cfg.StockName("9999"))
}
