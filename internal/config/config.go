// Package config loads process-wide settings from a TOML file. The
// result is an explicit Config value constructed once at startup and
// passed into each component's constructor; nothing reads configuration
// ambiently after that.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// QdrantConfig configures the vector store connection.
type QdrantConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	Collection string `toml:"collection"`
}

// FinMindConfig configures the market-data provider.
type FinMindConfig struct {
	APIURL string `toml:"api_url"`
	Token  string `toml:"token"`

	// RequestsPerMinute bounds the request rate (free-tier friendly).
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// OllamaConfig configures the local inference server.
type OllamaConfig struct {
	Host           string `toml:"host"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`

	// VectorSize is the embedding dimension for the configured model.
	VectorSize int `toml:"vector_size"`
}

// DataConfig configures the default stock universe and sync window.
type DataConfig struct {
	// DefaultDays is the lookback window for a full load.
	DefaultDays int `toml:"default_days"`

	// Stocks maps stock code to display name.
	Stocks map[string]string `toml:"stocks"`

	// CachePath is the SQLite price cache location.
	CachePath string `toml:"cache_path"`
}

// RAGConfig configures retrieval behaviour.
type RAGConfig struct {
	TopK int `toml:"top_k"`
}

// Config is the application configuration.
type Config struct {
	Qdrant       QdrantConfig  `toml:"qdrant"`
	FinMind      FinMindConfig `toml:"finmind"`
	Ollama       OllamaConfig  `toml:"ollama"`
	Data         DataConfig    `toml:"data"`
	RAG          RAGConfig     `toml:"rag"`
	SystemPrompt string        `toml:"system_prompt"`
}

// DefaultSystemPrompt instructs the analyst model. Kept in zh-TW to
// match the ingested documents.
const DefaultSystemPrompt = `你是一個專業的台灣股市分析助手。
請根據提供的歷史資料和技術指標，提供專業、客觀的分析和建議。
注意：
1. 僅根據提供的資料進行分析
2. 說明你的分析依據
3. 避免過度承諾或保證
4. 提醒投資風險`

// defaultStocks is the built-in Taiwan tech universe.
func defaultStocks() map[string]string {
	return map[string]string{
		"2330": "台積電",
		"2317": "鴻海",
		"2454": "聯發科",
		"2303": "聯電",
		"3711": "日月光投控",
		"2382": "廣達",
		"2308": "台達電",
		"2357": "華碩",
		"2379": "瑞昱",
		"3034": "聯詠",
		"2327": "國巨",
		"2408": "南亞科",
		"3008": "大立光",
		"2301": "光寶科",
		"2337": "旺宏",
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "stock_analysis",
		},
		FinMind: FinMindConfig{
			APIURL:            "https://api.finmindtrade.com/api/v4/data",
			RequestsPerMinute: 300,
		},
		Ollama: OllamaConfig{
			Host:           "http://localhost:11434",
			Model:          "deepseek-r1:1.5b",
			EmbeddingModel: "paraphrase-multilingual",
			VectorSize:     384,
		},
		Data: DataConfig{
			DefaultDays: 30,
			Stocks:      defaultStocks(),
		},
		RAG: RAGConfig{
			TopK: 5,
		},
		SystemPrompt: DefaultSystemPrompt,
	}
}

// Load reads the TOML file at path and fills unset values with defaults.
// If path is empty, ~/.twstock/config.toml is used; a missing file
// yields the defaults rather than an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".twstock", "config.toml")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)
	return cfg, nil
}

// applyDefaults backfills zero values left by a partial config file.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Qdrant.Host == "" {
		cfg.Qdrant.Host = def.Qdrant.Host
	}
	if cfg.Qdrant.Port == 0 {
		cfg.Qdrant.Port = def.Qdrant.Port
	}
	if cfg.Qdrant.Collection == "" {
		cfg.Qdrant.Collection = def.Qdrant.Collection
	}
	if cfg.FinMind.APIURL == "" {
		cfg.FinMind.APIURL = def.FinMind.APIURL
	}
	if cfg.FinMind.RequestsPerMinute == 0 {
		cfg.FinMind.RequestsPerMinute = def.FinMind.RequestsPerMinute
	}
	if cfg.Ollama.Host == "" {
		cfg.Ollama.Host = def.Ollama.Host
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = def.Ollama.Model
	}
	if cfg.Ollama.EmbeddingModel == "" {
		cfg.Ollama.EmbeddingModel = def.Ollama.EmbeddingModel
	}
	if cfg.Ollama.VectorSize == 0 {
		cfg.Ollama.VectorSize = def.Ollama.VectorSize
	}
	if cfg.Data.DefaultDays == 0 {
		cfg.Data.DefaultDays = def.Data.DefaultDays
	}
	if len(cfg.Data.Stocks) == 0 {
		cfg.Data.Stocks = def.Data.Stocks
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = def.RAG.TopK
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = def.SystemPrompt
	}
}

// StockCodes returns the universe codes in a stable order.
func (c Config) StockCodes() []string {
	codes := make([]string, 0, len(c.Data.Stocks))
	for code := range c.Data.Stocks {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// StockName resolves a display name, falling back to the code itself.
func (c Config) StockName(stockID string) string {
	if name, ok := c.Data.Stocks[stockID]; ok {
		return name
	}
	return stockID
}
