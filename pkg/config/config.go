// Package config loads application configuration from file and
// environment. Credentials are never defaulted; they must come from
// the config file or the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Validation errors reported by Validate.
var (
	ErrMissingLLMAPIKey    = errors.New("config: llm.api_key is required (or set OPENAI_API_KEY)")
	ErrMissingGraphCreds   = errors.New("config: graph.password is required when graph export is enabled")
	ErrInvalidMaxLevel     = errors.New("config: pipeline.max_level must be at least 1")
	ErrInvalidChunkTokens  = errors.New("config: pipeline.chunk_tokens must be positive")
	ErrInvalidTopK         = errors.New("config: retrieval top_k values must be positive")
	ErrInvalidCohesion     = errors.New("config: segment.cohesion_threshold must be in [-1, 1]")
)

// Config holds all configuration for the application.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Graph     GraphConfig     `mapstructure:"graph"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Export    ExportConfig    `mapstructure:"export"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Segment   SegmentConfig   `mapstructure:"segment"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
}

// LogConfig holds logging configuration. A non-empty DuckDBPath
// mirrors warn-and-above records into a DuckDB audit table.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // text or json
	DuckDBPath string `mapstructure:"duckdb_path"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// GraphConfig holds graph database export configuration.
type GraphConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// LLMConfig holds completion client configuration.
type LLMConfig struct {
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// EmbeddingConfig holds embedding client configuration.
type EmbeddingConfig struct {
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds the embedding cache configuration.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ExportConfig holds the analytical export configuration.
type ExportConfig struct {
	DuckDBPath string `mapstructure:"duckdb_path"`
}

// PipelineConfig holds relation extraction settings.
type PipelineConfig struct {
	MaxLevel    int `mapstructure:"max_level"`
	ChunkTokens int `mapstructure:"chunk_tokens"`
}

// SegmentConfig holds chunking settings.
type SegmentConfig struct {
	MaxTokens         int     `mapstructure:"max_tokens"`
	CohesionThreshold float64 `mapstructure:"cohesion_threshold"`
}

// RetrievalConfig holds evidence selection settings.
type RetrievalConfig struct {
	ChunkTopK     int `mapstructure:"chunk_top_k"`
	StatementTopK int `mapstructure:"statement_top_k"`
}

// Load reads configuration from the optional file at path, applies
// defaults and environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.duckdb_path", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("graph.enabled", false)
	v.SetDefault("graph.uri", "bolt://localhost:7687")
	v.SetDefault("graph.username", "neo4j")
	v.SetDefault("graph.database", "")

	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.max_tokens", 2000)

	v.SetDefault("embedding.model", "text-embedding-3-small")

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.path", ".kag-cache")

	v.SetDefault("export.duckdb_path", "")

	v.SetDefault("pipeline.max_level", 1)
	v.SetDefault("pipeline.chunk_tokens", 2000)

	v.SetDefault("segment.max_tokens", 300)
	v.SetDefault("segment.cohesion_threshold", 0.5)

	v.SetDefault("retrieval.chunk_top_k", 3)
	v.SetDefault("retrieval.statement_top_k", 5)
}

func overrideWithEnv(config *Config) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		if config.LLM.APIKey == "" {
			config.LLM.APIKey = apiKey
		}
		if config.Embedding.APIKey == "" {
			config.Embedding.APIKey = apiKey
		}
	}
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Graph.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		config.Graph.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Graph.Password = pass
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
}

// Validate fails fast on missing credentials and out-of-range tuning
// values so misconfiguration surfaces at startup, not mid-run.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return ErrMissingLLMAPIKey
	}
	if c.Embedding.APIKey == "" {
		c.Embedding.APIKey = c.LLM.APIKey
	}
	if c.Graph.Enabled && c.Graph.Password == "" {
		return ErrMissingGraphCreds
	}
	if c.Pipeline.MaxLevel < 1 {
		return ErrInvalidMaxLevel
	}
	if c.Pipeline.ChunkTokens <= 0 || c.Segment.MaxTokens <= 0 {
		return ErrInvalidChunkTokens
	}
	if c.Retrieval.ChunkTopK <= 0 || c.Retrieval.StatementTopK <= 0 {
		return ErrInvalidTopK
	}
	if c.Segment.CohesionThreshold < -1 || c.Segment.CohesionThreshold > 1 {
		return ErrInvalidCohesion
	}
	return nil
}
