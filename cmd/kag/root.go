// Package kag implements the command line interface.
package kag

import (
	"fmt"
	"log/slog"

	gokag "github.com/soundprediction/go-kag"
	"github.com/soundprediction/go-kag/pkg/cache"
	"github.com/soundprediction/go-kag/pkg/config"
	"github.com/soundprediction/go-kag/pkg/driver"
	"github.com/soundprediction/go-kag/pkg/embedder"
	"github.com/soundprediction/go-kag/pkg/llm"
	"github.com/soundprediction/go-kag/pkg/logger"
	"github.com/soundprediction/go-kag/pkg/telemetry"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "kag",
	Short: "Build knowledge graphs from documents and ask questions against them",
	Long: `kag extracts (subject, relation, object) triplets from documents with an
LLM, assembles them into a knowledge graph, and answers questions using
retrieval- and knowledge-augmented prompts built from the graph and the
document text.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log := logger.NewDefault(cfg.Log.Format, cfg.Log.Level)
	if cfg.Log.DuckDBPath != "" {
		handler, err := telemetry.NewDuckDBHandler(log.Handler(), cfg.Log.DuckDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log audit database: %w", err)
		}
		log = slog.New(handler)
	}
	slog.SetDefault(log)
	return cfg, log, nil
}

// buildSystem wires the clients from configuration: the circuit-broken
// completion client, the (optionally cached) embedder, and the graph
// exporter when enabled.
func buildSystem(cfg *config.Config, log *slog.Logger) (*gokag.System, error) {
	completion := llm.NewBreakerClient(llm.NewOpenAIClient(cfg.LLM.APIKey, llm.Config{
		Model:   cfg.LLM.Model,
		BaseURL: cfg.LLM.BaseURL,
	}), log)

	var embedderClient embedder.Client = embedder.NewOpenAIEmbedder(cfg.Embedding.APIKey, embedder.Config{
		Model:   cfg.Embedding.Model,
		BaseURL: cfg.Embedding.BaseURL,
	})
	if cfg.Cache.Enabled {
		badgerCache, err := cache.NewBadgerCache(cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("opening embedding cache: %w", err)
		}
		embedderClient = embedder.NewCachedEmbedder(embedderClient, badgerCache, 0)
	}

	opts := []gokag.Option{gokag.WithLogger(log)}
	if cfg.Graph.Enabled {
		exporter, err := driver.NewNeo4jExporter(cfg.Graph.URI, cfg.Graph.Username,
			cfg.Graph.Password, cfg.Graph.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connecting graph database: %w", err)
		}
		opts = append(opts, gokag.WithExporter(exporter))
	}

	return gokag.NewSystem(cfg, completion, embedderClient, opts...), nil
}
