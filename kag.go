// Package kag builds knowledge graphs from documents by multi-level
// relation extraction and answers questions with evidence-augmented
// prompts drawn from the graph and the document text.
package kag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/soundprediction/go-kag/pkg/config"
	"github.com/soundprediction/go-kag/pkg/driver"
	"github.com/soundprediction/go-kag/pkg/embedder"
	"github.com/soundprediction/go-kag/pkg/graph"
	"github.com/soundprediction/go-kag/pkg/llm"
	"github.com/soundprediction/go-kag/pkg/loader"
	"github.com/soundprediction/go-kag/pkg/prompts"
	"github.com/soundprediction/go-kag/pkg/retrieval"
	"github.com/soundprediction/go-kag/pkg/segment"
	"github.com/soundprediction/go-kag/pkg/synthesis"
	"github.com/soundprediction/go-kag/pkg/types"
)

// Method selects how a question's prompt is augmented before it is
// sent to the completion client.
type Method string

const (
	// MethodVanilla sends the question unmodified.
	MethodVanilla Method = "vanilla"
	// MethodRAG augments with the most similar document chunks.
	MethodRAG Method = "rag"
	// MethodKAG augments with the most similar extracted relations.
	MethodKAG Method = "kag"
	// MethodKAGRAG augments with both relations and chunks.
	MethodKAGRAG Method = "kag_rag"
)

// ErrUnknownMethod is returned for a Method outside the four defined.
var ErrUnknownMethod = fmt.Errorf("kag: unknown enhancement method")

// System wires the document loaders, segmenter, extraction pipeline,
// retriever and graph store into one processing facade. It is not safe
// for concurrent use.
type System struct {
	config    *config.Config
	logger    *slog.Logger
	llm       llm.Client
	embedder  embedder.Client
	segmenter *segment.Segmenter
	retriever *retrieval.Retriever
	pipeline  *synthesis.Pipeline
	store     *graph.Store
	exporter  driver.GraphExporter

	// documentText holds the text of the last processed document; it
	// feeds the chunk-evidence corpus for AnswerQuestion.
	documentText string
	documentID   string
	triplets     []types.Triplet
}

// Option configures a System.
type Option func(*System)

// WithExporter attaches a graph database exporter. Processed graphs
// are exported after extraction; export failure is non-fatal.
func WithExporter(exporter driver.GraphExporter) Option {
	return func(s *System) { s.exporter = exporter }
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *System) { s.logger = logger }
}

// WithStore starts the System on an existing store instead of an
// empty one.
func WithStore(store *graph.Store) Option {
	return func(s *System) { s.store = store }
}

// NewSystem creates a System from validated configuration and the
// completion and embedding clients.
func NewSystem(cfg *config.Config, llmClient llm.Client, embedderClient embedder.Client, opts ...Option) *System {
	s := &System{
		config:   cfg,
		logger:   slog.Default(),
		llm:      llmClient,
		embedder: embedderClient,
		store:    graph.NewStore(),
	}
	for _, opt := range opts {
		opt(s)
	}

	library := prompts.NewLibrary()
	s.segmenter = segment.NewSegmenter(nil)
	s.retriever = retrieval.NewRetriever(embedderClient, library)
	s.pipeline = synthesis.NewPipeline(llmClient, library, s.logger,
		synthesis.WithChunkTokens(cfg.Pipeline.ChunkTokens),
		synthesis.WithCompletionOptions(llm.Options{
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		}))

	return s
}

// ProcessResult reports what a processing run produced.
type ProcessResult struct {
	DocumentID string          `json:"document_id"`
	Triplets   []types.Triplet `json:"triplets"`
	Stats      graph.Stats     `json:"stats"`
	Exported   bool            `json:"exported"`
}

// ProcessDocument loads the file at path and processes its text.
// The loader is chosen by file extension.
func (s *System) ProcessDocument(ctx context.Context, path, label string) (*ProcessResult, error) {
	text, err := loader.ForFile(path).Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	return s.ProcessText(ctx, text, label)
}

// ProcessText runs multi-level relation extraction over text,
// materializes the results into the store and, when an exporter is
// attached, pushes the graph to the database under label. The
// document text is retained as the retrieval corpus for later asks.
func (s *System) ProcessText(ctx context.Context, text, label string) (*ProcessResult, error) {
	docID := uuid.NewString()
	s.logger.Info("processing document", "document_id", docID, "chars", len(text))

	triplets, err := s.pipeline.Run(ctx, synthesis.RawText(text), s.config.Pipeline.MaxLevel)
	if err != nil {
		return nil, fmt.Errorf("relation extraction: %w", err)
	}

	synthesis.Materialize(s.store, triplets)
	s.documentID = docID
	s.documentText = text
	s.triplets = append(s.triplets, triplets...)

	result := &ProcessResult{
		DocumentID: docID,
		Triplets:   triplets,
		Stats:      s.store.Stats(),
	}

	if s.exporter != nil {
		result.Exported = s.exporter.ExportGraph(ctx, s.store, label)
		if !result.Exported {
			s.logger.Warn("graph export failed, continuing", "document_id", docID)
		}
	}

	s.logger.Info("document processed",
		"document_id", docID,
		"triplets", len(triplets),
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount)
	return result, nil
}

// Answer is the outcome of an evidence-augmented question.
type Answer struct {
	Question string              `json:"question"`
	Method   Method              `json:"method"`
	Prompt   string              `json:"prompt"`
	Response string              `json:"response"`
	Evidence *retrieval.Enhanced `json:"evidence,omitempty"`
}

// AnswerQuestion augments the question per method and sends it to the
// completion client. With no processed document or an empty corpus the
// prompt degenerates to the bare question.
func (s *System) AnswerQuestion(ctx context.Context, question string, method Method) (*Answer, error) {
	enhanced, err := s.enhance(ctx, question, method)
	if err != nil {
		return nil, err
	}

	response, err := s.llm.Complete(ctx, enhanced.Prompt, llm.Options{
		Temperature: s.config.LLM.Temperature,
		MaxTokens:   s.config.LLM.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("completing answer: %w", err)
	}

	return &Answer{
		Question: question,
		Method:   method,
		Prompt:   enhanced.Prompt,
		Response: response,
		Evidence: enhanced,
	}, nil
}

// CompareEnhancements builds the enhanced prompt for every method
// without calling the completion client.
func (s *System) CompareEnhancements(ctx context.Context, question string) (map[Method]string, error) {
	out := make(map[Method]string, 4)
	for _, method := range []Method{MethodVanilla, MethodRAG, MethodKAG, MethodKAGRAG} {
		enhanced, err := s.enhance(ctx, question, method)
		if err != nil {
			return nil, err
		}
		out[method] = enhanced.Prompt
	}
	return out, nil
}

func (s *System) enhance(ctx context.Context, question string, method Method) (*retrieval.Enhanced, error) {
	switch method {
	case MethodVanilla:
		return &retrieval.Enhanced{Prompt: question}, nil
	case MethodRAG:
		chunks, err := s.chunkCorpus(ctx)
		if err != nil {
			return nil, err
		}
		return s.retriever.EnhanceWithChunks(ctx, question, chunks, s.config.Retrieval.ChunkTopK)
	case MethodKAG:
		return s.retriever.EnhanceWithRelations(ctx, question, s.statementCorpus(), s.config.Retrieval.StatementTopK)
	case MethodKAGRAG:
		chunks, err := s.chunkCorpus(ctx)
		if err != nil {
			return nil, err
		}
		return s.retriever.EnhanceCombined(ctx, question, s.statementCorpus(), chunks,
			s.config.Retrieval.StatementTopK, s.config.Retrieval.ChunkTopK)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

func (s *System) chunkCorpus(ctx context.Context) ([]string, error) {
	if s.documentText == "" {
		return nil, nil
	}
	chunks, err := s.segmenter.CohesionChunks(ctx, s.documentText,
		s.config.Segment.MaxTokens, s.config.Segment.CohesionThreshold, s.embedder)
	if err != nil {
		return nil, fmt.Errorf("chunking document: %w", err)
	}
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	return texts, nil
}

func (s *System) statementCorpus() []string {
	statements := make([]string, len(s.triplets))
	for i, t := range s.triplets {
		statements[i] = t.Statement()
	}
	return statements
}

// Store exposes the underlying graph store for queries.
func (s *System) Store() *graph.Store { return s.store }

// Triplets returns every triplet extracted so far, across documents
// and levels.
func (s *System) Triplets() []types.Triplet { return s.triplets }

// Stats recomputes graph statistics.
func (s *System) Stats() graph.Stats { return s.store.Stats() }

// SaveGraph writes the store as a JSON interchange document.
func (s *System) SaveGraph(path string) error { return s.store.SaveFile(path) }

// LoadGraph replaces the store contents from a JSON interchange
// document.
func (s *System) LoadGraph(path string) error { return s.store.LoadFile(path) }

// DumpTriplets writes every extracted triplet to path as JSON.
func (s *System) DumpTriplets(path string) error {
	data, err := json.MarshalIndent(s.triplets, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding triplets: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing triplets: %w", err)
	}
	return nil
}

// Clear empties the store, the retained document text and the triplet
// list, and clears the attached graph database when one is configured.
func (s *System) Clear(ctx context.Context) {
	s.store.Clear()
	s.triplets = nil
	s.documentText = ""
	s.documentID = ""
	if s.exporter != nil && !s.exporter.ClearDatabase(ctx, true) {
		s.logger.Warn("graph database clear failed")
	}
}

// Close releases the clients and the exporter.
func (s *System) Close(ctx context.Context) error {
	var firstErr error
	if err := s.llm.Close(); err != nil {
		firstErr = err
	}
	if err := s.embedder.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if s.exporter != nil {
		if err := s.exporter.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
