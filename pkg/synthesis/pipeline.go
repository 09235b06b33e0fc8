package synthesis

import (
	"context"
	"log/slog"
	"strings"

	"github.com/soundprediction/go-kag/pkg/graph"
	"github.com/soundprediction/go-kag/pkg/llm"
	"github.com/soundprediction/go-kag/pkg/prompts"
	"github.com/soundprediction/go-kag/pkg/types"
)

// DefaultChunkTokens is the per-chunk token budget for level 1
// extraction, using the 1 token per 4 characters estimate.
const DefaultChunkTokens = 2000

// Pipeline drives multi-level relation extraction against a
// completion client.
type Pipeline struct {
	llm         llm.Client
	prompts     prompts.Library
	logger      *slog.Logger
	chunkTokens int
	options     llm.Options
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithChunkTokens overrides the level 1 chunk token budget.
func WithChunkTokens(tokens int) PipelineOption {
	return func(p *Pipeline) { p.chunkTokens = tokens }
}

// WithCompletionOptions overrides the sampling options sent with every
// extraction request.
func WithCompletionOptions(opts llm.Options) PipelineOption {
	return func(p *Pipeline) { p.options = opts }
}

// NewPipeline creates a Pipeline. A nil library falls back to the
// default prompt library, a nil logger to slog.Default().
func NewPipeline(client llm.Client, library prompts.Library, logger *slog.Logger, opts ...PipelineOption) *Pipeline {
	if library == nil {
		library = prompts.NewLibrary()
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		llm:         client,
		prompts:     library,
		logger:      logger,
		chunkTokens: DefaultChunkTokens,
		options:     llm.Options{Temperature: 0.1, MaxTokens: 2000},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run extracts relations starting from input and feeds each level's
// output into the next as a digest, up to maxLevel. A level that
// produces no triplets halts the run early without error. The result
// is the union of all levels' triplets, each tagged with its level.
func (p *Pipeline) Run(ctx context.Context, input ExtractionInput, maxLevel int) ([]types.Triplet, error) {
	var all []types.Triplet
	current := input

	for {
		level := current.level()
		if level > maxLevel || current.empty() {
			break
		}
		if err := ctx.Err(); err != nil {
			return all, err
		}

		extracted, err := p.extractLevel(ctx, current, level)
		if err != nil {
			return all, err
		}
		if len(extracted) == 0 {
			p.logger.Info("level produced no relations, halting", "level", level)
			break
		}

		p.logger.Info("level extraction complete", "level", level, "triplets", len(extracted))
		all = append(all, extracted...)
		current = RelationDigest(extracted, level)
	}

	return all, nil
}

func (p *Pipeline) extractLevel(ctx context.Context, input ExtractionInput, level int) ([]types.Triplet, error) {
	var chunks []string
	var prompt func(string) string

	if input.kind == inputRawText {
		chunks = splitText(input.text, p.chunkTokens)
		prompt = p.prompts.ExtractRelations().FirstOrder
	} else {
		// A digest travels as one chunk regardless of size.
		chunks = []string{Digest(input.triplets, input.sourceLevel)}
		prompt = p.prompts.ExtractRelations().HigherOrder
	}

	var triplets []types.Triplet
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return triplets, err
		}

		response, err := p.llm.Complete(ctx, prompt(chunk), p.options)
		if err != nil {
			// A failed chunk degrades to no relations for that chunk.
			p.logger.Warn("completion failed for chunk", "level", level, "chunk", i, "error", err)
			continue
		}
		triplets = append(triplets, parseTriplets(response, level, p.logger)...)
	}
	return triplets, nil
}

// Materialize adds every triplet to the store, recording sentence,
// confidence and level as edge properties.
func Materialize(store *graph.Store, triplets []types.Triplet) {
	store.AddTriplets(triplets)
}

// splitText packs period-separated sentences into chunks of roughly
// maxTokens estimated tokens, never splitting a sentence.
func splitText(text string, maxTokens int) []string {
	sentences := strings.Split(text, ". ")
	var chunks []string
	var current []string
	length := 0

	commit := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, ". ")+".")
			current = nil
			length = 0
		}
	}

	for _, sentence := range sentences {
		tokens := len(sentence) / 4
		if len(current) > 0 && length+tokens+1 > maxTokens {
			commit()
		}
		current = append(current, sentence)
		length += tokens + 1
	}
	commit()

	return chunks
}
