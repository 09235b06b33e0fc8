// Package retrieval ranks evidence against a query by embedding cosine
// similarity and builds evidence-augmented prompts from the results.
package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/soundprediction/go-kag/pkg/embedder"
	"github.com/soundprediction/go-kag/pkg/prompts"
)

// Scored is a corpus item with its similarity to the query.
type Scored struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Enhanced is the result of evidence-augmenting a query. When the
// corpus was empty, Prompt equals the original query and the evidence
// slices are empty.
type Enhanced struct {
	Prompt     string   `json:"prompt"`
	Chunks     []Scored `json:"chunks,omitempty"`
	Statements []Scored `json:"statements,omitempty"`
}

// Retriever selects the corpus items most similar to a query.
type Retriever struct {
	embedder embedder.Client
	prompts  prompts.Library
}

// NewRetriever creates a Retriever. A nil library falls back to the
// default prompt library.
func NewRetriever(client embedder.Client, library prompts.Library) *Retriever {
	if library == nil {
		library = prompts.NewLibrary()
	}
	return &Retriever{embedder: client, prompts: library}
}

// TopChunks returns the min(k, len(chunks)) chunks most similar to the
// query, descending by score. Equal scores keep corpus order.
func (r *Retriever) TopChunks(ctx context.Context, query string, chunks []string, k int) ([]Scored, error) {
	return r.rank(ctx, query, chunks, k)
}

// TopStatements ranks relation statements the same way TopChunks ranks
// text chunks.
func (r *Retriever) TopStatements(ctx context.Context, query string, statements []string, k int) ([]Scored, error) {
	return r.rank(ctx, query, statements, k)
}

func (r *Retriever) rank(ctx context.Context, query string, corpus []string, k int) ([]Scored, error) {
	if len(corpus) == 0 || k <= 0 {
		return nil, nil
	}

	queryVec, err := r.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	corpusVecs, err := r.embedder.Embed(ctx, corpus)
	if err != nil {
		return nil, fmt.Errorf("embedding corpus: %w", err)
	}
	if len(corpusVecs) != len(corpus) {
		return nil, fmt.Errorf("embedding count mismatch: %d vectors for %d items", len(corpusVecs), len(corpus))
	}

	scored := make([]Scored, len(corpus))
	for i, text := range corpus {
		scored[i] = Scored{Text: text, Score: embedder.CosineSimilarity(queryVec, corpusVecs[i])}
	}

	// Stable keeps corpus order for equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// EnhanceWithChunks augments the query with its top-k most similar
// text chunks quoted as contextual evidence.
func (r *Retriever) EnhanceWithChunks(ctx context.Context, query string, chunks []string, k int) (*Enhanced, error) {
	top, err := r.TopChunks(ctx, query, chunks, k)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return &Enhanced{Prompt: query}, nil
	}
	return &Enhanced{
		Prompt: r.prompts.Enhance().WithChunks(query, texts(top)),
		Chunks: top,
	}, nil
}

// EnhanceWithRelations augments the query with its top-k most similar
// relation statements rendered as declarative sentences.
func (r *Retriever) EnhanceWithRelations(ctx context.Context, query string, statements []string, k int) (*Enhanced, error) {
	top, err := r.TopStatements(ctx, query, statements, k)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return &Enhanced{Prompt: query}, nil
	}
	return &Enhanced{
		Prompt:     r.prompts.Enhance().WithRelations(query, texts(top)),
		Statements: top,
	}, nil
}

// EnhanceCombined augments the query with both evidence blocks, facts
// first and chunk quotes second, with the original query appended last.
func (r *Retriever) EnhanceCombined(ctx context.Context, query string, statements, chunks []string, statementK, chunkK int) (*Enhanced, error) {
	topStatements, err := r.TopStatements(ctx, query, statements, statementK)
	if err != nil {
		return nil, err
	}
	topChunks, err := r.TopChunks(ctx, query, chunks, chunkK)
	if err != nil {
		return nil, err
	}
	if len(topStatements) == 0 && len(topChunks) == 0 {
		return &Enhanced{Prompt: query}, nil
	}
	return &Enhanced{
		Prompt:     r.prompts.Enhance().Combined(query, texts(topStatements), texts(topChunks)),
		Chunks:     topChunks,
		Statements: topStatements,
	}, nil
}

func texts(items []Scored) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Text
	}
	return out
}
