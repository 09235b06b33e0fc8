package segment

import (
	"context"
	"fmt"
	"strings"

	"github.com/soundprediction/go-kag/pkg/embedder"
)

// Chunk is a run of consecutive sentences kept under a token budget.
type Chunk struct {
	Text      string
	Sentences []Sentence
	Tokens    int
}

// Segmenter groups sentences into chunks.
type Segmenter struct {
	splitter SentenceSplitter
}

// NewSegmenter returns a Segmenter using the given splitter, or the
// delimiter splitter when nil.
func NewSegmenter(splitter SentenceSplitter) *Segmenter {
	if splitter == nil {
		splitter = DelimiterSplitter{}
	}
	return &Segmenter{splitter: splitter}
}

// FixedBudgetChunks greedily packs sentences into chunks of at most
// maxTokens estimated tokens. Sentences are never split: a sentence
// larger than the budget becomes its own oversized chunk.
func (s *Segmenter) FixedBudgetChunks(text string, maxTokens int) []Chunk {
	sentences := s.splitter.Split(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []Chunk
	var current []Sentence
	tokens := 0

	commit := func() {
		if len(current) > 0 {
			chunks = append(chunks, newChunk(current, tokens))
			current = nil
			tokens = 0
		}
	}

	for _, sent := range sentences {
		if len(current) > 0 && tokens+sent.Tokens > maxTokens {
			commit()
		}
		current = append(current, sent)
		tokens += sent.Tokens
	}
	commit()

	return chunks
}

// CohesionChunks packs sentences like FixedBudgetChunks but also starts
// a new chunk when a sentence's embedding drifts from the running mean
// of the current chunk. All sentences are embedded in a single batch
// call. The first sentence of every chunk is admitted unconditionally;
// each later candidate must fit the budget and score at least threshold
// cosine similarity against the mean of the sentences committed so far.
func (s *Segmenter) CohesionChunks(ctx context.Context, text string, maxTokens int, threshold float64, client embedder.Client) ([]Chunk, error) {
	sentences := s.splitter.Split(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	texts := make([]string, len(sentences))
	for i, sent := range sentences {
		texts[i] = sent.Text
	}
	vectors, err := client.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding sentences for cohesion chunking: %w", err)
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("embedding count mismatch: %d vectors for %d sentences", len(vectors), len(sentences))
	}

	var chunks []Chunk
	var current []Sentence
	var currentVecs [][]float32
	tokens := 0

	commit := func() {
		if len(current) > 0 {
			chunks = append(chunks, newChunk(current, tokens))
			current = nil
			currentVecs = nil
			tokens = 0
		}
	}

	for i, sent := range sentences {
		if len(current) > 0 {
			overBudget := tokens+sent.Tokens > maxTokens
			cohesion := embedder.CosineSimilarity(vectors[i], embedder.Mean(currentVecs))
			if overBudget || cohesion < threshold {
				commit()
			}
		}
		current = append(current, sent)
		currentVecs = append(currentVecs, vectors[i])
		tokens += sent.Tokens
	}
	commit()

	return chunks, nil
}

func newChunk(sentences []Sentence, tokens int) Chunk {
	parts := make([]string, len(sentences))
	for i, sent := range sentences {
		parts[i] = sent.Text
	}
	return Chunk{
		Text:      strings.Join(parts, " "),
		Sentences: sentences,
		Tokens:    tokens,
	}
}
