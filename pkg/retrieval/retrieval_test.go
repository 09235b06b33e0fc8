package retrieval_test

import (
	"context"
	"testing"

	"github.com/soundprediction/go-kag/pkg/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// axisEmbedder assigns fixed vectors so similarity to the query
// ("query" = x axis) is controlled per item.
type axisEmbedder struct {
	vectors map[string][]float32
}

func (a *axisEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := a.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float32{0, 1}
		}
	}
	return out, nil
}

func (a *axisEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, _ := a.Embed(ctx, []string{text})
	return vecs[0], nil
}

func (a *axisEmbedder) Dimensions() int { return 2 }
func (a *axisEmbedder) Close() error    { return nil }

func newAxisEmbedder() *axisEmbedder {
	return &axisEmbedder{vectors: map[string][]float32{
		"query":  {1, 0},
		"close":  {1, 0.2},
		"mid":    {1, 1},
		"far":    {0, 1},
		"tied-a": {1, 1},
		"tied-b": {1, 1},
	}}
}

func TestTopChunksRanking(t *testing.T) {
	r := retrieval.NewRetriever(newAxisEmbedder(), nil)

	top, err := r.TopChunks(context.Background(), "query", []string{"far", "mid", "close"}, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "close", top[0].Text)
	assert.Equal(t, "mid", top[1].Text)
	assert.GreaterOrEqual(t, top[0].Score, top[1].Score)
}

func TestTopChunksKLargerThanCorpus(t *testing.T) {
	r := retrieval.NewRetriever(newAxisEmbedder(), nil)

	top, err := r.TopChunks(context.Background(), "query", []string{"far", "close"}, 10)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestTopChunksStableTies(t *testing.T) {
	r := retrieval.NewRetriever(newAxisEmbedder(), nil)

	top, err := r.TopChunks(context.Background(), "query", []string{"tied-a", "tied-b"}, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "tied-a", top[0].Text, "equal scores keep corpus order")
	assert.Equal(t, "tied-b", top[1].Text)
}

func TestTopChunksEmptyCorpus(t *testing.T) {
	r := retrieval.NewRetriever(newAxisEmbedder(), nil)

	top, err := r.TopChunks(context.Background(), "query", nil, 3)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestEnhanceWithChunksEmptyCorpus(t *testing.T) {
	r := retrieval.NewRetriever(newAxisEmbedder(), nil)

	enhanced, err := r.EnhanceWithChunks(context.Background(), "query", nil, 3)
	require.NoError(t, err)
	assert.Equal(t, "query", enhanced.Prompt, "empty corpus leaves the query unchanged")
	assert.Empty(t, enhanced.Chunks)
}

func TestEnhanceWithRelations(t *testing.T) {
	r := retrieval.NewRetriever(newAxisEmbedder(), nil)

	enhanced, err := r.EnhanceWithRelations(context.Background(), "query", []string{"close", "far"}, 1)
	require.NoError(t, err)
	require.Len(t, enhanced.Statements, 1)
	assert.Contains(t, enhanced.Prompt, "The document indicates that close.")
	assert.NotContains(t, enhanced.Prompt, "far")
}

func TestEnhanceCombined(t *testing.T) {
	r := retrieval.NewRetriever(newAxisEmbedder(), nil)

	enhanced, err := r.EnhanceCombined(context.Background(), "query",
		[]string{"close"}, []string{"mid"}, 1, 1)
	require.NoError(t, err)
	assert.Contains(t, enhanced.Prompt, "The document indicates that close.")
	assert.Contains(t, enhanced.Prompt, `"mid"`)
	assert.Len(t, enhanced.Statements, 1)
	assert.Len(t, enhanced.Chunks, 1)
}
