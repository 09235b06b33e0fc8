package kag

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soundprediction/go-kag/pkg/config"
	"github.com/soundprediction/go-kag/pkg/graph"
	"github.com/soundprediction/go-kag/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLLM answers extraction prompts with a fixed triplet list and
// everything else with a canned answer.
type mockLLM struct {
	extraction string
	answer     string
	prompts    []string
}

func (m *mockLLM) Complete(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	m.prompts = append(m.prompts, prompt)
	switch {
	case strings.Contains(prompt, "Text to analyze:"):
		return m.extraction, nil
	case strings.Contains(prompt, "Here is a list of extracted facts"):
		return "[]", nil
	default:
		return m.answer, nil
	}
}

func (m *mockLLM) Model() string { return "mock" }
func (m *mockLLM) Close() error  { return nil }

// mockEmbedder gives "machine"-related texts one axis and everything
// else another, so retrieval order is deterministic.
type mockEmbedder struct{}

func (mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if strings.Contains(strings.ToLower(text), "machine") {
			out[i] = []float32{1, 0.1}
		} else {
			out[i] = []float32{0.1, 1}
		}
	}
	return out, nil
}

func (m mockEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, _ := m.Embed(ctx, []string{text})
	return vecs[0], nil
}

func (mockEmbedder) Dimensions() int { return 2 }
func (mockEmbedder) Close() error    { return nil }

// mockExporter records export calls.
type mockExporter struct {
	exported int
	cleared  int
	succeed  bool
}

func (m *mockExporter) TestConnection(ctx context.Context) bool { return m.succeed }

func (m *mockExporter) ExportGraph(ctx context.Context, store *graph.Store, label string) bool {
	m.exported++
	return m.succeed
}

func (m *mockExporter) ImportGraph(ctx context.Context, query, label string) *graph.Store {
	return graph.NewStore()
}

func (m *mockExporter) ClearDatabase(ctx context.Context, confirm bool) bool {
	m.cleared++
	return m.succeed
}

func (m *mockExporter) Close(ctx context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		LLM:       config.LLMConfig{APIKey: "test", Temperature: 0.1, MaxTokens: 2000},
		Pipeline:  config.PipelineConfig{MaxLevel: 2, ChunkTokens: 2000},
		Segment:   config.SegmentConfig{MaxTokens: 300, CohesionThreshold: 0},
		Retrieval: config.RetrievalConfig{ChunkTopK: 2, StatementTopK: 2},
	}
}

const extractionResponse = `[
	{"subject":"machine learning","relation":"is_subfield_of","object":"artificial intelligence","sentence":"Machine learning is a subfield of AI.","confidence":0.95},
	{"subject":"deep learning","relation":"uses","object":"neural networks","sentence":"Deep learning uses neural networks.","confidence":0.9}
]`

const docText = "Machine learning is a subfield of AI. Deep learning uses neural networks. Cooking requires heat."

func newTestSystem(client *mockLLM, opts ...Option) *System {
	return NewSystem(testConfig(), client, mockEmbedder{}, opts...)
}

func TestProcessText(t *testing.T) {
	client := &mockLLM{extraction: extractionResponse}
	system := newTestSystem(client)

	result, err := system.ProcessText(context.Background(), docText, "Doc")
	require.NoError(t, err)

	assert.NotEmpty(t, result.DocumentID)
	assert.Len(t, result.Triplets, 2)
	assert.Equal(t, 4, result.Stats.NodeCount)
	assert.Equal(t, 2, result.Stats.EdgeCount)
	assert.False(t, result.Exported, "no exporter attached")
	assert.True(t, system.Store().HasNode("machine learning"))
}

func TestProcessTextExports(t *testing.T) {
	exporter := &mockExporter{succeed: true}
	system := newTestSystem(&mockLLM{extraction: extractionResponse}, WithExporter(exporter))

	result, err := system.ProcessText(context.Background(), docText, "Doc")
	require.NoError(t, err)
	assert.True(t, result.Exported)
	assert.Equal(t, 1, exporter.exported)
}

func TestProcessTextExportFailureNonFatal(t *testing.T) {
	exporter := &mockExporter{succeed: false}
	system := newTestSystem(&mockLLM{extraction: extractionResponse}, WithExporter(exporter))

	result, err := system.ProcessText(context.Background(), docText, "Doc")
	require.NoError(t, err)
	assert.False(t, result.Exported)
	assert.Len(t, result.Triplets, 2, "extraction result survives a failed export")
}

func TestAnswerQuestionVanilla(t *testing.T) {
	client := &mockLLM{answer: "42"}
	system := newTestSystem(client)

	answer, err := system.AnswerQuestion(context.Background(), "What is ML?", MethodVanilla)
	require.NoError(t, err)
	assert.Equal(t, "What is ML?", answer.Prompt, "vanilla sends the bare question")
	assert.Equal(t, "42", answer.Response)
}

func TestAnswerQuestionKAG(t *testing.T) {
	client := &mockLLM{extraction: extractionResponse, answer: "ML is part of AI."}
	system := newTestSystem(client)

	_, err := system.ProcessText(context.Background(), docText, "Doc")
	require.NoError(t, err)

	answer, err := system.AnswerQuestion(context.Background(), "What is machine learning?", MethodKAG)
	require.NoError(t, err)
	assert.Contains(t, answer.Prompt, "The document indicates that")
	assert.Contains(t, answer.Prompt, "machine learning is_subfield_of artificial intelligence")
	assert.Len(t, answer.Evidence.Statements, 2)
}

func TestAnswerQuestionRAG(t *testing.T) {
	client := &mockLLM{extraction: extractionResponse, answer: "ok"}
	system := newTestSystem(client)

	_, err := system.ProcessText(context.Background(), docText, "Doc")
	require.NoError(t, err)

	answer, err := system.AnswerQuestion(context.Background(), "What is machine learning?", MethodRAG)
	require.NoError(t, err)
	assert.Contains(t, answer.Prompt, "Contextual evidence from the document:")
	assert.NotEmpty(t, answer.Evidence.Chunks)
}

func TestAnswerQuestionNoDocumentDegrades(t *testing.T) {
	client := &mockLLM{answer: "no idea"}
	system := newTestSystem(client)

	answer, err := system.AnswerQuestion(context.Background(), "What is ML?", MethodKAGRAG)
	require.NoError(t, err)
	assert.Equal(t, "What is ML?", answer.Prompt, "empty corpus leaves the question unmodified")
}

func TestAnswerQuestionUnknownMethod(t *testing.T) {
	system := newTestSystem(&mockLLM{})

	_, err := system.AnswerQuestion(context.Background(), "What?", Method("bogus"))
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestCompareEnhancements(t *testing.T) {
	client := &mockLLM{extraction: extractionResponse}
	system := newTestSystem(client)

	_, err := system.ProcessText(context.Background(), docText, "Doc")
	require.NoError(t, err)

	promptsBefore := len(client.prompts)
	compared, err := system.CompareEnhancements(context.Background(), "What is machine learning?")
	require.NoError(t, err)
	require.Len(t, compared, 4)

	assert.Equal(t, "What is machine learning?", compared[MethodVanilla])
	assert.Contains(t, compared[MethodKAG], "Structured facts")
	assert.Contains(t, compared[MethodRAG], "Contextual evidence")
	assert.Contains(t, compared[MethodKAGRAG], "Structured facts")
	assert.Contains(t, compared[MethodKAGRAG], "Contextual evidence")
	assert.Equal(t, promptsBefore, len(client.prompts), "comparison never calls the completion client")
}

func TestSaveLoadGraph(t *testing.T) {
	client := &mockLLM{extraction: extractionResponse}
	system := newTestSystem(client)

	_, err := system.ProcessText(context.Background(), docText, "Doc")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, system.SaveGraph(path))

	fresh := newTestSystem(&mockLLM{})
	require.NoError(t, fresh.LoadGraph(path))
	assert.Equal(t, system.Stats(), fresh.Stats())
}

func TestDumpTriplets(t *testing.T) {
	client := &mockLLM{extraction: extractionResponse}
	system := newTestSystem(client)

	_, err := system.ProcessText(context.Background(), docText, "Doc")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "triplets.json")
	require.NoError(t, system.DumpTriplets(path))
	assert.FileExists(t, path)
}

func TestClear(t *testing.T) {
	exporter := &mockExporter{succeed: true}
	system := newTestSystem(&mockLLM{extraction: extractionResponse}, WithExporter(exporter))

	_, err := system.ProcessText(context.Background(), docText, "Doc")
	require.NoError(t, err)
	require.NotZero(t, system.Stats().NodeCount)

	system.Clear(context.Background())
	assert.Zero(t, system.Stats().NodeCount)
	assert.Empty(t, system.Triplets())
	assert.Equal(t, 1, exporter.cleared)
}
