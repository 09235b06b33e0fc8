package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	kag "github.com/soundprediction/go-kag"
	"github.com/soundprediction/go-kag/pkg/config"
	"github.com/soundprediction/go-kag/pkg/llm"
	"github.com/soundprediction/go-kag/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct{}

func (stubLLM) Complete(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	if strings.Contains(prompt, "Text to analyze:") {
		return `[{"subject":"ml","relation":"is_subfield_of","object":"ai","sentence":"ML is part of AI.","confidence":0.9}]`, nil
	}
	if strings.Contains(prompt, "Here is a list of extracted facts") {
		return "[]", nil
	}
	return "an answer", nil
}

func (stubLLM) Model() string { return "stub" }
func (stubLLM) Close() error  { return nil }

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (s stubEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (stubEmbedder) Dimensions() int { return 2 }
func (stubEmbedder) Close() error    { return nil }

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	cfg := &config.Config{
		Server:    config.ServerConfig{Host: "localhost", Port: 0, Mode: "test"},
		LLM:       config.LLMConfig{APIKey: "test", MaxTokens: 100},
		Pipeline:  config.PipelineConfig{MaxLevel: 1, ChunkTokens: 2000},
		Segment:   config.SegmentConfig{MaxTokens: 300},
		Retrieval: config.RetrievalConfig{ChunkTopK: 2, StatementTopK: 2},
	}
	system := kag.NewSystem(cfg, stubLLM{}, stubEmbedder{})
	return server.New(cfg.Server, system, nil)
}

func doJSON(t *testing.T, srv *server.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestHealthcheck(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestProcessAndStats(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/process", `{"text":"ML is part of AI."}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"document_id"`)
	assert.Contains(t, rec.Body.String(), `"is_subfield_of"`)

	rec = doJSON(t, srv, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"node_count":2`)
}

func TestProcessRejectsMissingText(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/process", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAsk(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/process", `{"text":"ML is part of AI."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/ask", `{"question":"What is ML?","method":"kag"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"answer":"an answer"`)
}

func TestAskUnknownMethod(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/ask", `{"question":"What?","method":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown_method")
}

func TestClearGraph(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/process", `{"text":"ML is part of AI."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/graph", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/stats", "")
	assert.Contains(t, rec.Body.String(), `"node_count":0`)
}
