package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/soundprediction/go-kag/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	response string
	err      error
	calls    int
}

func (s *stubClient) Complete(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubClient) Model() string { return "stub" }
func (s *stubClient) Close() error  { return nil }

func TestOpenAIClientEmptyPrompt(t *testing.T) {
	client := llm.NewOpenAIClient("test-key", llm.Config{})
	_, err := client.Complete(context.Background(), "", llm.Options{})
	assert.ErrorIs(t, err, llm.ErrEmptyPrompt)
}

func TestOpenAIClientModelDefault(t *testing.T) {
	client := llm.NewOpenAIClient("test-key", llm.Config{})
	assert.Equal(t, "gpt-4o-mini", client.Model())

	custom := llm.NewOpenAIClient("test-key", llm.Config{Model: "llama-3.1-405b-instruct"})
	assert.Equal(t, "llama-3.1-405b-instruct", custom.Model())
}

func TestBreakerClientPassesThrough(t *testing.T) {
	stub := &stubClient{response: "hello"}
	client := llm.NewBreakerClient(stub, nil)

	got, err := client.Complete(context.Background(), "hi", llm.Options{})
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestBreakerClientOpensAfterFailures(t *testing.T) {
	stub := &stubClient{err: errors.New("upstream down")}
	client := llm.NewBreakerClient(stub, nil)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := client.Complete(ctx, "hi", llm.Options{})
		require.Error(t, err)
	}

	// Circuit is now open: completions degrade to empty output and the
	// wrapped client no longer sees requests.
	callsBefore := stub.calls
	got, err := client.Complete(ctx, "hi", llm.Options{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, callsBefore, stub.calls)
}
