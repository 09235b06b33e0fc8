// Package llm provides text completion clients for OpenAI-compatible APIs.
package llm

import (
	"context"
	"errors"
)

// Common errors returned by completion clients.
var (
	ErrEmptyPrompt = errors.New("llm: empty prompt")
	ErrNoChoices   = errors.New("llm: response contained no choices")
)

// Options controls sampling for a single completion request.
type Options struct {
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// DefaultOptions returns the sampling parameters used when callers
// pass a zero Options value.
func DefaultOptions() Options {
	return Options{
		Temperature: 0.2,
		MaxTokens:   2048,
		TopP:        0.7,
	}
}

// Client generates text completions. An empty string return with a nil
// error means the model produced no output; callers treat that the same
// as a soft failure rather than an error.
type Client interface {
	// Complete sends a single-turn prompt and returns the model's text.
	Complete(ctx context.Context, prompt string, opts Options) (string, error)

	// Model returns the model identifier requests are sent to.
	Model() string

	Close() error
}
