// Package embedder defines the embedding capability consumed by the
// segmentation and retrieval components, along with OpenAI-compatible and
// cached implementations. Vectors are only ever consumed through cosine
// similarity.
package embedder

import "context"

// Client is the embedding capability. Implementations return one vector per
// input text, all with the model's fixed dimensionality, in input order.
type Client interface {
	// Embed generates embeddings for the given texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the vector dimensionality of the model.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds configuration for embedding clients.
type Config struct {
	Model      string `json:"model"`
	BatchSize  int    `json:"batch_size"`
	Dimensions int    `json:"dimensions"`
	BaseURL    string `json:"base_url,omitempty"` // custom base URL for OpenAI-compatible services
}
