package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/soundprediction/go-kag/pkg/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("Machine learning is a subfield of AI."), 0o644))

	text, err := loader.TextLoader{}.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Machine learning is a subfield of AI.", text)
}

func TestTextLoaderMissingFile(t *testing.T) {
	_, err := loader.TextLoader{}.Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestForFile(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"doc.txt", []string{"txt", "md"}},
		{"notes.md", []string{"txt", "md"}},
		{"paper.PDF", []string{"pdf"}},
		{"no-extension", []string{"txt", "md"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, loader.ForFile(tt.path).SupportedExtensions())
		})
	}
}
