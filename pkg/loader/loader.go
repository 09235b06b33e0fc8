// Package loader reads document text from files for downstream
// segmentation and extraction.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader reads a document into plain text.
type Loader interface {
	// Load returns the full text of the document at path.
	Load(path string) (string, error)

	// SupportedExtensions lists the file extensions this loader
	// handles, lowercase without the leading dot.
	SupportedExtensions() []string
}

// TextLoader reads plain text files as is.
type TextLoader struct{}

func (TextLoader) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading text file: %w", err)
	}
	return string(data), nil
}

func (TextLoader) SupportedExtensions() []string { return []string{"txt", "md"} }

// ForFile picks a loader by the file's extension. PDF files get the
// PDF loader, everything else is read as plain text.
func ForFile(path string) Loader {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "pdf" {
		return PDFLoader{}
	}
	return TextLoader{}
}
