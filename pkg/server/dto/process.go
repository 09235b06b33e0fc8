package dto

import (
	"github.com/soundprediction/go-kag/pkg/graph"
	"github.com/soundprediction/go-kag/pkg/types"
)

// ProcessRequest submits document text for relation extraction. Label
// names the node label used when the graph is exported.
type ProcessRequest struct {
	Text  string `json:"text" binding:"required"`
	Label string `json:"label,omitempty"`
}

// ProcessResponse reports the outcome of a processing run.
type ProcessResponse struct {
	DocumentID string          `json:"document_id"`
	Triplets   []types.Triplet `json:"triplets"`
	Stats      graph.Stats     `json:"stats"`
	Exported   bool            `json:"exported"`
}
