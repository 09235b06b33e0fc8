// Package types defines the core data structures shared across go-kag.
package types

import "fmt"

// Triplet is a single (subject, relation, object) fact, optionally carrying
// the source sentence it was extracted from and a model confidence score.
// Level records the synthesis round that produced it: 1 for facts extracted
// directly from document text, N>1 for higher-order facts synthesized from
// the level N-1 output.
type Triplet struct {
	Subject    string   `json:"subject"`
	Relation   string   `json:"relation"`
	Object     string   `json:"object"`
	Sentence   string   `json:"sentence,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Level      int      `json:"level,omitempty"`
}

// Statement renders the triplet as a short declarative clause, e.g.
// "Paris is_capital_of France". Used when relation facts are embedded or
// quoted as prompt evidence.
func (t Triplet) Statement() string {
	return fmt.Sprintf("%s %s %s", t.Subject, t.Relation, t.Object)
}

// ConfidenceOr returns the confidence score, or def when absent.
func (t Triplet) ConfidenceOr(def float64) float64 {
	if t.Confidence == nil {
		return def
	}
	return *t.Confidence
}

// Float64Ptr is a convenience for building triplets with literal confidences.
func Float64Ptr(v float64) *float64 { return &v }
