package dto

import "github.com/soundprediction/go-kag/pkg/retrieval"

// AskRequest poses a question against the processed corpus. Method is
// one of vanilla, rag, kag, kag_rag; empty defaults to kag_rag.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
	Method   string `json:"method,omitempty"`
}

// AskResponse carries the model's answer and the evidence used to
// build the prompt.
type AskResponse struct {
	Question string              `json:"question"`
	Method   string              `json:"method"`
	Answer   string              `json:"answer"`
	Evidence *retrieval.Enhanced `json:"evidence,omitempty"`
}
