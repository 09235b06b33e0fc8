// Package segment splits documents into sentences and groups them into
// chunks under a token budget, optionally guided by embedding cohesion.
package segment

import "strings"

// Sentence is a single sentence with its estimated token count.
type Sentence struct {
	Text   string
	Tokens int
}

// EstimateTokens approximates the token count of a text as one token
// per four characters. This tracks typical BPE tokenizer output closely
// enough for budgeting without pulling in a tokenizer.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// SentenceSplitter breaks raw text into sentences.
type SentenceSplitter interface {
	Split(text string) []Sentence
}

// DelimiterSplitter splits on sentence terminators (period, question
// mark, exclamation mark) and newlines, keeping the terminator with
// the sentence it ends.
type DelimiterSplitter struct{}

func (DelimiterSplitter) Split(text string) []Sentence {
	var sentences []Sentence
	var b strings.Builder

	flush := func() {
		s := strings.TrimSpace(b.String())
		b.Reset()
		if s != "" {
			sentences = append(sentences, Sentence{Text: s, Tokens: EstimateTokens(s)})
		}
	}

	for _, r := range text {
		switch r {
		case '.', '!', '?':
			b.WriteRune(r)
			flush()
		case '\n':
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()

	return sentences
}
