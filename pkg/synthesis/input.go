// Package synthesis runs multi-level relation extraction: level 1
// extracts triplets from raw text, each later level extracts
// higher-order relations from a digest of the previous level's output.
package synthesis

import (
	"fmt"
	"strings"

	"github.com/soundprediction/go-kag/pkg/types"
)

type inputKind int

const (
	inputRawText inputKind = iota
	inputRelationDigest
)

// ExtractionInput is a tagged input for the pipeline. The caller
// states whether the input is raw document text or a digest of
// already-extracted relations; the pipeline never infers this from
// the content itself.
type ExtractionInput struct {
	kind        inputKind
	text        string
	triplets    []types.Triplet
	sourceLevel int
}

// RawText wraps document text for first-order extraction at level 1.
func RawText(text string) ExtractionInput {
	return ExtractionInput{kind: inputRawText, text: text}
}

// RelationDigest wraps triplets extracted at sourceLevel so the next
// level can synthesize higher-order relations from them.
func RelationDigest(triplets []types.Triplet, sourceLevel int) ExtractionInput {
	return ExtractionInput{kind: inputRelationDigest, triplets: triplets, sourceLevel: sourceLevel}
}

// level is the extraction level this input feeds.
func (in ExtractionInput) level() int {
	if in.kind == inputRawText {
		return 1
	}
	return in.sourceLevel + 1
}

func (in ExtractionInput) empty() bool {
	if in.kind == inputRawText {
		return strings.TrimSpace(in.text) == ""
	}
	return len(in.triplets) == 0
}

// Digest renders triplets as the enumerated fact list fed to
// higher-order extraction.
func Digest(triplets []types.Triplet, level int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here is a list of extracted facts (level %d):\n\n", level)
	for i, t := range triplets {
		fmt.Fprintf(&b, "%d. %s --[%s]--> %s (confidence: %.2f, sentence: %q)\n",
			i+1, t.Subject, t.Relation, t.Object, t.ConfidenceOr(0), strings.TrimSpace(t.Sentence))
	}
	b.WriteString("\nExtract higher-order relations between these facts.\n")
	return b.String()
}
