package prompts

import "fmt"

type extractRelations struct{}

const firstOrderTemplate = `You are an expert in knowledge extraction. Your role is to analyze a text and extract the important facts it states as (subject, relation, object) triplets with their context.

Instructions:
1. Identify the key concepts and the relations between them
2. Use precise, meaningful relation names
3. Avoid overly generic relations such as "is" or "has"
4. Prefer relations like "is_composed_of", "enables", "uses", "defines"
5. Make sure every triplet states a clear factual claim
6. For each triplet, include the source sentence and a confidence score

Respond ONLY with a JSON list in the following format:
[
    {
        "subject": "concept1",
        "relation": "precise_relation",
        "object": "concept2",
        "sentence": "full source sentence",
        "confidence": 0.95
    }
]

Text to analyze:
%s
`

const higherOrderTemplate = `You are an expert in knowledge analysis and synthesis. Your role is to analyze a list of knowledge triplets and extract higher-order relations or important syntheses from them, also as (subject, relation, object) triplets with their context.

Instructions:
1. Analyze the supplied triplets and identify recurring concepts or general relations that emerge
2. Create new triplets that synthesize or connect these concepts at a higher level
3. Use precise, meaningful relation names for these high-level relations
4. Do not simply restate the lower-level triplets
5. Make sure every triplet states a clear, higher-level factual claim
6. For each new triplet, reference the source facts and give a confidence score for the synthesis

Respond ONLY with a JSON list in the following format:
[
    {
        "subject": "synthesized_concept1",
        "relation": "high_level_relation",
        "object": "synthesized_concept2",
        "sentence": "Synthesis based on the supplied facts",
        "confidence": 0.8
    }
]

List of facts (lower-level triplets) to analyze:
%s
`

func (extractRelations) FirstOrder(text string) string {
	return fmt.Sprintf(firstOrderTemplate, text)
}

func (extractRelations) HigherOrder(digest string) string {
	return fmt.Sprintf(higherOrderTemplate, digest)
}
