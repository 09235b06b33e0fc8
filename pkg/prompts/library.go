// Package prompts holds the prompt templates used for relation
// extraction and evidence-augmented question answering.
package prompts

// Library exposes the prompt template groups.
type Library interface {
	ExtractRelations() ExtractRelations
	Enhance() Enhance
}

// ExtractRelations builds extraction prompts. FirstOrder operates on
// raw document text; HigherOrder operates on a digest of previously
// extracted facts and asks for relations between them.
type ExtractRelations interface {
	FirstOrder(text string) string
	HigherOrder(digest string) string
}

// Enhance builds evidence-augmented prompts around a user question.
type Enhance interface {
	WithChunks(question string, chunks []string) string
	WithRelations(question string, statements []string) string
	Combined(question string, statements, chunks []string) string
}

type library struct {
	extract ExtractRelations
	enhance Enhance
}

// NewLibrary returns the default prompt library.
func NewLibrary() Library {
	return &library{
		extract: extractRelations{},
		enhance: enhance{},
	}
}

func (l *library) ExtractRelations() ExtractRelations { return l.extract }
func (l *library) Enhance() Enhance                   { return l.enhance }
