package prompts

import (
	"fmt"
	"strings"
)

type enhance struct{}

const enhancePreamble = "You are an assistant that answers only from the information provided in the document."

func chunkBlock(chunks []string) string {
	quoted := make([]string, len(chunks))
	for i, chunk := range chunks {
		quoted[i] = fmt.Sprintf("%q", strings.TrimSpace(chunk))
	}
	return strings.Join(quoted, "\n\n")
}

func relationBlock(statements []string) string {
	lines := make([]string, len(statements))
	for i, statement := range statements {
		lines[i] = fmt.Sprintf("- The document indicates that %s.", statement)
	}
	return strings.Join(lines, "\n")
}

func (enhance) WithChunks(question string, chunks []string) string {
	return fmt.Sprintf(`%s

Contextual evidence from the document:
%s

Now answer the question: %s
`, enhancePreamble, chunkBlock(chunks), question)
}

func (enhance) WithRelations(question string, statements []string) string {
	return fmt.Sprintf(`%s

Structured facts extracted from the document:
%s

Now answer the question: %s
`, enhancePreamble, relationBlock(statements), question)
}

func (enhance) Combined(question string, statements, chunks []string) string {
	return fmt.Sprintf(`%s

Structured facts extracted from the document:
%s

Contextual evidence from the document:
%s

Now answer the question: %s
`, enhancePreamble, relationBlock(statements), chunkBlock(chunks), question)
}
