package prompt

import (
	"fmt"
	"strings"

	"doc-qa-be/internal/repository/contract"
)

// NoAnswerText is returned verbatim when retrieval yields nothing usable.
const NoAnswerText = "The provided document does not contain sufficient information to answer this question."

// GroundedBuilder builds prompts that keep the model strictly inside the
// retrieved document context.
type GroundedBuilder struct {
	chunks   []*contract.ScoredDocumentChunk
	question string
}

// NewGroundedBuilder creates a new grounded prompt builder.
func NewGroundedBuilder(chunks []*contract.ScoredDocumentChunk, question string) *GroundedBuilder {
	return &GroundedBuilder{
		chunks:   chunks,
		question: question,
	}
}

// Build assembles the full prompt: rules, page-labelled context, question.
func (b *GroundedBuilder) Build() string {
	var prompt strings.Builder

	b.writeRules(&prompt)
	b.writeContext(&prompt)
	b.writeQuestion(&prompt)

	return prompt.String()
}

func (b *GroundedBuilder) writeRules(prompt *strings.Builder) {
	prompt.WriteString("You are a precise assistant that answers questions STRICTLY based on the provided context.\n")
	prompt.WriteString("Rules:\n")
	prompt.WriteString("1. Answer ONLY using information from the context below\n")
	prompt.WriteString("2. If the context does not contain enough information to answer, say \"" + NoAnswerText + "\"\n")
	prompt.WriteString("3. Do not use any outside knowledge\n")
	prompt.WriteString("4. When you use information from the context, mention the page it came from\n\n")
}

func (b *GroundedBuilder) writeContext(prompt *strings.Builder) {
	prompt.WriteString("Context:\n")
	for _, scored := range b.chunks {
		fmt.Fprintf(prompt, "[Page %d] %s\n\n", scored.Chunk.Page, scored.Chunk.Content)
	}
}

func (b *GroundedBuilder) writeQuestion(prompt *strings.Builder) {
	prompt.WriteString("Question: ")
	prompt.WriteString(b.question)
	prompt.WriteString("\n\nAnswer:")
}
