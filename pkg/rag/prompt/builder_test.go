package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"doc-qa-be/internal/entity"
	"doc-qa-be/internal/repository/contract"
)

func TestGroundedBuilder_Build(t *testing.T) {
	chunks := []*contract.ScoredDocumentChunk{
		{Chunk: &entity.DocumentChunk{Page: 1, Content: "The mitochondria is the powerhouse of the cell."}, Similarity: 0.91},
		{Chunk: &entity.DocumentChunk{Page: 3, Content: "ATP is produced during cellular respiration."}, Similarity: 0.82},
	}

	got := NewGroundedBuilder(chunks, "What produces ATP?").Build()

	assert.Contains(t, got, "STRICTLY based on the provided context")
	assert.Contains(t, got, NoAnswerText)
	assert.Contains(t, got, "[Page 1] The mitochondria is the powerhouse of the cell.")
	assert.Contains(t, got, "[Page 3] ATP is produced during cellular respiration.")
	assert.Contains(t, got, "Question: What produces ATP?")

	// Context must come after the rules and before the question.
	rulesIdx := strings.Index(got, "Rules:")
	ctxIdx := strings.Index(got, "Context:")
	qIdx := strings.Index(got, "Question:")
	assert.Less(t, rulesIdx, ctxIdx)
	assert.Less(t, ctxIdx, qIdx)
}

func TestGroundedBuilder_Build_EmptyContext(t *testing.T) {
	got := NewGroundedBuilder(nil, "Anything?").Build()

	assert.Contains(t, got, "Context:\n")
	assert.Contains(t, got, "Question: Anything?")
}
