package export

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"doc-qa-be/internal/entity"
)

func TestMarkdown(t *testing.T) {
	docId := uuid.New()
	session := &entity.ChatSession{
		Id:         uuid.New(),
		DocumentId: docId,
		Title:      "Quarterly Report Review",
		CreatedAt:  time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	messages := []*entity.ChatMessage{
		{Role: "user", Content: "What was revenue in Q2?"},
		{
			Role:    "assistant",
			Content: "Revenue in Q2 was $4.2M.",
			Citations: []entity.Citation{
				{Text: "Q2 revenue totalled $4.2M, up 12% year over year.", Page: 7, Confidence: 0.88, ChunkId: uuid.New()},
			},
		},
	}

	got := Markdown(session, messages)

	assert.True(t, strings.HasPrefix(got, "# Quarterly Report Review\n"))
	assert.Contains(t, got, "*Document ID: "+docId.String()+"*")
	assert.Contains(t, got, "*Created: 2025-03-14 09:30:00*")
	assert.Contains(t, got, "**User:**\n\nWhat was revenue in Q2?")
	assert.Contains(t, got, "**Assistant:**\n\nRevenue in Q2 was $4.2M.")
	assert.Contains(t, got, "*Citations:*")
	assert.Contains(t, got, `  1. Page 7 (confidence: 88%): "Q2 revenue totalled $4.2M, up 12% year over year...."`)

	// Messages must appear in order.
	assert.Less(t, strings.Index(got, "What was revenue"), strings.Index(got, "Revenue in Q2 was"))
}

func TestMarkdown_TruncatesLongCitations(t *testing.T) {
	session := &entity.ChatSession{Title: "Long", DocumentId: uuid.New(), CreatedAt: time.Now()}
	long := strings.Repeat("a", 300)
	messages := []*entity.ChatMessage{
		{Role: "assistant", Content: "ok", Citations: []entity.Citation{{Text: long, Page: 1, Confidence: 0.5}}},
	}

	got := Markdown(session, messages)

	assert.Contains(t, got, strings.Repeat("a", 200)+`..."`)
	assert.NotContains(t, got, strings.Repeat("a", 201))
}

func TestPdf(t *testing.T) {
	session := &entity.ChatSession{Title: "Export", DocumentId: uuid.New(), CreatedAt: time.Now()}
	messages := []*entity.ChatMessage{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}

	got, err := Pdf(session, messages)

	assert.NoError(t, err)
	assert.True(t, bytesHasPdfHeader(got))
}

func bytesHasPdfHeader(b []byte) bool {
	return len(b) > 4 && string(b[:5]) == "%PDF-"
}
