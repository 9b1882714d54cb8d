package chunker

import (
	"fmt"
	"strings"

	"doc-qa-be/pkg/extract"
)

// Chunk is a bounded slice of a document's text, tagged with the page it
// came from.
type Chunk struct {
	Text string
	Page int
}

// Splitter windows text into chunks of at most chunkSize runes with the
// given overlap between consecutive chunks.
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter validates the window configuration up front. overlap >=
// chunkSize would make the window stall, so it is a configuration error.
func NewSplitter(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap must be non-negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("overlap (%d) must be smaller than chunk size (%d)", overlap, chunkSize)
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// Split chunks every page independently so a chunk never straddles a page
// boundary and each chunk keeps its page number.
func (s *Splitter) Split(pages []extract.Page) []Chunk {
	var chunks []Chunk
	for _, page := range pages {
		for _, text := range s.splitText(page.Text) {
			chunks = append(chunks, Chunk{Text: text, Page: page.Number})
		}
	}
	return chunks
}

// splitText is a character-based splitter over runes. Whitespace-only
// windows are dropped; trailing partial windows are kept.
func (s *Splitter) splitText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	totalLen := len(runes)

	if totalLen <= s.chunkSize {
		return []string{text}
	}

	var parts []string
	step := s.chunkSize - s.overlap

	for i := 0; i < totalLen; i += step {
		end := i + s.chunkSize
		if end > totalLen {
			end = totalLen
		}

		part := string(runes[i:end])
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}

		if end == totalLen {
			break
		}
	}

	return parts
}
