package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyFor(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Strategy
		wantErr  bool
	}{
		{name: "plain text", filename: "notes.txt", want: PlainText{}},
		{name: "markdown", filename: "README.md", want: Markdown{}},
		{name: "pdf", filename: "report.pdf", want: Pdf{}},
		{name: "uppercase extension", filename: "REPORT.PDF", want: Pdf{}},
		{name: "unsupported", filename: "image.png", wantErr: true},
		{name: "no extension", filename: "Makefile", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StrategyFor(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlainTextExtract(t *testing.T) {
	pages, err := PlainText{}.Extract([]byte("hello world"))
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, "hello world", pages[0].Text)
}

func TestMarkdownExtractKeepsMarkup(t *testing.T) {
	src := "# Title\n\n- item one\n- item two\n"
	pages, err := Markdown{}.Extract([]byte(src))
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, src, pages[0].Text)
}
