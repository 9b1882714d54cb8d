package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Page is one page of extracted text. Flat formats produce a single page.
type Page struct {
	Number int
	Text   string
}

// Strategy converts raw file bytes into page-segmented text.
type Strategy interface {
	Extract(content []byte) ([]Page, error)
}

// StrategyFor selects an extraction strategy from the filename suffix.
// Selection happens once at ingestion time; unknown extensions are rejected
// here rather than deep in the pipeline.
func StrategyFor(filename string) (Strategy, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return PlainText{}, nil
	case ".md":
		return Markdown{}, nil
	case ".pdf":
		return Pdf{}, nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}
