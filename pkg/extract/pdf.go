package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Pdf extracts text page by page, preserving page numbers for citations.
type Pdf struct{}

func (Pdf) Extract(content []byte) ([]Page, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("create pdf reader: %w", err)
	}

	var pages []Page
	total := reader.NumPage()
	for num := 1; num <= total; num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read pdf page %d: %w", num, err)
		}
		if text == "" {
			continue
		}
		pages = append(pages, Page{Number: num, Text: text})
	}

	return pages, nil
}
