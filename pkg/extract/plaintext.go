package extract

// PlainText treats the whole file as one page of UTF-8 text.
type PlainText struct{}

func (PlainText) Extract(content []byte) ([]Page, error) {
	return []Page{{Number: 1, Text: string(content)}}, nil
}

// Markdown is extracted as-is. Markup survives into chunks, which keeps
// headings and list structure visible to the generation model.
type Markdown struct{}

func (Markdown) Extract(content []byte) ([]Page, error) {
	return []Page{{Number: 1, Text: string(content)}}, nil
}
