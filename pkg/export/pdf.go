package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"doc-qa-be/internal/entity"
)

// Pdf renders a chat session transcript as a PDF document.
func Pdf(session *entity.ChatSession, messages []*entity.ChatMessage) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, session.Title, "", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Document ID: %s", session.DocumentId), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Created: %s", session.CreatedAt.Format("2006-01-02 15:04:05")), "", 1, "", false, 0, "")
	pdf.Ln(5)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(5)

	for _, msg := range messages {
		roleLabel := "Assistant:"
		if msg.Role == "user" {
			roleLabel = "User:"
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 8, roleLabel, "", 1, "", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, msg.Content, "", "", false)
		pdf.Ln(3)

		if len(msg.Citations) > 0 {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 5, "Citations:", "", 1, "", false, 0, "")
			for i, citation := range msg.Citations {
				citationText := fmt.Sprintf("  %d. Page %d (%.0f%%): \"%s...\"",
					i+1, citation.Page, citation.Confidence*100, truncate(citation.Text, 100))
				pdf.MultiCell(0, 4, citationText, "", "", false)
			}
			pdf.Ln(2)
		}

		pdf.SetDrawColor(220, 220, 220)
		pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
