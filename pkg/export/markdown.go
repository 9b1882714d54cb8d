package export

import (
	"fmt"
	"strings"

	"doc-qa-be/internal/entity"
)

// Markdown renders a chat session transcript as a markdown document.
func Markdown(session *entity.ChatSession, messages []*entity.ChatMessage) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", session.Title)
	fmt.Fprintf(&sb, "*Document ID: %s*\n", session.DocumentId)
	fmt.Fprintf(&sb, "*Created: %s*\n\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("---\n\n")

	for _, msg := range messages {
		roleLabel := "**Assistant:**"
		if msg.Role == "user" {
			roleLabel = "**User:**"
		}
		sb.WriteString(roleLabel)
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")

		if len(msg.Citations) > 0 {
			sb.WriteString("*Citations:*\n")
			for i, citation := range msg.Citations {
				fmt.Fprintf(&sb, "  %d. Page %d (confidence: %.0f%%): \"%s...\"\n",
					i+1, citation.Page, citation.Confidence*100, truncate(citation.Text, 200))
			}
			sb.WriteString("\n")
		}

		sb.WriteString("---\n\n")
	}

	return sb.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
