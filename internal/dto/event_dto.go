package dto

import (
	"github.com/google/uuid"
)

// DocumentCleanupMessage is published after a document is deleted so the
// consumer can remove the chat sessions that pointed at it.
type DocumentCleanupMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
