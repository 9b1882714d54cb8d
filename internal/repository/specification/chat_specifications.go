package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedByDocument scopes sessions (or chunks) to one document
type OwnedByDocument struct {
	DocumentID uuid.UUID
}

func (s OwnedByDocument) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

// InSession scopes messages to one chat session
type InSession struct {
	SessionID uuid.UUID
}

func (s InSession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.SessionID)
}
