package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	Citations     []Citation
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}

// Citation is derived from a retrieved chunk at answer time and stored as
// part of the assistant message, never on its own.
type Citation struct {
	Text       string    `json:"text"`
	Page       int       `json:"page"`
	Confidence float64   `json:"confidence"`
	ChunkId    uuid.UUID `json:"chunk_id"`
}
