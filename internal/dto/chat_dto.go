package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	DocId uuid.UUID `json:"doc_id" validate:"required"`
	Title string    `json:"title"`
}

type ChatSessionResponse struct {
	Id        uuid.UUID  `json:"id"`
	DocId     uuid.UUID  `json:"doc_id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID          `json:"id"`
	SessionId uuid.UUID          `json:"session_id"`
	Role      string             `json:"role"`
	Content   string             `json:"content"`
	Citations []CitationResponse `json:"citations"`
	CreatedAt time.Time          `json:"created_at"`
}

type ChatSessionDetailResponse struct {
	Id        uuid.UUID             `json:"id"`
	DocId     uuid.UUID             `json:"doc_id"`
	Title     string                `json:"title"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt *time.Time            `json:"updated_at"`
	Messages  []ChatMessageResponse `json:"messages"`
}

type RenameSessionRequest struct {
	Id    uuid.UUID
	Title string `json:"title" validate:"required"`
}

type AppendMessageRequest struct {
	SessionId uuid.UUID
	Role      string             `json:"role" validate:"required,oneof=user assistant"`
	Content   string             `json:"content" validate:"required"`
	Citations []CitationResponse `json:"citations"`
}
