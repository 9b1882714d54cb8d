package dto

import (
	"github.com/google/uuid"
)

type AskRequest struct {
	Question  string     `json:"question" validate:"required"`
	DocId     uuid.UUID  `json:"doc_id" validate:"required"`
	SessionId *uuid.UUID `json:"session_id"`
}

type CitationResponse struct {
	Text       string    `json:"text"`
	Page       int       `json:"page"`
	Confidence float64   `json:"confidence"`
	ChunkId    uuid.UUID `json:"chunk_id"`
}

type AskResponse struct {
	Answer    string             `json:"answer"`
	Citations []CitationResponse `json:"citations"`
}
