package dto

import (
	"github.com/google/uuid"
)

type UploadDocumentResponse struct {
	DocId         uuid.UUID `json:"doc_id"`
	Filename      string    `json:"filename"`
	ChunksCreated int       `json:"chunks_created"`
}

type DocumentResponse struct {
	DocId    uuid.UUID `json:"doc_id"`
	Filename string    `json:"filename"`
	Chunks   int       `json:"chunks"`
}
