package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"doc-qa-be/internal/dto"
	"doc-qa-be/internal/entity"
	"doc-qa-be/internal/pkg/apperror"
	"doc-qa-be/internal/pkg/logger"
	"doc-qa-be/internal/repository/specification"
	"doc-qa-be/internal/repository/unitofwork"
	"doc-qa-be/pkg/chunker"
	"doc-qa-be/pkg/embedding"
	"doc-qa-be/pkg/extract"
)

type IDocumentService interface {
	Upload(ctx context.Context, filename string, content []byte) (*dto.UploadDocumentResponse, error)
	List(ctx context.Context) ([]*dto.DocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	publisherService  IPublisherService
	splitter          *chunker.Splitter
	uploadDir         string
	logger            logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	publisherService IPublisherService,
	splitter *chunker.Splitter,
	uploadDir string,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		publisherService:  publisherService,
		splitter:          splitter,
		uploadDir:         uploadDir,
		logger:            log,
	}
}

func (s *documentService) Upload(ctx context.Context, filename string, content []byte) (*dto.UploadDocumentResponse, error) {
	strategy, err := extract.StrategyFor(filename)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	pages, err := strategy.Extract(content)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("failed to extract text from %s: %v", filename, err))
	}

	chunks := s.splitter.Split(pages)
	if len(chunks) == 0 {
		return nil, apperror.Validation("document contains no extractable text")
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embeddingProvider.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, apperror.Upstream("embedding service unavailable", err)
	}

	document := entity.Document{
		Id:         uuid.New(),
		Filename:   filename,
		ChunkCount: len(chunks),
		CreatedAt:  time.Now(),
	}

	chunkEntities := make([]*entity.DocumentChunk, len(chunks))
	for i, c := range chunks {
		chunkEntities[i] = &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: document.Id,
			Content:    c.Text,
			Page:       c.Page,
			ChunkIndex: i,
			Embedding:  vectors[i],
			CreatedAt:  time.Now(),
		}
	}

	// Document row and chunk rows commit together so a failed insert never
	// leaves a document pointing at a partial chunk set.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}
	if err := uow.DocumentChunkRepository().CreateBulk(ctx, chunkEntities); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := s.saveRawFile(document.Id, filename, content); err != nil {
		s.logger.Warn("document", "failed to save raw upload", map[string]interface{}{
			"document_id": document.Id,
			"error":       err.Error(),
		})
	}

	s.logger.Info("document", "document ingested", map[string]interface{}{
		"document_id": document.Id,
		"filename":    filename,
		"chunks":      len(chunks),
	})

	return &dto.UploadDocumentResponse{
		DocId:         document.Id,
		Filename:      document.Filename,
		ChunksCreated: document.ChunkCount,
	}, nil
}

func (s *documentService) saveRawFile(id uuid.UUID, filename string, content []byte) error {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.uploadDir, fmt.Sprintf("%s_%s", id, filepath.Base(filename)))
	return os.WriteFile(path, content, 0o644)
}

func (s *documentService) List(ctx context.Context) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.DocumentRepository().FindAll(ctx, specification.OrderBy{Field: "created_at"})
	if err != nil {
		return nil, err
	}

	response := make([]*dto.DocumentResponse, 0, len(documents))
	for _, doc := range documents {
		response = append(response, &dto.DocumentResponse{
			DocId:    doc.Id,
			Filename: doc.Filename,
			Chunks:   doc.ChunkCount,
		})
	}

	return response, nil
}

func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if document == nil {
		return apperror.NotFound("document not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	payload, err := json.Marshal(dto.DocumentCleanupMessage{DocumentId: id})
	if err != nil {
		return err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("document", "failed to publish cleanup message", map[string]interface{}{
			"document_id": id,
			"error":       err.Error(),
		})
	}

	return nil
}
