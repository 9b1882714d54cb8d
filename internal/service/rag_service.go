package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"doc-qa-be/internal/dto"
	"doc-qa-be/internal/entity"
	"doc-qa-be/internal/pkg/apperror"
	"doc-qa-be/internal/pkg/logger"
	"doc-qa-be/internal/repository/contract"
	"doc-qa-be/internal/repository/specification"
	"doc-qa-be/internal/repository/unitofwork"
	"doc-qa-be/pkg/embedding"
	"doc-qa-be/pkg/llm"
	"doc-qa-be/pkg/rag/prompt"
)

const ragTemperature = 0.3

type IRagService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
}

type ragService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	llmProvider       llm.Provider
	embeddingCache    *gocache.Cache
	topK              int
	logger            logger.ILogger
}

func NewRagService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	llmProvider llm.Provider,
	topK int,
	log logger.ILogger,
) IRagService {
	return &ragService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		llmProvider:       llmProvider,
		embeddingCache:    gocache.New(10*time.Minute, 15*time.Minute),
		topK:              topK,
		logger:            log,
	}
}

func (s *ragService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: req.DocId})
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, apperror.NotFound("document not found")
	}

	if req.SessionId != nil {
		session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: *req.SessionId})
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, apperror.NotFound("session not found")
		}
	}

	queryVector, err := s.embedQuestion(ctx, req.Question)
	if err != nil {
		return nil, apperror.Upstream("embedding service unavailable", err)
	}

	scored, err := uow.DocumentChunkRepository().SearchSimilar(ctx, req.DocId, queryVector, s.topK)
	if err != nil {
		return nil, err
	}

	var answer string
	var citations []entity.Citation

	if len(scored) == 0 {
		// Nothing retrieved, so there is nothing to ground an answer in.
		// Skip the model call entirely.
		answer = prompt.NoAnswerText
	} else {
		grounded := prompt.NewGroundedBuilder(scored, req.Question).Build()
		answer, err = s.llmProvider.Generate(ctx, grounded, llm.WithTemperature(ragTemperature))
		if err != nil {
			return nil, apperror.Upstream("generation service unavailable", err)
		}
		citations = buildCitations(scored)
	}

	if req.SessionId != nil {
		if err := s.persistExchange(ctx, *req.SessionId, req.Question, answer, citations); err != nil {
			return nil, err
		}
	}

	s.logger.Info("rag", "question answered", map[string]interface{}{
		"document_id": req.DocId,
		"chunks_used": len(scored),
	})

	return &dto.AskResponse{
		Answer:    answer,
		Citations: citationsToDto(citations),
	}, nil
}

func (s *ragService) embedQuestion(ctx context.Context, question string) ([]float32, error) {
	if cached, ok := s.embeddingCache.Get(question); ok {
		return cached.([]float32), nil
	}

	vector, err := s.embeddingProvider.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	s.embeddingCache.Set(question, vector, gocache.DefaultExpiration)
	return vector, nil
}

// persistExchange writes the question and the completed answer as one
// transaction. A failed generation never leaves an orphan user message.
func (s *ragService) persistExchange(ctx context.Context, sessionId uuid.UUID, question, answer string, citations []entity.Citation) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	userMsg := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sessionId,
		Role:          "user",
		Content:       question,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMsg); err != nil {
		return err
	}

	assistantMsg := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sessionId,
		Role:          "assistant",
		Content:       answer,
		Citations:     citations,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &assistantMsg); err != nil {
		return err
	}

	if err := uow.ChatSessionRepository().Touch(ctx, sessionId); err != nil {
		return err
	}

	return uow.Commit()
}

// buildCitations maps similarity to confidence by clamping into [0,1],
// which keeps the ordering of scores intact.
func buildCitations(scored []*contract.ScoredDocumentChunk) []entity.Citation {
	citations := make([]entity.Citation, 0, len(scored))
	for _, sc := range scored {
		confidence := sc.Similarity
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}
		citations = append(citations, entity.Citation{
			Text:       sc.Chunk.Content,
			Page:       sc.Chunk.Page,
			Confidence: confidence,
			ChunkId:    sc.Chunk.Id,
		})
	}
	return citations
}

func citationsToDto(citations []entity.Citation) []dto.CitationResponse {
	response := make([]dto.CitationResponse, 0, len(citations))
	for _, c := range citations {
		response = append(response, dto.CitationResponse{
			Text:       c.Text,
			Page:       c.Page,
			Confidence: c.Confidence,
			ChunkId:    c.ChunkId,
		})
	}
	return response
}
