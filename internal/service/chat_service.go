package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"doc-qa-be/internal/dto"
	"doc-qa-be/internal/entity"
	"doc-qa-be/internal/pkg/apperror"
	"doc-qa-be/internal/repository/specification"
	"doc-qa-be/internal/repository/unitofwork"
	"doc-qa-be/pkg/export"
)

const defaultSessionTitle = "New Chat"

type ExportFormat string

const (
	ExportMarkdown ExportFormat = "md"
	ExportPdf      ExportFormat = "pdf"
)

type IChatService interface {
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.ChatSessionResponse, error)
	GetSession(ctx context.Context, id uuid.UUID) (*dto.ChatSessionDetailResponse, error)
	ListSessions(ctx context.Context, docId *uuid.UUID) ([]*dto.ChatSessionResponse, error)
	RenameSession(ctx context.Context, req *dto.RenameSessionRequest) (*dto.ChatSessionResponse, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	AppendMessage(ctx context.Context, req *dto.AppendMessageRequest) (*dto.ChatMessageResponse, error)
	Export(ctx context.Context, id uuid.UUID, format ExportFormat) ([]byte, string, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewChatService(uowFactory unitofwork.RepositoryFactory) IChatService {
	return &chatService{
		uowFactory: uowFactory,
	}
}

func (s *chatService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: req.DocId})
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, apperror.NotFound("document not found")
	}

	title := req.Title
	if title == "" {
		title = defaultSessionTitle
	}

	session := entity.ChatSession{
		Id:         uuid.New(),
		DocumentId: req.DocId,
		Title:      title,
		CreatedAt:  time.Now(),
	}

	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	return sessionToDto(&session), nil
}

func (s *chatService) GetSession(ctx context.Context, id uuid.UUID) (*dto.ChatSessionDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, messages, err := s.loadSessionWithMessages(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	detail := dto.ChatSessionDetailResponse{
		Id:        session.Id,
		DocId:     session.DocumentId,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		Messages:  make([]dto.ChatMessageResponse, 0, len(messages)),
	}
	for _, msg := range messages {
		detail.Messages = append(detail.Messages, *messageToDto(msg))
	}

	return &detail, nil
}

func (s *chatService) ListSessions(ctx context.Context, docId *uuid.UUID) ([]*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "updated_at", Desc: true},
	}
	if docId != nil {
		specs = append(specs, specification.OwnedByDocument{DocumentID: *docId})
	}

	sessions, err := uow.ChatSessionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ChatSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		response = append(response, sessionToDto(session))
	}

	return response, nil
}

func (s *chatService) RenameSession(ctx context.Context, req *dto.RenameSessionRequest) (*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NotFound("session not found")
	}

	now := time.Now()
	session.Title = req.Title
	session.UpdatedAt = &now

	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	return sessionToDto(session), nil
}

func (s *chatService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if session == nil {
		return apperror.NotFound("session not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteBySessionId(ctx, id); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *chatService) AppendMessage(ctx context.Context, req *dto.AppendMessageRequest) (*dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: req.SessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NotFound("session not found")
	}

	citations := make([]entity.Citation, 0, len(req.Citations))
	for _, c := range req.Citations {
		citations = append(citations, entity.Citation{
			Text:       c.Text,
			Page:       c.Page,
			Confidence: c.Confidence,
			ChunkId:    c.ChunkId,
		})
	}

	message := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: req.SessionId,
		Role:          req.Role,
		Content:       req.Content,
		Citations:     citations,
		CreatedAt:     time.Now(),
	}

	// Message insert and updated_at bump commit together so session ordering
	// by recency stays consistent with message history.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, &message); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().Touch(ctx, req.SessionId); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return messageToDto(&message), nil
}

func (s *chatService) Export(ctx context.Context, id uuid.UUID, format ExportFormat) ([]byte, string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, messages, err := s.loadSessionWithMessages(ctx, uow, id)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case ExportMarkdown:
		return []byte(export.Markdown(session, messages)), "text/markdown; charset=utf-8", nil
	case ExportPdf:
		blob, err := export.Pdf(session, messages)
		if err != nil {
			return nil, "", err
		}
		return blob, "application/pdf", nil
	default:
		return nil, "", apperror.Validation("unsupported export format, expected md or pdf")
	}
}

func (s *chatService) loadSessionWithMessages(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.ChatSession, []*entity.ChatMessage, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, apperror.NotFound("session not found")
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.InSession{SessionID: id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, nil, err
	}

	return session, messages, nil
}

func sessionToDto(session *entity.ChatSession) *dto.ChatSessionResponse {
	return &dto.ChatSessionResponse{
		Id:        session.Id,
		DocId:     session.DocumentId,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

func messageToDto(message *entity.ChatMessage) *dto.ChatMessageResponse {
	citations := make([]dto.CitationResponse, 0, len(message.Citations))
	for _, c := range message.Citations {
		citations = append(citations, dto.CitationResponse{
			Text:       c.Text,
			Page:       c.Page,
			Confidence: c.Confidence,
			ChunkId:    c.ChunkId,
		})
	}
	return &dto.ChatMessageResponse{
		Id:        message.Id,
		SessionId: message.ChatSessionId,
		Role:      message.Role,
		Content:   message.Content,
		Citations: citations,
		CreatedAt: message.CreatedAt,
	}
}
