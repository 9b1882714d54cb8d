package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-qa-be/internal/dto"
	"doc-qa-be/internal/entity"
	"doc-qa-be/internal/pkg/apperror"
	"doc-qa-be/internal/repository/contract"
	"doc-qa-be/internal/repository/specification"
	"doc-qa-be/internal/repository/unitofwork"
	"doc-qa-be/pkg/llm"
	"doc-qa-be/pkg/rag/prompt"
)

// --- fakes ---

type fakeDocumentRepo struct {
	documents map[uuid.UUID]*entity.Document
	deleted   []uuid.UUID
}

func (f *fakeDocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	f.documents[d.Id] = d
	return nil
}

func (f *fakeDocumentRepo) Update(ctx context.Context, d *entity.Document) error { return nil }

func (f *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.documents, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return f.documents[byId.ID], nil
		}
	}
	return nil, nil
}

func (f *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	out := make([]*entity.Document, 0, len(f.documents))
	for _, d := range f.documents {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.documents)), nil
}

type fakeChunkRepo struct {
	results []*contract.ScoredDocumentChunk
	err     error
}

func (f *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	return nil
}

func (f *fakeChunkRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return nil
}

func (f *fakeChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error) {
	return nil, nil
}

func (f *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (f *fakeChunkRepo) SearchSimilar(ctx context.Context, documentId uuid.UUID, embedding []float32, limit int) ([]*contract.ScoredDocumentChunk, error) {
	return f.results, f.err
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.ChatSession
	touched  []uuid.UUID
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *entity.ChatSession) error {
	f.sessions[s.Id] = s
	return nil
}

func (f *fakeSessionRepo) Update(ctx context.Context, s *entity.ChatSession) error { return nil }

func (f *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return nil
}

func (f *fakeSessionRepo) Touch(ctx context.Context, id uuid.UUID) error {
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return f.sessions[byId.ID], nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	out := make([]*entity.ChatSession, 0, len(f.sessions))
	for _, s := range f.sessions {
		out = append(out, s)
	}
	return out, nil
}

type fakeMessageRepo struct {
	created []*entity.ChatMessage
}

func (f *fakeMessageRepo) Create(ctx context.Context, m *entity.ChatMessage) error {
	f.created = append(f.created, m)
	return nil
}

func (f *fakeMessageRepo) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return nil
}

func (f *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	return f.created, nil
}

type fakeUnitOfWork struct {
	docs     *fakeDocumentRepo
	chunks   *fakeChunkRepo
	sessions *fakeSessionRepo
	messages *fakeMessageRepo
}

func (f *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (f *fakeUnitOfWork) Commit() error                   { return nil }
func (f *fakeUnitOfWork) Rollback() error                 { return nil }

func (f *fakeUnitOfWork) DocumentRepository() contract.DocumentRepository {
	return f.docs
}

func (f *fakeUnitOfWork) DocumentChunkRepository() contract.DocumentChunkRepository {
	return f.chunks
}

func (f *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return f.sessions
}

func (f *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return f.messages
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = f.vector
	}
	return vectors, nil
}

type fakeLLM struct {
	answer string
	err    error
	calls  int
	prompt string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.calls++
	if len(history) > 0 {
		f.prompt = history[len(history)-1].Content
	}
	return f.answer, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, p string, opts ...llm.Option) (string, error) {
	f.calls++
	f.prompt = p
	return f.answer, f.err
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

// --- helpers ---

func newFakeUow() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		docs:     &fakeDocumentRepo{documents: map[uuid.UUID]*entity.Document{}},
		chunks:   &fakeChunkRepo{},
		sessions: &fakeSessionRepo{sessions: map[uuid.UUID]*entity.ChatSession{}},
		messages: &fakeMessageRepo{},
	}
}

func scoredChunk(docId uuid.UUID, page int, content string, similarity float64) *contract.ScoredDocumentChunk {
	return &contract.ScoredDocumentChunk{
		Chunk: &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: docId,
			Content:    content,
			Page:       page,
		},
		Similarity: similarity,
	}
}

// --- tests ---

func TestRagService_Ask_DocumentNotFound(t *testing.T) {
	uow := newFakeUow()
	svc := NewRagService(&fakeFactory{uow: uow}, &fakeEmbedder{}, &fakeLLM{}, 4, noopLogger{})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "anything", DocId: uuid.New()})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}

func TestRagService_Ask_NoMatchesSkipsGeneration(t *testing.T) {
	uow := newFakeUow()
	docId := uuid.New()
	uow.docs.documents[docId] = &entity.Document{Id: docId, Filename: "a.txt"}

	llmFake := &fakeLLM{answer: "should not be used"}
	svc := NewRagService(&fakeFactory{uow: uow}, &fakeEmbedder{vector: []float32{0.1}}, llmFake, 4, noopLogger{})

	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "q", DocId: docId})

	require.NoError(t, err)
	assert.Equal(t, prompt.NoAnswerText, res.Answer)
	assert.Empty(t, res.Citations)
	assert.Zero(t, llmFake.calls)
}

func TestRagService_Ask_ReturnsCitationsInScoreOrder(t *testing.T) {
	uow := newFakeUow()
	docId := uuid.New()
	uow.docs.documents[docId] = &entity.Document{Id: docId, Filename: "a.txt"}
	uow.chunks.results = []*contract.ScoredDocumentChunk{
		scoredChunk(docId, 2, "most relevant", 0.92),
		scoredChunk(docId, 5, "less relevant", 0.71),
		scoredChunk(docId, 1, "out of range score", 1.3),
	}

	llmFake := &fakeLLM{answer: "grounded answer"}
	svc := NewRagService(&fakeFactory{uow: uow}, &fakeEmbedder{vector: []float32{0.1}}, llmFake, 4, noopLogger{})

	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "q", DocId: docId})

	require.NoError(t, err)
	assert.Equal(t, "grounded answer", res.Answer)
	require.Len(t, res.Citations, 3)
	assert.InDelta(t, 0.92, res.Citations[0].Confidence, 1e-9)
	assert.InDelta(t, 0.71, res.Citations[1].Confidence, 1e-9)
	assert.InDelta(t, 1.0, res.Citations[2].Confidence, 1e-9)
	assert.GreaterOrEqual(t, res.Citations[0].Confidence, res.Citations[1].Confidence)

	assert.Contains(t, llmFake.prompt, "[Page 2] most relevant")
	assert.Contains(t, llmFake.prompt, "Question: q")
}

func TestRagService_Ask_PersistsExchangeWhenSessionGiven(t *testing.T) {
	uow := newFakeUow()
	docId := uuid.New()
	sessionId := uuid.New()
	uow.docs.documents[docId] = &entity.Document{Id: docId, Filename: "a.txt"}
	uow.sessions.sessions[sessionId] = &entity.ChatSession{Id: sessionId, DocumentId: docId}
	uow.chunks.results = []*contract.ScoredDocumentChunk{
		scoredChunk(docId, 1, "content", 0.8),
	}

	svc := NewRagService(&fakeFactory{uow: uow}, &fakeEmbedder{vector: []float32{0.1}}, &fakeLLM{answer: "answer"}, 4, noopLogger{})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "q", DocId: docId, SessionId: &sessionId})

	require.NoError(t, err)
	require.Len(t, uow.messages.created, 2)
	assert.Equal(t, "user", uow.messages.created[0].Role)
	assert.Equal(t, "q", uow.messages.created[0].Content)
	assert.Equal(t, "assistant", uow.messages.created[1].Role)
	assert.Equal(t, "answer", uow.messages.created[1].Content)
	assert.Len(t, uow.messages.created[1].Citations, 1)
	assert.Equal(t, []uuid.UUID{sessionId}, uow.sessions.touched)
}

func TestRagService_Ask_NoSessionNoPersistence(t *testing.T) {
	uow := newFakeUow()
	docId := uuid.New()
	uow.docs.documents[docId] = &entity.Document{Id: docId, Filename: "a.txt"}
	uow.chunks.results = []*contract.ScoredDocumentChunk{
		scoredChunk(docId, 1, "content", 0.8),
	}

	svc := NewRagService(&fakeFactory{uow: uow}, &fakeEmbedder{vector: []float32{0.1}}, &fakeLLM{answer: "answer"}, 4, noopLogger{})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "q", DocId: docId})

	require.NoError(t, err)
	assert.Empty(t, uow.messages.created)
	assert.Empty(t, uow.sessions.touched)
}

func TestRagService_Ask_GenerationFailureAbortsBeforePersistence(t *testing.T) {
	uow := newFakeUow()
	docId := uuid.New()
	sessionId := uuid.New()
	uow.docs.documents[docId] = &entity.Document{Id: docId, Filename: "a.txt"}
	uow.sessions.sessions[sessionId] = &entity.ChatSession{Id: sessionId, DocumentId: docId}
	uow.chunks.results = []*contract.ScoredDocumentChunk{
		scoredChunk(docId, 1, "content", 0.8),
	}

	svc := NewRagService(&fakeFactory{uow: uow}, &fakeEmbedder{vector: []float32{0.1}}, &fakeLLM{err: errors.New("model overloaded")}, 4, noopLogger{})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "q", DocId: docId, SessionId: &sessionId})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindUpstream, appErr.Kind)
	assert.Empty(t, uow.messages.created)
	assert.Empty(t, uow.sessions.touched)
}

func TestRagService_Ask_EmbeddingFailureIsUpstream(t *testing.T) {
	uow := newFakeUow()
	docId := uuid.New()
	uow.docs.documents[docId] = &entity.Document{Id: docId, Filename: "a.txt"}

	svc := NewRagService(&fakeFactory{uow: uow}, &fakeEmbedder{err: errors.New("dial tcp: timeout")}, &fakeLLM{}, 4, noopLogger{})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "q", DocId: docId})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindUpstream, appErr.Kind)
}

func TestRagService_Ask_CachesQuestionEmbedding(t *testing.T) {
	uow := newFakeUow()
	docId := uuid.New()
	uow.docs.documents[docId] = &entity.Document{Id: docId, Filename: "a.txt"}

	embedder := &fakeEmbedder{vector: []float32{0.1}}
	svc := NewRagService(&fakeFactory{uow: uow}, embedder, &fakeLLM{answer: "a"}, 4, noopLogger{})

	for i := 0; i < 3; i++ {
		_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "same question", DocId: docId})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, embedder.calls)
}

func TestInterpreterService_Interpret(t *testing.T) {
	llmFake := &fakeLLM{answer: "an interpretation"}
	svc := NewInterpreterService(llmFake)

	res, err := svc.Interpret(context.Background(), &dto.InterpretRequest{Input: "I feel stuck"})

	require.NoError(t, err)
	assert.Equal(t, "an interpretation", res.Interpretation)
	assert.Equal(t, "insightful", res.Tone)
	assert.Equal(t, "concise", res.Style)
	assert.Contains(t, llmFake.prompt, "Interpret this: I feel stuck")
}

func TestInterpreterService_Interpret_ContextAndOverrides(t *testing.T) {
	llmFake := &fakeLLM{answer: "ok"}
	svc := NewInterpreterService(llmFake)

	res, err := svc.Interpret(context.Background(), &dto.InterpretRequest{
		Input:   "plan the week",
		Tone:    "direct",
		Style:   "bullet_points",
		Context: "work backlog",
	})

	require.NoError(t, err)
	assert.Equal(t, "direct", res.Tone)
	assert.Equal(t, "bullet_points", res.Style)
	assert.True(t, strings.HasPrefix(llmFake.prompt, "Context: work backlog"))
}
