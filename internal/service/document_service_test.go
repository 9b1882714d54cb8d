package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-qa-be/internal/dto"
	"doc-qa-be/internal/entity"
	"doc-qa-be/internal/pkg/apperror"
	"doc-qa-be/pkg/chunker"
)

type fakePublisher struct {
	published [][]byte
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, payload)
	return nil
}

func newDocumentService(t *testing.T, uow *fakeUnitOfWork, embedder *fakeEmbedder, publisher *fakePublisher) IDocumentService {
	t.Helper()
	splitter, err := chunker.NewSplitter(500, 100)
	require.NoError(t, err)
	return NewDocumentService(&fakeFactory{uow: uow}, embedder, publisher, splitter, t.TempDir(), noopLogger{})
}

func TestDocumentService_Upload_PlainText(t *testing.T) {
	uow := newFakeUow()
	svc := newDocumentService(t, uow, &fakeEmbedder{vector: []float32{0.1, 0.2}}, &fakePublisher{})

	content := []byte(strings.Repeat("hello world. ", 50))
	res, err := svc.Upload(context.Background(), "notes.txt", content)

	require.NoError(t, err)
	assert.Equal(t, "notes.txt", res.Filename)
	assert.Equal(t, 2, res.ChunksCreated)
	assert.Len(t, uow.docs.documents, 1)
}

func TestDocumentService_Upload_UnsupportedExtension(t *testing.T) {
	svc := newDocumentService(t, newFakeUow(), &fakeEmbedder{}, &fakePublisher{})

	_, err := svc.Upload(context.Background(), "image.png", []byte("data"))

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
}

func TestDocumentService_Upload_EmptyContent(t *testing.T) {
	svc := newDocumentService(t, newFakeUow(), &fakeEmbedder{}, &fakePublisher{})

	_, err := svc.Upload(context.Background(), "empty.txt", []byte("   \n  "))

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
}

func TestDocumentService_Upload_EmbeddingFailure(t *testing.T) {
	uow := newFakeUow()
	svc := newDocumentService(t, uow, &fakeEmbedder{err: errors.New("quota exceeded")}, &fakePublisher{})

	_, err := svc.Upload(context.Background(), "notes.txt", []byte("some content"))

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindUpstream, appErr.Kind)
	assert.Empty(t, uow.docs.documents)
}

func TestDocumentService_Delete_PublishesCleanup(t *testing.T) {
	uow := newFakeUow()
	docId := uuid.New()
	uow.docs.documents[docId] = &entity.Document{Id: docId, Filename: "a.txt"}
	publisher := &fakePublisher{}

	svc := newDocumentService(t, uow, &fakeEmbedder{}, publisher)

	require.NoError(t, svc.Delete(context.Background(), docId))

	require.Len(t, publisher.published, 1)
	var msg dto.DocumentCleanupMessage
	require.NoError(t, json.Unmarshal(publisher.published[0], &msg))
	assert.Equal(t, docId, msg.DocumentId)
}

func TestDocumentService_Delete_SecondCallNotFound(t *testing.T) {
	uow := newFakeUow()
	docId := uuid.New()
	uow.docs.documents[docId] = &entity.Document{Id: docId, Filename: "a.txt"}

	svc := newDocumentService(t, uow, &fakeEmbedder{}, &fakePublisher{})

	require.NoError(t, svc.Delete(context.Background(), docId))

	err := svc.Delete(context.Background(), docId)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}
