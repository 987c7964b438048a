package service_test

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socrates-learning/socrates-api/internal/domain"
	"github.com/socrates-learning/socrates-api/internal/extract"
	"github.com/socrates-learning/socrates-api/internal/queue"
	"github.com/socrates-learning/socrates-api/internal/service"
	"github.com/socrates-learning/socrates-api/internal/store"
)

type stubProfileStore struct {
	profile *domain.Profile
	err     error
}

func (s *stubProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	profile.ID = 7
	return s.err
}

func (s *stubProfileStore) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

type stubDocumentStore struct {
	created []*domain.Document
	docs    map[int64]*domain.Document
	err     error
}

func (s *stubDocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	if s.err != nil {
		return s.err
	}
	doc.ID = int64(len(s.created) + 1)
	s.created = append(s.created, doc)
	return nil
}

func (s *stubDocumentStore) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, store.ErrDocumentNotFound
	}
	return doc, nil
}

func (s *stubDocumentStore) ListByProfile(ctx context.Context, profileID int64) ([]*domain.Document, error) {
	return s.created, nil
}

type stubStageStore struct {
	stages []*domain.Stage
	byID   map[int64]*domain.Stage
}

func (s *stubStageStore) ReplaceForDocument(ctx context.Context, documentID int64, stages []*domain.Stage) error {
	return errors.New("not implemented")
}

func (s *stubStageStore) ListByDocument(ctx context.Context, documentID int64) ([]*domain.Stage, error) {
	return s.stages, nil
}

func (s *stubStageStore) GetByID(ctx context.Context, id int64) (*domain.Stage, error) {
	stage, ok := s.byID[id]
	if !ok {
		return nil, store.ErrStageNotFound
	}
	return stage, nil
}

func (s *stubStageStore) WithTx(tx *sql.Tx) store.StageStore { return s }

type stubNoteStore struct {
	notes []*domain.CornellNote
}

func (s *stubNoteStore) Upsert(ctx context.Context, note *domain.CornellNote) (*domain.CornellNote, error) {
	return note, nil
}

func (s *stubNoteStore) GetByStage(ctx context.Context, stageID int64) (*domain.CornellNote, error) {
	return nil, store.ErrNoteNotFound
}

func (s *stubNoteStore) ListByDocument(ctx context.Context, documentID int64) ([]*domain.CornellNote, error) {
	return s.notes, nil
}

// stubPublisher records published jobs and optionally fails.
type stubPublisher struct {
	published []queue.Message
	err       error
}

func (s *stubPublisher) Publish(ctx context.Context, msg queue.Message) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, msg)
	return nil
}

func (s *stubPublisher) Close() error { return nil }

type documentFixture struct {
	svc       *service.DocumentService
	profiles  *stubProfileStore
	documents *stubDocumentStore
	stages    *stubStageStore
	notes     *stubNoteStore
	publisher *stubPublisher
}

func newDocumentFixture(t *testing.T) *documentFixture {
	t.Helper()

	f := &documentFixture{
		profiles:  &stubProfileStore{profile: &domain.Profile{ID: 7, Name: "Ana", Age: 34, NativeLanguage: "portugues"}},
		documents: &stubDocumentStore{docs: map[int64]*domain.Document{}},
		stages:    &stubStageStore{},
		notes:     &stubNoteStore{},
		publisher: &stubPublisher{},
	}

	svc, err := service.NewDocumentService(
		f.profiles, f.documents, f.stages, f.notes,
		extract.NewTextExtractor(), f.publisher, slog.Default())
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestDocumentUploadEnqueuesOneJob(t *testing.T) {
	t.Parallel()

	f := newDocumentFixture(t)

	doc, err := f.svc.Upload(context.Background(), 7, "essay.txt", "text/plain", []byte("a long essay"))
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "a long essay", doc.RawText)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, queue.Message{ProfileID: 7, DocumentID: doc.ID}, f.publisher.published[0])
}

func TestDocumentUploadSucceedsWhenPublishFails(t *testing.T) {
	t.Parallel()

	f := newDocumentFixture(t)
	f.publisher.err = errors.New("broker unreachable")

	doc, err := f.svc.Upload(context.Background(), 7, "essay.txt", "text/plain", []byte("a long essay"))
	require.NoError(t, err, "a broker outage must not discard the upload")
	require.NotNil(t, doc)

	require.Len(t, f.documents.created, 1, "document must be persisted despite the publish failure")
	assert.Empty(t, f.publisher.published)
}

func TestDocumentUploadValidation(t *testing.T) {
	t.Parallel()

	t.Run("unknown profile", func(t *testing.T) {
		t.Parallel()

		f := newDocumentFixture(t)
		f.profiles.err = store.ErrProfileNotFound

		_, err := f.svc.Upload(context.Background(), 99, "essay.txt", "text/plain", []byte("text"))
		assert.ErrorIs(t, err, store.ErrProfileNotFound)
		assert.Empty(t, f.publisher.published, "no job without a document")
	})

	t.Run("unsupported content type", func(t *testing.T) {
		t.Parallel()

		f := newDocumentFixture(t)

		_, err := f.svc.Upload(context.Background(), 7, "scan.pdf", "application/pdf", []byte("%PDF"))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.Empty(t, f.documents.created)
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()

		f := newDocumentFixture(t)

		_, err := f.svc.Upload(context.Background(), 7, "empty.txt", "text/plain", nil)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestDocumentSummaryJoinsStagesAndNotes(t *testing.T) {
	t.Parallel()

	f := newDocumentFixture(t)
	f.documents.docs[42] = &domain.Document{ID: 42, ProfileID: 7, Filename: "essay.txt"}
	f.stages.stages = []*domain.Stage{
		{ID: 1, DocumentID: 42, StageIndex: 1, Title: "Part 1", ExcerptText: "a"},
		{ID: 2, DocumentID: 42, StageIndex: 2, Title: "Part 2", ExcerptText: "b"},
	}
	f.notes.notes = []*domain.CornellNote{{ID: 9, StageID: 2, Summary: "notes on part 2"}}

	summary, err := f.svc.Summary(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, summary.Stages, 2)
	assert.Nil(t, summary.Stages[0].Note, "stage without a note stays bare")
	require.NotNil(t, summary.Stages[1].Note)
	assert.Equal(t, int64(9), summary.Stages[1].Note.ID)
}
