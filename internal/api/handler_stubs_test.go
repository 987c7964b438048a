package api_test

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/socrates-learning/socrates-api/internal/api"
	"github.com/socrates-learning/socrates-api/internal/domain"
	"github.com/socrates-learning/socrates-api/internal/extract"
	"github.com/socrates-learning/socrates-api/internal/planning"
	"github.com/socrates-learning/socrates-api/internal/queue"
	"github.com/socrates-learning/socrates-api/internal/service"
	"github.com/socrates-learning/socrates-api/internal/store"
)

type memProfileStore struct {
	profiles map[int64]*domain.Profile
	nextID   int64
}

func (s *memProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	s.nextID++
	profile.ID = s.nextID
	s.profiles[profile.ID] = profile
	return nil
}

func (s *memProfileStore) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return profile, nil
}

type memDocumentStore struct {
	docs   map[int64]*domain.Document
	nextID int64
}

func (s *memDocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	s.nextID++
	doc.ID = s.nextID
	s.docs[doc.ID] = doc
	return nil
}

func (s *memDocumentStore) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, store.ErrDocumentNotFound
	}
	return doc, nil
}

func (s *memDocumentStore) ListByProfile(ctx context.Context, profileID int64) ([]*domain.Document, error) {
	docs := []*domain.Document{}
	for _, doc := range s.docs {
		if doc.ProfileID == profileID {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

type memStageStore struct {
	stages map[int64]*domain.Stage
}

func (s *memStageStore) ReplaceForDocument(ctx context.Context, documentID int64, stages []*domain.Stage) error {
	return errors.New("not implemented")
}

func (s *memStageStore) ListByDocument(ctx context.Context, documentID int64) ([]*domain.Stage, error) {
	stages := []*domain.Stage{}
	for _, stage := range s.stages {
		if stage.DocumentID == documentID {
			stages = append(stages, stage)
		}
	}
	return stages, nil
}

func (s *memStageStore) GetByID(ctx context.Context, id int64) (*domain.Stage, error) {
	stage, ok := s.stages[id]
	if !ok {
		return nil, store.ErrStageNotFound
	}
	return stage, nil
}

func (s *memStageStore) WithTx(tx *sql.Tx) store.StageStore { return s }

type memNoteStore struct {
	notes  map[int64]*domain.CornellNote
	nextID int64
}

func (s *memNoteStore) Upsert(ctx context.Context, note *domain.CornellNote) (*domain.CornellNote, error) {
	stored := *note
	if existing, ok := s.notes[note.StageID]; ok {
		stored.ID = existing.ID
	} else {
		s.nextID++
		stored.ID = s.nextID
	}
	s.notes[note.StageID] = &stored
	return &stored, nil
}

func (s *memNoteStore) GetByStage(ctx context.Context, stageID int64) (*domain.CornellNote, error) {
	note, ok := s.notes[stageID]
	if !ok {
		return nil, store.ErrNoteNotFound
	}
	return note, nil
}

func (s *memNoteStore) ListByDocument(ctx context.Context, documentID int64) ([]*domain.CornellNote, error) {
	notes := []*domain.CornellNote{}
	for _, note := range s.notes {
		notes = append(notes, note)
	}
	return notes, nil
}

type memWordStore struct {
	words  []*domain.UnknownWord
	nextID int64
}

func (s *memWordStore) Create(ctx context.Context, word *domain.UnknownWord) error {
	s.nextID++
	word.ID = s.nextID
	s.words = append(s.words, word)
	return nil
}

func (s *memWordStore) ListByProfile(ctx context.Context, profileID int64) ([]*domain.UnknownWord, error) {
	return s.words, nil
}

type recordingPublisher struct {
	published []queue.Message
	err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, msg queue.Message) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixedPlanner struct {
	explanation *planning.WordExplanation
	err         error
}

func (p *fixedPlanner) Plan(ctx context.Context, profile *domain.Profile, rawText string) ([]planning.PlannedStage, error) {
	return nil, errors.New("not implemented")
}

func (p *fixedPlanner) Explain(ctx context.Context, profile *domain.Profile, word, wordContext string) (*planning.WordExplanation, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.explanation, nil
}

// apiFixture wires in-memory stores through the real services into a
// routed set of handlers.
type apiFixture struct {
	router    chi.Router
	profiles  *memProfileStore
	documents *memDocumentStore
	stages    *memStageStore
	notes     *memNoteStore
	words     *memWordStore
	publisher *recordingPublisher
	planner   *fixedPlanner
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	f := &apiFixture{
		profiles:  &memProfileStore{profiles: map[int64]*domain.Profile{}},
		documents: &memDocumentStore{docs: map[int64]*domain.Document{}},
		stages:    &memStageStore{stages: map[int64]*domain.Stage{}},
		notes:     &memNoteStore{notes: map[int64]*domain.CornellNote{}},
		words:     &memWordStore{},
		publisher: &recordingPublisher{},
		planner:   &fixedPlanner{explanation: &planning.WordExplanation{Definition: "duradouro"}},
	}

	log := slog.Default()

	profileService, err := service.NewProfileService(f.profiles, log)
	require.NoError(t, err)
	documentService, err := service.NewDocumentService(
		f.profiles, f.documents, f.stages, f.notes,
		extract.NewTextExtractor(), f.publisher, log)
	require.NoError(t, err)
	studyService, err := service.NewStudyService(
		f.profiles, f.stages, f.notes, f.words, f.planner, log)
	require.NoError(t, err)

	profileHandler := api.NewProfileHandler(profileService, log)
	documentHandler := api.NewDocumentHandler(documentService, log)
	studyHandler := api.NewStudyHandler(studyService, log)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/profiles", profileHandler.Create)
		r.Get("/profiles/{id}", profileHandler.Get)
		r.Post("/profiles/{id}/documents", documentHandler.Upload)
		r.Get("/profiles/{id}/documents", documentHandler.List)
		r.Get("/profiles/{id}/unknown-words", studyHandler.ListWords)
		r.Get("/documents/{id}", documentHandler.Get)
		r.Get("/documents/{id}/stages", documentHandler.Stages)
		r.Get("/documents/{id}/summary", documentHandler.Summary)
		r.Post("/stages/{id}/cornell", studyHandler.UpsertNote)
		r.Get("/stages/{id}/cornell", studyHandler.GetNote)
		r.Post("/stages/{id}/unknown-words", studyHandler.FlagWord)
		r.Post("/words/explain", studyHandler.ExplainWord)
	})
	f.router = r

	return f
}

// seedProfile stores a profile directly and returns its ID.
func (f *apiFixture) seedProfile(t *testing.T) int64 {
	t.Helper()

	profile, err := domain.NewProfile("Ana", 34, "superior", "", "engenheira", "brasileira", "portugues")
	require.NoError(t, err)
	require.NoError(t, f.profiles.Create(context.Background(), profile))
	return profile.ID
}
