package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socrates-learning/socrates-api/internal/domain"
	"github.com/socrates-learning/socrates-api/internal/planning"
	"github.com/socrates-learning/socrates-api/internal/store"
)

type fakeProfileStore struct {
	profile *domain.Profile
	err     error
	calls   int
}

func (f *fakeProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	return errors.New("not implemented")
}

func (f *fakeProfileStore) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type fakeDocumentStore struct {
	doc *domain.Document
	err error
}

func (f *fakeDocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	return errors.New("not implemented")
}

func (f *fakeDocumentStore) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

func (f *fakeDocumentStore) ListByProfile(ctx context.Context, profileID int64) ([]*domain.Document, error) {
	return nil, errors.New("not implemented")
}

// fakeStageStore records every ReplaceForDocument call so tests can
// assert on what would have been written.
type fakeStageStore struct {
	replaceErr error
	replaced   [][]*domain.Stage
	documentID int64
}

func (f *fakeStageStore) ReplaceForDocument(ctx context.Context, documentID int64, stages []*domain.Stage) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.documentID = documentID
	f.replaced = append(f.replaced, stages)
	return nil
}

func (f *fakeStageStore) ListByDocument(ctx context.Context, documentID int64) ([]*domain.Stage, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStageStore) GetByID(ctx context.Context, id int64) (*domain.Stage, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStageStore) WithTx(tx *sql.Tx) store.StageStore {
	return f
}

type fakePlanner struct {
	stages []planning.PlannedStage
	err    error
	calls  int
}

func (f *fakePlanner) Plan(ctx context.Context, profile *domain.Profile, rawText string) ([]planning.PlannedStage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.stages, nil
}

func (f *fakePlanner) Explain(ctx context.Context, profile *domain.Profile, word, wordContext string) (*planning.WordExplanation, error) {
	return nil, errors.New("not implemented")
}

func plannedStages(n int) []planning.PlannedStage {
	stages := make([]planning.PlannedStage, 0, n)
	for i := 0; i < n; i++ {
		stages = append(stages, planning.PlannedStage{
			Title:       fmt.Sprintf("Part %d", i+1),
			Objective:   "Read closely",
			ExcerptText: fmt.Sprintf("excerpt %d", i+1),
			Vocabulary:  []domain.VocabItem{{Word: "word", Definition: "meaning"}},
		})
	}
	return stages
}

type processorFixture struct {
	processor *Processor
	profiles  *fakeProfileStore
	documents *fakeDocumentStore
	stages    *fakeStageStore
	planner   *fakePlanner
	txErr     error
}

func newProcessorFixture(t *testing.T) *processorFixture {
	t.Helper()

	f := &processorFixture{
		profiles: &fakeProfileStore{
			profile: &domain.Profile{ID: 7, Name: "Ana", Age: 34, NativeLanguage: "portugues"},
		},
		documents: &fakeDocumentStore{
			doc: &domain.Document{ID: 42, ProfileID: 7, Filename: "essay.txt", RawText: "some long text"},
		},
		stages:  &fakeStageStore{},
		planner: &fakePlanner{stages: plannedStages(4)},
	}

	f.processor = &Processor{
		profiles:  f.profiles,
		documents: f.documents,
		stages:    f.stages,
		planner:   f.planner,
		logger:    slog.Default(),
		runTx: func(ctx context.Context, db *sql.DB, fn store.TxFn) error {
			if f.txErr != nil {
				return f.txErr
			}
			return fn(ctx, nil)
		},
	}
	return f
}

const validJob = `{"user_id": 7, "document_id": 42}`

func TestProcessPersistsPlannedStages(t *testing.T) {
	t.Parallel()

	f := newProcessorFixture(t)

	outcome := f.processor.Process(context.Background(), []byte(validJob))
	require.Equal(t, OutcomeProcessed, outcome)

	require.Len(t, f.stages.replaced, 1)
	assert.Equal(t, int64(42), f.stages.documentID)

	written := f.stages.replaced[0]
	require.Len(t, written, 4)
	for i, stage := range written {
		assert.Equal(t, i+1, stage.StageIndex, "stage indexes must be contiguous from 1")
		assert.Equal(t, int64(42), stage.DocumentID)
		assert.Equal(t, fmt.Sprintf("Part %d", i+1), stage.Title)
	}
}

func TestProcessPersistsShortTextsThroughFallbackPlanner(t *testing.T) {
	t.Parallel()

	f := newProcessorFixture(t)
	f.documents.doc.RawText = "ab"
	f.processor.planner = planning.NewFallbackPlanner(nil)

	outcome := f.processor.Process(context.Background(), []byte(validJob))
	require.Equal(t, OutcomeProcessed, outcome)

	require.Len(t, f.stages.replaced, 1)
	written := f.stages.replaced[0]
	require.Len(t, written, 2)
	for i, stage := range written {
		assert.Equal(t, i+1, stage.StageIndex)
		assert.NotEmpty(t, stage.ExcerptText, "stage %d excerpt", i+1)
	}
}

func TestProcessIsIdempotentOnRedelivery(t *testing.T) {
	t.Parallel()

	f := newProcessorFixture(t)

	require.Equal(t, OutcomeProcessed, f.processor.Process(context.Background(), []byte(validJob)))
	require.Equal(t, OutcomeProcessed, f.processor.Process(context.Background(), []byte(validJob)))

	// Each run replaces the whole set, so a redelivered job converges
	// to one plan instead of accumulating stages.
	require.Len(t, f.stages.replaced, 2)
	assert.Equal(t, len(f.stages.replaced[0]), len(f.stages.replaced[1]))
	for i := range f.stages.replaced[0] {
		assert.Equal(t, f.stages.replaced[0][i].Title, f.stages.replaced[1][i].Title)
		assert.Equal(t, f.stages.replaced[0][i].StageIndex, f.stages.replaced[1][i].StageIndex)
	}
}

func TestProcessDropsMalformedJobs(t *testing.T) {
	t.Parallel()

	f := newProcessorFixture(t)

	tests := []string{
		`not json`,
		`{"user_id": "seven", "document_id": 42}`,
		`{"document_id": 42}`,
	}

	for _, body := range tests {
		outcome := f.processor.Process(context.Background(), []byte(body))
		assert.Equal(t, OutcomeMalformed, outcome, "body: %s", body)
	}

	assert.Zero(t, f.planner.calls, "malformed jobs must not reach the planner")
	assert.Empty(t, f.stages.replaced)
}

func TestProcessDropsDanglingReferences(t *testing.T) {
	t.Parallel()

	t.Run("missing profile", func(t *testing.T) {
		t.Parallel()

		f := newProcessorFixture(t)
		f.profiles.err = store.ErrProfileNotFound

		outcome := f.processor.Process(context.Background(), []byte(validJob))
		assert.Equal(t, OutcomeDangling, outcome)
		assert.Zero(t, f.planner.calls)
	})

	t.Run("missing document", func(t *testing.T) {
		t.Parallel()

		f := newProcessorFixture(t)
		f.documents.err = store.ErrDocumentNotFound

		outcome := f.processor.Process(context.Background(), []byte(validJob))
		assert.Equal(t, OutcomeDangling, outcome)
		assert.Zero(t, f.planner.calls)
	})

	t.Run("document owned by another profile", func(t *testing.T) {
		t.Parallel()

		f := newProcessorFixture(t)
		f.documents.doc.ProfileID = 99

		outcome := f.processor.Process(context.Background(), []byte(validJob))
		assert.Equal(t, OutcomeDangling, outcome)
		assert.Zero(t, f.planner.calls)
	})
}

func TestProcessLeavesStagesUntouchedWhenPlanningFails(t *testing.T) {
	t.Parallel()

	f := newProcessorFixture(t)
	f.planner.err = planning.ErrPlanningFailed

	outcome := f.processor.Process(context.Background(), []byte(validJob))
	assert.Equal(t, OutcomePlanningFailed, outcome)
	assert.Empty(t, f.stages.replaced, "a failed plan must not write stages")
}

func TestProcessReportsTransientFailures(t *testing.T) {
	t.Parallel()

	t.Run("profile lookup error", func(t *testing.T) {
		t.Parallel()

		f := newProcessorFixture(t)
		f.profiles.err = errors.New("connection reset")

		outcome := f.processor.Process(context.Background(), []byte(validJob))
		assert.Equal(t, OutcomePersistenceFailed, outcome)
	})

	t.Run("transaction failure", func(t *testing.T) {
		t.Parallel()

		f := newProcessorFixture(t)
		f.txErr = store.ErrTransactionFailed

		outcome := f.processor.Process(context.Background(), []byte(validJob))
		assert.Equal(t, OutcomePersistenceFailed, outcome)
		assert.Empty(t, f.stages.replaced)
	})
}
