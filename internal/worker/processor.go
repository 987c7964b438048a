package worker

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/socrates-learning/socrates-api/internal/domain"
	"github.com/socrates-learning/socrates-api/internal/planning"
	"github.com/socrates-learning/socrates-api/internal/platform/logger"
	"github.com/socrates-learning/socrates-api/internal/queue"
	"github.com/socrates-learning/socrates-api/internal/store"
)

// Outcome classifies how a job ended. Every outcome is terminal; the
// transport acknowledges the delivery regardless.
type Outcome string

const (
	// OutcomeProcessed means the document's stage set was replaced.
	OutcomeProcessed Outcome = "processed"

	// OutcomeMalformed means the message body could not be decoded into
	// a valid job. Dropped without side effects.
	OutcomeMalformed Outcome = "malformed"

	// OutcomeDangling means the referenced profile or document no
	// longer exists. Dropped without side effects.
	OutcomeDangling Outcome = "dangling_reference"

	// OutcomePlanningFailed means the planning capability failed.
	// No stages were written; any earlier plan survives untouched.
	OutcomePlanningFailed Outcome = "planning_failed"

	// OutcomePersistenceFailed means resolution or the stage write
	// failed. The transaction left the previous stage set intact.
	OutcomePersistenceFailed Outcome = "persistence_failed"
)

// Processor executes reading-plan jobs against the stores and the
// planning capability. It is safe for concurrent use, though the queue
// consumer dispatches one job at a time.
type Processor struct {
	db        *sql.DB
	profiles  store.ProfileStore
	documents store.DocumentStore
	stages    store.StageStore
	planner   planning.Planner
	logger    *slog.Logger

	// runTx is store.RunInTransaction, replaceable in tests.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewProcessor builds a job processor.
func NewProcessor(
	db *sql.DB,
	profiles store.ProfileStore,
	documents store.DocumentStore,
	stages store.StageStore,
	planner planning.Planner,
	log *slog.Logger,
) (*Processor, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if profiles == nil {
		return nil, errors.New("profile store cannot be nil")
	}
	if documents == nil {
		return nil, errors.New("document store cannot be nil")
	}
	if stages == nil {
		return nil, errors.New("stage store cannot be nil")
	}
	if planner == nil {
		return nil, errors.New("planner cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Processor{
		db:        db,
		profiles:  profiles,
		documents: documents,
		stages:    stages,
		planner:   planner,
		logger:    log.With(slog.String("component", "worker")),
		runTx:     store.RunInTransaction,
	}, nil
}

// Handler adapts the processor to the queue consumer's callback shape.
func (p *Processor) Handler() queue.Handler {
	return func(ctx context.Context, body []byte) {
		p.Process(ctx, body)
	}
}

// Process runs one job to a terminal outcome. It never returns an
// error: every failure mode is classified, logged, and swallowed so the
// caller can acknowledge the delivery unconditionally.
func (p *Processor) Process(ctx context.Context, body []byte) Outcome {
	jobLog := p.logger.With(slog.String("job_id", uuid.New().String()))
	ctx = logger.WithLogger(ctx, jobLog)

	msg, err := queue.DecodeMessage(body)
	if err != nil {
		jobLog.Warn("dropping malformed job",
			slog.String("error", err.Error()))
		return OutcomeMalformed
	}

	jobLog = jobLog.With(
		slog.Int64("profile_id", msg.ProfileID),
		slog.Int64("document_id", msg.DocumentID))

	profile, doc, outcome := p.resolve(ctx, jobLog, msg)
	if outcome != OutcomeProcessed {
		return outcome
	}

	planned, err := p.planner.Plan(ctx, profile, doc.RawText)
	if err != nil {
		jobLog.Error("planning failed, dropping job",
			slog.String("error", err.Error()))
		return OutcomePlanningFailed
	}

	stages, err := buildStages(doc.ID, planned)
	if err != nil {
		jobLog.Error("planning result failed validation, dropping job",
			slog.String("error", err.Error()))
		return OutcomePlanningFailed
	}

	err = p.runTx(ctx, p.db, func(ctx context.Context, tx *sql.Tx) error {
		return p.stages.WithTx(tx).ReplaceForDocument(ctx, doc.ID, stages)
	})
	if err != nil {
		jobLog.Error("failed to persist stages, dropping job",
			slog.String("error", err.Error()))
		return OutcomePersistenceFailed
	}

	jobLog.Info("reading plan persisted",
		slog.Int("stage_count", len(stages)))
	return OutcomeProcessed
}

// resolve loads the job's profile and document. A missing entity is a
// dangling reference, typically a job outliving a deleted row.
func (p *Processor) resolve(
	ctx context.Context,
	jobLog *slog.Logger,
	msg queue.Message,
) (*domain.Profile, *domain.Document, Outcome) {
	profile, err := p.profiles.GetByID(ctx, msg.ProfileID)
	if err != nil {
		if store.IsNotFoundError(err) {
			jobLog.Warn("dropping job for missing profile")
			return nil, nil, OutcomeDangling
		}
		jobLog.Error("failed to load profile",
			slog.String("error", err.Error()))
		return nil, nil, OutcomePersistenceFailed
	}

	doc, err := p.documents.GetByID(ctx, msg.DocumentID)
	if err != nil {
		if store.IsNotFoundError(err) {
			jobLog.Warn("dropping job for missing document")
			return nil, nil, OutcomeDangling
		}
		jobLog.Error("failed to load document",
			slog.String("error", err.Error()))
		return nil, nil, OutcomePersistenceFailed
	}

	if doc.ProfileID != msg.ProfileID {
		jobLog.Warn("dropping job, document belongs to another profile")
		return nil, nil, OutcomeDangling
	}

	return profile, doc, OutcomeProcessed
}

// buildStages converts a planning result into domain stages with
// contiguous indexes starting at 1.
func buildStages(documentID int64, planned []planning.PlannedStage) ([]*domain.Stage, error) {
	stages := make([]*domain.Stage, 0, len(planned))
	for i, ps := range planned {
		stage, err := domain.NewStage(documentID, i+1, ps.Title, ps.Objective, ps.ExcerptText, ps.Vocabulary)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return stages, nil
}
