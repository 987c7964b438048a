package store

import (
	"context"
	"database/sql"

	"github.com/socrates-learning/socrates-api/internal/domain"
)

// StageStore defines the interface for reading-stage persistence.
//
// The stage set of a document is only ever written through
// ReplaceForDocument, which makes the worker's persistence step
// idempotent: re-running a job converges to the stage set of the most
// recent planning result.
type StageStore interface {
	// ReplaceForDocument atomically replaces the entire stage set of a
	// document: it deletes the cornell notes attached to the document's
	// current stages, deletes the stages, and inserts the new ordered
	// set. Callers must run it inside a transaction (WithTx) so a failed
	// insert cannot leave the document with a partially deleted set.
	ReplaceForDocument(ctx context.Context, documentID int64, stages []*domain.Stage) error

	// ListByDocument retrieves the stages of a document ordered by
	// stage index.
	ListByDocument(ctx context.Context, documentID int64) ([]*domain.Stage, error)

	// GetByID retrieves a stage by its unique ID.
	// Returns ErrStageNotFound if the stage does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Stage, error)

	// WithTx returns a StageStore bound to the provided transaction.
	WithTx(tx *sql.Tx) StageStore
}
