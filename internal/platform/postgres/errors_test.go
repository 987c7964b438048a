package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/socrates-learning/socrates-api/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantIs  error
		keepErr bool
	}{
		{
			name: "nil passes through",
			err:  nil,
		},
		{
			name:   "no rows maps to not found",
			err:    fmt.Errorf("query failed: %w", sql.ErrNoRows),
			wantIs: store.ErrNotFound,
		},
		{
			name:   "unique violation maps to invalid entity",
			err:    &pgconn.PgError{Code: pgUniqueViolationCode, ConstraintName: "reading_stages_document_id_stage_index_key"},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "foreign key violation maps to invalid entity",
			err:    &pgconn.PgError{Code: pgForeignKeyViolationCode, ConstraintName: "documents_profile_id_fkey"},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:    "other postgres errors pass through",
			err:     &pgconn.PgError{Code: "57014"},
			keepErr: true,
		},
		{
			name:    "plain errors pass through",
			err:     errors.New("connection reset"),
			keepErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mapped := MapError(tt.err)
			switch {
			case tt.err == nil:
				assert.NoError(t, mapped)
			case tt.keepErr:
				assert.Equal(t, tt.err, mapped)
			default:
				assert.ErrorIs(t, mapped, tt.wantIs)
				assert.Contains(t, mapped.Error(), tt.err.Error(), "original error must stay in the chain")
			}
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	fkErr := fmt.Errorf("insert failed: %w", &pgconn.PgError{Code: pgForeignKeyViolationCode})
	assert.True(t, IsForeignKeyViolation(fkErr))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: pgUniqueViolationCode}))
	assert.False(t, IsForeignKeyViolation(errors.New("not a postgres error")))
	assert.False(t, IsForeignKeyViolation(nil))
}
