package shared_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/socrates-learning/socrates-api/internal/api/shared"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	t.Run("absent by default", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, shared.GetTraceID(context.Background()))
	})

	t.Run("set and retrieved", func(t *testing.T) {
		t.Parallel()

		ctx := shared.SetTraceID(context.Background())
		assert.NotEmpty(t, shared.GetTraceID(ctx))
	})

	t.Run("unique per request", func(t *testing.T) {
		t.Parallel()

		first := shared.GetTraceID(shared.SetTraceID(context.Background()))
		second := shared.GetTraceID(shared.SetTraceID(context.Background()))
		assert.NotEqual(t, first, second)
	})
}
