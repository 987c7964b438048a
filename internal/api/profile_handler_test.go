package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socrates-learning/socrates-api/internal/domain"
)

func TestCreateProfile(t *testing.T) {
	t.Parallel()

	t.Run("creates and returns the profile", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t)
		body := `{
			"name": "Ana", "age": 34, "education_level": "superior",
			"profession": "engenheira", "nationality": "brasileira",
			"native_language": "portugues"
		}`

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/profiles", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, w.Code)

		var profile domain.Profile
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
		assert.NotZero(t, profile.ID)
		assert.Equal(t, "Ana", profile.Name)
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t)

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/profiles", strings.NewReader(`{"name": "Ana"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t)

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/profiles", strings.NewReader(`{`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetProfile(t *testing.T) {
	t.Parallel()

	t.Run("returns the stored profile", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t)
		f.seedProfile(t)

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/profiles/1", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var profile domain.Profile
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
		assert.Equal(t, "Ana", profile.Name)
	})

	t.Run("404 for unknown profile", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t)

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/profiles/99", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("400 for non-numeric ID", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t)

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/profiles/abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
