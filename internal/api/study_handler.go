package api

import (
	"log/slog"
	"net/http"

	"github.com/socrates-learning/socrates-api/internal/api/shared"
	"github.com/socrates-learning/socrates-api/internal/domain"
	"github.com/socrates-learning/socrates-api/internal/service"
)

// StudyHandler serves the annotation endpoints: cornell notes,
// unknown words, and the word-explanation proxy.
type StudyHandler struct {
	studyService *service.StudyService
	logger       *slog.Logger
}

// NewStudyHandler creates a study handler.
func NewStudyHandler(studyService *service.StudyService, logger *slog.Logger) *StudyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "study_handler")),
	}
}

// UpsertNote handles POST /api/stages/{id}/cornell. A second post for
// the same stage replaces the note.
func (h *StudyHandler) UpsertNote(w http.ResponseWriter, r *http.Request) {
	stageID, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid stage ID")
		return
	}

	var req CornellNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := domain.NewCornellNote(
		stageID,
		req.Cues, req.Notes, req.Summary,
		req.CueMarkers, req.NoteMarkers, req.Highlights)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := h.studyService.UpsertNote(r.Context(), note)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stored)
}

// GetNote handles GET /api/stages/{id}/cornell.
func (h *StudyHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	stageID, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid stage ID")
		return
	}

	note, err := h.studyService.GetNote(r.Context(), stageID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, note)
}

// FlagWord handles POST /api/stages/{id}/unknown-words.
func (h *StudyHandler) FlagWord(w http.ResponseWriter, r *http.Request) {
	stageID, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid stage ID")
		return
	}

	var req UnknownWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	word, err := domain.NewUnknownWord(req.ProfileID, nil, &stageID, req.Word, req.ContextSentence)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := h.studyService.FlagWord(r.Context(), word)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, stored)
}

// ListWords handles GET /api/profiles/{id}/unknown-words.
func (h *StudyHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid profile ID")
		return
	}

	words, err := h.studyService.ListWords(r.Context(), profileID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, words)
}

// ExplainWord handles POST /api/words/explain, proxying to the planning
// capability.
func (h *StudyHandler) ExplainWord(w http.ResponseWriter, r *http.Request) {
	var req ExplainWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	explanation, err := h.studyService.ExplainWord(r.Context(), req.ProfileID, req.Word, req.Context)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, explanation)
}
