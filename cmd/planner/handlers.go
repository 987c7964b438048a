package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/socrates-learning/socrates-api/internal/api/shared"
	"github.com/socrates-learning/socrates-api/internal/platform/logger"
)

// The wire types below are the planner capability's contract; the
// profile field names come from the learner-facing product and are
// fixed.
type profilePayload struct {
	Nome            string `json:"nome"`
	Idade           int    `json:"idade"`
	GrauDeInstrucao string `json:"grau_de_instrucao"`
	Profissao       string `json:"profissao"`
	Nacionalidade   string `json:"nacionalidade"`
	LinguaNativa    string `json:"lingua_nativa"`
}

type planReadingRequest struct {
	Profile profilePayload `json:"profile"`
	RawText string         `json:"raw_text" validate:"required"`
}

type vocabItemPayload struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

type stagePayload struct {
	Title          string             `json:"title"`
	Objective      string             `json:"objective"`
	StageText      string             `json:"stage_text"`
	SuggestedVocab []vocabItemPayload `json:"suggested_vocab"`
}

type planReadingResponse struct {
	Stages []stagePayload `json:"stages"`
}

type explainWordRequest struct {
	Profile profilePayload `json:"profile"`
	Word    string         `json:"word" validate:"required"`
	Context string         `json:"context"`
}

type explainWordResponse struct {
	Definition string   `json:"definition"`
	Example    string   `json:"example"`
	Synonyms   []string `json:"synonyms"`
}

// planHandler exposes the planning capability over HTTP.
type planHandler struct {
	gen    generator
	logger *slog.Logger
}

func newPlanHandler(gen generator, log *slog.Logger) *planHandler {
	return &planHandler{
		gen:    gen,
		logger: log.With(slog.String("component", "plan_handler")),
	}
}

// Health handles GET /health.
func (h *planHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// PlanReading handles POST /plan-reading: render the staged-reading
// prompt for the profile and text, call the model, and relay the
// decoded stage list.
func (h *planHandler) PlanReading(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req planReadingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	prompt, err := renderPlanPrompt(planPromptData{
		Name:           req.Profile.Nome,
		Age:            req.Profile.Idade,
		Education:      req.Profile.GrauDeInstrucao,
		Profession:     req.Profile.Profissao,
		Nationality:    req.Profile.Nacionalidade,
		NativeLanguage: req.Profile.LinguaNativa,
		Text:           req.RawText,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"failed to prepare planning request", err)
		return
	}

	var resp planReadingResponse
	if err := h.gen.GenerateJSON(r.Context(), prompt, &resp); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"failed to generate reading plan", err)
		return
	}

	if err := validateStages(resp.Stages); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"model produced an unusable reading plan", err)
		return
	}

	log.Info("reading plan generated",
		slog.Int("stage_count", len(resp.Stages)),
		slog.Int("text_length", len(req.RawText)))
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// ExplainWord handles POST /explain-word.
func (h *planHandler) ExplainWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req explainWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	prompt, err := renderExplainPrompt(explainPromptData{
		Word:           req.Word,
		Context:        req.Context,
		Education:      req.Profile.GrauDeInstrucao,
		NativeLanguage: req.Profile.LinguaNativa,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"failed to prepare explanation request", err)
		return
	}

	var resp explainWordResponse
	if err := h.gen.GenerateJSON(r.Context(), prompt, &resp); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"failed to explain word", err)
		return
	}

	if strings.TrimSpace(resp.Definition) == "" {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"model produced no definition", fmt.Errorf("empty definition for %q", req.Word))
		return
	}
	if resp.Synonyms == nil {
		resp.Synonyms = []string{}
	}

	log.Info("word explained", slog.String("word", req.Word))
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// validateStages rejects model output that the consuming side would
// refuse anyway, so bad plans fail here with a clear log line.
func validateStages(stages []stagePayload) error {
	if len(stages) < 3 || len(stages) > 7 {
		return fmt.Errorf("expected 3 to 7 stages, got %d", len(stages))
	}
	for i, s := range stages {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("stage %d has no title", i+1)
		}
		if strings.TrimSpace(s.StageText) == "" {
			return fmt.Errorf("stage %d has no text", i+1)
		}
	}
	return nil
}
