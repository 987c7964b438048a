package planning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/socrates-learning/socrates-api/internal/domain"
)

// responseBodyLimit caps how much of a planner response is read into
// memory. Well-formed responses are far below it.
const responseBodyLimit = 4 << 20

// wireProfile is the profile representation of the planner wire
// contract. The field names are fixed by the capability and differ from
// the domain model's.
type wireProfile struct {
	Nome            string `json:"nome"`
	Idade           int    `json:"idade"`
	GrauDeInstrucao string `json:"grau_de_instrucao"`
	Profissao       string `json:"profissao"`
	Nacionalidade   string `json:"nacionalidade"`
	LinguaNativa    string `json:"lingua_nativa"`
}

// planRequest is the body of POST /plan-reading.
type planRequest struct {
	Profile wireProfile `json:"profile"`
	RawText string      `json:"raw_text"`
}

// wireVocabItem mirrors domain.VocabItem on the wire.
type wireVocabItem struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

// wireStage is one stage of a /plan-reading response.
type wireStage struct {
	Title          string          `json:"title"`
	Objective      string          `json:"objective"`
	StageText      string          `json:"stage_text"`
	SuggestedVocab []wireVocabItem `json:"suggested_vocab"`
}

// planResponse is the body of a /plan-reading response.
type planResponse struct {
	Stages []wireStage `json:"stages"`
}

// explainRequest is the body of POST /explain-word.
type explainRequest struct {
	Profile wireProfile `json:"profile"`
	Word    string      `json:"word"`
	Context string      `json:"context"`
}

// HTTPPlanner is the live Planner implementation: a synchronous
// request/response client to the planner service.
type HTTPPlanner struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	schema     *jsonschema.Schema
	logger     *slog.Logger
}

// Ensure HTTPPlanner implements the Planner interface
var _ Planner = (*HTTPPlanner)(nil)

// NewHTTPPlanner creates a Planner backed by the planner service at
// baseURL. apiKey is sent as a bearer credential when non-empty.
// If httpClient is nil, http.DefaultClient is used; note that the
// default client has no timeout, matching the contract that the core
// does not bound planning call duration.
// If logger is nil, a default logger will be used.
func NewHTTPPlanner(baseURL, apiKey string, httpClient *http.Client, logger *slog.Logger) (*HTTPPlanner, error) {
	if baseURL == "" {
		return nil, errors.New("planner base URL cannot be empty")
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if logger == nil {
		logger = slog.Default()
	}

	schema, err := compilePlanResponseSchema()
	if err != nil {
		return nil, err
	}

	return &HTTPPlanner{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		schema:     schema,
		logger:     logger.With(slog.String("component", "planning_client")),
	}, nil
}

// Plan implements Planner.Plan against POST {base}/plan-reading.
// The input text is truncated to MaxPlanTextChars before sending.
func (p *HTTPPlanner) Plan(
	ctx context.Context,
	profile *domain.Profile,
	rawText string,
) ([]PlannedStage, error) {
	reqBody := planRequest{
		Profile: toWireProfile(profile),
		RawText: truncateForPlan(rawText),
	}

	body, err := p.post(ctx, "/plan-reading", reqBody)
	if err != nil {
		return nil, err
	}

	if err := validatePlanResponse(p.schema, body); err != nil {
		p.logger.Error("plan response failed schema validation",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrPlanningFailed, err)
	}

	var resp planResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode plan response: %v", ErrPlanningFailed, err)
	}

	stages := make([]PlannedStage, 0, len(resp.Stages))
	for _, ws := range resp.Stages {
		vocab := make([]domain.VocabItem, 0, len(ws.SuggestedVocab))
		for _, v := range ws.SuggestedVocab {
			vocab = append(vocab, domain.VocabItem{Word: v.Word, Definition: v.Definition})
		}
		stages = append(stages, PlannedStage{
			Title:       ws.Title,
			Objective:   ws.Objective,
			ExcerptText: ws.StageText,
			Vocabulary:  vocab,
		})
	}

	p.logger.Debug("plan received from capability",
		slog.Int("stage_count", len(stages)))
	return stages, nil
}

// Explain implements Planner.Explain against POST {base}/explain-word.
func (p *HTTPPlanner) Explain(
	ctx context.Context,
	profile *domain.Profile,
	word, wordContext string,
) (*WordExplanation, error) {
	reqBody := explainRequest{
		Profile: toWireProfile(profile),
		Word:    word,
		Context: wordContext,
	}

	body, err := p.post(ctx, "/explain-word", reqBody)
	if err != nil {
		return nil, err
	}

	var explanation WordExplanation
	if err := json.Unmarshal(body, &explanation); err != nil {
		return nil, fmt.Errorf("%w: failed to decode explanation: %v", ErrPlanningFailed, err)
	}

	if explanation.Definition == "" {
		return nil, fmt.Errorf("%w: explanation has no definition", ErrPlanningFailed)
	}

	return &explanation, nil
}

// post sends one JSON request and returns the raw response body.
// Every failure mode maps to ErrPlanningFailed.
func (p *HTTPPlanner) post(ctx context.Context, path string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrPlanningFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", ErrPlanningFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Error("planner request failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrPlanningFailed, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			p.logger.Warn("failed to close planner response body",
				slog.String("error", closeErr.Error()))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrPlanningFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		p.logger.Error("planner returned non-OK status",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: capability returned status %d", ErrPlanningFailed, resp.StatusCode)
	}

	return body, nil
}

// toWireProfile maps the domain profile onto the capability's field names.
func toWireProfile(profile *domain.Profile) wireProfile {
	return wireProfile{
		Nome:            profile.Name,
		Idade:           profile.Age,
		GrauDeInstrucao: profile.EducationLevel,
		Profissao:       profile.Profession,
		Nacionalidade:   profile.Nationality,
		LinguaNativa:    profile.NativeLanguage,
	}
}
