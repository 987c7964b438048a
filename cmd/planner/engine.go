package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"google.golang.org/genai"

	"github.com/socrates-learning/socrates-api/internal/planning"
)

// planPromptTemplate instructs the model to act as a teacher dividing a
// text into Cornell Method reading stages, calibrated to the learner.
var planPromptTemplate = template.Must(template.New("plan").Parse(`You are an expert teacher helping a student understand a text.

Student profile:
- Name: {{.Name}}
- Age: {{.Age}}
- Education: {{.Education}}
- Profession: {{.Profession}}
- Nationality: {{.Nationality}}
- Native language: {{.NativeLanguage}}

Analyze the following text and divide it into 3 to 7 logical reading stages using the Cornell Method. For each stage provide:
- "title": a short title for the stage
- "objective": what the student should learn, adapted to their level
- "stage_text": the exact excerpt of the original text covered by the stage
- "suggested_vocab": 5 to 15 words from the excerpt the student may not know, each with a short definition in {{.NativeLanguage}}

Return the result as a JSON object with the key "stages".

Text:
{{.Text}}`))

// explainPromptTemplate asks for a single-word explanation tailored to
// the learner's native language and education level.
var explainPromptTemplate = template.Must(template.New("explain").Parse(`Explain the word "{{.Word}}" to a student.

Student profile:
- Education: {{.Education}}
- Native language: {{.NativeLanguage}}
{{if .Context}}
The word appeared in this sentence: "{{.Context}}"
{{end}}
Provide the definition in {{.NativeLanguage}}, adapted to the student's level.

Return the result as a JSON object with the keys "definition", "example" and "synonyms" (a list of strings).`))

type planPromptData struct {
	Name           string
	Age            int
	Education      string
	Profession     string
	Nationality    string
	NativeLanguage string
	Text           string
}

type explainPromptData struct {
	Word           string
	Context        string
	Education      string
	NativeLanguage string
}

// generator abstracts the model call so handlers can be tested with a
// canned implementation.
type generator interface {
	GenerateJSON(ctx context.Context, prompt string, out any) error
}

// engine drives Gemini through the genai SDK and decodes its JSON
// responses.
type engine struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

func newEngine(ctx context.Context, apiKey, model string, log *slog.Logger) (*engine, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &engine{
		client: client,
		model:  model,
		logger: log.With(slog.String("component", "planner_engine")),
	}, nil
}

var _ generator = (*engine)(nil)

// GenerateJSON sends the prompt, requesting a JSON response, and decodes
// the model output into out.
func (e *engine) GenerateJSON(ctx context.Context, prompt string, out any) error {
	result, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("model call failed: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return fmt.Errorf("model returned no candidates")
	}
	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return fmt.Errorf("model returned an empty response")
	}

	cleaned := stripCodeFences(text.String())
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		e.logger.Debug("undecodable model output", slog.Int("length", len(cleaned)))
		return fmt.Errorf("failed to decode model response: %w", err)
	}
	return nil
}

// stripCodeFences removes a surrounding markdown code fence, which some
// models emit even when asked for bare JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func renderPlanPrompt(data planPromptData) (string, error) {
	if len(data.Text) > planning.MaxPlanTextChars {
		data.Text = data.Text[:planning.MaxPlanTextChars]
	}
	var buf bytes.Buffer
	if err := planPromptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render plan prompt: %w", err)
	}
	return buf.String(), nil
}

func renderExplainPrompt(data explainPromptData) (string, error) {
	var buf bytes.Buffer
	if err := explainPromptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render explain prompt: %w", err)
	}
	return buf.String(), nil
}
