package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socrates-learning/socrates-api/internal/planning"
)

func TestRenderPlanPrompt(t *testing.T) {
	t.Parallel()

	prompt, err := renderPlanPrompt(planPromptData{
		Name:           "Ana",
		Age:            34,
		Education:      "ensino medio",
		Profession:     "enfermeira",
		Nationality:    "brasileira",
		NativeLanguage: "portugues",
		Text:           "A brief passage about photosynthesis.",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Name: Ana")
	assert.Contains(t, prompt, "Age: 34")
	assert.Contains(t, prompt, "Native language: portugues")
	assert.Contains(t, prompt, "3 to 7 logical reading stages")
	assert.Contains(t, prompt, "definition in portugues")
	assert.Contains(t, prompt, "A brief passage about photosynthesis.")
}

func TestRenderPlanPromptTruncatesLongText(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", planning.MaxPlanTextChars+500)
	prompt, err := renderPlanPrompt(planPromptData{Name: "Ana", Text: long})
	require.NoError(t, err)

	assert.NotContains(t, prompt, strings.Repeat("x", planning.MaxPlanTextChars+1))
	assert.Contains(t, prompt, strings.Repeat("x", planning.MaxPlanTextChars))
}

func TestRenderExplainPrompt(t *testing.T) {
	t.Parallel()

	t.Run("with context sentence", func(t *testing.T) {
		t.Parallel()
		prompt, err := renderExplainPrompt(explainPromptData{
			Word:           "ubiquitous",
			Context:        "Smartphones are ubiquitous these days.",
			Education:      "ensino medio",
			NativeLanguage: "portugues",
		})
		require.NoError(t, err)

		assert.Contains(t, prompt, `Explain the word "ubiquitous"`)
		assert.Contains(t, prompt, "Smartphones are ubiquitous these days.")
		assert.Contains(t, prompt, "definition in portugues")
	})

	t.Run("without context sentence", func(t *testing.T) {
		t.Parallel()
		prompt, err := renderExplainPrompt(explainPromptData{
			Word:           "ephemeral",
			NativeLanguage: "espanhol",
		})
		require.NoError(t, err)

		assert.NotContains(t, prompt, "appeared in this sentence")
	})
}

func TestStripCodeFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare json untouched",
			in:   `{"stages": []}`,
			want: `{"stages": []}`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"stages\": []}\n```",
			want: `{"stages": []}`,
		},
		{
			name: "anonymous fence",
			in:   "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "surrounding whitespace",
			in:   "  \n```json\n{}\n```\n  ",
			want: "{}",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, stripCodeFences(tt.in))
		})
	}
}
