package planning

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/socrates-learning/socrates-api/internal/domain"
)

// fallbackStageCount is the fixed number of stages the offline planner
// produces.
const fallbackStageCount = 3

// fallbackVocabulary is the fixed placeholder vocabulary attached to
// every offline stage.
var fallbackVocabulary = []domain.VocabItem{
	{Word: "excerpt", Definition: "a short piece taken from a longer text"},
	{Word: "objective", Definition: "what the reader should take away from a section"},
}

// FallbackPlanner is the deterministic offline Planner implementation,
// selected at startup when no external-capability credential is
// configured. It keeps the rest of the pipeline exercisable without
// network access: identical input always yields identical output.
type FallbackPlanner struct {
	logger *slog.Logger
}

// Ensure FallbackPlanner implements the Planner interface
var _ Planner = (*FallbackPlanner)(nil)

// NewFallbackPlanner creates the offline planner.
// If logger is nil, a default logger will be used.
func NewFallbackPlanner(logger *slog.Logger) *FallbackPlanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackPlanner{
		logger: logger.With(slog.String("component", "fallback_planner")),
	}
}

// Plan splits rawText into up to three contiguous, non-overlapping
// chunks of roughly equal length, folding the division remainder into
// the last chunk, and attaches fixed placeholder titles, objectives and
// vocabulary. Texts shorter than the stage count yield fewer stages so
// every excerpt stays non-empty. The profile is accepted for interface
// compatibility but does not influence the output.
func (p *FallbackPlanner) Plan(
	ctx context.Context,
	profile *domain.Profile,
	rawText string,
) ([]PlannedStage, error) {
	text := truncateForPlan(rawText)

	stageCount := fallbackStageCount
	if len(text) < stageCount {
		stageCount = len(text)
	}
	if stageCount == 0 {
		stageCount = 1
	}
	chunkSize := len(text) / stageCount

	stages := make([]PlannedStage, 0, stageCount)
	for i := 0; i < stageCount; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if i == stageCount-1 {
			end = len(text)
		}

		stages = append(stages, PlannedStage{
			Title:       fmt.Sprintf("Part %d", i+1),
			Objective:   "Read this section carefully and note the main ideas.",
			ExcerptText: text[start:end],
			Vocabulary:  fallbackVocabulary,
		})
	}

	p.logger.Debug("produced offline reading plan",
		slog.Int("text_length", len(text)),
		slog.Int("stage_count", stageCount))
	return stages, nil
}

// Explain returns a fixed placeholder explanation for the word.
func (p *FallbackPlanner) Explain(
	ctx context.Context,
	profile *domain.Profile,
	word, wordContext string,
) (*WordExplanation, error) {
	return &WordExplanation{
		Definition: fmt.Sprintf("Offline definition for %q.", word),
		Example:    fmt.Sprintf("This sentence uses the word %q.", word),
		Synonyms:   []string{"placeholder", "stand-in"},
	}, nil
}
